package scn

import (
	"github.com/outofforest/palog/serialization"
)

// FixedSerializedSize is the number of bytes SCN occupies on the wire.
const FixedSerializedSize = serialization.U64Size

// Sequence is the contract record headers require from a sequence value.
// It exists so the codec may be exercised with a stub implementation.
type Sequence interface {
	IsValid() bool
	Value() uint64
	Reset()
	FixedSerialize(buf []byte, pos int) (int, error)
	FixedDeserialize(buf []byte, pos int) (int, error)
}

var _ Sequence = (*SCN)(nil)

// SCN is the sequence commit number attached to every log record. It grows
// monotonically with committed records. The zero value is invalid.
type SCN uint64

// IsValid returns true if the SCN holds a committed sequence value.
func (s SCN) IsValid() bool {
	return s > 0
}

// Value returns the numeric representation of the SCN.
func (s SCN) Value() uint64 {
	return uint64(s)
}

// Reset returns the SCN to the invalid state.
func (s *SCN) Reset() {
	*s = 0
}

// FixedSerialize encodes the SCN at pos and returns the advanced position.
func (s SCN) FixedSerialize(buf []byte, pos int) (int, error) {
	return serialization.EncodeU64(buf, pos, uint64(s))
}

// FixedDeserialize decodes the SCN at pos and returns the advanced position.
func (s *SCN) FixedDeserialize(buf []byte, pos int) (int, error) {
	v, newPos, err := serialization.DecodeU64(buf, pos)
	if err != nil {
		return pos, err
	}
	*s = SCN(v)
	return newPos, nil
}
