package entry

import (
	"math"

	"github.com/pkg/errors"

	"github.com/outofforest/palog/checksum"
	"github.com/outofforest/palog/scn"
	"github.com/outofforest/palog/serialization"
)

const (
	// Magic identifies header bytes of the log entry format.
	Magic uint16 = 0x4C48

	// Version is the current version of the log entry format.
	Version uint16 = 1

	// HeaderSize is the number of bytes a serialized header occupies.
	HeaderSize = 2*serialization.U16Size + serialization.I32Size +
		scn.FixedSerializedSize + 2*serialization.U64Size
)

// Bit 0 of Flag stores the header parity bit, remaining bits are reserved.
const flagParityBit = uint64(0x1)

var (
	// ErrInvalidArgument is returned when a header is generated from an empty
	// payload or an invalid SCN.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidData is returned when decoded bytes are structurally present
	// but fail the header integrity checks. It means corruption, not a short
	// buffer, and is not retriable for the affected record.
	ErrInvalidData = errors.New("invalid data")
)

// Header is the envelope prepended to every record in the log. It describes
// and guards the payload following it: DataChecksum covers the payload bytes,
// while the parity bit in Flag covers the header itself, so a reader may
// reject a corrupted header before touching the payload.
//
// A header is a plain value, not synchronized. The zero value is invalid;
// Reset establishes the canonical sentinel state.
type Header struct {
	Magic        uint16
	Version      uint16
	LogSize      int32
	SCN          scn.SCN
	DataChecksum uint64
	Flag         uint64
}

// Generate populates the header for the given payload and SCN. The parity bit
// is computed last, after all other fields are assigned, since it covers
// them. On invalid arguments the header is left untouched.
func (h *Header) Generate(data []byte, s scn.SCN) error {
	if len(data) == 0 || len(data) > math.MaxInt32 || !s.IsValid() {
		return errors.WithStack(ErrInvalidArgument)
	}

	h.Magic = Magic
	h.Version = Version
	h.LogSize = int32(len(data))
	h.SCN = s
	h.DataChecksum = checksum.Sum(data)
	h.Flag = 0
	h.updateHeaderChecksum()

	return nil
}

// Reset returns the header to the invalid sentinel state. LogSize is set to
// -1, not 0, so a reset header cannot be mistaken for a decoded empty one.
func (h *Header) Reset() {
	h.Magic = 0
	h.Version = 0
	h.LogSize = -1
	h.SCN.Reset()
	h.DataChecksum = 0
	h.Flag = 0
}

// IsValid checks the structure of the header only, not its checksum.
func (h Header) IsValid() bool {
	return h.Magic == Magic && h.LogSize > 0 && h.SCN.IsValid()
}

// CheckHeaderIntegrity returns true if the header is structurally valid and
// its parity bit matches recomputation.
func (h Header) CheckHeaderIntegrity() bool {
	return h.IsValid() && h.checkHeaderChecksum()
}

// CheckIntegrity verifies the payload against the header. It reports pass or
// fail as a boolean because it runs on the hot read path; callers branch on
// the result instead of unwinding errors.
func (h Header) CheckIntegrity(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if h.Magic != Magic {
		return false
	}
	if !h.checkHeaderChecksum() {
		return false
	}
	return h.DataChecksum == checksum.Sum(data)
}

// Serialize encodes the header at pos in the fixed field order. Either the
// whole header is written and the advanced position returned, or the call
// fails with serialization.ErrBufferTooSmall and the returned position equals
// pos.
func (h Header) Serialize(buf []byte, pos int) (int, error) {
	newPos, err := serialization.EncodeU16(buf, pos, h.Magic)
	if err != nil {
		return pos, err
	}
	if newPos, err = serialization.EncodeU16(buf, newPos, h.Version); err != nil {
		return pos, err
	}
	if newPos, err = serialization.EncodeI32(buf, newPos, h.LogSize); err != nil {
		return pos, err
	}
	if newPos, err = h.SCN.FixedSerialize(buf, newPos); err != nil {
		return pos, err
	}
	if newPos, err = serialization.EncodeU64(buf, newPos, h.DataChecksum); err != nil {
		return pos, err
	}
	if newPos, err = serialization.EncodeU64(buf, newPos, h.Flag); err != nil {
		return pos, err
	}
	return newPos, nil
}

// Deserialize decodes the header at pos and validates it. A short buffer
// fails with serialization.ErrBufferTooSmall, decoded bytes failing the
// integrity checks fail with ErrInvalidData. The returned position advances
// only on full success.
func (h *Header) Deserialize(buf []byte, pos int) (int, error) {
	var err error
	newPos := pos
	if h.Magic, newPos, err = serialization.DecodeU16(buf, newPos); err != nil {
		return pos, err
	}
	if h.Version, newPos, err = serialization.DecodeU16(buf, newPos); err != nil {
		return pos, err
	}
	if h.LogSize, newPos, err = serialization.DecodeI32(buf, newPos); err != nil {
		return pos, err
	}
	if newPos, err = h.SCN.FixedDeserialize(buf, newPos); err != nil {
		return pos, err
	}
	if h.DataChecksum, newPos, err = serialization.DecodeU64(buf, newPos); err != nil {
		return pos, err
	}
	if h.Flag, newPos, err = serialization.DecodeU64(buf, newPos); err != nil {
		return pos, err
	}
	if !h.CheckHeaderIntegrity() {
		return pos, errors.WithStack(ErrInvalidData)
	}
	return newPos, nil
}

// SerializedSize returns the exact number of bytes Serialize writes.
func (h Header) SerializedSize() int {
	return HeaderSize
}

// headerParity computes the parity over all fields, with the parity bit of
// Flag masked to 0 so the stored bit never feeds its own computation.
func (h Header) headerParity() bool {
	res := checksum.Parity(uint64(h.Magic))
	res = res != checksum.Parity(uint64(h.Version))
	res = res != checksum.Parity(uint64(uint32(h.LogSize)))
	res = res != checksum.Parity(h.SCN.Value())
	res = res != checksum.Parity(h.DataChecksum)
	res = res != checksum.Parity(h.Flag&^flagParityBit)
	return res
}

func (h *Header) updateHeaderChecksum() {
	h.Flag &^= flagParityBit
	if h.headerParity() {
		h.Flag |= flagParityBit
	}
}

func (h Header) checkHeaderChecksum() bool {
	return h.headerParity() == (h.Flag&flagParityBit == flagParityBit)
}
