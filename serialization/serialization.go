package serialization

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Encoded widths of the supported integer types.
const (
	U16Size = 2
	I32Size = 4
	U64Size = 8
)

// ErrBufferTooSmall is returned when the buffer has not enough room to encode
// or decode a value at the given position. The cursor is never advanced in
// that case, so the caller may grow the buffer (or read more bytes) and retry.
var ErrBufferTooSmall = errors.New("buffer too small")

// EncodeU16 encodes v at pos and returns the advanced position.
func EncodeU16(buf []byte, pos int, v uint16) (int, error) {
	if pos < 0 || len(buf)-pos < U16Size {
		return pos, errors.WithStack(ErrBufferTooSmall)
	}
	binary.LittleEndian.PutUint16(buf[pos:], v)
	return pos + U16Size, nil
}

// DecodeU16 decodes a value at pos and returns it together with the advanced
// position.
func DecodeU16(buf []byte, pos int) (uint16, int, error) {
	if pos < 0 || len(buf)-pos < U16Size {
		return 0, pos, errors.WithStack(ErrBufferTooSmall)
	}
	return binary.LittleEndian.Uint16(buf[pos:]), pos + U16Size, nil
}

// EncodeI32 encodes v at pos and returns the advanced position.
func EncodeI32(buf []byte, pos int, v int32) (int, error) {
	if pos < 0 || len(buf)-pos < I32Size {
		return pos, errors.WithStack(ErrBufferTooSmall)
	}
	binary.LittleEndian.PutUint32(buf[pos:], uint32(v))
	return pos + I32Size, nil
}

// DecodeI32 decodes a value at pos and returns it together with the advanced
// position.
func DecodeI32(buf []byte, pos int) (int32, int, error) {
	if pos < 0 || len(buf)-pos < I32Size {
		return 0, pos, errors.WithStack(ErrBufferTooSmall)
	}
	return int32(binary.LittleEndian.Uint32(buf[pos:])), pos + I32Size, nil
}

// EncodeU64 encodes v at pos and returns the advanced position.
func EncodeU64(buf []byte, pos int, v uint64) (int, error) {
	if pos < 0 || len(buf)-pos < U64Size {
		return pos, errors.WithStack(ErrBufferTooSmall)
	}
	binary.LittleEndian.PutUint64(buf[pos:], v)
	return pos + U64Size, nil
}

// DecodeU64 decodes a value at pos and returns it together with the advanced
// position.
func DecodeU64(buf []byte, pos int) (uint64, int, error) {
	if pos < 0 || len(buf)-pos < U64Size {
		return 0, pos, errors.WithStack(ErrBufferTooSmall)
	}
	return binary.LittleEndian.Uint64(buf[pos:]), pos + U64Size, nil
}
