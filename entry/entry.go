package entry

import (
	"github.com/pkg/errors"

	"github.com/outofforest/palog/scn"
	"github.com/outofforest/palog/serialization"
)

// Entry is a complete log record: a header followed by exactly
// Header.LogSize payload bytes. Data is a view, not a copy; after
// Deserialize it aliases the source buffer and stays valid only as long as
// that buffer does.
type Entry struct {
	Header Header
	Data   []byte
}

// Generate populates the entry for the given payload and SCN.
func (e *Entry) Generate(data []byte, s scn.SCN) error {
	if err := e.Header.Generate(data, s); err != nil {
		return err
	}
	e.Data = data
	return nil
}

// Reset returns the entry to the invalid sentinel state.
func (e *Entry) Reset() {
	e.Header.Reset()
	e.Data = nil
}

// IsValid checks the structure of the entry.
func (e Entry) IsValid() bool {
	return e.Header.IsValid() && len(e.Data) == int(e.Header.LogSize)
}

// CheckIntegrity verifies the payload against the header.
func (e Entry) CheckIntegrity() bool {
	return e.Header.CheckIntegrity(e.Data)
}

// Serialize encodes the header immediately followed by the payload. The
// position is advanced only if the whole entry fits.
func (e Entry) Serialize(buf []byte, pos int) (int, error) {
	newPos, err := e.Header.Serialize(buf, pos)
	if err != nil {
		return pos, err
	}
	if len(buf)-newPos < len(e.Data) {
		return pos, errors.WithStack(serialization.ErrBufferTooSmall)
	}
	copy(buf[newPos:], e.Data)
	return newPos + len(e.Data), nil
}

// Deserialize decodes the header at pos and points Data at the payload bytes
// following it. A missing payload tail fails with
// serialization.ErrBufferTooSmall, same as a short header.
func (e *Entry) Deserialize(buf []byte, pos int) (int, error) {
	newPos, err := e.Header.Deserialize(buf, pos)
	if err != nil {
		return pos, err
	}
	size := int(e.Header.LogSize)
	if len(buf)-newPos < size {
		return pos, errors.WithStack(serialization.ErrBufferTooSmall)
	}
	e.Data = buf[newPos : newPos+size]
	return newPos + size, nil
}

// SerializedSize returns the number of bytes Serialize writes.
func (e Entry) SerializedSize() int {
	return HeaderSize + len(e.Data)
}
