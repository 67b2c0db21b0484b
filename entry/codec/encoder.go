package codec

import (
	"io"

	"github.com/pkg/errors"

	"github.com/outofforest/palog/checksum"
	"github.com/outofforest/palog/entry"
	"github.com/outofforest/palog/scn"
)

// NewEncoder creates new encoder writing log entries to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w: w,
	}
}

// Encoder appends log entries to the output stream. Alongside the per-record
// checksums stored in each header it maintains a running checksum chained
// across all payloads written, so a replayed stream can be compared against
// the writer's view with a single value.
type Encoder struct {
	w io.Writer

	buf      []byte
	checksum uint64
	count    uint64
}

// Encode generates an entry for the payload and SCN and writes it out.
func (e *Encoder) Encode(data []byte, s scn.SCN) error {
	var en entry.Entry
	if err := en.Generate(data, s); err != nil {
		return err
	}

	totalSize := en.SerializedSize()
	if len(e.buf) < totalSize {
		e.buf = make([]byte, totalSize)
	}

	if _, err := en.Serialize(e.buf, 0); err != nil {
		return err
	}
	if _, err := e.w.Write(e.buf[:totalSize]); err != nil {
		return errors.WithStack(err)
	}

	e.checksum = checksum.SumSeed(data, e.checksum)
	e.count++

	return nil
}

// Checksum returns the running checksum of all payloads written so far.
func (e *Encoder) Checksum() uint64 {
	return e.checksum
}

// Count returns the number of entries written so far.
func (e *Encoder) Count() uint64 {
	return e.count
}
