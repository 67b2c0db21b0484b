package codec

import (
	"context"
	"io"

	"github.com/outofforest/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/palog/checksum"
	"github.com/outofforest/palog/entry"
)

// NewDecoder creates new decoder reading log entries from r.
func NewDecoder(ctx context.Context, r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		log: logger.Get(ctx),
		buf: make([]byte, entry.HeaderSize),
	}
}

// Decoder reads log entries from the input stream, validating each one
// before its payload is handed to the caller: header span first, then
// exactly LogSize payload bytes, then the payload checksum.
type Decoder struct {
	r   io.Reader
	log *zap.Logger

	buf      []byte
	checksum uint64
	count    uint64
	offset   uint64
}

// Decode reads the next entry. It returns io.EOF at a clean record boundary
// and io.ErrUnexpectedEOF if the stream ends mid-record. Corrupted bytes fail
// with entry.ErrInvalidData.
func (d *Decoder) Decode() (*entry.Entry, error) {
	if _, err := io.ReadFull(d.r, d.buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			d.log.Warn("Log stream truncated inside header",
				zap.Uint64("offset", d.offset))
		}
		return nil, errors.WithStack(err)
	}

	e := &entry.Entry{}
	if _, err := e.Header.Deserialize(d.buf, 0); err != nil {
		d.log.Warn("Log entry header corrupted",
			zap.Uint64("offset", d.offset), zap.Error(err))
		return nil, err
	}

	data := make([]byte, e.Header.LogSize)
	if _, err := io.ReadFull(d.r, data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		d.log.Warn("Log stream truncated inside payload",
			zap.Uint64("offset", d.offset),
			zap.Int32("logSize", e.Header.LogSize))
		return nil, errors.WithStack(err)
	}
	e.Data = data

	if !e.CheckIntegrity() {
		d.log.Warn("Log entry payload corrupted",
			zap.Uint64("offset", d.offset),
			zap.Uint64("scn", e.Header.SCN.Value()),
			zap.Uint64("dataChecksum", e.Header.DataChecksum))
		return nil, errors.WithStack(entry.ErrInvalidData)
	}

	d.checksum = checksum.SumSeed(data, d.checksum)
	d.count++
	d.offset += uint64(entry.HeaderSize) + uint64(len(data))

	return e, nil
}

// Checksum returns the running checksum of all payloads read so far. After a
// full replay it matches the encoder's checksum.
func (d *Decoder) Checksum() uint64 {
	return d.checksum
}

// Count returns the number of entries read so far.
func (d *Decoder) Count() uint64 {
	return d.count
}
