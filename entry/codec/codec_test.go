package codec

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/outofforest/logger"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/palog/entry"
)

func newContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return logger.WithLogger(ctx, logger.New(logger.DefaultConfig))
}

func TestEncoderDecoder(t *testing.T) {
	requireT := require.New(t)

	buf := bytes.NewBuffer(nil)

	e := NewEncoder(buf)
	requireT.NoError(e.Encode([]byte{0x01}, 1))
	requireT.NoError(e.Encode([]byte{0x02, 0x03}, 2))
	requireT.NoError(e.Encode([]byte{0x04, 0x05, 0x06}, 3))
	requireT.EqualValues(3, e.Count())

	d := NewDecoder(newContext(t), buf)

	en, err := d.Decode()
	requireT.NoError(err)
	requireT.Equal([]byte{0x01}, en.Data)
	requireT.EqualValues(1, en.Header.SCN)

	en, err = d.Decode()
	requireT.NoError(err)
	requireT.Equal([]byte{0x02, 0x03}, en.Data)
	requireT.EqualValues(2, en.Header.SCN)

	en, err = d.Decode()
	requireT.NoError(err)
	requireT.Equal([]byte{0x04, 0x05, 0x06}, en.Data)
	requireT.EqualValues(3, en.Header.SCN)
	requireT.EqualValues(3, d.Count())

	requireT.Equal(e.Checksum(), d.Checksum())

	en, err = d.Decode()
	requireT.ErrorIs(err, io.EOF)
	requireT.Nil(en)
}

func TestEncodeInvalidArguments(t *testing.T) {
	requireT := require.New(t)

	e := NewEncoder(bytes.NewBuffer(nil))
	requireT.ErrorIs(e.Encode(nil, 1), entry.ErrInvalidArgument)
	requireT.ErrorIs(e.Encode([]byte{0x01}, 0), entry.ErrInvalidArgument)
	requireT.Zero(e.Count())
}

func TestDecodeTruncatedHeader(t *testing.T) {
	requireT := require.New(t)

	buf := bytes.NewBuffer(nil)
	e := NewEncoder(buf)
	requireT.NoError(e.Encode([]byte{0x01, 0x02}, 1))

	b := buf.Bytes()
	d := NewDecoder(newContext(t), bytes.NewReader(b[:entry.HeaderSize-1]))

	en, err := d.Decode()
	requireT.ErrorIs(err, io.ErrUnexpectedEOF)
	requireT.Nil(en)
}

func TestDecodeTruncatedPayload(t *testing.T) {
	requireT := require.New(t)

	buf := bytes.NewBuffer(nil)
	e := NewEncoder(buf)
	requireT.NoError(e.Encode([]byte{0x01, 0x02}, 1))

	b := buf.Bytes()
	d := NewDecoder(newContext(t), bytes.NewReader(b[:len(b)-1]))

	en, err := d.Decode()
	requireT.ErrorIs(err, io.ErrUnexpectedEOF)
	requireT.Nil(en)
}

func TestDecodeCorruptedHeader(t *testing.T) {
	requireT := require.New(t)

	buf := bytes.NewBuffer(nil)
	e := NewEncoder(buf)
	requireT.NoError(e.Encode([]byte{0x01, 0x02}, 1))

	b := buf.Bytes()
	b[0] ^= 0x10

	d := NewDecoder(newContext(t), bytes.NewReader(b))

	en, err := d.Decode()
	requireT.ErrorIs(err, entry.ErrInvalidData)
	requireT.Nil(en)
}

func TestDecodeCorruptedPayload(t *testing.T) {
	requireT := require.New(t)

	buf := bytes.NewBuffer(nil)
	e := NewEncoder(buf)
	requireT.NoError(e.Encode([]byte{0x01, 0x02}, 1))
	requireT.NoError(e.Encode([]byte{0x03, 0x04}, 2))

	b := buf.Bytes()
	b[entry.HeaderSize]++

	d := NewDecoder(newContext(t), bytes.NewReader(b))

	en, err := d.Decode()
	requireT.ErrorIs(err, entry.ErrInvalidData)
	requireT.Nil(en)
	requireT.Zero(d.Count())
}

func TestDecodeCorruptionAtEveryPayloadByte(t *testing.T) {
	requireT := require.New(t)

	buf := bytes.NewBuffer(nil)
	e := NewEncoder(buf)
	requireT.NoError(e.Encode([]byte{0x01, 0x02, 0x03}, 1))

	ctx := newContext(t)
	b := buf.Bytes()
	for i := entry.HeaderSize; i < len(b); i++ {
		b[i]++

		d := NewDecoder(ctx, bytes.NewReader(b))
		en, err := d.Decode()
		requireT.ErrorIs(err, entry.ErrInvalidData, "byte %d", i)
		requireT.Nil(en)

		b[i]--
	}
}

func TestChecksumChains(t *testing.T) {
	requireT := require.New(t)

	buf1 := bytes.NewBuffer(nil)
	e1 := NewEncoder(buf1)
	requireT.NoError(e1.Encode([]byte{0x01}, 1))
	requireT.NoError(e1.Encode([]byte{0x02}, 2))

	buf2 := bytes.NewBuffer(nil)
	e2 := NewEncoder(buf2)
	requireT.NoError(e2.Encode([]byte{0x02}, 2))
	requireT.NoError(e2.Encode([]byte{0x01}, 1))

	// Same payloads in different order produce different stream checksums.
	requireT.NotEqual(e1.Checksum(), e2.Checksum())
}

func TestDecodedEntryVerifiesIndependently(t *testing.T) {
	requireT := require.New(t)

	buf := bytes.NewBuffer(nil)
	e := NewEncoder(buf)
	requireT.NoError(e.Encode([]byte("payload"), 7))

	d := NewDecoder(newContext(t), buf)
	en, err := d.Decode()
	requireT.NoError(err)
	requireT.True(en.Header.CheckHeaderIntegrity())
	requireT.True(en.Header.CheckIntegrity(en.Data))
}
