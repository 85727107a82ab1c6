package gzipdecoder

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"hash/adler32"
	"io"

	"github.com/saferwall/ut/object"
	"github.com/saferwall/ut/streams"
)

// ZlibDecoder implements RFC 1950 zlib framing (§4.7 "Zlib"): a
// 2-byte CMF/FLG header, a single DEFLATE stream (no multi-member
// chaining), and a 4-byte big-endian Adler-32 trailer. It shares the
// DEFLATE-delegation core with Decoder.
type ZlibDecoder struct {
	source streams.InputStream
	out    streams.Buffer
}

// NewZlib wraps source, the lower stream supplying raw zlib bytes.
func NewZlib(source streams.InputStream) *ZlibDecoder {
	return &ZlibDecoder{source: source}
}

func (d *ZlibDecoder) Read(cb streams.ReadCallback, c *streams.Cancel) {
	d.out.Read(cb, c)
	streams.ReadAll(d.source, func(data []byte, err error) {
		if err != nil {
			d.out.Push(nil, err, true)
			return
		}
		decoded, decErr := decodeZlib(data)
		if decErr != nil {
			d.out.Push(nil, decErr, true)
			return
		}
		d.out.Push(decoded, nil, true)
	}, c)
}

func (d *ZlibDecoder) CheckBuffer() { d.out.CheckBuffer() }

func decodeZlib(data []byte) ([]byte, *object.Error) {
	if len(data) < 2 {
		return nil, object.NewError(object.ErrorKindProtocol, "Insufficient data")
	}
	cmf := data[0]
	if cmf&0x0F != 8 {
		return nil, object.NewError(object.ErrorKindProtocol, "Unsupported zlib compression method")
	}

	cr := &countingReader{r: bytes.NewReader(data[2:])}
	fr := flate.NewReader(cr)
	defer fr.Close()
	decoded, ioErr := io.ReadAll(fr)
	if ioErr != nil {
		return nil, object.WrapError("Error decoding deflate data", ioErr)
	}

	trailerStart := 2 + cr.n
	if len(data) < trailerStart+4 {
		return nil, object.NewError(object.ErrorKindProtocol, "Insufficient data")
	}
	wantAdler := binary.BigEndian.Uint32(data[trailerStart:])
	if adler32.Checksum(decoded) != wantAdler {
		return nil, object.NewError(object.ErrorKindConsistency, "Zlib data checksum mismatch")
	}
	return decoded, nil
}
