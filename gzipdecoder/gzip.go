package gzipdecoder

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"io"

	"github.com/saferwall/ut/object"
	"github.com/saferwall/ut/streams"
)

// gzip flag bits (§4.7 "Header").
const (
	flagFTEXT    = 0x01
	flagFHCRC    = 0x02
	flagFEXTRA   = 0x04
	flagFNAME    = 0x08
	flagFCOMMENT = 0x10
)

// Decoder implements the RFC 1952 gzip member state machine
// (§4.7): `MEMBER_HEADER -> MEMBER_DATA -> MEMBER_TRAILER ->
// (MEMBER_HEADER if more bytes else DONE)`. It is itself a
// streams.InputStream: Read pulls every byte of the lower stream via
// streams.ReadAll (this rewrite buffers a member at a time rather
// than feeding DEFLATE one byte at a push, see DESIGN.md), runs the
// member loop below, and pushes the fully decoded bytes to its own
// consumer through an embedded streams.Buffer so the usual
// partial-consumption backpressure rule still applies on the output
// side.
type Decoder struct {
	source streams.InputStream
	out    streams.Buffer
}

// New wraps source, the lower stream supplying raw gzip bytes.
func New(source streams.InputStream) *Decoder {
	return &Decoder{source: source}
}

func (d *Decoder) Read(cb streams.ReadCallback, c *streams.Cancel) {
	d.out.Read(cb, c)
	streams.ReadAll(d.source, func(data []byte, err error) {
		if err != nil {
			d.out.Push(nil, err, true)
			return
		}
		decoded, decErr := decodeMembers(data)
		if decErr != nil {
			d.out.Push(nil, decErr, true)
			return
		}
		d.out.Push(decoded, nil, true)
	}, c)
}

func (d *Decoder) CheckBuffer() { d.out.CheckBuffer() }

// decodeMembers implements the "restart at header if more bytes
// remain" multi-member chaining rule (§4.7 "Multi-member gzip").
func decodeMembers(data []byte) ([]byte, *object.Error) {
	var out []byte
	offset := 0
	for offset < len(data) {
		memberOut, consumed, err := decodeMember(data[offset:])
		if err != nil {
			return nil, err
		}
		out = append(out, memberOut...)
		offset += consumed
	}
	return out, nil
}

// decodeMember decodes a single `MEMBER_HEADER -> MEMBER_DATA ->
// MEMBER_TRAILER` cycle starting at the front of data, returning how
// many bytes of data it consumed.
func decodeMember(data []byte) (out []byte, consumed int, err *object.Error) {
	headerEnd, err := parseGzipHeader(data)
	if err != nil {
		return nil, 0, err
	}

	cr := &countingReader{r: bytes.NewReader(data[headerEnd:])}
	fr := flate.NewReader(cr)
	defer fr.Close()
	decoded, ioErr := io.ReadAll(fr)
	if ioErr != nil {
		return nil, 0, object.WrapError("Error decoding deflate data", ioErr)
	}

	trailerStart := headerEnd + cr.n
	if len(data) < trailerStart+8 {
		return nil, 0, object.NewError(object.ErrorKindProtocol, "Insufficient data")
	}
	wantCRC := binary.LittleEndian.Uint32(data[trailerStart:])
	wantLen := binary.LittleEndian.Uint32(data[trailerStart+4:])

	if crc32Bytes(decoded) != wantCRC {
		return nil, 0, object.NewError(object.ErrorKindConsistency, "GZip data CRC mismatch")
	}
	if uint32(len(decoded)) != wantLen {
		return nil, 0, object.NewError(object.ErrorKindConsistency, "GZip data length mismatch")
	}

	return decoded, trailerStart + 8, nil
}

// parseGzipHeader implements "Header" (§4.7): 10 fixed bytes plus the
// optional FEXTRA/FNAME/FCOMMENT/FHCRC sections in order, returning
// the offset of the first DEFLATE byte.
func parseGzipHeader(data []byte) (int, *object.Error) {
	if len(data) < 10 {
		return 0, object.NewError(object.ErrorKindProtocol, "Insufficient data")
	}
	if data[0] != 0x1F || data[1] != 0x8B {
		return 0, object.NewError(object.ErrorKindProtocol, "Invalid GZip ID")
	}
	if data[2] != 8 {
		return 0, object.NewError(object.ErrorKindProtocol, "Unsupported GZIP compression method")
	}
	flags := data[3]
	end := 10

	if flags&flagFEXTRA != 0 {
		if len(data) < end+2 {
			return 0, object.NewError(object.ErrorKindProtocol, "Insufficient data")
		}
		xlen := int(binary.LittleEndian.Uint16(data[end:]))
		end += 2 + xlen
		if len(data) < end {
			return 0, object.NewError(object.ErrorKindProtocol, "Insufficient data")
		}
	}
	if flags&flagFNAME != 0 {
		next, ok := skipCString(data, end)
		if !ok {
			return 0, object.NewError(object.ErrorKindProtocol, "Insufficient data")
		}
		end = next
	}
	if flags&flagFCOMMENT != 0 {
		next, ok := skipCString(data, end)
		if !ok {
			return 0, object.NewError(object.ErrorKindProtocol, "Insufficient data")
		}
		end = next
	}
	if flags&flagFHCRC != 0 {
		if len(data) < end+2 {
			return 0, object.NewError(object.ErrorKindProtocol, "Insufficient data")
		}
		headerCRC := crc32Bytes(data[:end])
		wantCRC := binary.LittleEndian.Uint16(data[end:])
		end += 2
		if wantCRC != uint16(headerCRC&0xFFFF) {
			return 0, object.NewError(object.ErrorKindConsistency, "GZIP header CRC mismatch")
		}
	}
	return end, nil
}

// skipCString finds the NUL terminator of a FNAME/FCOMMENT field
// starting at start, returning the offset just past it.
func skipCString(data []byte, start int) (int, bool) {
	for i := start; i < len(data); i++ {
		if data[i] == 0 {
			return i + 1, true
		}
	}
	return 0, false
}

// countingReader wraps a bytes.Reader to report exactly how many
// input bytes compress/flate consumed decoding one DEFLATE member, so
// the gzip/zlib trailer can be located right after it. It implements
// io.ByteReader so flate.NewReader's makeReader picks it directly
// instead of wrapping it in a bufio.Reader: bufio would fill its
// buffer from a single Read call on the underlying bytes.Reader,
// pulling in the trailer (and any following member) along with the
// DEFLATE stream and making n overcount.
type countingReader struct {
	r *bytes.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}
