package jpegdecoder

import (
	"github.com/saferwall/ut/bitio"
	"github.com/saferwall/ut/object"
	"github.com/saferwall/ut/streams"
)

// DecodeCallback is invoked exactly once with the finished image, or
// with a non-nil err on failure — the Go rendering of
// UtJpegDecodeCallback. Unlike the other codecs in this module, a
// JPEG decoder does not itself produce a byte stream: its product is
// a raster image, so its result is delivered through a plain
// callback rather than streams.InputStream.
type DecodeCallback func(img *Image, err *object.Error)

// Decoder reads a JFIF byte stream from a lower streams.InputStream
// and decodes it into an Image (§4.8).
type Decoder struct {
	source streams.InputStream
}

// New wraps source, the lower stream supplying raw JPEG bytes.
func New(source streams.InputStream) *Decoder {
	return &Decoder{source: source}
}

// Decode reads every byte of source (this rewrite buffers the whole
// stream before decoding rather than decoding incrementally MCU by
// MCU as bytes arrive) and runs the marker-dispatch state machine
// below.
func (d *Decoder) Decode(cb DecodeCallback, c *streams.Cancel) {
	streams.ReadAll(d.source, func(data []byte, err error) {
		if err != nil {
			cb(nil, errorData(err))
			return
		}
		img, decErr := decodeImage(data)
		cb(img, decErr)
	}, c)
}

func errorData(err error) *object.Error {
	if e, ok := err.(*object.Error); ok {
		return e
	}
	return object.WrapError(err.Error(), err)
}

// component is one SOF0-declared image component plus the Huffman
// table selectors SOS assigns it.
type component struct {
	id         byte
	hSampling  byte
	vSampling  byte
	qTableSel  byte
	dcTableSel byte
	acTableSel byte
	previousDC int32
	plane      []byte
	planeW     int
	planeH     int
}

// decoderState is the cursor plus accumulated tables/frame state
// threaded through the marker dispatch loop (§4.8).
type decoderState struct {
	data []byte
	pos  int

	quantTables [4]*quantTable
	dcTables    [2]*huffmanTable
	acTables    [2]*huffmanTable

	width      int
	height     int
	components []*component
	mcuWidth   int // max horizontal sampling factor, in data units
	mcuHeight  int // max vertical sampling factor, in data units

	sawSOF bool
	image  *Image

	err *object.Error
}

func (st *decoderState) fail(description string) {
	if st.err == nil {
		st.err = object.NewError(object.ErrorKindProtocol, description)
	}
}

// decodeImage runs the full MARKER -> ... -> DONE/ERROR dispatch loop
// over a fully-buffered JPEG byte stream.
func decodeImage(data []byte) (*Image, *object.Error) {
	st := &decoderState{data: data}
	for {
		marker, ok := st.readMarker()
		if !ok {
			st.fail("Incomplete JPEG")
			return nil, st.err
		}
		done := st.dispatchMarker(marker)
		if st.err != nil {
			return nil, st.err
		}
		if done {
			return st.image, nil
		}
	}
}

// dispatchMarker handles one marker, whether reached through the
// top-level MARKER state or by resuming after an entropy-coded scan
// hits a marker boundary (§4.8 "byte-stuffing in entropy data").
// Returns true once EOI has produced a complete image.
func (st *decoderState) dispatchMarker(marker byte) bool {
	switch marker {
	case 0xD8: // SOI
		return false
	case 0xD9: // EOI
		if st.image == nil {
			st.fail("Incomplete JPEG")
		}
		return true
	case 0xDB:
		st.readDQT()
	case 0xC0:
		st.readSOF0()
	case 0xC4:
		st.readDHT()
	case 0xDA:
		st.readSOSAndScan()
	case 0xE0:
		st.readAPP0()
	case 0xFE:
		st.readCOM()
	case 0xC1, 0xC2, 0xC3, 0xC9, 0xCA, 0xCB, 0xCD, 0xCE, 0xCF:
		st.fail("Unsupported JPEG encoding process")
	default:
		st.fail("Unknown JPEG marker")
	}
	return false
}

// readMarker reads a 0xFF XX marker pair at the cursor (§4.8
// "Markers").
func (st *decoderState) readMarker() (byte, bool) {
	if st.pos+2 > len(st.data) {
		return 0, false
	}
	if st.data[st.pos] != 0xFF {
		return 0, false
	}
	marker := st.data[st.pos+1]
	st.pos += 2
	return marker, true
}

// segment reads a marker's u16-be length field and returns the
// payload bytes (length-2 of them), advancing the cursor past them.
func (st *decoderState) segment() ([]byte, bool) {
	length, err := bitio.Uint16BE(st.data, st.pos)
	if err != nil || int(length) < 2 || st.pos+int(length) > len(st.data) {
		st.fail("Incomplete JPEG")
		return nil, false
	}
	payload := st.data[st.pos+2 : st.pos+int(length)]
	st.pos += int(length)
	return payload, true
}

// readDQT implements "DQT payload" (§4.8): one or more
// (precision<<4|destination, 64 bytes) blocks.
func (st *decoderState) readDQT() {
	payload, ok := st.segment()
	if !ok {
		return
	}
	for len(payload) > 0 {
		precDest := payload[0]
		precision := precDest >> 4
		dest := precDest & 0x0F
		if precision != 0 {
			st.fail("Unsupported JPEG quantization table precision")
			return
		}
		if dest > 3 {
			st.fail("Invalid JPEG quantization table destination")
			return
		}
		if len(payload) < 65 {
			st.fail("Incomplete JPEG")
			return
		}
		table := &quantTable{}
		for i := 0; i < 64; i++ {
			table.values[zigzagOrder[i]] = int32(payload[1+i])
		}
		st.quantTables[dest] = table
		payload = payload[65:]
	}
}

// readDHT implements "DHT payload" (§4.8): one or more Huffman
// tables.
func (st *decoderState) readDHT() {
	payload, ok := st.segment()
	if !ok {
		return
	}
	for len(payload) > 0 {
		classDest := payload[0]
		class := classDest >> 4
		dest := classDest & 0x0F
		if dest > 1 {
			st.fail("Invalid JPEG Huffman table destination")
			return
		}
		if len(payload) < 17 {
			st.fail("Incomplete JPEG")
			return
		}
		var counts [16]int
		total := 0
		for i := 0; i < 16; i++ {
			counts[i] = int(payload[1+i])
			total += counts[i]
		}
		if len(payload) < 17+total {
			st.fail("Incomplete JPEG")
			return
		}
		symbols := make([]byte, total)
		copy(symbols, payload[17:17+total])
		table := newHuffmanTable(counts, symbols)
		if class == 0 {
			st.dcTables[dest] = table
		} else {
			st.acTables[dest] = table
		}
		payload = payload[17+total:]
	}
}

// readSOF0 implements "SOF0 payload" (§4.8): baseline frame header.
func (st *decoderState) readSOF0() {
	payload, ok := st.segment()
	if !ok {
		return
	}
	if len(payload) < 6 {
		st.fail("Incomplete JPEG")
		return
	}
	precision := payload[0]
	if precision != 8 {
		st.fail("Unsupported JPEG sample precision")
		return
	}
	height := int(payload[1])<<8 | int(payload[2])
	width := int(payload[3])<<8 | int(payload[4])
	numComponents := int(payload[5])
	if numComponents < 1 || numComponents > 4 {
		st.fail("Invalid JPEG component count")
		return
	}
	if len(payload) < 6+numComponents*3 {
		st.fail("Incomplete JPEG")
		return
	}
	seenIDs := map[byte]bool{}
	maxH, maxV := byte(1), byte(1)
	components := make([]*component, 0, numComponents)
	for i := 0; i < numComponents; i++ {
		base := 6 + i*3
		id := payload[base]
		if seenIDs[id] {
			if st.err == nil {
				st.err = object.NewError(object.ErrorKindConsistency, "Duplicate JPEG component id")
			}
			return
		}
		seenIDs[id] = true
		sampling := payload[base+1]
		h := sampling >> 4
		v := sampling & 0x0F
		if h == 0 || h == 3 || h > 4 || v == 0 || v == 3 || v > 4 {
			st.fail("Unsupported JPEG sampling factor")
			return
		}
		qSel := payload[base+2]
		if qSel > 3 {
			st.fail("Invalid JPEG quantization table selector")
			return
		}
		if h > maxH {
			maxH = h
		}
		if v > maxV {
			maxV = v
		}
		components = append(components, &component{id: id, hSampling: h, vSampling: v, qTableSel: qSel})
	}
	st.width = width
	st.height = height
	st.components = components
	st.mcuWidth = int(maxH)
	st.mcuHeight = int(maxV)
	st.sawSOF = true
}

// readAPP0 implements "APP0 (JFIF)" (§4.8).
func (st *decoderState) readAPP0() {
	payload, ok := st.segment()
	if !ok {
		return
	}
	if len(payload) < 14 {
		// Not a recognizable JFIF block; ignore like an opaque APPn.
		return
	}
	if string(payload[0:5]) != "JFIF\x00" {
		return
	}
	if payload[5] != 1 {
		st.fail("Unsupported JFIF version")
		return
	}
	thumbW := int(payload[12])
	thumbH := int(payload[13])
	want := 14 + thumbW*thumbH*3
	if len(payload) < want {
		st.fail("Incomplete JPEG")
		return
	}
	if st.image == nil {
		st.image = &Image{}
	}
	st.image.ThumbnailWidth = thumbW
	st.image.ThumbnailHeight = thumbH
	st.image.Thumbnail = append([]byte(nil), payload[14:want]...)
}

// readCOM implements the length-prefixed UTF-8 comment segment.
func (st *decoderState) readCOM() {
	payload, ok := st.segment()
	if !ok {
		return
	}
	if st.image == nil {
		st.image = &Image{}
	}
	st.image.Comment = string(payload)
}
