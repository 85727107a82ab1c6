package jpegdecoder

import (
	"io"

	"github.com/saferwall/ut/bitio"
)

// readSOSAndScan implements "SOS payload" plus "Entropy-coded
// segment" (§4.8): it parses the scan header, decodes every MCU of
// the single baseline scan, assembles the finished Image, then
// resumes marker dispatch at whatever follows the scan (typically
// EOI, sometimes a trailing COM).
func (st *decoderState) readSOSAndScan() {
	if !st.sawSOF {
		st.fail("SOS before SOF0")
		return
	}
	payload, ok := st.segment()
	if !ok {
		return
	}
	if len(payload) < 1 {
		st.fail("Incomplete JPEG")
		return
	}
	ns := int(payload[0])
	if ns != len(st.components) {
		st.fail("Invalid JPEG scan component count")
		return
	}
	if len(payload) < 1+ns*2+3 {
		st.fail("Incomplete JPEG")
		return
	}
	assigned := make(map[byte]bool)
	for i := 0; i < ns; i++ {
		cs := payload[1+i*2]
		tdta := payload[1+i*2+1]
		comp := st.findComponent(cs)
		if comp == nil {
			st.fail("Invalid JPEG scan component selector")
			return
		}
		if assigned[cs] {
			st.fail("Duplicate JPEG scan component selector")
			return
		}
		assigned[cs] = true
		dc := tdta >> 4
		ac := tdta & 0x0F
		if dc > 1 || ac > 1 {
			st.fail("Invalid JPEG Huffman table selector")
			return
		}
		comp.dcTableSel = dc
		comp.acTableSel = ac
	}
	tail := payload[1+ns*2:]
	ss, se, ahal := tail[0], tail[1], tail[2]
	if ss != 0 || se != 63 || ahal != 0 {
		st.fail("Unsupported JPEG spectral selection")
		return
	}
	for _, c := range st.components {
		if st.quantTables[c.qTableSel] == nil {
			st.fail("Missing JPEG quantization table")
			return
		}
		if st.dcTables[c.dcTableSel] == nil || st.acTables[c.acTableSel] == nil {
			st.fail("Missing JPEG Huffman table")
			return
		}
		c.previousDC = 0
	}

	mcusPerLine := ceilDiv(st.width, 8*st.mcuWidth)
	mcusPerColumn := ceilDiv(st.height, 8*st.mcuHeight)
	for _, c := range st.components {
		c.planeW = mcusPerLine * 8 * int(c.hSampling)
		c.planeH = mcusPerColumn * 8 * int(c.vSampling)
		c.plane = make([]byte, c.planeW*c.planeH)
	}

	source := bitio.NewStuffedByteSource(st.data[st.pos:])
	br := bitio.NewBitReader(source)

	for mcuY := 0; mcuY < mcusPerColumn; mcuY++ {
		for mcuX := 0; mcuX < mcusPerLine; mcuX++ {
			for _, c := range st.components {
				for v := 0; v < int(c.vSampling); v++ {
					for h := 0; h < int(c.hSampling); h++ {
						samples, err := st.decodeDataUnit(br, c)
						if err != nil {
							if err == io.EOF {
								st.fail("Incomplete JPEG")
							} else {
								st.fail(err.Error())
							}
							return
						}
						ox := (mcuX*int(c.hSampling) + h) * 8
						oy := (mcuY*int(c.vSampling) + v) * 8
						placeDataUnit(c.plane, c.planeW, ox, oy, samples)
					}
				}
			}
		}
	}

	st.image = assembleImage(st)

	// The entropy-coded segment is byte-aligned once the last data
	// unit's padding bits are consumed, so the next bytes are the
	// marker (typically EOI) that follows the scan; resume ordinary
	// marker dispatch there rather than trying to read through it.
	st.pos += source.Pos()
}

func (st *decoderState) findComponent(id byte) *component {
	for _, c := range st.components {
		if c.id == id {
			return c
		}
	}
	return nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// decodeDataUnit decodes one 8x8 block for component c: the DC
// difference, the AC run, dequantization, and the inverse DCT
// (§4.8 "Entropy-coded segment", "Amplitude sign rule").
func (st *decoderState) decodeDataUnit(br *bitio.BitReader, c *component) ([64]byte, error) {
	var coefficients [64]int32
	dcTable := st.dcTables[c.dcTableSel]
	acTable := st.acTables[c.acTableSel]
	quant := st.quantTables[c.qTableSel]

	s, err := dcTable.decode(br)
	if err != nil {
		return [64]byte{}, err
	}
	var diff int32
	if s > 0 {
		v, err := br.ReadBits(int(s))
		if err != nil {
			return [64]byte{}, err
		}
		diff = signExtend(v, int(s))
	}
	c.previousDC += diff
	coefficients[0] = c.previousDC * quant.values[0]

	k := 1
	for k < 64 {
		rs, err := acTable.decode(br)
		if err != nil {
			return [64]byte{}, err
		}
		r := int(rs >> 4)
		sBits := int(rs & 0x0F)
		if sBits == 0 {
			if r == 15 {
				k += 16
				continue
			}
			break // end of block
		}
		k += r
		if k >= 64 {
			return [64]byte{}, huffmanError("jpeg: AC run exceeds data unit")
		}
		v, err := br.ReadBits(sBits)
		if err != nil {
			return [64]byte{}, err
		}
		amp := signExtend(v, sBits)
		pos := zigzagOrder[k]
		coefficients[pos] = amp * quant.values[pos]
		k++
	}

	return inverseDCT(&coefficients), nil
}

// signExtend implements "Amplitude sign rule" (§4.8): an S-bit
// unsigned value V decodes to V if V >= 2^(S-1), else V - (2^S - 1).
func signExtend(v uint32, s int) int32 {
	if s == 0 {
		return 0
	}
	threshold := uint32(1) << uint(s-1)
	if v >= threshold {
		return int32(v)
	}
	return int32(v) - int32((1<<uint(s))-1)
}

// placeDataUnit writes an 8x8 block of already-IDCT'd samples into a
// component's subsampled plane at pixel offset (ox, oy) (§4.8 "IDCT
// and placement").
func placeDataUnit(plane []byte, planeW, ox, oy int, samples [64]byte) {
	for y := 0; y < 8; y++ {
		row := (oy + y) * planeW
		copy(plane[row+ox:row+ox+8], samples[y*8:y*8+8])
	}
}

// assembleImage upsamples every component's subsampled plane into the
// final image grid by nearest-neighbor replication, then applies
// YCbCr->RGB conversion for 3-component images (§4.8 "IDCT and
// placement", "Color conversion").
func assembleImage(st *decoderState) *Image {
	img := st.image
	if img == nil {
		img = &Image{}
	}
	img.Width = st.width
	img.Height = st.height
	img.NumComponents = len(st.components)
	pixels := make([]byte, st.width*st.height*img.NumComponents)

	for ci, c := range st.components {
		xRatio := st.mcuWidth / int(c.hSampling)
		yRatio := st.mcuHeight / int(c.vSampling)
		for y := 0; y < st.height; y++ {
			sy := y / yRatio
			for x := 0; x < st.width; x++ {
				sx := x / xRatio
				pixels[(y*st.width+x)*img.NumComponents+ci] = c.plane[sy*c.planeW+sx]
			}
		}
	}

	if img.NumComponents == 3 {
		for i := 0; i < st.width*st.height; i++ {
			base := i * 3
			r, g, b := ycbcrToRGB(pixels[base], pixels[base+1], pixels[base+2])
			pixels[base], pixels[base+1], pixels[base+2] = r, g, b
		}
	}

	img.Pixels = pixels
	return img
}
