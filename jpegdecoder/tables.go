package jpegdecoder

import "github.com/saferwall/ut/bitio"

// zigzagOrder maps a zig-zag scan position to its natural row-major
// index within an 8x8 block (§4.8 "the table stores natural order;
// reads during decode index by zig-zag position").
var zigzagOrder = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// quantTable holds 64 dequantization multipliers in natural (not
// zig-zag) order.
type quantTable struct {
	values [64]int32
}

// huffKey identifies one canonical Huffman code by its bit length and
// value.
type huffKey struct {
	length int
	code   uint16
}

// huffmanTable is a canonically-assigned Huffman decoder built from a
// JPEG DHT table's 16 code-length counts and symbol bytes (§4.8
// "DHT payload"): codes of each width are assigned in ascending
// order, consecutively within a width.
type huffmanTable struct {
	codes map[huffKey]byte
}

func newHuffmanTable(counts [16]int, symbols []byte) *huffmanTable {
	t := &huffmanTable{codes: make(map[huffKey]byte)}
	var code uint16
	k := 0
	for length := 1; length <= 16; length++ {
		for i := 0; i < counts[length-1]; i++ {
			t.codes[huffKey{length: length, code: code}] = symbols[k]
			k++
			code++
		}
		code <<= 1
	}
	return t
}

// decode reads bits from br one at a time until they match a known
// code, the standard incremental Huffman-decode loop every baseline
// JPEG decoder implements this way.
func (t *huffmanTable) decode(br *bitio.BitReader) (byte, error) {
	var code uint16
	for length := 1; length <= 16; length++ {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		code = (code << 1) | uint16(bit)
		if sym, ok := t.codes[huffKey{length: length, code: code}]; ok {
			return sym, nil
		}
	}
	return 0, errHuffmanCode
}

var errHuffmanCode = huffmanError("jpeg: no matching Huffman code")

type huffmanError string

func (e huffmanError) Error() string { return string(e) }
