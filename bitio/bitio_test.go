package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerAccessors(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	le32, err := Uint32LE(data, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), le32)

	be32, err := Uint32BE(data, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), be32)

	_, err = Uint64LE(data, 4)
	assert.ErrorIs(t, err, ErrOutsideBoundary)
}

func TestBitReaderReadsMSBFirst(t *testing.T) {
	r := NewBitReader(NewSliceByteSource([]byte{0b10110000}))
	bits := make([]uint8, 4)
	for i := range bits {
		b, err := r.ReadBit()
		require.NoError(t, err)
		bits[i] = b
	}
	assert.Equal(t, []uint8{1, 0, 1, 1}, bits)
}

func TestStuffedByteSourceDiscardsZeroStuffing(t *testing.T) {
	s := NewStuffedByteSource([]byte{0x12, 0xFF, 0x00, 0x34})
	var got []byte
	for {
		b, err := s.NextByte()
		if err != nil {
			break
		}
		got = append(got, b)
	}
	assert.Equal(t, []byte{0x12, 0xFF, 0x34}, got)
}

func TestStuffedByteSourceStopsAtMarker(t *testing.T) {
	s := NewStuffedByteSource([]byte{0x12, 0xFF, 0xD9})
	b, err := s.NextByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x12), b)

	_, err = s.NextByte()
	assert.ErrorIs(t, err, ErrMarkerBoundary)
	assert.Equal(t, byte(0xD9), s.MarkerByte())
}

func TestCharClassPredicates(t *testing.T) {
	assert.True(t, IsNumericStringChar('5'))
	assert.False(t, IsNumericStringChar('a'))
	assert.True(t, IsPrintableStringChar('?'))
	assert.False(t, IsPrintableStringChar('!'))
	assert.True(t, IsIA5Char(0x7F))
	assert.False(t, IsIA5Char(0x80))
	assert.True(t, IsVisibleChar(' '))
	assert.False(t, IsVisibleChar(0x7F))
}
