package asn1

import (
	"testing"

	"github.com/saferwall/ut/object"
	"github.com/saferwall/ut/uttypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustHexDecode is this repo's stand-in for the original test suite's
// ut_uint8_list_new_from_hex_string, preserving its very literal,
// table-driven fixture style (ut-asn1-ber-decoder-test.c).
func mustHexDecode(t *testing.T, s string) *uttypes.OwnedUint8Array {
	t.Helper()
	a, err := uttypes.NewOwnedUint8ArrayFromHex(s)
	require.NoError(t, err)
	return a
}

func requireErr(t *testing.T, d *Decoder, description string) {
	t.Helper()
	err := d.GetError()
	require.NotNil(t, err)
	assert.Equal(t, description, err.Description)
}

func TestDecodeBoolean(t *testing.T) {
	d1 := New(mustHexDecode(t, "010100"))
	assert.Equal(t, TagClassUniversal, d1.TagClass())
	assert.EqualValues(t, TagBoolean, d1.IdentifierNumber())
	assert.False(t, d1.DecodeBoolean())
	assert.Nil(t, d1.GetError())

	assert.True(t, New(mustHexDecode(t, "0101ff")).DecodeBoolean())
	assert.True(t, New(mustHexDecode(t, "010101")).DecodeBoolean())

	d4 := New(mustHexDecode(t, "0100"))
	d4.DecodeBoolean()
	requireErr(t, d4, "Invalid boolean data length")

	d5 := New(mustHexDecode(t, "01020000"))
	d5.DecodeBoolean()
	requireErr(t, d5, "Invalid boolean data length")

	d6 := New(mustHexDecode(t, "210100"))
	d6.DecodeBoolean()
	requireErr(t, d6, "Boolean does not have constructed form")
}

func TestDecodeInteger(t *testing.T) {
	cases := []struct {
		hex  string
		want int64
	}{
		{"020100", 0},
		{"02020000", 0},
		{"0201 7f", 127},
		{"02020080", 128},
		{"020180", -128},
		{"0201ff", -1},
		{"02087fffffffffffffff", 1<<63 - 1},
		{"02088000000000000000", -1 << 63},
		{"02080123456789abcdef", 0x0123456789abcdef},
	}
	for _, c := range cases {
		hex := c.hex
		d := New(mustHexDecode(t, removeSpaces(hex)))
		assert.Equal(t, c.want, d.DecodeInteger(), "hex=%s", hex)
		assert.Nil(t, d.GetError(), "hex=%s", hex)
	}

	d10 := New(mustHexDecode(t, "0210ffffffffffffffffffffffffffffffff"))
	d10.DecodeInteger()
	requireErr(t, d10, "Only 64 bit integers supported")

	d11 := New(mustHexDecode(t, "0200"))
	d11.DecodeInteger()
	requireErr(t, d11, "Invalid integer data length")

	d12 := New(mustHexDecode(t, "220100"))
	d12.DecodeInteger()
	requireErr(t, d12, "Integer does not have constructed form")
}

func removeSpaces(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func TestDecodeOctetString(t *testing.T) {
	d1 := New(mustHexDecode(t, "0400"))
	assert.EqualValues(t, TagOctetString, d1.IdentifierNumber())
	s1 := d1.DecodeOctetString()
	assert.Equal(t, 0, s1.Len())
	assert.Nil(t, d1.GetError())

	d2 := New(mustHexDecode(t, "040100"))
	s2 := d2.DecodeOctetString()
	assert.Equal(t, []byte{0x00}, s2.RawBuffer())

	d3 := New(mustHexDecode(t, "04080123456789abcdef"))
	s3 := d3.DecodeOctetString()
	assert.Equal(t, []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}, s3.RawBuffer())

	d11 := New(mustHexDecode(t, "240c0404123456780404abcdef"))
	d11.DecodeOctetString()
	requireErr(t, d11, "Insufficient data")
}

func TestDecodeNull(t *testing.T) {
	d1 := New(mustHexDecode(t, "0500"))
	assert.EqualValues(t, TagNull, d1.IdentifierNumber())
	d1.DecodeNull()
	assert.Nil(t, d1.GetError())

	d2 := New(mustHexDecode(t, "050100"))
	d2.DecodeNull()
	requireErr(t, d2, "Invalid null data length")

	d3 := New(mustHexDecode(t, "2500"))
	d3.DecodeNull()
	requireErr(t, d3, "Null does not have constructed form")
}

func TestDecodeObjectIdentifier(t *testing.T) {
	d1 := New(mustHexDecode(t, "0603883703"))
	assert.EqualValues(t, TagObjectID, d1.IdentifierNumber())
	assert.Equal(t, []uint32{2, 999, 3}, d1.DecodeObjectIdentifier())
	assert.Nil(t, d1.GetError())

	d2 := New(mustHexDecode(t, "0600"))
	d2.DecodeObjectIdentifier()
	requireErr(t, d2, "Invalid object identifier")

	d3 := New(mustHexDecode(t, "060188"))
	d3.DecodeObjectIdentifier()
	requireErr(t, d3, "Invalid object identifier")

	d4 := New(mustHexDecode(t, "2603883703"))
	d4.DecodeObjectIdentifier()
	requireErr(t, d4, "Object identifier does not have constructed form")
}

func TestDecodeEnumerated(t *testing.T) {
	d1 := New(mustHexDecode(t, "0a012a"))
	assert.EqualValues(t, TagEnumerated, d1.IdentifierNumber())
	assert.EqualValues(t, 42, d1.DecodeEnumerated())
	assert.Nil(t, d1.GetError())

	d2 := New(mustHexDecode(t, "2a012a"))
	d2.DecodeEnumerated()
	requireErr(t, d2, "Integer does not have constructed form")
}

func TestDecodeUTF8String(t *testing.T) {
	d1 := New(mustHexDecode(t, "0c0a48656c6c6f20f09f9880"))
	assert.EqualValues(t, TagUTF8String, d1.IdentifierNumber())
	assert.Equal(t, "Hello \U0001F600", d1.DecodeUTF8String())
	assert.Nil(t, d1.GetError())

	d2 := New(mustHexDecode(t, "0c00"))
	assert.Equal(t, "", d2.DecodeUTF8String())
	assert.Nil(t, d2.GetError())

	d3 := New(mustHexDecode(t, "2c0e0c0648656c6c6f200c04f09f9880"))
	d3.DecodeUTF8String()
	requireErr(t, d3, "Constructed UTF8 string not supported")
}

func TestDecodeRelativeOID(t *testing.T) {
	d1 := New(mustHexDecode(t, "0d04c27b0302"))
	assert.EqualValues(t, TagRelativeOID, d1.IdentifierNumber())
	assert.Equal(t, []uint32{8571, 3, 2}, d1.DecodeRelativeOID())
	assert.Nil(t, d1.GetError())

	d2 := New(mustHexDecode(t, "0d00"))
	assert.Equal(t, []uint32{}, d2.DecodeRelativeOID())
	assert.Nil(t, d2.GetError())

	d3 := New(mustHexDecode(t, "0d0188"))
	d3.DecodeRelativeOID()
	requireErr(t, d3, "Invalid relative object identifier")

	d4 := New(mustHexDecode(t, "2d04c27b0302"))
	d4.DecodeRelativeOID()
	requireErr(t, d4, "Relative object identifier does not have constructed form")
}

func TestDecodeSequence(t *testing.T) {
	d1 := New(mustHexDecode(t, "30060101ff02012a"))
	assert.EqualValues(t, TagSequence, d1.IdentifierNumber())
	children1 := d1.DecodeSequence()
	require.Len(t, children1, 2)
	assert.True(t, children1[0].DecodeBoolean())
	assert.EqualValues(t, 42, children1[1].DecodeInteger())
	assert.Nil(t, d1.GetError())

	d2 := New(mustHexDecode(t, "3000"))
	assert.Empty(t, d2.DecodeSequence())
	assert.Nil(t, d2.GetError())

	d3 := New(mustHexDecode(t, "1000"))
	d3.DecodeSequence()
	requireErr(t, d3, "Sequence must be constructed")
}

func TestDecodeSet(t *testing.T) {
	d1 := New(mustHexDecode(t, "31060101ff02012a"))
	assert.EqualValues(t, TagSet, d1.IdentifierNumber())
	children1 := d1.DecodeSet()
	require.Len(t, children1, 2)
	assert.True(t, children1[0].DecodeBoolean())
	assert.EqualValues(t, 42, children1[1].DecodeInteger())
	assert.Nil(t, d1.GetError())
}

func TestCharacterStrings(t *testing.T) {
	d1 := New(mustHexDecode(t, "12023132"))
	assert.Equal(t, "12", d1.DecodeNumericString())
	assert.Nil(t, d1.GetError())

	d2 := New(mustHexDecode(t, "120161"))
	d2.DecodeNumericString()
	requireErr(t, d2, "Invalid numeric string character")

	d3 := New(mustHexDecode(t, "13024142"))
	assert.Equal(t, "AB", d3.DecodePrintableString())
	assert.Nil(t, d3.GetError())

	d4 := New(mustHexDecode(t, "160161"))
	assert.Equal(t, "a", d4.DecodeIA5String())
	assert.Nil(t, d4.GetError())

	d5 := New(mustHexDecode(t, "1a0120"))
	assert.Equal(t, " ", d5.DecodeVisibleString())
	assert.Nil(t, d5.GetError())
}

func TestGetErrorLatchesFirst(t *testing.T) {
	d := New(mustHexDecode(t, "0100"))
	d.DecodeBoolean()
	first := d.GetError()
	require.NotNil(t, first)
	assert.Equal(t, object.ErrorKindProtocol, first.Kind)

	d.DecodeBoolean()
	assert.Same(t, first, d.GetError())
}

// TestLongFormLengthOverflowRejected covers the long-form length path
// of peekTag (§4.6 "Tag decode"): a count byte claiming more than 8
// length octets cannot fit in 64 bits and is rejected outright, and a
// length that does fit in 64 bits but exceeds MaxContentLength is
// rejected too, rather than either wrapping negative and slipping
// past enter()'s bounds check or being trusted as an allocation size.
func TestLongFormLengthOverflowRejected(t *testing.T) {
	// Tag 0x04 (OCTET STRING), length byte 0x89 -> count = 9, too wide
	// for int64 accumulation; rejected before any length bytes are read.
	d1 := New(mustHexDecode(t, "0489"))
	d1.DecodeOctetString()
	requireErr(t, d1, "Length exceeds maximum content length")
	assert.Equal(t, object.ErrorKindCapacity, d1.GetError().Kind)

	// Tag 0x04, length byte 0x88 -> count = 8, value 0x7fffffffffffffff:
	// fits in int64 without wrapping negative, but dwarfs
	// DefaultMaxContentLength and must still be rejected.
	d2 := New(mustHexDecode(t, "04887fffffffffffffff"))
	d2.DecodeOctetString()
	requireErr(t, d2, "Length exceeds maximum content length")
	assert.Equal(t, object.ErrorKindCapacity, d2.GetError().Kind)

	// A length within MaxContentLength still decodes normally.
	d3 := New(mustHexDecode(t, "0400"))
	s3 := d3.DecodeOctetString()
	assert.Equal(t, 0, s3.Len())
	assert.Nil(t, d3.GetError())
}
