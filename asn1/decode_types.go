package asn1

import (
	"unicode/utf8"

	"github.com/saferwall/ut/bitio"
	"github.com/saferwall/ut/uttypes"
)

// checkConstructed latches description if the tag most recently
// parsed by enter does not have the constructed bit set to want. It
// must run after enter so a truncated TLV fails "Insufficient data"
// first regardless of its constructed bit.
func (d *Decoder) checkConstructed(want bool, description string) bool {
	if d.constr != want {
		d.fail(description)
		return false
	}
	return true
}

// DecodeBoolean implements BOOLEAN (§4.6): length must equal 1; value
// is (byte != 0).
func (d *Decoder) DecodeBoolean() bool {
	start, n, ok := d.enter()
	if !ok {
		return false
	}
	if !d.checkConstructed(false, "Boolean does not have constructed form") {
		return false
	}
	if n != 1 {
		d.fail("Invalid boolean data length")
		return false
	}
	return d.bytesAt(start, n)[0] != 0
}

// decodeSignedInteger implements the shared INTEGER/ENUMERATED content
// rule: 1..8 content bytes, two's-complement big-endian into int64.
func (d *Decoder) decodeSignedInteger(constructedErr string) int64 {
	start, n, ok := d.enter()
	if !ok {
		return 0
	}
	if !d.checkConstructed(false, constructedErr) {
		return 0
	}
	if n == 0 {
		d.fail("Invalid integer data length")
		return 0
	}
	if n > 8 {
		d.failCapacity("Only 64 bit integers supported")
		return 0
	}
	content := d.bytesAt(start, n)
	var v int64
	if content[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range content {
		v = (v << 8) | int64(b)
	}
	return v
}

// DecodeInteger implements INTEGER (§4.6).
func (d *Decoder) DecodeInteger() int64 {
	return d.decodeSignedInteger("Integer does not have constructed form")
}

// DecodeEnumerated implements ENUMERATED, sharing INTEGER's content
// rule (§4.6).
func (d *Decoder) DecodeEnumerated() int64 {
	return d.decodeSignedInteger("Integer does not have constructed form")
}

// DecodeOctetString implements OCTET STRING (§4.6): content copied
// verbatim; constructed form not supported.
func (d *Decoder) DecodeOctetString() uttypes.Uint8List {
	start, n, ok := d.enter()
	if !ok {
		return uttypes.NewOwnedUint8Array(nil)
	}
	if !d.checkConstructed(false, "Constructed octet string not supported") {
		return uttypes.NewOwnedUint8Array(nil)
	}
	return uttypes.NewOwnedUint8Array(d.bytesAt(start, n))
}

// DecodeNull implements NULL (§4.6): length must equal 0.
func (d *Decoder) DecodeNull() {
	_, n, ok := d.enter()
	if !ok {
		return
	}
	if !d.checkConstructed(false, "Null does not have constructed form") {
		return
	}
	if n != 0 {
		d.fail("Invalid null data length")
	}
}

// decodeSubIdentifiers parses the base-128 continuation-bit encoded
// sub-identifiers out of content, failing if the final byte still
// carries a continuation bit.
func decodeSubIdentifiers(content []byte) ([]uint32, bool) {
	var out []uint32
	var cur uint32
	inProgress := false
	for _, b := range content {
		cur = (cur << 7) | uint32(b&0x7F)
		inProgress = true
		if b&0x80 == 0 {
			out = append(out, cur)
			cur = 0
			inProgress = false
		}
	}
	if inProgress {
		return nil, false
	}
	return out, true
}

// DecodeObjectIdentifier implements OBJECT IDENTIFIER (§4.6): the
// first sub-identifier splits into first*40+second with first in
// {0,1,2}; empty content is invalid.
func (d *Decoder) DecodeObjectIdentifier() []uint32 {
	start, n, ok := d.enter()
	if !ok {
		return nil
	}
	if !d.checkConstructed(false, "Object identifier does not have constructed form") {
		return nil
	}
	if n == 0 {
		d.fail("Invalid object identifier")
		return nil
	}
	subIDs, ok := decodeSubIdentifiers(d.bytesAt(start, n))
	if !ok || len(subIDs) == 0 {
		d.fail("Invalid object identifier")
		return nil
	}
	first := subIDs[0]
	var a, b uint32
	switch {
	case first < 40:
		a, b = 0, first
	case first < 80:
		a, b = 1, first-40
	default:
		a, b = 2, first-80
	}
	out := make([]uint32, 0, len(subIDs)+1)
	out = append(out, a, b)
	out = append(out, subIDs[1:]...)
	return out
}

// DecodeRelativeOID implements RELATIVE-OID (§4.6): same
// sub-identifier encoding as OBJECT IDENTIFIER, but empty content is
// a valid empty sequence.
func (d *Decoder) DecodeRelativeOID() []uint32 {
	start, n, ok := d.enter()
	if !ok {
		return nil
	}
	if !d.checkConstructed(false, "Relative object identifier does not have constructed form") {
		return nil
	}
	if n == 0 {
		return []uint32{}
	}
	subIDs, ok := decodeSubIdentifiers(d.bytesAt(start, n))
	if !ok {
		d.fail("Invalid relative object identifier")
		return nil
	}
	return subIDs
}

// DecodeUTF8String implements UTF8String (§4.6). UTF-8 validity is
// checked via utf8.Valid; the original source leaves this as a FIXME,
// which SPEC_FULL.md resolves by actually validating (see DESIGN.md).
func (d *Decoder) DecodeUTF8String() string {
	start, n, ok := d.enter()
	if !ok {
		return ""
	}
	if !d.checkConstructed(false, "Constructed UTF8 string not supported") {
		return ""
	}
	content := d.bytesAt(start, n)
	if !utf8.Valid(content) {
		d.fail("Invalid UTF8 string")
		return ""
	}
	return string(content)
}

// decodeCharString is the shared shape of NumericString,
// PrintableString, IA5String, and VisibleString: constructed form is
// rejected, and every content byte must satisfy allowed.
func (d *Decoder) decodeCharString(allowed func(byte) bool, constructedErr, charErr string) string {
	start, n, ok := d.enter()
	if !ok {
		return ""
	}
	if !d.checkConstructed(false, constructedErr) {
		return ""
	}
	content := d.bytesAt(start, n)
	for _, b := range content {
		if !allowed(b) {
			d.fail(charErr)
			return ""
		}
	}
	return string(content)
}

// DecodeNumericString implements NumericString (§4.6): '0'-'9' and space.
func (d *Decoder) DecodeNumericString() string {
	return d.decodeCharString(bitio.IsNumericStringChar,
		"Constructed numeric string not supported", "Invalid numeric string character")
}

// DecodePrintableString implements PrintableString (§4.6).
func (d *Decoder) DecodePrintableString() string {
	return d.decodeCharString(bitio.IsPrintableStringChar,
		"Constructed printable string not supported", "Invalid printable string character")
}

// DecodeIA5String implements IA5String (§4.6): each byte <= 0x7F.
func (d *Decoder) DecodeIA5String() string {
	return d.decodeCharString(bitio.IsIA5Char,
		"Constructed IA5 string not supported", "Invalid IA5 string character")
}

// DecodeVisibleString implements VisibleString (§4.6): 0x20..0x7E.
func (d *Decoder) DecodeVisibleString() string {
	return d.decodeCharString(bitio.IsVisibleChar,
		"Constructed visible string not supported", "Invalid visible string character")
}

// decodeConstructed is the shared SEQUENCE/SET framing rule (§4.6):
// must be constructed; content is recursively decoded as a run of
// top-level child TLVs sharing the parent buffer via SubView.
func (d *Decoder) decodeConstructed(constructedErr string) []*Decoder {
	start, n, ok := d.enter()
	if !ok {
		return nil
	}
	if !d.checkConstructed(true, constructedErr) {
		return nil
	}
	view := d.buf.SubView(start, n)
	var children []*Decoder
	cursor := 0
	probe := New(view)
	probe.MaxContentLength = d.MaxContentLength
	for cursor < view.Len() {
		probe.pos = cursor
		probe.tagOK = false
		if !probe.peekTag() {
			d.fail(probe.err.Error())
			return children
		}
		end := cursor + probe.hdrLen + probe.length
		if end > view.Len() {
			d.fail("Insufficient data")
			return children
		}
		child := New(view.SubView(cursor, end-cursor))
		child.MaxContentLength = d.MaxContentLength
		children = append(children, child)
		cursor = end
	}
	return children
}

// DecodeSequence implements SEQUENCE (§4.6).
func (d *Decoder) DecodeSequence() []*Decoder {
	return d.decodeConstructed("Sequence must be constructed")
}

// DecodeSet implements SET (§4.6).
func (d *Decoder) DecodeSet() []*Decoder {
	return d.decodeConstructed("Set must be constructed")
}
