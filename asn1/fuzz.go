package asn1

import "github.com/saferwall/ut/uttypes"

// Fuzz is the go-fuzz entry point for the BER decoder (§4.6): it walks
// the first top-level TLV generically, descending into constructed tags
// and sinking primitive ones, without assuming any particular schema.
// Bytes after that first TLV are not examined.
// Crashes are bugs; decode errors on malformed input are expected and
// return 0 so go-fuzz doesn't treat them as interesting.
func Fuzz(data []byte) int {
	d := New(uttypes.NewOwnedUint8Array(data))
	if !fuzzWalk(d, 0) {
		return 0
	}
	return 1
}

// fuzzWalk decodes one TLV at d's cursor, recursing into children when
// the tag is constructed; depth bounds recursion against adversarial
// deeply-nested input.
func fuzzWalk(d *Decoder, depth int) bool {
	if depth > 64 {
		return false
	}
	if d.IsConstructed() {
		children := d.DecodeSequence()
		if d.GetError() != nil {
			return false
		}
		for _, c := range children {
			if !fuzzWalk(c, depth+1) {
				return false
			}
		}
		return true
	}
	d.DecodeOctetString()
	return d.GetError() == nil
}
