// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package asn1 implements the ASN.1/BER tag-length-value decoder (C6):
// a cursor over an owned byte buffer, tag inspection without advancing
// past it, and per-universal-type decode methods that validate the
// tag, advance past it, and latch the first error hit in a slot
// readable with GetError — the Go rendering of
// ut_asn1_ber_decoder_get_error (§4.6).
package asn1

import (
	"github.com/saferwall/ut/object"
	"github.com/saferwall/ut/uttypes"
)

// TagClass is the identifier octet's top two bits (§4.6 "Tag decode").
type TagClass uint8

const (
	TagClassUniversal TagClass = iota
	TagClassApplication
	TagClassContextSpecific
	TagClassPrivate
)

// Universal tag numbers used by the per-type decoders below.
const (
	TagBoolean         = 1
	TagInteger         = 2
	TagOctetString     = 4
	TagNull            = 5
	TagObjectID        = 6
	TagEnumerated      = 10
	TagUTF8String      = 12
	TagRelativeOID     = 13
	TagNumericString   = 18
	TagPrintableString = 19
	TagIA5String       = 22
	TagVisibleString   = 26
	TagSequence        = 16
	TagSet             = 17
)

// DefaultMaxContentLength bounds a single TLV's content length
// (§9 Open Question decision 2: supported up to 4 length bytes /
// 4 GiB, but guarded against the original's commented-out,
// presumably-untested unbounded allocation).
const DefaultMaxContentLength = 64 * 1024 * 1024

// Decoder wraps an owned byte buffer with a cursor (§4.6 "State"),
// exposing the tag at the cursor without advancing and per-type
// decode methods that do. Child decoders produced by DecodeSequence /
// DecodeSet share the parent's buffer via Uint8List.SubView.
type Decoder struct {
	buf    uttypes.Uint8List
	pos    int
	err    *object.Error
	tagOK  bool
	class  TagClass
	number uint32
	constr bool
	hdrLen int
	length int

	// MaxContentLength caps a TLV's decoded length; set to
	// DefaultMaxContentLength by New. A long-form length that would
	// exceed it, or that overflows 64 bits, fails with a capacity
	// error rather than being trusted.
	MaxContentLength int
}

// New wraps buf for decoding starting at offset 0.
func New(buf uttypes.Uint8List) *Decoder {
	return &Decoder{buf: buf, MaxContentLength: DefaultMaxContentLength}
}

// GetError returns the first error latched by any decode_X call, or
// nil if none has occurred yet.
func (d *Decoder) GetError() *object.Error {
	return d.err
}

func (d *Decoder) fail(description string) {
	if d.err == nil {
		d.err = object.NewError(object.ErrorKindProtocol, description)
	}
}

func (d *Decoder) failCapacity(description string) {
	if d.err == nil {
		d.err = object.NewError(object.ErrorKindCapacity, description)
	}
}

// peekTag parses the identifier and length octets at the cursor
// without consuming them, caching the result until the cursor moves.
func (d *Decoder) peekTag() bool {
	if d.tagOK {
		return true
	}
	if d.err != nil {
		return false
	}
	p := d.pos
	if p >= d.buf.Len() {
		d.fail("Insufficient data")
		return false
	}
	ident := d.buf.GetElement(p)
	p++
	d.class = TagClass(ident >> 6)
	d.constr = ident&0x20 != 0
	number := uint32(ident & 0x1F)
	if number == 0x1F {
		// High-tag-number form: base-128 continuation-bit octets.
		number = 0
		for {
			if p >= d.buf.Len() {
				d.fail("Insufficient data")
				return false
			}
			b := d.buf.GetElement(p)
			p++
			number = (number << 7) | uint32(b&0x7F)
			if b&0x80 == 0 {
				break
			}
		}
	}
	d.number = number

	if p >= d.buf.Len() {
		d.fail("Insufficient data")
		return false
	}
	lenByte := d.buf.GetElement(p)
	p++
	var length int
	if lenByte&0x80 == 0 {
		length = int(lenByte)
	} else {
		count := int(lenByte & 0x7F)
		if count == 0 {
			d.fail("Indefinite length not supported")
			return false
		}
		// A length built from more than 8 content bytes cannot fit in
		// an int64 without wrapping (and would dwarf MaxContentLength
		// regardless), so reject it before accumulating rather than
		// risk the shift-accumulate below silently overflowing into a
		// negative value.
		if count > 8 {
			d.failCapacity("Length exceeds maximum content length")
			return false
		}
		var length64 int64
		for i := 0; i < count; i++ {
			if p >= d.buf.Len() {
				d.fail("Insufficient data")
				return false
			}
			length64 = (length64 << 8) | int64(d.buf.GetElement(p))
			p++
		}
		maxLen := d.MaxContentLength
		if maxLen <= 0 {
			maxLen = DefaultMaxContentLength
		}
		if length64 < 0 || length64 > int64(maxLen) {
			d.failCapacity("Length exceeds maximum content length")
			return false
		}
		length = int(length64)
	}
	d.length = length
	d.hdrLen = p - d.pos
	d.tagOK = true
	return true
}

// TagClass returns the class of the tag at the cursor.
func (d *Decoder) TagClass() TagClass {
	d.peekTag()
	return d.class
}

// IdentifierNumber returns the tag number at the cursor.
func (d *Decoder) IdentifierNumber() uint32 {
	d.peekTag()
	return d.number
}

// IsConstructed reports whether the tag at the cursor has the
// constructed-form bit set.
func (d *Decoder) IsConstructed() bool {
	d.peekTag()
	return d.constr
}

// enter advances the cursor past the header and returns the
// [start, start+n) range of the content. Bounds are checked here,
// before the caller inspects the constructed-form bit, so a
// truncated TLV always fails "Insufficient data" regardless of its
// constructed bit (matching the octet-string truncation case in
// §4.6's test suite).
func (d *Decoder) enter() (start, n int, ok bool) {
	if !d.peekTag() {
		return 0, 0, false
	}
	start = d.pos + d.hdrLen
	n = d.length
	if start+n > d.buf.Len() {
		d.fail("Insufficient data")
		d.pos = d.buf.Len()
		d.tagOK = false
		return 0, 0, false
	}
	d.pos = start + n
	d.tagOK = false
	return start, n, true
}

func (d *Decoder) bytesAt(start, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = d.buf.GetElement(start + i)
	}
	return out
}
