// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package bitio implements the bit/byte decode helpers (C5): fixed
// offset big/little-endian integer accessors over a byte slice (the
// style the teacher's own helper.go uses throughout via
// encoding/binary, e.g. pe.ReadUint32/pe.ReadUint64), plus a buffered
// bit reader with a pluggable byte source used by the JPEG entropy
// decoder to apply 0xFF/0x00 byte-stuffing removal while pulling bits.
package bitio

import (
	"encoding/binary"
	"errors"
)

// ErrOutsideBoundary is returned when an accessor is asked to read
// past the end of the supplied slice, mirroring the teacher's own
// ErrOutsideBoundary in helper.go.
var ErrOutsideBoundary = errors.New("reading data outside boundary")

// Uint16LE, Uint32LE, Uint64LE read a little-endian integer at offset.
func Uint16LE(data []byte, offset int) (uint16, error) {
	if offset < 0 || offset+2 > len(data) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint16(data[offset:]), nil
}

func Uint32LE(data []byte, offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint32(data[offset:]), nil
}

func Uint64LE(data []byte, offset int) (uint64, error) {
	if offset < 0 || offset+8 > len(data) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint64(data[offset:]), nil
}

// Uint16BE, Uint32BE, Uint64BE read a big-endian integer at offset —
// the form ASN.1 long-form lengths, the zlib Adler-32 trailer, and JPEG
// marker-length fields use (the gzip trailer is little-endian).
func Uint16BE(data []byte, offset int) (uint16, error) {
	if offset < 0 || offset+2 > len(data) {
		return 0, ErrOutsideBoundary
	}
	return binary.BigEndian.Uint16(data[offset:]), nil
}

func Uint32BE(data []byte, offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, ErrOutsideBoundary
	}
	return binary.BigEndian.Uint32(data[offset:]), nil
}

func Uint64BE(data []byte, offset int) (uint64, error) {
	if offset < 0 || offset+8 > len(data) {
		return 0, ErrOutsideBoundary
	}
	return binary.BigEndian.Uint64(data[offset:]), nil
}

// HexEncode formats data as lowercase hex digits, two per byte, without
// going through "encoding/hex"; there is no decoding counterpart in this
// package. It is kept here since the original source groups
// its hex helpers with its byte-level utilities too
// (ut_uint8_list_new_from_hex_string lives beside ut-uint8.c).
func HexEncode(data []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(data)*2)
	for i, b := range data {
		out[i*2] = digits[b>>4]
		out[i*2+1] = digits[b&0xF]
	}
	return string(out)
}
