// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package uttypes implements the typed-container capability family
// (C2): lists of bytes and other fixed-width numeric types with four
// interchangeable backing identities, insertion-ordered maps, and a
// UTF-8-canonical string with derived views.
package uttypes

// List is the generic container capability: length and an independent
// copy. Indexed reads and sub-views depend on the element type and are
// carried by the typed list capabilities below (Uint8List has both;
// TypedList has indexed reads only); List itself is the minimal shape
// every container style (owned, sub-view, constant, shared-memory) has
// in common.
type List interface {
	Len() int
	Copy() List
}

// MutableList is the subset of List implementations that allow
// structural changes. Sub-views, constants, and shared-memory arrays
// never implement it; only OwnedUint8Array does. TypedList does not
// either: its only mutator is Append.
type MutableList interface {
	List
	Insert(i int, v any)
	RemoveRange(start, n int)
	Resize(n int)
}

// Uint8List is the byte-buffer capability every codec in this module
// reads from and writes to. It is implemented by OwnedUint8Array,
// Uint8SubView, ConstantUint8Array, and SharedMemoryArray (§3 "Byte
// buffer identities") — four backing strategies, one capability.
type Uint8List interface {
	List
	GetElement(i int) uint8
	// RawBuffer returns the contiguous backing slice if one exists, or
	// nil for a virtual list that has none to expose.
	RawBuffer() []byte
	// TakeData always returns an owned, independent copy-or-transfer of
	// the bytes: an owned array hands its buffer over and becomes
	// empty; every other identity copies, since none of them may
	// relinquish storage they don't exclusively own.
	TakeData() []byte
	// SubView borrows [start, start+n) of this list's current backing
	// storage. The sub-view remembers the parent's length at creation
	// time (§3's sub-view invariant).
	SubView(start, n int) Uint8List
	// Mutable reports whether mutating operations are available.
	Mutable() bool
}

// OwnedUint8Array is a growable, exclusively-owned byte buffer: the
// only Uint8List identity that is mutable and that TakeData can hand
// over without copying.
type OwnedUint8Array struct {
	data []byte
}

// NewOwnedUint8Array wraps buf directly (no copy); callers that need
// an independent copy should clone buf themselves first.
func NewOwnedUint8Array(buf []byte) *OwnedUint8Array {
	return &OwnedUint8Array{data: buf}
}

// NewOwnedUint8ArrayFromHex decodes a hex string into a new owned
// array, the Go counterpart of ut_uint8_list_new_from_hex_string used
// pervasively by the original test suite to build BER/gzip fixtures.
func NewOwnedUint8ArrayFromHex(s string) (*OwnedUint8Array, error) {
	buf, err := hexDecode(s)
	if err != nil {
		return nil, err
	}
	return &OwnedUint8Array{data: buf}, nil
}

func (a *OwnedUint8Array) Len() int                 { return len(a.data) }
func (a *OwnedUint8Array) GetElement(i int) uint8    { return a.data[i] }
func (a *OwnedUint8Array) RawBuffer() []byte         { return a.data }
func (a *OwnedUint8Array) Mutable() bool             { return true }
func (a *OwnedUint8Array) Copy() List {
	cp := make([]byte, len(a.data))
	copy(cp, a.data)
	return &OwnedUint8Array{data: cp}
}
func (a *OwnedUint8Array) SubView(start, n int) Uint8List {
	return newUint8SubView(a, start, n)
}

// TakeData hands over the backing buffer and empties the array, per
// §4.2's "if the list owns one, it hands it over and becomes empty".
func (a *OwnedUint8Array) TakeData() []byte {
	d := a.data
	a.data = nil
	return d
}

func (a *OwnedUint8Array) Append(v uint8) {
	a.data = append(a.data, v)
}

func (a *OwnedUint8Array) Insert(i int, v any) {
	b := v.(uint8)
	a.data = append(a.data, 0)
	copy(a.data[i+1:], a.data[i:])
	a.data[i] = b
}

func (a *OwnedUint8Array) RemoveRange(start, n int) {
	a.data = append(a.data[:start], a.data[start+n:]...)
}

func (a *OwnedUint8Array) Resize(n int) {
	if n <= len(a.data) {
		a.data = a.data[:n]
		return
	}
	grown := make([]byte, n)
	copy(grown, a.data)
	a.data = grown
}

// parentLenGetter lets a sub-view detect a parent resize without
// holding a typed reference to every possible backing kind.
type parentLenGetter interface {
	Len() int
}

// Uint8SubView borrows a range of a parent Uint8List's backing bytes.
// It is always immutable and aborts on read if the parent's length has
// changed since creation, enforcing "changing a parent's length while
// a sub-view lives is a fatal misuse" (§3).
type Uint8SubView struct {
	parent    Uint8List
	parentLen int
	start, n  int
}

func newUint8SubView(parent Uint8List, start, n int) *Uint8SubView {
	if start < 0 || n < 0 || start+n > parent.Len() {
		panic("uttypes: sub-view range out of bounds")
	}
	return &Uint8SubView{parent: parent, parentLen: parent.Len(), start: start, n: n}
}

func (v *Uint8SubView) checkParent() {
	if v.parent.Len() != v.parentLen {
		panic("uttypes: parent array resized while sub-view is alive")
	}
}

func (v *Uint8SubView) Len() int { v.checkParent(); return v.n }
func (v *Uint8SubView) GetElement(i int) uint8 {
	v.checkParent()
	if i < 0 || i >= v.n {
		panic("uttypes: index out of range")
	}
	return v.parent.GetElement(v.start + i)
}
func (v *Uint8SubView) RawBuffer() []byte {
	v.checkParent()
	raw := v.parent.RawBuffer()
	if raw == nil {
		return nil
	}
	return raw[v.start : v.start+v.n]
}
func (v *Uint8SubView) Mutable() bool { return false }
func (v *Uint8SubView) Copy() List {
	v.checkParent()
	cp := make([]byte, v.n)
	for i := 0; i < v.n; i++ {
		cp[i] = v.GetElement(i)
	}
	return &OwnedUint8Array{data: cp}
}
func (v *Uint8SubView) SubView(start, n int) Uint8List {
	v.checkParent()
	return newUint8SubView(v, start, n)
}

// TakeData always copies: a sub-view never owns the bytes it borrows.
func (v *Uint8SubView) TakeData() []byte {
	v.checkParent()
	cp := make([]byte, v.n)
	for i := 0; i < v.n; i++ {
		cp[i] = v.GetElement(i)
	}
	return cp
}

// ConstantUint8Array borrows a compile-time-constant region (a Go
// string literal's backing bytes, or any caller-supplied slice the
// caller promises never to mutate or resize). It is always immutable.
type ConstantUint8Array struct {
	data []byte
}

// NewConstantUint8Array wraps buf without copying; the caller attests
// buf will not be mutated for the lifetime of the returned value.
func NewConstantUint8Array(buf []byte) *ConstantUint8Array {
	return &ConstantUint8Array{data: buf}
}

func (a *ConstantUint8Array) Len() int              { return len(a.data) }
func (a *ConstantUint8Array) GetElement(i int) uint8 { return a.data[i] }
func (a *ConstantUint8Array) RawBuffer() []byte      { return a.data }
func (a *ConstantUint8Array) Mutable() bool          { return false }
func (a *ConstantUint8Array) Copy() List {
	cp := make([]byte, len(a.data))
	copy(cp, a.data)
	return &OwnedUint8Array{data: cp}
}
func (a *ConstantUint8Array) SubView(start, n int) Uint8List {
	return newUint8SubView(a, start, n)
}
func (a *ConstantUint8Array) TakeData() []byte {
	cp := make([]byte, len(a.data))
	copy(cp, a.data)
	return cp
}
