// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package object implements the reference-counted, capability-dispatched
// value model the rest of the toolkit is built on (C1 in the design).
//
// Every value is an Object: something that carries a live reference count
// and answers "do you implement capability X" without any class hierarchy.
// Concrete Go types satisfy capabilities by implementing the matching
// interface (List, String, InputStream, ...); TypeDescriptor.Capabilities
// is only needed when a caller wants to look a capability up generically
// by CapabilityID rather than through a type assertion.
package object

import (
	"sync"
	"sync/atomic"
)

// CapabilityID is a process-global, stable identity for a capability.
// The C source stores the address of a static int so identity is a
// pointer; Go has no equivalent storage duration trick for a library
// value, so identity is instead minted once, atomically, at process
// start by each capability's owning package.
type CapabilityID uint64

var nextCapabilityID uint64

// NewCapabilityID mints a new process-global capability identity.
// Call this once per capability, typically from a package-level var.
func NewCapabilityID() CapabilityID {
	return CapabilityID(atomic.AddUint64(&nextCapabilityID, 1))
}

// TypeDescriptor carries a display name, lifecycle hooks, and an
// optional capability table. Fields are optional; a zero-value hook is
// skipped.
type TypeDescriptor struct {
	Name         string
	Init         func(obj Object)
	Cleanup      func(obj Object)
	String       func(obj Object) string
	Equal        func(a, b Object) bool
	Hash         func(obj Object) uint64
	Capabilities map[CapabilityID]any
}

// Object is anything participating in the reference-counted heap.
// Ref returns the same object with its count incremented by one
// (the "producer transfers one count" rule from the data model);
// Unref decrements the count and, at zero, runs Cleanup exactly once.
type Object interface {
	Ref() Object
	Unref()
	RefCount() int32
	Type() *TypeDescriptor
}

// Base is embedded by concrete object types to get reference counting
// and capability dispatch for free, the way the C source's UtObject
// header is embedded at the front of every heap cell.
type Base struct {
	refCount int32
	typ      *TypeDescriptor
	self     Object

	mu    sync.Mutex
	weaks []*weakSlot
}

// Init initializes a Base with one outstanding reference, wiring self
// so Cleanup and weak-ref teardown can observe the concrete object.
// It mirrors ut_object_new(size, type_descriptor): callers embed Base
// in their struct and call Init(self, typ) from their own constructor.
func (b *Base) Init(self Object, typ *TypeDescriptor) {
	b.refCount = 1
	b.typ = typ
	b.self = self
	if typ != nil && typ.Init != nil {
		typ.Init(self)
	}
}

// Ref increments the reference count. It never goes from zero back to
// a live count: calling Ref after the last Unref is a programming error
// and panics, since the C invariant "refcounts never go negative" only
// makes sense if nothing resurrects a freed object.
func (b *Base) Ref() Object {
	if atomic.AddInt32(&b.refCount, 1) <= 1 {
		panic("object: Ref called on a dead object")
	}
	return b.self
}

// Unref decrements the reference count, running Cleanup and releasing
// weak-ref slots exactly once when it reaches zero.
func (b *Base) Unref() {
	if atomic.AddInt32(&b.refCount, -1) != 0 {
		return
	}
	b.mu.Lock()
	weaks := b.weaks
	b.weaks = nil
	b.mu.Unlock()
	for _, w := range weaks {
		w.clear()
	}
	if b.typ != nil && b.typ.Cleanup != nil {
		b.typ.Cleanup(b.self)
	}
}

// RefCount returns the current reference count. It exists for tests and
// diagnostics; library code should never branch on it.
func (b *Base) RefCount() int32 {
	return atomic.LoadInt32(&b.refCount)
}

// Type returns the object's type descriptor.
func (b *Base) Type() *TypeDescriptor {
	return b.typ
}

// GetInterface looks a capability up on an object's type descriptor.
// It returns (vtable, true) on a hit, (nil, false) otherwise; callers
// that expect a capability to be present and treat its absence as a
// programming error should follow up with MustGetInterface.
func GetInterface(obj Object, id CapabilityID) (any, bool) {
	typ := obj.Type()
	if typ == nil || typ.Capabilities == nil {
		return nil, false
	}
	v, ok := typ.Capabilities[id]
	return v, ok
}

// MustGetInterface is GetInterface but panics when the capability is
// absent, for call sites that have already established the object
// must speak it.
func MustGetInterface(obj Object, id CapabilityID) any {
	v, ok := GetInterface(obj, id)
	if !ok {
		panic("object: required capability not implemented")
	}
	return v
}

// IsType reports whether obj's type descriptor is exactly typ.
func IsType(obj Object, typ *TypeDescriptor) bool {
	return obj.Type() == typ
}

// WeakSlot is a holder that is cleared automatically when its referent
// is destroyed, the Go rendering of a weak-reference slot (§3).
type WeakSlot struct {
	mu  sync.Mutex
	obj Object
}

type weakSlot struct {
	owner *WeakSlot
}

func (w *weakSlot) clear() {
	w.owner.mu.Lock()
	w.owner.obj = nil
	w.owner.mu.Unlock()
}

// WeakRef registers slot to observe obj's teardown, without taking a
// reference. Reusing a slot for a second object first detaches it from
// the first.
func WeakRef(obj Object, slot *WeakSlot) {
	slot.mu.Lock()
	slot.obj = obj
	slot.mu.Unlock()

	base, ok := asBase(obj)
	if !ok {
		return
	}
	base.mu.Lock()
	base.weaks = append(base.weaks, &weakSlot{owner: slot})
	base.mu.Unlock()
}

// WeakUnref returns the slot's referent, or nil if it has already been
// destroyed.
func WeakUnref(slot *WeakSlot) Object {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.obj
}

// baseHaver lets WeakRef reach into the embedded Base without exporting
// its internals on the public Object interface.
type baseHaver interface {
	base() *Base
}

func asBase(obj Object) (*Base, bool) {
	if bh, ok := obj.(baseHaver); ok {
		return bh.base(), true
	}
	return nil, false
}

// base satisfies baseHaver for embedders; it is unexported so only this
// package's helpers can use it.
func (b *Base) base() *Base { return b }
