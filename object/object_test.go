package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter is a minimal concrete Object: it embeds Base for ref
// counting and capability dispatch, and records whether Cleanup ran.
type counter struct {
	Base
	cleaned *bool
}

var counterStringCapability = NewCapabilityID()

var counterType = &TypeDescriptor{
	Name: "counter",
	Cleanup: func(obj Object) {
		c := obj.(*counter)
		*c.cleaned = true
	},
	Capabilities: map[CapabilityID]any{
		counterStringCapability: func(obj Object) string { return "counter" },
	},
}

func newCounter() *counter {
	cleaned := false
	c := &counter{cleaned: &cleaned}
	c.Init(c, counterType)
	return c
}

func TestRefUnrefRunsCleanupOnce(t *testing.T) {
	c := newCounter()
	assert.EqualValues(t, 1, c.RefCount())

	c.Ref()
	assert.EqualValues(t, 2, c.RefCount())
	assert.False(t, *c.cleaned)

	c.Unref()
	assert.EqualValues(t, 1, c.RefCount())
	assert.False(t, *c.cleaned)

	c.Unref()
	assert.EqualValues(t, 0, c.RefCount())
	assert.True(t, *c.cleaned)
}

func TestRefAfterFinalUnrefPanics(t *testing.T) {
	c := newCounter()
	c.Unref()
	assert.Panics(t, func() { c.Ref() })
}

func TestGetInterface(t *testing.T) {
	c := newCounter()
	defer c.Unref()

	v, ok := GetInterface(c, counterStringCapability)
	require.True(t, ok)
	assert.Equal(t, "counter", v.(func(Object) string)(c))

	_, ok = GetInterface(c, NewCapabilityID())
	assert.False(t, ok)

	assert.Panics(t, func() { MustGetInterface(c, NewCapabilityID()) })
}

func TestIsType(t *testing.T) {
	c := newCounter()
	defer c.Unref()
	assert.True(t, IsType(c, counterType))
	assert.False(t, IsType(c, &TypeDescriptor{Name: "other"}))
}

func TestWeakRefClearedOnTeardown(t *testing.T) {
	c := newCounter()
	var slot WeakSlot
	WeakRef(c, &slot)

	assert.Same(t, Object(c), WeakUnref(&slot))
	c.Unref()
	assert.Nil(t, WeakUnref(&slot))
}
