package uttypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnedUint8ArrayTakeDataEmpties(t *testing.T) {
	a := NewOwnedUint8Array([]byte{1, 2, 3})
	data := a.TakeData()
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, 0, a.Len())
}

func TestSubViewMirrorsParent(t *testing.T) {
	a := NewOwnedUint8Array([]byte{10, 20, 30, 40, 50})
	v := a.SubView(1, 3)
	require.Equal(t, 3, v.Len())
	for i := 0; i < 3; i++ {
		assert.Equal(t, a.GetElement(1+i), v.GetElement(i))
	}
}

func TestSubViewTakeDataCopies(t *testing.T) {
	a := NewOwnedUint8Array([]byte{1, 2, 3, 4})
	v := a.SubView(0, 2)
	data := v.TakeData()
	assert.Equal(t, []byte{1, 2}, data)
	// Parent is untouched: taking data from a sub-view always copies.
	assert.Equal(t, 4, a.Len())
}

func TestSubViewAbortsOnParentResize(t *testing.T) {
	a := NewOwnedUint8Array([]byte{1, 2, 3, 4})
	v := a.SubView(0, 2)
	a.Resize(10)
	assert.Panics(t, func() { v.Len() })
}

func TestConstantUint8ArrayImmutable(t *testing.T) {
	c := NewConstantUint8Array([]byte("hello"))
	assert.False(t, c.Mutable())
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, uint8('h'), c.GetElement(0))
}

func TestOwnedUint8ArrayFromHex(t *testing.T) {
	a, err := NewOwnedUint8ArrayFromHex("010100")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x01, 0x00}, a.RawBuffer())
}

func TestTypedListRoundtrip(t *testing.T) {
	l := NewTypedList([]uint32{1, 2, 3})
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, uint32(2), l.GetElement(1))
	data := l.TakeData()
	assert.Equal(t, []uint32{1, 2, 3}, data)
	assert.Equal(t, 0, l.Len())
}
