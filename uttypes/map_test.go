package uttypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapSetGetDelete(t *testing.T) {
	m := NewMap()
	assert.Equal(t, 0, m.Len())

	m.Set("a", 1)
	m.Set("b", 2)
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, m.Len())

	m.Delete("a")
	_, ok = m.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestMapSetReplacesInPlace(t *testing.T) {
	m := NewMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 99)

	items := m.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Key)
	assert.Equal(t, 99, items[0].Value)
	assert.Equal(t, "b", items[1].Key)
}

func TestMapItemsPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("z", 1)
	m.Set("a", 2)
	m.Set("m", 3)

	items := m.Items()
	keys := make([]any, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}
	assert.Equal(t, []any{"z", "a", "m"}, keys)
}
