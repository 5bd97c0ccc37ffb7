package pegparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceMapOrder(t *testing.T) {
	m := NewSliceMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.Set("a", 10)

	assert.Equal(t, []interface{}{"a", "b", "c"}, m.Keys())
	assert.Equal(t, 10, m.ForceGet("a"))

	m.Delete("b")
	assert.Equal(t, []interface{}{"a", "c"}, m.Keys())
	assert.Equal(t, 1, m.IndexOf("c"))
	assert.Equal(t, -1, m.IndexOf("b"))
}

func TestSliceMapInsertAfter(t *testing.T) {
	m := NewSliceMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	m.InsertAfter("a", "x", 9)
	assert.Equal(t, []interface{}{"a", "x", "b", "c"}, m.Keys())
	assert.Equal(t, 2, m.IndexOf("b"))
	assert.Equal(t, 3, m.IndexOf("c"))

	m.InsertAfter("c", "a", 1)
	assert.Equal(t, []interface{}{"x", "b", "c", "a"}, m.Keys())

	m.InsertAfter("missing", "y", 0)
	assert.Equal(t, []interface{}{"x", "b", "c", "a", "y"}, m.Keys())

	v, ok := m.GetAt(1)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	m.DeleteAt(0)
	assert.Equal(t, []interface{}{"b", "c", "a", "y"}, m.Keys())
	assert.Equal(t, 0, m.IndexOf("b"))
}
