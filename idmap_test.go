package locio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/locio/handle"
)

func TestIDMap(t *testing.T) {
	t.Run("ResolveFallsBackToID", func(t *testing.T) {
		m := NewIDMap()
		assert.Equal(t, "a.tif", m.Resolve("a.tif"))
		assert.Nil(t, m.Handle("a.tif"))
	})

	t.Run("MapAndRemove", func(t *testing.T) {
		m := NewIDMap()
		m.Map("alias", "/data/real.tif")
		assert.Equal(t, "/data/real.tif", m.Resolve("alias"))
		assert.Equal(t, 1, m.Len())

		m.Map("alias", "")
		assert.Equal(t, "alias", m.Resolve("alias"))
		assert.Equal(t, 0, m.Len())
	})

	t.Run("EmptyIDIgnored", func(t *testing.T) {
		m := NewIDMap()
		m.Map("", "x")
		m.MapHandle("", handle.NewArrayHandle(nil))
		assert.Equal(t, 0, m.Len())
	})

	t.Run("HandleMapping", func(t *testing.T) {
		m := NewIDMap()
		h := handle.NewArrayHandle([]byte("abc"))
		m.MapHandle("mem", h)

		assert.Same(t, h, m.Handle("mem"))
		// A handle mapping is not a string mapping.
		assert.Equal(t, "mem", m.Resolve("mem"))

		m.MapHandle("mem", nil)
		assert.Nil(t, m.Handle("mem"))
	})

	t.Run("StringReplacesHandle", func(t *testing.T) {
		m := NewIDMap()
		m.MapHandle("id", handle.NewArrayHandle(nil))
		m.Map("id", "other")
		assert.Nil(t, m.Handle("id"))
		assert.Equal(t, "other", m.Resolve("id"))
	})

	t.Run("DeleteAndClear", func(t *testing.T) {
		m := NewIDMap()
		m.Map("a", "b")
		m.Map("c", "d")
		m.Delete("a")
		assert.Equal(t, "a", m.Resolve("a"))
		assert.Equal(t, 1, m.Len())

		m.Clear()
		assert.Equal(t, 0, m.Len())
	})
}
