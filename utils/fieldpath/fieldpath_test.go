package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNestedField(t *testing.T) {
	assert.False(t, IsNestedField("start"))
	assert.True(t, IsNestedField("visit.start"))
	assert.True(t, IsNestedField("a.b.c"))
}

func TestGet_TopLevel(t *testing.T) {
	rec := map[string]interface{}{"start": 5}
	val, ok := Get(rec, "start")
	assert.True(t, ok)
	assert.Equal(t, 5, val)

	_, ok = Get(rec, "missing")
	assert.False(t, ok)
}

func TestGet_Nested(t *testing.T) {
	rec := map[string]interface{}{
		"visit": map[string]interface{}{
			"window": map[string]interface{}{
				"start": 7.5,
			},
		},
	}

	val, ok := Get(rec, "visit.window.start")
	assert.True(t, ok)
	assert.Equal(t, 7.5, val)

	_, ok = Get(rec, "visit.window.end")
	assert.False(t, ok)

	// Descending into a non-map stops cleanly.
	_, ok = Get(rec, "visit.window.start.deeper")
	assert.False(t, ok)
}
