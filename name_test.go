package kdoc_test

import (
	"testing"

	"github.com/fwojciec/kdoc"
	"github.com/stretchr/testify/assert"
)

func TestResolveName(t *testing.T) {
	t.Parallel()

	t.Run("joins segments after the navigation chrome", func(t *testing.T) {
		t.Parallel()

		trail := []string{"Docs", "Root", "kotlin", "collections", "List"}

		assert.Equal(t, "kotlin.collections.List", kdoc.ResolveName(trail))
	})

	t.Run("single segment after chrome", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "kotlin", kdoc.ResolveName([]string{"Docs", "Root", "kotlin"}))
	})

	t.Run("returns empty name for short trails", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, kdoc.ResolveName([]string{"Docs", "Root"}))
		assert.Empty(t, kdoc.ResolveName([]string{"Docs"}))
		assert.Empty(t, kdoc.ResolveName(nil))
	})
}
