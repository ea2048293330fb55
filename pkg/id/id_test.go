package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorMonotonic(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	g := NewGenerator(func() time.Time { return at })

	prev := g.New()
	for i := 0; i < 100; i++ {
		next := g.New()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)
	g := NewGenerator(func() time.Time { return at })

	got, err := Time(g.New())
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	_, err = Time("nope")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
