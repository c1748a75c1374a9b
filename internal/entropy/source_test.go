package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameStream(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float(), b.Float())
	}
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.IntBetween(1, 10), b.IntBetween(1, 10))
		assert.Equal(t, a.Uniform(20, 80), b.Uniform(20, 80))
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)

	same := true
	for i := 0; i < 20; i++ {
		if a.Float() != b.Float() {
			same = false
		}
	}
	assert.False(t, same)
}

func TestUniformBounds(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		v := s.Uniform(20, 80)
		require.GreaterOrEqual(t, v, 20.0)
		require.Less(t, v, 80.0)
	}
}

func TestUniformInvertedBounds(t *testing.T) {
	// depth sampling can invert bounds when rainfall is below the floor
	s := New(7)
	for i := 0; i < 1000; i++ {
		v := s.Uniform(20, 12.5)
		require.GreaterOrEqual(t, v, 12.5)
		require.Less(t, v, 20.0)
	}
}

func TestIntBetweenInclusive(t *testing.T) {
	s := New(3)
	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		v := s.IntBetween(1, 3)
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 3)
		seen[v] = true
	}
	assert.True(t, seen[1] && seen[2] && seen[3])
}

func TestWeighted(t *testing.T) {
	s := New(11)

	// an all-or-nothing distribution always picks the loaded slot
	for i := 0; i < 50; i++ {
		assert.Equal(t, 1, s.Weighted([]float64{0, 1, 0}))
	}

	counts := make([]int, 3)
	for i := 0; i < 3000; i++ {
		counts[s.Weighted([]float64{0.5, 0.35, 0.15})]++
	}
	assert.Greater(t, counts[0], counts[1])
	assert.Greater(t, counts[1], counts[2])
}
