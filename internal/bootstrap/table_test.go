package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	assert.Equal(t, 13, Count(), "should carry all 13 IANA root servers")
}

func TestAt_FirstServerIsRootA(t *testing.T) {
	assert.Equal(t, "198.41.0.4", At(0).String(), "a.root-servers.net")
}

func TestAt_Wraps(t *testing.T) {
	assert.Equal(t, At(0).String(), At(Count()).String(), "index should wrap around")
	assert.Equal(t, At(Count()-1).String(), At(-1).String(), "negative index should wrap to the last entry")
}

func TestOrder_IsAPermutationStartingAtSeed(t *testing.T) {
	order := Order(5)
	require.Len(t, order, Count())
	assert.Equal(t, 5, order[0])

	seen := make(map[int]bool)
	for _, idx := range order {
		require.True(t, idx >= 0 && idx < Count(), "index %d out of range", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, Count(), "Order should visit every server exactly once")
}
