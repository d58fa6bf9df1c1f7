package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/totem/graph"
)

// degreeGraph has out-degrees [1, 1, 3, 3].
func degreeGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.FromAdjacency([][]uint32{
		{2},
		{3},
		{0, 1, 3},
		{0, 1, 2},
	})
	require.NoError(t, err)
	return g
}

func uniformGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	adj := make([][]uint32, n)
	for i := range adj {
		adj[i] = []uint32{uint32((i + 1) % n)}
	}
	g, err := graph.FromAdjacency(adj)
	require.NoError(t, err)
	return g
}

func TestAssignRandom(t *testing.T) {
	g := uniformGraph(t, 100)

	t.Run("LabelsInRange", func(t *testing.T) {
		labels, err := AssignRandom(g, 3, 7)
		require.NoError(t, err)
		require.Len(t, labels, 100)
		for _, l := range labels {
			assert.Less(t, l, uint32(3))
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, err := AssignRandom(g, 4, 42)
		require.NoError(t, err)
		b, err := AssignRandom(g, 4, 42)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("SeedChangesLabels", func(t *testing.T) {
		a, err := AssignRandom(g, 4, 1)
		require.NoError(t, err)
		b, err := AssignRandom(g, 4, 2)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("Rejection", func(t *testing.T) {
		_, err := AssignRandom(nil, 2, 0)
		assert.ErrorIs(t, err, ErrNilGraph)

		_, err = AssignRandom(g, 0, 0)
		assert.ErrorIs(t, err, ErrInvalidPartitionCount)

		_, err = AssignRandom(g, 5, 0)
		assert.ErrorIs(t, err, ErrInvalidPartitionCount)
	})
}

func TestAssignSortedByDegree(t *testing.T) {
	t.Run("Ascending", func(t *testing.T) {
		labels, err := AssignSortedByDegree(degreeGraph(t), 2, Ascending, nil)
		require.NoError(t, err)
		// Sorted order is 0,1 (degree 1) then 2,3 (degree 3); the run
		// boundary falls once 4 of 8 edges are covered.
		assert.Equal(t, []uint32{0, 0, 0, 1}, labels)
	})

	t.Run("Descending", func(t *testing.T) {
		labels, err := AssignSortedByDegree(degreeGraph(t), 2, Descending, nil)
		require.NoError(t, err)
		assert.Equal(t, []uint32{1, 1, 0, 0}, labels)
	})

	t.Run("Shares", func(t *testing.T) {
		labels, err := AssignSortedByDegree(uniformGraph(t, 8), 2, Ascending, []float64{0.75, 0.25})
		require.NoError(t, err)
		assert.Equal(t, []uint32{0, 0, 0, 0, 0, 0, 1, 1}, labels)
	})

	t.Run("EdgeBalanceOnSkew", func(t *testing.T) {
		// One hub plus leaves; a degree-sorted split keeps the hub's
		// edges from landing in the same partition as everything else.
		adj := make([][]uint32, 9)
		for i := 1; i < 9; i++ {
			adj[0] = append(adj[0], uint32(i))
			adj[i] = []uint32{0}
		}
		g, err := graph.FromAdjacency(adj)
		require.NoError(t, err)

		labels, err := AssignSortedByDegree(g, 2, Descending, nil)
		require.NoError(t, err)

		var hub uint32 = labels[0]
		var hubEdges, otherEdges uint64
		for v, l := range labels {
			if l == hub {
				hubEdges += g.Degree(uint32(v))
			} else {
				otherEdges += g.Degree(uint32(v))
			}
		}
		assert.Equal(t, uint64(8), hubEdges)
		assert.Equal(t, uint64(8), otherEdges)
	})

	t.Run("Rejection", func(t *testing.T) {
		g := degreeGraph(t)

		_, err := AssignSortedByDegree(nil, 2, Ascending, nil)
		assert.ErrorIs(t, err, ErrNilGraph)

		_, err = AssignSortedByDegree(g, 9, Ascending, nil)
		assert.ErrorIs(t, err, ErrInvalidPartitionCount)

		_, err = AssignSortedByDegree(g, 2, Ascending, []float64{0.5})
		assert.ErrorIs(t, err, ErrInvalidShares)

		_, err = AssignSortedByDegree(g, 2, Ascending, []float64{0.7, 0.7})
		assert.ErrorIs(t, err, ErrInvalidShares)

		_, err = AssignSortedByDegree(g, 2, Ascending, []float64{-0.5, 1.5})
		assert.ErrorIs(t, err, ErrInvalidShares)
	})
}

func TestShuffleAcross(t *testing.T) {
	labels := []uint32{0, 1, 2, 1, 2, 0, 1, 2}
	orig := append([]uint32(nil), labels...)

	ShuffleAcross(labels, []uint32{1, 2}, 99)

	// Partition 0 placements are untouched.
	for i, l := range orig {
		if l == 0 {
			assert.Equal(t, uint32(0), labels[i])
		} else {
			assert.Contains(t, []uint32{1, 2}, labels[i])
		}
	}

	// Cardinalities are preserved.
	count := func(ls []uint32, p uint32) int {
		var c int
		for _, l := range ls {
			if l == p {
				c++
			}
		}
		return c
	}
	for p := uint32(0); p < 3; p++ {
		assert.Equal(t, count(orig, p), count(labels, p))
	}

	// Same seed, same shuffle.
	again := append([]uint32(nil), orig...)
	ShuffleAcross(again, []uint32{1, 2}, 99)
	assert.Equal(t, labels, again)
}
