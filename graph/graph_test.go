package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		g, err := New([]uint64{0, 2, 3, 3}, []uint32{1, 2, 0}, nil)
		require.NoError(t, err)
		assert.Equal(t, uint32(3), g.VertexCount())
		assert.Equal(t, uint64(3), g.EdgeCount())
		assert.False(t, g.Weighted())
		assert.Equal(t, []uint32{1, 2}, g.Neighbors(0))
		assert.Equal(t, uint64(0), g.Degree(2))
	})

	t.Run("Weighted", func(t *testing.T) {
		g, err := New([]uint64{0, 1, 2}, []uint32{1, 0}, []float32{0.5, 1.5})
		require.NoError(t, err)
		assert.True(t, g.Weighted())
		assert.Equal(t, []float32{1.5}, g.EdgeWeights(1))
	})

	t.Run("EmptyOffsets", func(t *testing.T) {
		_, err := New(nil, nil, nil)
		assert.ErrorIs(t, err, ErrBadOffsets)
	})

	t.Run("DecreasingOffsets", func(t *testing.T) {
		_, err := New([]uint64{0, 2, 1, 3}, []uint32{0, 0, 0}, nil)
		assert.ErrorIs(t, err, ErrBadOffsets)
	})

	t.Run("TruncatedOffsets", func(t *testing.T) {
		_, err := New([]uint64{0, 1}, []uint32{0, 0}, nil)
		assert.ErrorIs(t, err, ErrBadOffsets)
	})

	t.Run("TargetOutOfRange", func(t *testing.T) {
		_, err := New([]uint64{0, 1, 2}, []uint32{1, 2}, nil)
		assert.ErrorIs(t, err, ErrBadTarget)
	})

	t.Run("WeightsMismatch", func(t *testing.T) {
		_, err := New([]uint64{0, 1, 2}, []uint32{1, 0}, []float32{0.5})
		assert.ErrorIs(t, err, ErrBadWeights)
	})
}

func TestFromAdjacency(t *testing.T) {
	g, err := FromAdjacency([][]uint32{{1, 2}, {2}, {}})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), g.VertexCount())
	assert.Equal(t, uint64(3), g.EdgeCount())
	assert.Equal(t, []uint32{2}, g.Neighbors(1))
	assert.Empty(t, g.Neighbors(2))
}
