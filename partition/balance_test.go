package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalance(t *testing.T) {
	t.Run("EqualSplit", func(t *testing.T) {
		g := uniformGraph(t, 8)
		r, err := Balance(g, []uint32{0, 0, 0, 0, 1, 1, 1, 1}, 2)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 0.5}, r.VertexShare)
		assert.Equal(t, []float64{0.5, 0.5}, r.EdgeShare)
		assert.Equal(t, 0.0, r.EdgeStdDev)
		assert.Equal(t, 1.0, r.Imbalance)
	})

	t.Run("Skewed", func(t *testing.T) {
		g := uniformGraph(t, 8)
		r, err := Balance(g, []uint32{0, 0, 0, 0, 0, 0, 1, 1}, 2)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.75, 0.25}, r.EdgeShare)
		assert.InDelta(t, 1.5, r.Imbalance, 1e-9)
		assert.Greater(t, r.EdgeStdDev, 0.0)
	})

	t.Run("Rejection", func(t *testing.T) {
		g := uniformGraph(t, 4)

		_, err := Balance(nil, nil, 1)
		assert.ErrorIs(t, err, ErrNilGraph)

		_, err = Balance(g, []uint32{0, 0, 0, 0}, 0)
		assert.ErrorIs(t, err, ErrInvalidPartitionCount)

		_, err = Balance(g, []uint32{0}, 1)
		assert.ErrorIs(t, err, ErrLabelCount)

		_, err = Balance(g, []uint32{0, 0, 0, 3}, 2)
		assert.ErrorIs(t, err, ErrLabelRange)
	})
}
