package timing

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("AddAndGet", func(t *testing.T) {
		r := NewRegistry()
		r.Add(AlgComp, 10*time.Millisecond)
		r.Add(AlgComp, 5*time.Millisecond)
		assert.Equal(t, 15*time.Millisecond, r.Get(AlgComp))
		assert.Equal(t, time.Duration(0), r.Get(AlgComm))
	})

	t.Run("StartStop", func(t *testing.T) {
		r := NewRegistry()
		stop := r.Start(EngineInit)
		time.Sleep(time.Millisecond)
		stop()
		assert.Greater(t, r.Get(EngineInit), time.Duration(0))
	})

	t.Run("CountersAreIndependent", func(t *testing.T) {
		r := NewRegistry()
		r.Add(AlgScatter, time.Second)
		snap := r.Snapshot()
		assert.Equal(t, time.Second, snap.AlgScatter)
		assert.Equal(t, time.Duration(0), snap.AlgGather)
		assert.Equal(t, time.Duration(0), snap.EngineInit)
	})

	t.Run("Reset", func(t *testing.T) {
		r := NewRegistry()
		r.Add(EngineInit, time.Second)
		r.Add(AlgFinalize, time.Second)
		r.Reset()
		assert.Equal(t, Snapshot{}, r.Snapshot())
	})
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "engine_init", EngineInit.String())
	assert.Equal(t, "alg_gpu_total_comp", AlgGPUTotalComp.String())
	assert.Equal(t, "unknown", Phase(99).String())
}

func TestCollector(t *testing.T) {
	r := NewRegistry()
	r.Add(AlgComp, 2*time.Second)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(r)))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "totem_phase_seconds_total", families[0].GetName())
	assert.Len(t, families[0].GetMetric(), int(phaseCount))

	var found bool
	for _, m := range families[0].GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetValue() == "alg_comp" {
				found = true
				assert.Equal(t, 2.0, m.GetCounter().GetValue())
			}
		}
	}
	assert.True(t, found)
}
