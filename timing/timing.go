// Package timing provides the fixed set of named duration counters
// recorded around engine and algorithm phases.
//
// Counters accumulate monotonically until an explicit Reset; finalizing
// the engine does not clear them, so a caller can run several
// init/execute/finalize rounds and read the totals afterwards.
//
// The write path is an explicit stopwatch: Start returns a stop function
// that adds the elapsed time to the named counter. The engine records
// only EngineInit and EnginePartition; the algorithm layer records the
// Alg* phases through the same API.
package timing

import (
	"sync/atomic"
	"time"
)

// Phase names one duration counter.
type Phase int

const (
	// EngineInit covers engine initialization end to end.
	EngineInit Phase = iota
	// EnginePartition covers partition assignment, a subset of EngineInit.
	EnginePartition
	// AlgExec covers the whole algorithm execution (compute + communicate).
	AlgExec
	// AlgComp covers the compute phase.
	AlgComp
	// AlgComm covers the communication phase, including scatter/gather.
	AlgComm
	// AlgAggr covers final result aggregation.
	AlgAggr
	// AlgScatter covers the scatter step of push-mode communication.
	AlgScatter
	// AlgGather covers the gather step of pull-mode communication.
	AlgGather
	// AlgGPUComp is the compute time of the slowest GPU, included in AlgComp.
	AlgGPUComp
	// AlgGPUTotalComp is the summed compute time across all GPUs.
	AlgGPUTotalComp
	// AlgCPUComp is the CPU partition's compute time, included in AlgComp.
	AlgCPUComp
	// AlgInit covers algorithm-specific initialization.
	AlgInit
	// AlgFinalize covers algorithm-specific finalization.
	AlgFinalize

	phaseCount
)

var phaseNames = [...]string{
	EngineInit:      "engine_init",
	EnginePartition: "engine_partition",
	AlgExec:         "alg_exec",
	AlgComp:         "alg_comp",
	AlgComm:         "alg_comm",
	AlgAggr:         "alg_aggr",
	AlgScatter:      "alg_scatter",
	AlgGather:       "alg_gather",
	AlgGPUComp:      "alg_gpu_comp",
	AlgGPUTotalComp: "alg_gpu_total_comp",
	AlgCPUComp:      "alg_cpu_comp",
	AlgInit:         "alg_init",
	AlgFinalize:     "alg_finalize",
}

// String returns the snake_case name of the phase.
func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return "unknown"
	}
	return phaseNames[p]
}

// Registry holds one independent, monotonically-accumulating counter per
// phase. Safe for concurrent use.
type Registry struct {
	nanos [phaseCount]atomic.Int64
}

// NewRegistry returns a Registry with all counters at zero.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add accumulates d into the counter for p.
func (r *Registry) Add(p Phase, d time.Duration) {
	r.nanos[p].Add(d.Nanoseconds())
}

// Start begins timing phase p and returns a stop function that
// accumulates the elapsed time. Each stop function must be called at
// most once.
func (r *Registry) Start(p Phase) func() {
	begin := time.Now()
	return func() {
		r.Add(p, time.Since(begin))
	}
}

// Get returns the accumulated duration for p.
func (r *Registry) Get(p Phase) time.Duration {
	return time.Duration(r.nanos[p].Load())
}

// Reset zeroes every counter.
func (r *Registry) Reset() {
	for i := range r.nanos {
		r.nanos[i].Store(0)
	}
}

// Snapshot returns the current value of every counter. The field order
// mirrors the engine's external timing record.
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{
		EngineInit:      r.Get(EngineInit),
		EnginePartition: r.Get(EnginePartition),
		AlgExec:         r.Get(AlgExec),
		AlgComp:         r.Get(AlgComp),
		AlgComm:         r.Get(AlgComm),
		AlgAggr:         r.Get(AlgAggr),
		AlgScatter:      r.Get(AlgScatter),
		AlgGather:       r.Get(AlgGather),
		AlgGPUComp:      r.Get(AlgGPUComp),
		AlgGPUTotalComp: r.Get(AlgGPUTotalComp),
		AlgCPUComp:      r.Get(AlgCPUComp),
		AlgInit:         r.Get(AlgInit),
		AlgFinalize:     r.Get(AlgFinalize),
	}
}

// Snapshot is a read-only copy of all timing counters.
type Snapshot struct {
	EngineInit      time.Duration
	EnginePartition time.Duration
	AlgExec         time.Duration
	AlgComp         time.Duration
	AlgComm         time.Duration
	AlgAggr         time.Duration
	AlgScatter      time.Duration
	AlgGather       time.Duration
	AlgGPUComp      time.Duration
	AlgGPUTotalComp time.Duration
	AlgCPUComp      time.Duration
	AlgInit         time.Duration
	AlgFinalize     time.Duration
}
