package totem

import (
	"sync/atomic"

	"github.com/hupe1980/totem/device"
	"github.com/hupe1980/totem/graph"
	"github.com/hupe1980/totem/partition"
	"github.com/hupe1980/totem/timing"
)

type engineState int32

const (
	stateUninitialized engineState = iota
	stateInitialized
)

// Engine state is process-wide in spirit: at most one engine may be
// INITIALIZED at a time. The guard keeps the legacy single-instance
// contract while the Engine object itself stays explicit and testable.
var activeEngine atomic.Bool

// Engine coordinates hybrid CPU+GPU graph processing: it owns the
// partition set between Init and Finalize and exposes read-only partition
// queries and phase timing.
//
// The engine lifecycle is single-threaded: one controlling goroutine
// calls Init and Finalize. Within an initialized engine, per-partition
// compute runs concurrently through RunSuperstep.
type Engine struct {
	logger  *Logger
	devices *device.Registry
	alloc   *device.Allocator
	timing  *timing.Registry
	seed    uint64

	state atomic.Int32

	cfg   Config
	graph *graph.Graph
	set   *partition.Set
	pool  *workerPool

	push     [][]byte
	pull     [][]byte
	commBufs []*device.Buffer
}

// New creates an engine in the UNINITIALIZED state.
func New(opts ...Option) *Engine {
	o := applyOptions(opts)
	return &Engine{
		logger:  o.logger,
		devices: o.devices,
		alloc:   device.NewAllocator(o.devices, o.allocConfig),
		timing:  o.timing,
		seed:    o.seed,
	}
}

// Init initializes the algorithm-agnostic state for hybrid processing:
// it creates one partition per GPU plus one for the CPU (per the
// configured platform), attaches algorithm state through the hooks, and
// sizes the communication buffers. On any failure no engine state is
// retained and the engine stays UNINITIALIZED.
func (e *Engine) Init(g *graph.Graph, cfg Config) error {
	if engineState(e.state.Load()) == stateInitialized {
		return ErrAlreadyInitialized
	}
	if g == nil {
		return ErrNilGraph
	}
	cfg, err := cfg.validate(e.devices)
	if err != nil {
		return err
	}

	if !activeEngine.CompareAndSwap(false, true) {
		return ErrEngineActive
	}
	ok := false
	defer func() {
		if !ok {
			activeEngine.Store(false)
		}
	}()

	stopInit := e.timing.Start(timing.EngineInit)
	defer stopInit()

	count := cfg.partitionCount()

	stopPar := e.timing.Start(timing.EnginePartition)
	labels, err := e.assign(g, cfg, count)
	if err != nil {
		stopPar()
		return err
	}
	if cfg.GPURandomized {
		if gpus := cfg.gpuPartitions(count); len(gpus) > 1 {
			partition.ShuffleAcross(labels, gpus, e.seed)
		}
	}
	stopPar()

	set, err := partition.BuildSet(g, labels, count,
		partition.WithAllocator(e.alloc),
		partition.WithSpaces(cfg.partitionSpaces(count)),
	)
	if err != nil {
		e.logger.LogInit(cfg.Platform, count, err)
		return err
	}

	if report, rerr := partition.Balance(g, labels, count); rerr == nil {
		e.logger.Info("graph partitioned",
			"algorithm", cfg.Algorithm.String(),
			"partitions", count,
			"imbalance", report.Imbalance,
			"edge_stddev", report.EdgeStdDev,
		)
	}

	if err := runAllocateHooks(cfg.Hooks, set); err != nil {
		set.Destroy() //nolint:errcheck // already failing
		e.logger.LogInit(cfg.Platform, count, err)
		return err
	}

	if err := e.allocCommBuffers(cfg, set); err != nil {
		runFreeHooks(cfg.Hooks, set)
		set.Destroy() //nolint:errcheck // already failing
		e.logger.LogInit(cfg.Platform, count, err)
		return err
	}

	e.cfg = cfg
	e.graph = g
	e.set = set
	e.pool = newWorkerPool(0)
	e.state.Store(int32(stateInitialized))
	ok = true
	e.logger.LogInit(cfg.Platform, count, nil)
	return nil
}

func (e *Engine) assign(g *graph.Graph, cfg Config, count int) ([]uint32, error) {
	switch cfg.Algorithm {
	case AlgorithmSortedAscending:
		return partition.AssignSortedByDegree(g, count, partition.Ascending, cfg.targetShares(count))
	case AlgorithmSortedDescending:
		return partition.AssignSortedByDegree(g, count, partition.Descending, cfg.targetShares(count))
	default:
		return partition.AssignRandom(g, count, e.seed)
	}
}

func runAllocateHooks(hooks PartitionHooks, set *partition.Set) error {
	if hooks == nil {
		return nil
	}
	for i := range set.Partitions {
		if err := hooks.OnPartitionAllocate(&set.Partitions[i]); err != nil {
			for j := i - 1; j >= 0; j-- {
				hooks.OnPartitionFree(&set.Partitions[j])
			}
			return err
		}
	}
	return nil
}

func runFreeHooks(hooks PartitionHooks, set *partition.Set) {
	if hooks == nil {
		return
	}
	for i := len(set.Partitions) - 1; i >= 0; i-- {
		hooks.OnPartitionFree(&set.Partitions[i])
	}
}

// allocCommBuffers sizes each partition's push inbox and pull window once
// from its remote vertex count and the configured message bit widths.
// The buffers live in the partition's own memory space and are reused
// across all iterations.
func (e *Engine) allocCommBuffers(cfg Config, set *partition.Set) error {
	rollback := func(err error) error {
		for _, b := range e.commBufs {
			b.Release() //nolint:errcheck // already failing
		}
		e.commBufs = nil
		e.push = nil
		e.pull = nil
		return err
	}

	msgBytes := func(count uint32, bits int) int {
		return (int(count)*bits + 7) / 8
	}

	e.push = make([][]byte, set.Count())
	e.pull = make([][]byte, set.Count())
	for i := range set.Partitions {
		p := &set.Partitions[i]
		if cfg.PushMsgBits > 0 {
			buf, res, err := device.Make[byte](e.alloc, p.Space, msgBytes(p.RmtVertexCount, cfg.PushMsgBits))
			if err != nil {
				return rollback(err)
			}
			e.push[i] = buf
			e.commBufs = append(e.commBufs, res)
		}
		if cfg.PullMsgBits > 0 {
			buf, res, err := device.Make[byte](e.alloc, p.Space, msgBytes(p.RmtVertexCount, cfg.PullMsgBits))
			if err != nil {
				return rollback(err)
			}
			e.pull[i] = buf
			e.commBufs = append(e.commBufs, res)
		}
	}
	return nil
}

// Finalize clears the state allocated by Init: free hooks run in reverse
// partition order, then the partition set and communication buffers are
// released. Timing counters persist until an explicit Timing().Reset().
// Calling Finalize on an UNINITIALIZED engine is a caller error.
func (e *Engine) Finalize() error {
	if engineState(e.state.Load()) != stateInitialized {
		return ErrNotInitialized
	}

	runFreeHooks(e.cfg.Hooks, e.set)

	var firstErr error
	for _, b := range e.commBufs {
		if err := b.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := e.set.Destroy(); err != nil && firstErr == nil {
		firstErr = err
	}
	e.pool.close()

	e.set = nil
	e.graph = nil
	e.pool = nil
	e.push = nil
	e.pull = nil
	e.commBufs = nil

	e.state.Store(int32(stateUninitialized))
	activeEngine.Store(false)
	e.logger.LogFinalize(firstErr)
	return firstErr
}

// Initialized reports whether the engine is between Init and Finalize.
func (e *Engine) Initialized() bool {
	return engineState(e.state.Load()) == stateInitialized
}

// PartitionCount returns the number of partitions, or zero while the
// engine is UNINITIALIZED.
func (e *Engine) PartitionCount() int {
	if !e.Initialized() {
		return 0
	}
	return e.set.Count()
}

func (e *Engine) partitionAt(pid int) (*partition.Partition, error) {
	if !e.Initialized() {
		return nil, ErrNotInitialized
	}
	if pid < 0 || pid >= e.set.Count() {
		return nil, ErrBadPartition
	}
	return &e.set.Partitions[pid], nil
}

// Partition returns the partition with the given tag.
func (e *Engine) Partition(pid int) (*partition.Partition, error) {
	return e.partitionAt(pid)
}

// VertexCount returns the number of vertices in partition pid.
func (e *Engine) VertexCount(pid int) (uint32, error) {
	p, err := e.partitionAt(pid)
	if err != nil {
		return 0, err
	}
	return p.VertexCount, nil
}

// EdgeCount returns the number of edges in partition pid.
func (e *Engine) EdgeCount(pid int) (uint64, error) {
	p, err := e.partitionAt(pid)
	if err != nil {
		return 0, err
	}
	return p.EdgeCount, nil
}

// RemoteVertexCount returns the number of distinct remote vertices
// referenced by partition pid's edges.
func (e *Engine) RemoteVertexCount(pid int) (uint32, error) {
	p, err := e.partitionAt(pid)
	if err != nil {
		return 0, err
	}
	return p.RmtVertexCount, nil
}

// RemoteEdgeCount returns the number of partition pid's edges whose
// target lies in another partition.
func (e *Engine) RemoteEdgeCount(pid int) (uint64, error) {
	p, err := e.partitionAt(pid)
	if err != nil {
		return 0, err
	}
	return p.RmtEdgeCount, nil
}

// PushBuffer returns partition pid's inbox for push (scatter)
// communication. Empty when push messaging is disabled.
func (e *Engine) PushBuffer(pid int) ([]byte, error) {
	if _, err := e.partitionAt(pid); err != nil {
		return nil, err
	}
	return e.push[pid], nil
}

// PullBuffer returns partition pid's exposed window for pull (gather)
// communication. Empty when pull messaging is disabled.
func (e *Engine) PullBuffer(pid int) ([]byte, error) {
	if _, err := e.partitionAt(pid); err != nil {
		return nil, err
	}
	return e.pull[pid], nil
}

// Config returns the normalized configuration of the current Init round.
// Meaningful only while INITIALIZED.
func (e *Engine) Config() Config {
	return e.cfg
}

// Timing returns the engine's timing registry. The engine writes
// EngineInit and EnginePartition; the algorithm layer records the Alg*
// phases through the same registry.
func (e *Engine) Timing() *timing.Registry {
	return e.timing
}

// Devices returns the device registry the engine was built with.
func (e *Engine) Devices() *device.Registry {
	return e.devices
}
