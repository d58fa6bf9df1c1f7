package totem

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/totem/partition"
	"github.com/hupe1980/totem/timing"
)

// ComputeFunc runs one partition's compute phase. The engine invokes it
// once per partition per superstep; implementations for the CPU
// partition typically fan out further across the engine's worker pool.
type ComputeFunc func(ctx context.Context, p *partition.Partition) error

// ScatterFunc writes src's updates for dst's vertices into dst's inbox
// (push mode). Called once per ordered partition pair.
type ScatterFunc func(ctx context.Context, src, dst *partition.Partition, inbox []byte) error

// GatherFunc reads neighbor state for p from remote's exposed window
// (pull mode). Called once per ordered partition pair.
type GatherFunc func(ctx context.Context, p, remote *partition.Partition, window []byte) error

// Superstep bundles the per-phase callbacks for one engine iteration.
// Compute is required; Scatter runs only when push messaging is
// configured, Gather only when pull messaging is configured.
type Superstep struct {
	Compute ComputeFunc
	Scatter ScatterFunc
	Gather  GatherFunc
}

// RunSuperstep executes one compute/communicate iteration. Every
// partition's compute runs concurrently: the CPU partition on the worker
// pool, each GPU partition on its own goroutine standing in for the
// device's execution stream. All compute must complete before the
// communication phase starts; the barrier is unconditional, not
// best-effort. Phase durations accumulate in the timing registry.
func (e *Engine) RunSuperstep(ctx context.Context, step Superstep) error {
	if !e.Initialized() {
		return ErrNotInitialized
	}
	if step.Compute == nil {
		return ErrNilCompute
	}

	stopExec := e.timing.Start(timing.AlgExec)
	defer stopExec()

	if err := e.computePhase(ctx, step.Compute); err != nil {
		return err
	}
	return e.commPhase(ctx, step)
}

func (e *Engine) computePhase(ctx context.Context, compute ComputeFunc) error {
	stopComp := e.timing.Start(timing.AlgComp)

	var gpuSlowest, gpuTotal atomic.Int64

	grp, gctx := errgroup.WithContext(ctx)
	for i := range e.set.Partitions {
		p := &e.set.Partitions[i]
		// Partition 0 is the CPU partition except on the pure-GPU
		// platform. Memory mode can place GPU arrays in host space, so
		// the space alone does not identify the compute unit.
		if i == 0 && e.cfg.Platform != PlatformGPU {
			grp.Go(func() error {
				start := time.Now()
				done := make(chan error, 1)
				if err := e.pool.submit(gctx, func() {
					done <- compute(gctx, p)
				}); err != nil {
					return err
				}
				// Block for completion: the barrier below must not
				// pass while CPU work is still in flight.
				err := <-done
				e.timing.Add(timing.AlgCPUComp, time.Since(start))
				return err
			})
		} else {
			grp.Go(func() error {
				start := time.Now()
				err := compute(gctx, p)
				elapsed := int64(time.Since(start))
				gpuTotal.Add(elapsed)
				for {
					prev := gpuSlowest.Load()
					if elapsed <= prev || gpuSlowest.CompareAndSwap(prev, elapsed) {
						break
					}
				}
				return err
			})
		}
	}

	// Hard barrier: every partition's compute has returned past this
	// point, CPU and GPU alike.
	err := grp.Wait()
	stopComp()
	e.timing.Add(timing.AlgGPUComp, time.Duration(gpuSlowest.Load()))
	e.timing.Add(timing.AlgGPUTotalComp, time.Duration(gpuTotal.Load()))
	return err
}

func (e *Engine) commPhase(ctx context.Context, step Superstep) error {
	stopComm := e.timing.Start(timing.AlgComm)
	defer stopComm()

	if e.cfg.PushMsgBits > 0 && step.Scatter != nil {
		stopScatter := e.timing.Start(timing.AlgScatter)
		err := e.eachPair(ctx, func(src, dst int) error {
			return step.Scatter(ctx, &e.set.Partitions[src], &e.set.Partitions[dst], e.push[dst])
		})
		stopScatter()
		if err != nil {
			return err
		}
	}

	if e.cfg.PullMsgBits > 0 && step.Gather != nil {
		stopGather := e.timing.Start(timing.AlgGather)
		err := e.eachPair(ctx, func(pid, remote int) error {
			return step.Gather(ctx, &e.set.Partitions[pid], &e.set.Partitions[remote], e.pull[remote])
		})
		stopGather()
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) eachPair(ctx context.Context, fn func(a, b int) error) error {
	for a := 0; a < e.set.Count(); a++ {
		for b := 0; b < e.set.Count(); b++ {
			if a == b {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(a, b); err != nil {
				return err
			}
		}
	}
	return nil
}
