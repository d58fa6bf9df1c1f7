package device

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var (
	// ErrOutOfMemory is returned when a space's budget cannot satisfy an
	// allocation. Allocation never blocks; callers are expected to fail
	// the surrounding construction and roll back.
	ErrOutOfMemory = errors.New("device: out of memory")

	// ErrReleased is returned when a buffer is released twice.
	ErrReleased = errors.New("device: buffer already released")

	// ErrUnknownSpace is returned for a space outside the allocator's
	// registry.
	ErrUnknownSpace = errors.New("device: unknown space")
)

// AllocatorConfig holds per-space byte budgets. A zero limit means the
// space is tracked but unbounded.
type AllocatorConfig struct {
	// HostLimitBytes caps host-memory allocations.
	HostLimitBytes int64

	// GPULimitBytes caps each GPU's allocations individually.
	GPULimitBytes int64

	// CopyBytesPerSec throttles cross-space copies. Zero means
	// unlimited.
	CopyBytesPerSec int64
}

type spaceBudget struct {
	sem  *semaphore.Weighted // nil if unbounded
	used atomic.Int64
}

func newSpaceBudget(limit int64) *spaceBudget {
	b := &spaceBudget{}
	if limit > 0 {
		b.sem = semaphore.NewWeighted(limit)
	}
	return b
}

// Allocator tracks and bounds memory per space. Allocations fail fast
// when a budget is exhausted, which is also the fault-injection point for
// construction-rollback tests.
type Allocator struct {
	host        *spaceBudget
	gpus        []*spaceBudget
	copyLimiter *rate.Limiter
}

// NewAllocator creates an Allocator for the devices in reg.
func NewAllocator(reg *Registry, cfg AllocatorConfig) *Allocator {
	a := &Allocator{
		host: newSpaceBudget(cfg.HostLimitBytes),
		gpus: make([]*spaceBudget, reg.GPUCount()),
	}
	for i := range a.gpus {
		a.gpus[i] = newSpaceBudget(cfg.GPULimitBytes)
	}
	if cfg.CopyBytesPerSec > 0 {
		a.copyLimiter = rate.NewLimiter(rate.Limit(cfg.CopyBytesPerSec), int(cfg.CopyBytesPerSec))
	}
	return a
}

func (a *Allocator) budget(s Space) (*spaceBudget, error) {
	if s.Kind == KindCPU {
		if s.Ordinal != 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSpace, s)
		}
		return a.host, nil
	}
	if s.Ordinal < 0 || s.Ordinal >= len(a.gpus) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSpace, s)
	}
	return a.gpus[s.Ordinal], nil
}

// Alloc reserves n bytes in space s. The returned Buffer must be
// released exactly once.
func (a *Allocator) Alloc(s Space, n int64) (*Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("device: negative allocation size %d", n)
	}
	b, err := a.budget(s)
	if err != nil {
		return nil, err
	}
	if b.sem != nil && !b.sem.TryAcquire(n) {
		return nil, fmt.Errorf("%w: %d bytes in %s (in use: %d)",
			ErrOutOfMemory, n, s, b.used.Load())
	}
	b.used.Add(n)
	return &Buffer{alloc: a, space: s, size: n}, nil
}

// Usage returns the bytes currently reserved in space s, or 0 for an
// unknown space.
func (a *Allocator) Usage(s Space) int64 {
	b, err := a.budget(s)
	if err != nil {
		return 0
	}
	return b.used.Load()
}

// TotalUsage returns the bytes reserved across all spaces.
func (a *Allocator) TotalUsage() int64 {
	total := a.host.used.Load()
	for _, g := range a.gpus {
		total += g.used.Load()
	}
	return total
}

// Copy moves bytes between buffers' backing slices. Same-space copies are
// plain memory moves; cross-space copies are throttled when a copy limit
// is configured. Returns the number of bytes copied.
func (a *Allocator) Copy(ctx context.Context, dst, src []byte, dstSpace, srcSpace Space) (int, error) {
	n := min(len(dst), len(src))
	if dstSpace != srcSpace && a.copyLimiter != nil {
		remaining := n
		for remaining > 0 {
			chunk := min(remaining, a.copyLimiter.Burst())
			if err := a.copyLimiter.WaitN(ctx, chunk); err != nil {
				return 0, err
			}
			remaining -= chunk
		}
	}
	return copy(dst, src), nil
}

// Buffer is a reservation handle tagged with the space that owns it.
type Buffer struct {
	alloc    *Allocator
	space    Space
	size     int64
	released atomic.Bool
}

// Space returns the memory space the buffer was allocated in.
func (b *Buffer) Space() Space { return b.space }

// Size returns the buffer's reserved size in bytes.
func (b *Buffer) Size() int64 { return b.size }

// Release returns the reservation to its space's budget. Releasing twice
// is a caller error.
func (b *Buffer) Release() error {
	if !b.released.CompareAndSwap(false, true) {
		return ErrReleased
	}
	budget, err := b.alloc.budget(b.space)
	if err != nil {
		return err
	}
	if budget.sem != nil {
		budget.sem.Release(b.size)
	}
	budget.used.Add(-b.size)
	return nil
}

// Make reserves room for n elements of T in space s and returns the
// backing slice together with its reservation.
func Make[T any](a *Allocator, s Space, n int) ([]T, *Buffer, error) {
	var elem T
	buf, err := a.Alloc(s, int64(n)*int64(unsafe.Sizeof(elem)))
	if err != nil {
		return nil, nil, err
	}
	return make([]T, n), buf, nil
}
