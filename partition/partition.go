// Package partition implements partition assignment and partition-set
// construction for hybrid CPU+GPU graph processing.
//
// A graph is split into at most vid.MaxPartitionCount partitions, one per
// compute unit. Each partition's vertices are renumbered into a dense
// local id space and its edges array stores vid-encoded targets, so a
// remote neighbor is detectable from the partition tag alone.
package partition

import (
	"errors"
	"sync/atomic"

	"github.com/hupe1980/totem/device"
	"github.com/hupe1980/totem/graph"
	"github.com/hupe1980/totem/vid"
)

var (
	// ErrInvalidPartitionCount is returned when the partition count is
	// outside [1, vid.MaxPartitionCount].
	ErrInvalidPartitionCount = errors.New("partition: invalid partition count")

	// ErrNilGraph is returned when no input graph is given.
	ErrNilGraph = errors.New("partition: nil graph")

	// ErrLabelCount is returned when the labels array does not have one
	// entry per vertex.
	ErrLabelCount = errors.New("partition: labels length mismatch")

	// ErrLabelRange is returned when a label names a partition outside
	// the requested count.
	ErrLabelRange = errors.New("partition: label out of range")

	// ErrTooLarge is returned when a partition's vertex count exceeds
	// the local-id bit budget. Oversized partitions are rejected, never
	// silently truncated.
	ErrTooLarge = errors.New("partition: vertex count exceeds local id capacity")

	// ErrDestroyed is returned when a Set is destroyed twice.
	ErrDestroyed = errors.New("partition: set already destroyed")

	// ErrInvalidShares is returned when target edge shares are malformed.
	ErrInvalidShares = errors.New("partition: invalid edge shares")
)

// Partition is one compute unit's subgraph in CSR form. Local vertex ids
// owned by the partition are a dense [0, VertexCount) range; entries in
// Edges carry the target's partition tag in their high bits and the
// target's local id, in the target partition's own namespace, in the low
// bits.
type Partition struct {
	// ID is the partition's tag, also encoded into edges that point at it.
	ID uint32

	// Space is the memory space the partition's arrays are allocated in.
	Space device.Space

	// Vertices is the CSR offsets array, length VertexCount+1.
	Vertices []uint64

	// Edges holds vid-encoded targets, length EdgeCount.
	Edges []vid.VID

	// Weights is aligned with Edges; nil unless the set is weighted.
	Weights []float32

	// VertexCount is the number of vertices owned by the partition.
	VertexCount uint32

	// EdgeCount is the number of edges originating in the partition.
	EdgeCount uint64

	// RmtVertexCount is the number of distinct vertices in other
	// partitions referenced by this partition's edges.
	RmtVertexCount uint32

	// RmtEdgeCount is the number of edges whose target tag differs from ID.
	RmtEdgeCount uint64

	// State is algorithm-specific per-partition state, attached and
	// detached through the engine's partition hooks.
	State any

	buffers []*device.Buffer
}

// Remote reports whether the encoded target v lies outside this partition.
func (p *Partition) Remote(v vid.VID) bool {
	return v.Partition() != p.ID
}

// Set is a fixed collection of partitions built from one source graph.
// It owns every partition's arrays; the graph is borrowed.
type Set struct {
	// Graph is the source graph the set was built from.
	Graph *graph.Graph

	// Weighted indicates whether partitions carry edge weights.
	Weighted bool

	// Partitions holds the partitions, indexed by tag.
	Partitions []Partition

	destroyed atomic.Bool
}

// Count returns the number of partitions in the set.
func (s *Set) Count() int {
	return len(s.Partitions)
}

// Destroy releases every partition's arrays back to their owning memory
// spaces. It must be called exactly once per successful BuildSet; a
// second call is a caller error, not a no-op.
func (s *Set) Destroy() error {
	if !s.destroyed.CompareAndSwap(false, true) {
		return ErrDestroyed
	}

	var firstErr error
	for i := range s.Partitions {
		p := &s.Partitions[i]
		for _, b := range p.buffers {
			if err := b.Release(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		// Drop the arrays so use-after-destroy fails loudly.
		p.buffers = nil
		p.Vertices = nil
		p.Edges = nil
		p.Weights = nil
	}
	s.Partitions = nil
	return firstErr
}
