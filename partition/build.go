package partition

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/totem/device"
	"github.com/hupe1980/totem/graph"
	"github.com/hupe1980/totem/vid"
)

type buildOptions struct {
	alloc  *device.Allocator
	spaces []device.Space
}

// BuildOption configures BuildSet.
type BuildOption func(*buildOptions)

// WithAllocator places partition arrays through the given allocator. The
// default is an unbounded allocator over the host and all GPU ordinals.
func WithAllocator(a *device.Allocator) BuildOption {
	return func(o *buildOptions) {
		if a != nil {
			o.alloc = a
		}
	}
}

// WithSpaces assigns each partition's arrays to a memory space, one entry
// per partition. The default is host memory for every partition.
func WithSpaces(spaces []device.Space) BuildOption {
	return func(o *buildOptions) {
		o.spaces = spaces
	}
}

// BuildSet constructs a partition set from a vertex-to-partition
// assignment. Vertices labeled for a partition are renumbered into a
// dense local id space in increasing order of first occurrence, and every
// edge target is rewritten to carry its owning partition's tag, so any
// partition detects a remote neighbor from the tag alone.
//
// Construction is all-or-nothing: on any failure every array allocated so
// far is released and no partially built set is observable.
func BuildSet(g *graph.Graph, labels []uint32, partitionCount int, opts ...BuildOption) (*Set, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if partitionCount < 1 || partitionCount > vid.MaxPartitionCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPartitionCount, partitionCount)
	}
	n := g.VertexCount()
	if len(labels) != int(n) {
		return nil, fmt.Errorf("%w: %d labels for %d vertices", ErrLabelCount, len(labels), n)
	}
	for v, l := range labels {
		if int(l) >= partitionCount {
			return nil, fmt.Errorf("%w: vertex %d labeled %d of %d", ErrLabelRange, v, l, partitionCount)
		}
	}

	o := buildOptions{
		alloc: device.NewAllocator(device.NewRegistry(vid.MaxPartitionCount), device.AllocatorConfig{}),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.spaces == nil {
		o.spaces = make([]device.Space, partitionCount)
	}
	if len(o.spaces) != partitionCount {
		return nil, fmt.Errorf("partition: %d spaces for %d partitions", len(o.spaces), partitionCount)
	}

	// Size every partition before allocating anything.
	vcount := make([]uint32, partitionCount)
	ecount := make([]uint64, partitionCount)
	for v := uint32(0); v < n; v++ {
		p := labels[v]
		vcount[p]++
		ecount[p] += g.Degree(v)
	}
	for p, vc := range vcount {
		if uint64(vc) > uint64(vid.MaxLocal)+1 {
			return nil, fmt.Errorf("%w: partition %d has %d vertices", ErrTooLarge, p, vc)
		}
	}

	set := &Set{
		Graph:      g,
		Weighted:   g.Weighted(),
		Partitions: make([]Partition, partitionCount),
	}
	rollback := func(err error) (*Set, error) {
		for i := range set.Partitions {
			for _, b := range set.Partitions[i].buffers {
				b.Release() //nolint:errcheck // already failing
			}
		}
		return nil, err
	}

	for p := range set.Partitions {
		par := &set.Partitions[p]
		par.ID = uint32(p)
		par.Space = o.spaces[p]
		par.VertexCount = vcount[p]
		par.EdgeCount = ecount[p]

		var buf *device.Buffer
		var err error
		if par.Vertices, buf, err = device.Make[uint64](o.alloc, par.Space, int(vcount[p])+1); err != nil {
			return rollback(err)
		}
		par.buffers = append(par.buffers, buf)

		if par.Edges, buf, err = device.Make[vid.VID](o.alloc, par.Space, int(ecount[p])); err != nil {
			return rollback(err)
		}
		par.buffers = append(par.buffers, buf)

		if set.Weighted {
			if par.Weights, buf, err = device.Make[float32](o.alloc, par.Space, int(ecount[p])); err != nil {
				return rollback(err)
			}
			par.buffers = append(par.buffers, buf)
		}
	}

	// Global to local remap: local ids follow first occurrence in global
	// scan order, yielding a dense [0, vcount) range per partition.
	localOf := make([]vid.VID, n)
	next := make([]uint32, partitionCount)
	for v := uint32(0); v < n; v++ {
		p := labels[v]
		localOf[v] = vid.VID(next[p])
		next[p]++
	}

	// Fill offsets and rewrite edge targets. The scan visits each
	// partition's vertices in local id order, so offsets grow in place.
	cursor := make([]uint64, partitionCount)
	for v := uint32(0); v < n; v++ {
		p := labels[v]
		par := &set.Partitions[p]
		par.Vertices[localOf[v]] = cursor[p]

		nbrs := g.Neighbors(v)
		weights := g.EdgeWeights(v)
		for j, u := range nbrs {
			par.Edges[cursor[p]] = vid.Encode(localOf[u], labels[u])
			if set.Weighted {
				par.Weights[cursor[p]] = weights[j]
			}
			cursor[p]++
		}
	}
	for p := range set.Partitions {
		par := &set.Partitions[p]
		par.Vertices[par.VertexCount] = cursor[p]
		if cursor[p] != par.EdgeCount {
			return rollback(fmt.Errorf("partition: %d edges written to partition %d, expected %d",
				cursor[p], p, par.EdgeCount))
		}
	}

	// Remote counts: one scan over each partition's rewritten edges.
	for p := range set.Partitions {
		par := &set.Partitions[p]
		remote := roaring.New()
		for _, e := range par.Edges {
			if e.Partition() != par.ID {
				par.RmtEdgeCount++
				remote.Add(uint32(e))
			}
		}
		par.RmtVertexCount = uint32(remote.GetCardinality())
	}

	return set, nil
}
