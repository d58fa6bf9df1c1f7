package partition

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/totem/graph"
	"github.com/hupe1980/totem/vid"
)

// Report summarizes how evenly an assignment spreads load across
// partitions. Edge share dominates compute and communication cost, so it
// is the figure the engine logs after partitioning.
type Report struct {
	// VertexShare is each partition's fraction of the graph's vertices.
	VertexShare []float64

	// EdgeShare is each partition's fraction of the graph's edges.
	EdgeShare []float64

	// EdgeStdDev is the standard deviation of EdgeShare.
	EdgeStdDev float64

	// Imbalance is the largest edge share divided by the ideal equal
	// share; 1 means perfectly balanced.
	Imbalance float64
}

// Balance computes a load report for the given assignment.
func Balance(g *graph.Graph, labels []uint32, partitionCount int) (Report, error) {
	if g == nil {
		return Report{}, ErrNilGraph
	}
	if partitionCount < 1 || partitionCount > vid.MaxPartitionCount {
		return Report{}, fmt.Errorf("%w: %d", ErrInvalidPartitionCount, partitionCount)
	}
	if len(labels) != int(g.VertexCount()) {
		return Report{}, ErrLabelCount
	}

	vertices := make([]float64, partitionCount)
	edges := make([]float64, partitionCount)
	for v := uint32(0); v < g.VertexCount(); v++ {
		p := labels[v]
		if int(p) >= partitionCount {
			return Report{}, ErrLabelRange
		}
		vertices[p]++
		edges[p] += float64(g.Degree(v))
	}

	r := Report{
		VertexShare: vertices,
		EdgeShare:   edges,
	}
	if g.VertexCount() > 0 {
		for p := range vertices {
			vertices[p] /= float64(g.VertexCount())
		}
	}
	var maxShare float64
	if g.EdgeCount() > 0 {
		for p := range edges {
			edges[p] /= float64(g.EdgeCount())
			maxShare = max(maxShare, edges[p])
		}
	}
	r.EdgeStdDev = stat.StdDev(edges, nil)
	r.Imbalance = maxShare * float64(partitionCount)
	return r, nil
}
