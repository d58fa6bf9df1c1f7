// Package graph provides the immutable CSR adjacency structure consumed
// by the partitioning core.
//
// A Graph is built once by the caller (typically a loader outside this
// module) and only read during partitioning. The offsets array has one
// entry per vertex plus a sentinel; entry i gives the starting index into
// the edges array for vertex i's adjacency list, entry i+1 the end.
package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrBadOffsets is returned when the offsets array is missing,
	// decreasing, or does not end at the edge count.
	ErrBadOffsets = errors.New("graph: malformed offsets array")

	// ErrBadTarget is returned when an edge references a vertex outside
	// the graph.
	ErrBadTarget = errors.New("graph: edge target out of range")

	// ErrBadWeights is returned when the weights array length does not
	// match the edges array.
	ErrBadWeights = errors.New("graph: weights length mismatch")
)

// Graph is an immutable directed graph in CSR form. The zero value is not
// usable; construct with New or FromAdjacency.
type Graph struct {
	offsets []uint64
	edges   []uint32
	weights []float32
}

// New validates the given CSR arrays and wraps them in a Graph. The
// arrays are borrowed, not copied; the caller must not mutate them while
// the Graph is in use. weights may be nil for an unweighted graph.
func New(offsets []uint64, edges []uint32, weights []float32) (*Graph, error) {
	if len(offsets) < 1 || offsets[0] != 0 {
		return nil, ErrBadOffsets
	}
	if offsets[len(offsets)-1] != uint64(len(edges)) {
		return nil, fmt.Errorf("%w: last offset %d, edge count %d",
			ErrBadOffsets, offsets[len(offsets)-1], len(edges))
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, fmt.Errorf("%w: offsets[%d] decreases", ErrBadOffsets, i)
		}
	}

	n := uint32(len(offsets) - 1)
	for i, target := range edges {
		if target >= n {
			return nil, fmt.Errorf("%w: edges[%d] = %d, vertex count %d",
				ErrBadTarget, i, target, n)
		}
	}

	if weights != nil && len(weights) != len(edges) {
		return nil, fmt.Errorf("%w: %d weights for %d edges",
			ErrBadWeights, len(weights), len(edges))
	}

	return &Graph{offsets: offsets, edges: edges, weights: weights}, nil
}

// FromAdjacency flattens an adjacency list into CSR form. Intended for
// tests and small in-process graphs.
func FromAdjacency(adj [][]uint32) (*Graph, error) {
	offsets := make([]uint64, len(adj)+1)
	var edgeCount int
	for i, nbrs := range adj {
		edgeCount += len(nbrs)
		offsets[i+1] = offsets[i] + uint64(len(nbrs))
	}
	edges := make([]uint32, 0, edgeCount)
	for _, nbrs := range adj {
		edges = append(edges, nbrs...)
	}
	return New(offsets, edges, nil)
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() uint32 {
	return uint32(len(g.offsets) - 1)
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() uint64 {
	return uint64(len(g.edges))
}

// Weighted reports whether the graph carries per-edge weights.
func (g *Graph) Weighted() bool {
	return g.weights != nil
}

// Degree returns the out-degree of vertex v.
func (g *Graph) Degree(v uint32) uint64 {
	return g.offsets[v+1] - g.offsets[v]
}

// Neighbors returns a read-only view of vertex v's adjacency list.
func (g *Graph) Neighbors(v uint32) []uint32 {
	return g.edges[g.offsets[v]:g.offsets[v+1]]
}

// EdgeWeights returns the weights of vertex v's out-edges, aligned with
// Neighbors. Returns nil for unweighted graphs.
func (g *Graph) EdgeWeights(v uint32) []float32 {
	if g.weights == nil {
		return nil
	}
	return g.weights[g.offsets[v]:g.offsets[v+1]]
}
