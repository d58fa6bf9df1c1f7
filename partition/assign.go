package partition

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/hupe1980/totem/graph"
	"github.com/hupe1980/totem/vid"
)

// Order selects the direction of a degree-sorted assignment.
type Order int

const (
	// Ascending assigns low-degree vertices first.
	Ascending Order = iota
	// Descending assigns high-degree vertices first.
	Descending
)

func validateAssign(g *graph.Graph, partitionCount int) error {
	if g == nil {
		return ErrNilGraph
	}
	if partitionCount < 1 || partitionCount > vid.MaxPartitionCount {
		return fmt.Errorf("%w: %d", ErrInvalidPartitionCount, partitionCount)
	}
	return nil
}

// AssignRandom labels every vertex with a partition chosen independently
// and uniformly at random. The sequence is fully determined by seed: the
// same seed and graph always produce an identical labels array.
func AssignRandom(g *graph.Graph, partitionCount int, seed uint64) ([]uint32, error) {
	if err := validateAssign(g, partitionCount); err != nil {
		return nil, err
	}

	r := rand.New(rand.NewPCG(seed, seed))
	labels := make([]uint32, g.VertexCount())
	for i := range labels {
		labels[i] = uint32(r.IntN(partitionCount))
	}
	return labels, nil
}

// AssignSortedByDegree orders vertices by out-degree and hands contiguous
// runs of the sorted order to partitions sized so that cumulative edge
// counts approximate the target shares. Random vertex-count balancing
// does not balance edge counts on skewed degree distributions; this does.
//
// shares holds one target edge fraction per partition and must sum to 1;
// nil means an equal split.
func AssignSortedByDegree(g *graph.Graph, partitionCount int, order Order, shares []float64) ([]uint32, error) {
	if err := validateAssign(g, partitionCount); err != nil {
		return nil, err
	}
	shares, err := normalizeShares(shares, partitionCount)
	if err != nil {
		return nil, err
	}

	n := g.VertexCount()
	byDegree := make([]uint32, n)
	for v := range byDegree {
		byDegree[v] = uint32(v)
	}
	slices.SortStableFunc(byDegree, func(a, b uint32) int {
		da, db := g.Degree(a), g.Degree(b)
		if da != db {
			if order == Ascending {
				if da < db {
					return -1
				}
				return 1
			}
			if da > db {
				return -1
			}
			return 1
		}
		// Tie-break on id for determinism.
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
		return 0
	})

	// Cumulative edge targets per partition boundary.
	targets := make([]uint64, partitionCount)
	var cum float64
	for p, share := range shares {
		cum += share
		targets[p] = uint64(math.Round(cum * float64(g.EdgeCount())))
	}
	targets[partitionCount-1] = g.EdgeCount()

	labels := make([]uint32, n)
	var assigned uint64
	p := 0
	for _, v := range byDegree {
		for p < partitionCount-1 && assigned >= targets[p] {
			p++
		}
		labels[v] = uint32(p)
		assigned += g.Degree(v)
	}
	return labels, nil
}

func normalizeShares(shares []float64, partitionCount int) ([]float64, error) {
	if shares == nil {
		shares = make([]float64, partitionCount)
		for p := range shares {
			shares[p] = 1 / float64(partitionCount)
		}
		return shares, nil
	}
	if len(shares) != partitionCount {
		return nil, fmt.Errorf("%w: %d shares for %d partitions",
			ErrInvalidShares, len(shares), partitionCount)
	}
	var sum float64
	for _, s := range shares {
		if s < 0 || s > 1 {
			return nil, fmt.Errorf("%w: share %v outside [0,1]", ErrInvalidShares, s)
		}
		sum += s
	}
	if math.Abs(sum-1) > 1e-6 {
		return nil, fmt.Errorf("%w: shares sum to %v", ErrInvalidShares, sum)
	}
	return shares, nil
}

// ShuffleAcross redistributes labels among the named partitions without
// changing any partition's cardinality. The engine uses it to randomize
// vertex placement across GPU partitions independent of the chosen
// assignment algorithm, reducing within-partition locality skew.
func ShuffleAcross(labels []uint32, pids []uint32, seed uint64) {
	var member [vid.MaxPartitionCount]bool
	for _, pid := range pids {
		if int(pid) < len(member) {
			member[pid] = true
		}
	}

	var positions []int
	for i, l := range labels {
		if int(l) < len(member) && member[l] {
			positions = append(positions, i)
		}
	}

	vals := make([]uint32, len(positions))
	for i, pos := range positions {
		vals[i] = labels[pos]
	}

	r := rand.New(rand.NewPCG(seed, seed))
	r.Shuffle(len(vals), func(i, j int) {
		vals[i], vals[j] = vals[j], vals[i]
	})

	for i, pos := range positions {
		labels[pos] = vals[i]
	}
}
