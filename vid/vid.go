// Package vid defines the partitioned vertex identifier used on every
// edge-traversal hot path.
//
// A VID folds a partition tag into the high-order bits of a 32-bit vertex
// id. Entries in a partition's edges array use this encoding so that a
// remote neighbor is detectable by inspecting the tag alone, with no
// global lookup.
package vid

// PartitionBits is the number of high-order bits reserved for the
// partition tag.
const PartitionBits = 2

// MaxPartitionCount is the maximum number of partitions addressable by a
// tag: 1 << PartitionBits.
const MaxPartitionCount = 1 << PartitionBits

// LocalBits is the number of low-order bits available for the local
// vertex id within a partition.
const LocalBits = 32 - PartitionBits

// MaxLocal is the largest local vertex id a VID can carry. A partition's
// vertex count must not exceed MaxLocal+1; this bounds per-partition size,
// not the size of the whole graph.
const MaxLocal = VID(1)<<LocalBits - 1

// VID is a vertex identifier with the owning partition's tag encoded in
// its top PartitionBits bits and a partition-local id in the rest.
type VID uint32

// Encode returns a VID carrying local in the low bits and pid in the tag
// bits. local must be <= MaxLocal and pid < MaxPartitionCount; both are
// validated at the construction boundaries, not here.
func Encode(local VID, pid uint32) VID {
	return local | VID(pid)<<LocalBits
}

// Partition returns the partition tag encoded in v.
func (v VID) Partition() uint32 {
	return uint32(v >> LocalBits)
}

// Local returns the partition-local id encoded in v.
func (v VID) Local() VID {
	return v & MaxLocal
}
