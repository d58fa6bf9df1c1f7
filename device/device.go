// Package device models the heterogeneous memory spaces a partition's
// arrays live in: host memory for the CPU partition, a separate space per
// GPU for the rest.
//
// There is no transparent pointer access across spaces. Every buffer is a
// handle tagged with its owning space, and any cross-space data movement
// goes through an explicit Copy. A real accelerator backend would slot in
// behind Space without changing the partitioning core; in-process, a GPU
// space is a separately-budgeted arena.
package device

import (
	"fmt"
	"os"
	"strconv"
)

// Kind distinguishes the classes of compute devices.
type Kind int

const (
	// KindCPU is the host processor.
	KindCPU Kind = iota
	// KindGPU is a discrete accelerator with its own memory space.
	KindGPU
)

// Space identifies one memory space. The zero value is host memory.
type Space struct {
	Kind    Kind
	Ordinal int
}

// Host is the CPU partition's memory space.
var Host = Space{Kind: KindCPU}

// GPU returns the memory space of the i-th GPU.
func GPU(i int) Space {
	return Space{Kind: KindGPU, Ordinal: i}
}

// String implements fmt.Stringer.
func (s Space) String() string {
	if s.Kind == KindCPU {
		return "host"
	}
	return fmt.Sprintf("gpu%d", s.Ordinal)
}

// MemMode selects where a GPU partition's graph arrays are placed.
type MemMode int

const (
	// MemDevice places GPU partition arrays in device memory.
	MemDevice MemMode = iota
	// MemMapped places GPU partition arrays in host memory mapped into
	// the device's address space.
	MemMapped
	// MemUnified places GPU partition arrays in unified memory managed
	// by the driver.
	MemUnified
)

// GPUCountEnv overrides the detected GPU count when set.
const GPUCountEnv = "TOTEM_GPU_COUNT"

// Registry describes the compute devices available to the engine.
type Registry struct {
	gpuCount int
}

// NewRegistry returns a Registry with the given number of GPUs in
// addition to the host.
func NewRegistry(gpuCount int) *Registry {
	if gpuCount < 0 {
		gpuCount = 0
	}
	return &Registry{gpuCount: gpuCount}
}

// Detect probes the environment for the available device set. With no
// backend to enumerate it honors GPUCountEnv and otherwise assumes a
// single GPU.
func Detect() *Registry {
	if v, ok := os.LookupEnv(GPUCountEnv); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return NewRegistry(n)
		}
	}
	return NewRegistry(1)
}

// GPUCount returns the number of available GPUs.
func (r *Registry) GPUCount() int {
	return r.gpuCount
}

// Has reports whether s exists in this registry.
func (r *Registry) Has(s Space) bool {
	if s.Kind == KindCPU {
		return s.Ordinal == 0
	}
	return s.Ordinal >= 0 && s.Ordinal < r.gpuCount
}
