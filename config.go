package totem

import (
	"fmt"

	"github.com/hupe1980/totem/device"
	"github.com/hupe1980/totem/partition"
)

// Platform selects the compute units the engine partitions across.
type Platform int

const (
	// PlatformCPU executes on the CPU only.
	PlatformCPU Platform = iota
	// PlatformGPU executes on GPUs only.
	PlatformGPU
	// PlatformHybrid executes on the CPU and the GPUs.
	PlatformHybrid
)

// String implements fmt.Stringer.
func (p Platform) String() string {
	switch p {
	case PlatformCPU:
		return "cpu"
	case PlatformGPU:
		return "gpu"
	case PlatformHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// Algorithm selects the partition-assignment strategy.
type Algorithm int

const (
	// AlgorithmRandom assigns vertices uniformly at random.
	AlgorithmRandom Algorithm = iota
	// AlgorithmSortedAscending buckets vertices sorted by ascending degree.
	AlgorithmSortedAscending
	// AlgorithmSortedDescending buckets vertices sorted by descending degree.
	AlgorithmSortedDescending
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmRandom:
		return "random"
	case AlgorithmSortedAscending:
		return "sorted-asc"
	case AlgorithmSortedDescending:
		return "sorted-dsc"
	default:
		return "unknown"
	}
}

// Message bit widths for the communication modes. A width of zero
// disables that mode.
const (
	MsgSizeZero = 0
	MsgSizeWord = 32
)

// PartitionHooks lets the algorithm layer attach and detach its own
// per-partition state around the engine lifecycle. The engine calls
// OnPartitionAllocate once per partition, in partition order, at the end
// of Init, and OnPartitionFree in reverse order during Finalize.
type PartitionHooks interface {
	// OnPartitionAllocate attaches algorithm state to p. Returning an
	// error aborts Init; hooks already run are freed in reverse order
	// and no engine state is retained.
	OnPartitionAllocate(p *partition.Partition) error

	// OnPartitionFree releases whatever OnPartitionAllocate attached.
	OnPartitionFree(p *partition.Partition)
}

// Config defines the attributes used to initialize the engine.
type Config struct {
	// Algorithm is the CPU-GPU partitioning strategy.
	Algorithm Algorithm

	// Platform is the execution platform.
	Platform Platform

	// GPUCount is the number of GPUs to use. Forced to zero on the CPU
	// platform.
	GPUCount int

	// GPUMemMode determines the memory used to place GPU partitions'
	// graph arrays.
	GPUMemMode device.MemMode

	// GPURandomized shuffles vertex placement across GPU partitions
	// independent of the chosen algorithm.
	GPURandomized bool

	// CPUShare is the fraction of edges assigned to the CPU partition,
	// in [0,1]. Relevant on the hybrid platform only; the GPUs split the
	// remainder evenly. Zero means an equal split across all partitions.
	CPUShare float64

	// PushMsgBits is the push (scatter) message size in bits; zero
	// disables push communication.
	PushMsgBits int

	// PullMsgBits is the pull (gather) message size in bits; zero
	// disables pull communication.
	PullMsgBits int

	// Hooks allocates and frees algorithm-specific per-partition state.
	// May be nil.
	Hooks PartitionHooks
}

// DefaultConfig returns the default attributes: hybrid platform with one
// GPU, random 50-50 partitioning, device-resident GPU memory, word-sized
// push messages and zero-sized pull messages.
func DefaultConfig() Config {
	return Config{
		Algorithm:   AlgorithmRandom,
		Platform:    PlatformHybrid,
		GPUCount:    1,
		GPUMemMode:  device.MemDevice,
		CPUShare:    0.5,
		PushMsgBits: MsgSizeWord,
		PullMsgBits: MsgSizeZero,
	}
}

// validate checks cfg against the available devices and returns a
// normalized copy.
func (c Config) validate(devices *device.Registry) (Config, error) {
	switch c.Platform {
	case PlatformCPU:
		c.GPUCount = 0
	case PlatformGPU, PlatformHybrid:
		if c.GPUCount < 1 {
			return c, fmt.Errorf("%w: %d", ErrInvalidGPUCount, c.GPUCount)
		}
		if c.GPUCount > devices.GPUCount() {
			return c, fmt.Errorf("%w: %d requested, %d available",
				ErrInvalidGPUCount, c.GPUCount, devices.GPUCount())
		}
	default:
		return c, fmt.Errorf("%w: %d", ErrInvalidPlatform, c.Platform)
	}

	switch c.Algorithm {
	case AlgorithmRandom, AlgorithmSortedAscending, AlgorithmSortedDescending:
	default:
		return c, fmt.Errorf("%w: %d", ErrInvalidAlgorithm, c.Algorithm)
	}

	switch c.GPUMemMode {
	case device.MemDevice, device.MemMapped, device.MemUnified:
	default:
		return c, fmt.Errorf("%w: %d", ErrInvalidMemMode, c.GPUMemMode)
	}

	if c.CPUShare < 0 || c.CPUShare > 1 {
		return c, fmt.Errorf("%w: %v", ErrInvalidShare, c.CPUShare)
	}
	if c.PushMsgBits < 0 || c.PullMsgBits < 0 {
		return c, ErrInvalidMsgSize
	}
	return c, nil
}

// partitionCount derives the number of partitions: one for the CPU
// platform, one per GPU on the GPU platform, and one extra for the CPU
// on the hybrid platform.
func (c Config) partitionCount() int {
	switch c.Platform {
	case PlatformCPU:
		return 1
	case PlatformGPU:
		return c.GPUCount
	default:
		return c.GPUCount + 1
	}
}

// targetShares derives each partition's target fraction of the graph's
// edges. On the hybrid platform the CPU partition (tag 0) receives
// CPUShare and the GPUs split the remainder evenly; a zero CPUShare
// means an equal split across all partitions. Other platforms always
// split equally. Returns nil for the trivial equal split.
func (c Config) targetShares(count int) []float64 {
	if c.Platform != PlatformHybrid || c.CPUShare == 0 || count < 2 {
		return nil
	}
	shares := make([]float64, count)
	shares[0] = c.CPUShare
	gpuShare := (1 - c.CPUShare) / float64(count-1)
	for p := 1; p < count; p++ {
		shares[p] = gpuShare
	}
	return shares
}

// partitionSpaces maps each partition to the memory space its arrays are
// allocated in. On the hybrid platform, partition 0 is the CPU partition.
// Mapped and unified GPU memory modes are backed by host memory; only
// device mode places arrays in the GPU's own space.
func (c Config) partitionSpaces(count int) []device.Space {
	gpuSpace := func(i int) device.Space {
		if c.GPUMemMode == device.MemDevice {
			return device.GPU(i)
		}
		return device.Host
	}

	spaces := make([]device.Space, count)
	switch c.Platform {
	case PlatformCPU:
		spaces[0] = device.Host
	case PlatformGPU:
		for p := 0; p < count; p++ {
			spaces[p] = gpuSpace(p)
		}
	default:
		spaces[0] = device.Host
		for p := 1; p < count; p++ {
			spaces[p] = gpuSpace(p - 1)
		}
	}
	return spaces
}

// gpuPartitions returns the partition tags that live on GPUs.
func (c Config) gpuPartitions(count int) []uint32 {
	var pids []uint32
	first := 0
	if c.Platform == PlatformHybrid {
		first = 1
	}
	if c.Platform == PlatformCPU {
		return nil
	}
	for p := first; p < count; p++ {
		pids = append(pids, uint32(p))
	}
	return pids
}
