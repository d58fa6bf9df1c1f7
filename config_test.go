package totem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/totem/device"
)

func TestConfig_TargetShares(t *testing.T) {
	t.Run("HybridSplitsRemainderAcrossGPUs", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GPUCount = 2
		cfg.CPUShare = 0.4

		shares := cfg.targetShares(3)
		require.Len(t, shares, 3)
		assert.InDelta(t, 0.4, shares[0], 1e-9)
		assert.InDelta(t, 0.3, shares[1], 1e-9)
		assert.InDelta(t, 0.3, shares[2], 1e-9)
	})

	t.Run("ZeroShareMeansEqualSplit", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CPUShare = 0
		assert.Nil(t, cfg.targetShares(2))
	})

	t.Run("NonHybridIgnoresShare", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Platform = PlatformGPU
		cfg.GPUCount = 2
		assert.Nil(t, cfg.targetShares(2))
	})
}

func TestConfig_PartitionSpaces(t *testing.T) {
	t.Run("DeviceMode", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GPUCount = 2
		spaces := cfg.partitionSpaces(3)
		assert.Equal(t, []device.Space{device.Host, device.GPU(0), device.GPU(1)}, spaces)
	})

	t.Run("MappedModeBacksGPUsWithHostMemory", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GPUCount = 2
		cfg.GPUMemMode = device.MemMapped
		spaces := cfg.partitionSpaces(3)
		assert.Equal(t, []device.Space{device.Host, device.Host, device.Host}, spaces)
	})

	t.Run("GPUPlatform", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Platform = PlatformGPU
		cfg.GPUCount = 2
		spaces := cfg.partitionSpaces(2)
		assert.Equal(t, []device.Space{device.GPU(0), device.GPU(1)}, spaces)
	})
}

func TestConfig_GPUPartitions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GPUCount = 3
	assert.Equal(t, []uint32{1, 2, 3}, cfg.gpuPartitions(4))

	cfg.Platform = PlatformGPU
	assert.Equal(t, []uint32{0, 1, 2}, cfg.gpuPartitions(3))

	cfg.Platform = PlatformCPU
	assert.Nil(t, cfg.gpuPartitions(1))
}
