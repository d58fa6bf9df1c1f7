package vid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	locals := []VID{0, 1, 2, 7, 1023, 1 << 20, MaxLocal - 1, MaxLocal}

	for pid := uint32(0); pid < MaxPartitionCount; pid++ {
		for _, local := range locals {
			v := Encode(local, pid)
			assert.Equal(t, pid, v.Partition())
			assert.Equal(t, local, v.Local())
		}
	}
}

func TestConstants(t *testing.T) {
	require.Equal(t, 4, MaxPartitionCount)
	require.Equal(t, 30, LocalBits)
	require.Equal(t, VID(1<<30-1), MaxLocal)
}

func TestEncodeZeroTagIsIdentity(t *testing.T) {
	// Tag 0 leaves the id untouched, so untagged local ids and
	// partition-0 encoded ids are the same value.
	for _, local := range []VID{0, 42, MaxLocal} {
		assert.Equal(t, local, Encode(local, 0))
	}
}

func TestTagOccupiesHighBits(t *testing.T) {
	v := Encode(0, 3)
	assert.Equal(t, VID(0xC0000000), v)
	assert.Equal(t, VID(0), v.Local())
}
