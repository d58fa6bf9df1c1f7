package totem

import "errors"

var (
	// ErrAlreadyInitialized is returned by Init on an engine that is
	// already INITIALIZED. The call has no side effects.
	ErrAlreadyInitialized = errors.New("totem: engine already initialized")

	// ErrNotInitialized is returned by Finalize, RunSuperstep, and the
	// partition queries while the engine is UNINITIALIZED.
	ErrNotInitialized = errors.New("totem: engine not initialized")

	// ErrEngineActive is returned by Init when another engine instance
	// is initialized in this process.
	ErrEngineActive = errors.New("totem: another engine instance is active")

	// ErrNilGraph is returned by Init when no graph is given.
	ErrNilGraph = errors.New("totem: nil graph")

	// ErrInvalidPlatform is returned for a platform outside the enum.
	ErrInvalidPlatform = errors.New("totem: invalid platform")

	// ErrInvalidAlgorithm is returned for a partitioning algorithm
	// outside the enum.
	ErrInvalidAlgorithm = errors.New("totem: invalid partitioning algorithm")

	// ErrInvalidGPUCount is returned when the configured GPU count is
	// zero on a GPU platform or exceeds the available devices.
	ErrInvalidGPUCount = errors.New("totem: invalid gpu count")

	// ErrInvalidShare is returned when the CPU edge share is outside [0,1].
	ErrInvalidShare = errors.New("totem: cpu share outside [0,1]")

	// ErrInvalidMemMode is returned for a GPU memory mode outside the enum.
	ErrInvalidMemMode = errors.New("totem: invalid gpu memory mode")

	// ErrInvalidMsgSize is returned for a negative message bit width.
	ErrInvalidMsgSize = errors.New("totem: negative message size")

	// ErrBadPartition is returned by queries for a partition id outside
	// [0, PartitionCount).
	ErrBadPartition = errors.New("totem: partition id out of range")

	// ErrNilCompute is returned by RunSuperstep without a compute function.
	ErrNilCompute = errors.New("totem: nil compute function")
)
