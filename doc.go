// Package totem is a hybrid CPU+GPU graph-processing engine core.
//
// A single input graph is split into partitions, one per compute unit:
// one CPU partition plus one per GPU. Each partition is renumbered into a
// locally contiguous vertex-id space, and edges pointing into another
// partition carry that partition's tag in the high bits of the target id
// (see the vid package), so remote neighbors are detectable without a
// global lookup.
//
// The engine owns the partitioning lifecycle. Init validates the
// configuration, derives the partition count and per-partition edge
// shares from the platform policy, runs the partitioner and the set
// builder, attaches algorithm state through the configured hooks, and
// sizes push/pull message buffers once from remote vertex counts.
// Finalize tears everything down in reverse.
//
//	e := totem.New(totem.WithDevices(device.NewRegistry(2)))
//	cfg := totem.DefaultConfig()
//	cfg.Platform = totem.PlatformHybrid
//	cfg.GPUCount = 2
//	if err := e.Init(g, cfg); err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Finalize()
//
// Algorithms drive iterations through RunSuperstep: the compute function
// runs once per partition, concurrently, with a hard barrier before the
// communication phase (scatter in push mode, gather in pull mode).
// Timing for engine and algorithm phases accumulates in a timing.Registry
// available via Timing().
//
// The numeric algorithms themselves, graph loading, and kernel execution
// on a real accelerator are external concerns; see the graph, partition,
// device and timing packages for the building blocks this core exposes.
package totem
