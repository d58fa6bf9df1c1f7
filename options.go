package totem

import (
	"log/slog"

	"github.com/hupe1980/totem/device"
	"github.com/hupe1980/totem/timing"
)

// Assignment seed used when WithSeed is not given; a fixed seed keeps
// partitioning reproducible run to run.
const defaultSeed uint64 = 42

type options struct {
	logger      *Logger
	devices     *device.Registry
	allocConfig device.AllocatorConfig
	timing      *timing.Registry
	seed        uint64
}

// Option configures engine construction behavior. The partitioning
// attributes themselves live in Config, passed to Init; options cover the
// engine-wide concerns that outlive one init/finalize round.
type Option func(*options)

// WithLogger configures structured logging for engine operations. The
// default discards all output.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLogLevel creates a text logger with the specified level and sets
// it. Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithDevices configures the available device set. The default probes
// the environment via device.Detect.
func WithDevices(reg *device.Registry) Option {
	return func(o *options) {
		if reg != nil {
			o.devices = reg
		}
	}
}

// WithAllocatorConfig bounds per-space memory budgets and cross-space
// copy throughput. The default is unbounded.
func WithAllocatorConfig(cfg device.AllocatorConfig) Option {
	return func(o *options) {
		o.allocConfig = cfg
	}
}

// WithTimingRegistry shares a timing registry with the engine, for
// callers that aggregate timings across engines or export them. The
// default is a fresh registry.
func WithTimingRegistry(r *timing.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.timing = r
		}
	}
}

// WithSeed seeds the pseudorandom sequences used by random assignment
// and GPU placement shuffling. The same seed and graph produce identical
// partitions.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger: NoopLogger(),
		seed:   defaultSeed,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.devices == nil {
		o.devices = device.Detect()
	}
	if o.timing == nil {
		o.timing = timing.NewRegistry()
	}
	return o
}
