package timing

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes a Registry's counters as Prometheus metrics. Register
// it with a prometheus.Registerer to scrape per-phase totals:
//
//	reg := timing.NewRegistry()
//	prometheus.MustRegister(timing.NewCollector(reg))
type Collector struct {
	registry *Registry
	desc     *prometheus.Desc
}

// NewCollector returns a Collector reading from r.
func NewCollector(r *Registry) *Collector {
	return &Collector{
		registry: r,
		desc: prometheus.NewDesc(
			"totem_phase_seconds_total",
			"Accumulated wall-clock time per engine/algorithm phase.",
			[]string{"phase"},
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for p := Phase(0); p < phaseCount; p++ {
		ch <- prometheus.MustNewConstMetric(
			c.desc,
			prometheus.CounterValue,
			c.registry.Get(p).Seconds(),
			p.String(),
		)
	}
}
