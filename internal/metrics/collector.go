package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus series for one simulation process. All
// methods are safe on a nil receiver so the engine can run without it.
type Collector struct {
	registry       *prometheus.Registry
	stepsTotal     prometheus.Counter
	invalidSteps   prometheus.Counter
	snapshotsTotal prometheus.Counter
	fps            prometheus.Gauge
	energyDrift    prometheus.Gauge
	planetDistance prometheus.Gauge
	oracleConsults *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		stepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trisolaris_steps_total",
			Help: "Integrator steps taken",
		}),
		invalidSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trisolaris_invalid_steps_total",
			Help: "Steps that produced a non-finite body state",
		}),
		snapshotsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trisolaris_snapshots_published_total",
			Help: "Body snapshots handed to observers",
		}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trisolaris_fps",
			Help: "Frame rate estimated from the last tick interval",
		}),
		energyDrift: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trisolaris_energy_drift",
			Help: "Maximum relative energy drift since the last reset",
		}),
		planetDistance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "trisolaris_planet_distance",
			Help: "Distance from the planet to the suns' barycenter",
		}),
		oracleConsults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trisolaris_oracle_consults_total",
			Help: "Oracle consultations by outcome",
		}, []string{"result"}),
	}

	c.registry.MustRegister(
		c.stepsTotal,
		c.invalidSteps,
		c.snapshotsTotal,
		c.fps,
		c.energyDrift,
		c.planetDistance,
		c.oracleConsults,
	)
	return c
}

func (c *Collector) RecordStep(valid bool) {
	if c == nil {
		return
	}
	c.stepsTotal.Inc()
	if !valid {
		c.invalidSteps.Inc()
	}
}

func (c *Collector) RecordSnapshot() {
	if c == nil {
		return
	}
	c.snapshotsTotal.Inc()
}

func (c *Collector) SetFPS(fps float64) {
	if c == nil {
		return
	}
	c.fps.Set(fps)
}

// SetMetric mirrors a named simulation metric into its gauge. Unknown names
// are ignored.
func (c *Collector) SetMetric(name string, v float64) {
	if c == nil {
		return
	}
	switch name {
	case "energy_drift":
		c.energyDrift.Set(v)
	case "planet_distance":
		c.planetDistance.Set(v)
	}
}

// RecordConsult counts an oracle outcome: "ok", "fallback" or "destroyed".
func (c *Collector) RecordConsult(result string) {
	if c == nil {
		return
	}
	c.oracleConsults.WithLabelValues(result).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
