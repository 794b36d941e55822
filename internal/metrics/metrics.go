// Package metrics records command execution on a private prometheus registry.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is safe for concurrent use. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
	entities *prometheus.GaugeVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gomedic_commands_total",
			Help: "Commands executed, by command word and outcome.",
		}, []string{"command", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gomedic_command_duration_seconds",
			Help:    "Time spent executing a command, persistence included.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"command"}),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gomedic_store_entities",
			Help: "Entities held by the record store.",
		}, []string{"kind"}),
	}
	r.registry.MustRegister(r.commands, r.duration, r.entities)
	return r
}

// Observe records one command outcome.
func (r *Recorder) Observe(_ context.Context, command, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	if command == "" {
		command = "unknown"
	}
	r.commands.WithLabelValues(command, outcome).Inc()
	r.duration.WithLabelValues(command).Observe(d.Seconds())
}

func (r *Recorder) SetEntities(persons, activities int) {
	if r == nil {
		return
	}
	r.entities.WithLabelValues("person").Set(float64(persons))
	r.entities.WithLabelValues("activity").Set(float64(activities))
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
