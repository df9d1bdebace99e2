// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package metrics exposes Prometheus collectors for Gremlin Server requests.
package metrics

import (
	"strconv"
	"time"

	"cyphergremlin/cli/internal/gremlin"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status labels for requests that ended without a server status.
const (
	StatusAbandoned      = "abandoned"
	StatusTransportError = "transport_error"
)

// Collector counts and times requests. It implements gremlin.Observer.
type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cypher_gremlin_requests_total",
				Help: "Total number of requests submitted to Gremlin Server",
			},
			[]string{"processor", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cypher_gremlin_request_duration_seconds",
				Help:    "Time from submitting a request to its final status",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"processor"},
		),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "cypher_gremlin_requests_in_flight",
			Help: "Requests waiting for a final status",
		}),
	}
}

// RequestStarted implements gremlin.Observer.
func (c *Collector) RequestStarted(string) {
	c.InFlight.Inc()
}

// RequestFinished implements gremlin.Observer.
func (c *Collector) RequestFinished(processor string, code gremlin.StatusCode, elapsed time.Duration) {
	c.InFlight.Dec()
	c.RequestsTotal.WithLabelValues(processor, statusLabel(code)).Inc()
	c.RequestDuration.WithLabelValues(processor).Observe(elapsed.Seconds())
}

func statusLabel(code gremlin.StatusCode) string {
	switch code {
	case gremlin.StatusCancelled:
		return StatusAbandoned
	case gremlin.StatusTransportFailure:
		return StatusTransportError
	}
	return strconv.Itoa(int(code))
}
