// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes the server decoder's Prometheus
// instrumentation: frame counts by tag, bytes received, runs created,
// and protocol violations. Nothing in the core decode path depends on
// whether metrics are actually scraped. A Registry must be built with
// New or Noop; its zero value has no collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every counter the server decoder updates. Each
// netgridviz-viewer process owns exactly one Registry; tests can
// construct their own with a private prometheus.Registerer to avoid
// colliding with the global default registry.
type Registry struct {
	FramesDecoded      *prometheus.CounterVec
	BytesReceived      prometheus.Counter
	RunsCreated        prometheus.Counter
	StrokesCreated     prometheus.Counter
	EventsDecoded      prometheus.Counter
	ProtocolViolations prometheus.Counter
	ClientsConnected   prometheus.Gauge
}

// New registers and returns a Registry against reg. Pass
// prometheus.DefaultRegisterer for production use, or a fresh
// prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		FramesDecoded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netgridviz",
			Subsystem: "server",
			Name:      "frames_decoded_total",
			Help:      "Number of wire frames decoded, labeled by message tag.",
		}, []string{"tag"}),
		BytesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "netgridviz",
			Subsystem: "server",
			Name:      "bytes_received_total",
			Help:      "Total bytes read from the client socket.",
		}),
		RunsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "netgridviz",
			Subsystem: "server",
			Name:      "runs_created_total",
			Help:      "Number of runs created (one per accepted connection).",
		}),
		StrokesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "netgridviz",
			Subsystem: "server",
			Name:      "strokes_created_total",
			Help:      "Number of strokes appended across all runs.",
		}),
		EventsDecoded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "netgridviz",
			Subsystem: "server",
			Name:      "events_decoded_total",
			Help:      "Number of CharPoint events decoded across all runs.",
		}),
		ProtocolViolations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "netgridviz",
			Subsystem: "server",
			Name:      "protocol_violations_total",
			Help:      "Number of fatal decode errors (unknown tag, oversized title).",
		}),
		ClientsConnected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "netgridviz",
			Subsystem: "server",
			Name:      "clients_connected",
			Help:      "1 if a client is currently connected, 0 otherwise.",
		}),
	}
}

// Noop returns a Registry wired to a private, unscraped registry — for
// callers such as tests that want the decoder's metrics
// calls to be harmless no-ops without polluting the default registry.
func Noop() *Registry {
	return New(prometheus.NewRegistry())
}
