// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "splitledger"

var (
	// RPCRequests counts finished RPCs by procedure and Connect code.
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Finished RPCs by procedure and result code.",
	}, []string{"procedure", "code"})

	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency by procedure.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	// AuditEvents counts audit events by outcome: saved, failed or dropped.
	AuditEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Audit events by outcome.",
	}, []string{"result"})

	// IntegrityViolations counts balance computations whose total was not zero.
	IntegrityViolations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "balance_integrity_violations_total",
		Help:      "Balance computations that failed the zero-sum check.",
	})

	SuggestedSettlements = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "suggested_settlements",
		Help:      "Number of payments suggested per request.",
		Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
	})
)
