// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TontinesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dourou",
		Name:      "tontines_created_total",
		Help:      "Tontines created.",
	})

	TontinesLaunched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dourou",
		Name:      "tontines_launched_total",
		Help:      "Tontines launched, by frequency.",
	}, []string{"frequency"})

	TontinesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dourou",
		Name:      "tontines_completed_total",
		Help:      "Tontines whose last round was closed.",
	})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dourou",
		Name:      "payments_recorded_total",
		Help:      "Payment state changes, by action (declared, confirmed, marked_paid) and method.",
	}, []string{"action", "method"})

	LatePayments = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dourou",
		Name:      "late_payments_total",
		Help:      "Pending payments flagged late by the scheduler.",
	})

	RoundsAdvanced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dourou",
		Name:      "rounds_advanced_total",
		Help:      "Rounds closed.",
	})

	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dourou",
		Name:      "rpc_duration_seconds",
		Help:      "Duration of RPCs, by procedure and Connect code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})
)
