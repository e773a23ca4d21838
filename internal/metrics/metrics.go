// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecommerce",
		Subsystem: "checkout",
		Name:      "attempts_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})

	ReconcilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecommerce",
		Subsystem: "reconcile",
		Name:      "attempts_total",
		Help:      "Payment reconciliations by channel and result.",
	}, []string{"channel", "result"})

	OversoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ecommerce",
		Subsystem: "reconcile",
		Name:      "oversold_total",
		Help:      "Captured payments that could not be fulfilled from stock.",
	})
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)
