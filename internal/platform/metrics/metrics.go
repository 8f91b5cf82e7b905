package metrics

import (
	"strings"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "invoicesys"

// DocumentOperations counts lifecycle and ledger operations by outcome
// (ok, not_found, validation, conflict, internal).
var DocumentOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "operations_total",
	Help:      "Document lifecycle and ledger operations by outcome.",
}, []string{"operation", "outcome"})

// UnitsOfWork counts finished units of work by result (commit, rollback).
var UnitsOfWork = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "units_of_work_total",
	Help:      "Finished units of work by result.",
}, []string{"store", "result"})

// HTTPRequestDuration tracks request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency by route and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// Outcome converts an operation error into a metric label.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(string(apperrors.KindOf(err)))
}

// ObserveOperation records the outcome of one operation.
func ObserveOperation(operation string, err error) {
	DocumentOperations.WithLabelValues(operation, Outcome(err)).Inc()
}
