// Package metrics bundles the Prometheus instruments of the reservation
// coordinator into a single monitor registered at startup.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Monitor collects coordinator metrics. A nil *Monitor is valid and records
// nothing, which keeps tests free of registry wiring.
type Monitor struct {
	// Counter for requests per route and outcome (info/error/exception).
	requestCounter *prometheus.CounterVec
	// Counter for conditional count writes that lost a race.
	casConflictCounter prometheus.Counter
	// Counter for compensation runs by result.
	compensationCounter *prometheus.CounterVec
	// A histogram to measure how long each workflow takes to run.
	workflowRunTimer *prometheus.HistogramVec
}

// NewMonitor creates a Monitor and registers its instruments on reg.
func NewMonitor(reg prometheus.Registerer) *Monitor {
	requestCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bigmedicine_requests_total",
		Help: "Requests processed, by route and envelope outcome",
	}, []string{"route", "outcome"})
	casConflictCounter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bigmedicine_cas_conflicts_total",
		Help: "Conditional count writes that found an unexpected value",
	})
	compensationCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bigmedicine_compensations_total",
		Help: "Compensation runs after partial workflow failure, by result",
	}, []string{"result"})
	workflowRunTimer := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bigmedicine_workflow_duration_seconds",
		Help:    "Duration of coordinator workflow runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"workflow"})

	reg.MustRegister(requestCounter, casConflictCounter, compensationCounter, workflowRunTimer)
	return &Monitor{
		requestCounter:      requestCounter,
		casConflictCounter:  casConflictCounter,
		compensationCounter: compensationCounter,
		workflowRunTimer:    workflowRunTimer,
	}
}

// ObserveRequest counts one handled request.
func (m *Monitor) ObserveRequest(route, outcome string) {
	if m == nil {
		return
	}
	m.requestCounter.WithLabelValues(route, outcome).Inc()
}

// ObserveCASConflict counts one lost conditional write.
func (m *Monitor) ObserveCASConflict() {
	if m == nil {
		return
	}
	m.casConflictCounter.Inc()
}

// ObserveCompensation counts one compensation run with its result
// ("reverted" or "failed").
func (m *Monitor) ObserveCompensation(result string) {
	if m == nil {
		return
	}
	m.compensationCounter.WithLabelValues(result).Inc()
}

// TimeWorkflow returns a stop function recording the elapsed time of one
// workflow run.
func (m *Monitor) TimeWorkflow(workflow string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.workflowRunTimer.WithLabelValues(workflow).Observe(time.Since(start).Seconds())
	}
}
