package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/clinic-sim/sim"
)

// Metrics are the Prometheus collectors exported at /metrics.
type Metrics struct {
	Registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	lastPatients prometheus.Gauge
	lastWaitAvg  *prometheus.GaugeVec
	runDuration  prometheus.Histogram
}

// NewMetrics registers the service collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic_sim",
			Name:      "runs_total",
			Help:      "Simulation runs completed, by termination reason.",
		}, []string{"termination"}),
		lastPatients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clinic_sim",
			Name:      "last_run_patients",
			Help:      "Patients served in the current run.",
		}),
		lastWaitAvg: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "clinic_sim",
			Name:      "last_run_avg_wait_minutes",
			Help:      "Average wait of the current run, by stage.",
		}, []string{"stage"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic_sim",
			Name:      "run_duration_seconds",
			Help:      "Wall time spent executing one simulation run.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
	m.Registry.MustRegister(m.runs, m.lastPatients, m.lastWaitAvg, m.runDuration)
	return m
}

// ObserveRun records a completed run.
func (m *Metrics) ObserveRun(run *sim.RunResult, avgWaitConsult, avgWaitDispense float64, elapsed time.Duration) {
	m.runs.WithLabelValues(string(run.Termination)).Inc()
	m.lastPatients.Set(float64(run.Len()))
	m.lastWaitAvg.WithLabelValues("consult").Set(avgWaitConsult)
	m.lastWaitAvg.WithLabelValues("dispense").Set(avgWaitDispense)
	m.runDuration.Observe(elapsed.Seconds())
}
