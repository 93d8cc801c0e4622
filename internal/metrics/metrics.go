// Package metrics exposes the computing node's Prometheus counters: AND
// rounds consumed, correlated triples generated, and share-store ingestions.
// It is ambient instrumentation, not part of the protocol's correctness.
// The computing-node command registers these counters; nothing in this
// module increments them, so they read zero.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles the counters a single computing node process exposes.
// Construct one with NewRegistry and register it with a prometheus.Registerer
// (or leave unregistered in tests, where the counters are still usable).
type Registry struct {
	ANDRounds       prometheus.Counter
	TriplesIssued   prometheus.Counter
	Ingestions      prometheus.Counter
	EvaluationFails *prometheus.CounterVec
}

// NewRegistry builds a fresh Registry. Call Register to attach it to a
// prometheus.Registerer (e.g. prometheus.DefaultRegisterer); tests can skip
// that step and read the counters directly.
func NewRegistry() *Registry {
	return &Registry{
		ANDRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fesca",
			Subsystem: "circuit",
			Name:      "and_rounds_total",
			Help:      "AND gates evaluated, one ring round each.",
		}),
		TriplesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fesca",
			Subsystem: "corand",
			Name:      "triples_issued_total",
			Help:      "Correlated Boolean triples issued to the evaluator.",
		}),
		Ingestions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fesca",
			Subsystem: "store",
			Name:      "ingestions_total",
			Help:      "Table share sets persisted to the share store.",
		}),
		EvaluationFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fesca",
			Subsystem: "circuit",
			Name:      "evaluation_failures_total",
			Help:      "Circuit evaluations aborted, labelled by error kind.",
		}, []string{"kind"}),
	}
}

// Register attaches every counter in r to reg.
func (r *Registry) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{r.ANDRounds, r.TriplesIssued, r.Ingestions, r.EvaluationFails}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
