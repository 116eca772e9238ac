package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	validations *prometheus.CounterVec
	issues      *prometheus.CounterVec
	duration    prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tableschema",
			Name:      "validations_total",
			Help:      "Validation requests by result (valid, invalid, rejected).",
		}, []string{"result"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tableschema",
			Name:      "issues_total",
			Help:      "Reported issues by code.",
		}, []string{"code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tableschema",
			Name:      "validation_duration_seconds",
			Help:      "Time spent decoding and validating a document.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	for _, c := range []prometheus.Collector{m.validations, m.issues, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
