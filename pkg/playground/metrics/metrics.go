// Package metrics counts inference activity with Prometheus collectors.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the playground counters.
type Collector struct {
	queries       prometheus.Counter
	malformed     prometheus.Counter
	ruleResults   *prometheus.CounterVec
	depthExceeded prometheus.Counter
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "playground",
			Name:      "queries_total",
			Help:      "Number of queries submitted to the inference engine.",
		}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "playground",
			Name:      "malformed_queries_total",
			Help:      "Number of query texts that did not split into three terms.",
		}),
		ruleResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "playground",
			Name:      "rule_results_total",
			Help:      "Number of result lines produced, by rule.",
		}, []string{"rule"}),
		depthExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "playground",
			Name:      "depth_exceeded_total",
			Help:      "Number of transitive resolutions cut off by the depth limit.",
		}),
	}

	for _, col := range []prometheus.Collector{c.queries, c.malformed, c.ruleResults, c.depthExceeded} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Query records one inference call.
func (c *Collector) Query() {
	if c == nil {
		return
	}
	c.queries.Inc()
}

// Malformed records a rejected query text.
func (c *Collector) Malformed() {
	if c == nil {
		return
	}
	c.malformed.Inc()
}

// RuleResults records n result lines from rule.
func (c *Collector) RuleResults(rule string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.ruleResults.WithLabelValues(rule).Add(float64(n))
}

// DepthExceeded records a resolution that hit the depth limit.
func (c *Collector) DepthExceeded() {
	if c == nil {
		return
	}
	c.depthExceeded.Inc()
}
