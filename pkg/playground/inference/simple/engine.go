package simple

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/playground/pkg/playground/inference"
	"github.com/cognicore/playground/pkg/playground/internalerr"
	"github.com/cognicore/playground/pkg/playground/metrics"
	"github.com/cognicore/playground/pkg/playground/query"
	"github.com/cognicore/playground/pkg/playground/store"
)

// Engine is a minimal symbolic reasoning engine in pure Go.
// It runs a fixed, ordered list of rules over one knowledge store.
type Engine struct {
	store    store.Reader
	rules    []inference.Rule
	maxDepth int
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// Option configures an Engine
type Option func(*Engine)

// WithRules replaces the default rule list.
func WithRules(rules ...inference.Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithMaxDepth sets the resolver depth limit used by the default rules.
func WithMaxDepth(n int) Option {
	return func(e *Engine) { e.maxDepth = n }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates a new simple inference engine over st
func New(st store.Reader, opts ...Option) *Engine {
	e := &Engine{
		store:    st,
		maxDepth: DefaultMaxDepth,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rules == nil {
		e.rules = DefaultRules(e.maxDepth)
	}
	return e
}

// Infer runs every rule against q and concatenates the results in rule
// order. When a rule's resolution hits the depth limit the remaining rules
// still run, and the collected results come back together with an error
// wrapping internalerr.ErrDepthExceeded.
func (e *Engine) Infer(ctx context.Context, q query.Query) ([]string, error) {
	e.metrics.Query()
	e.logger.Debug("Inferring", zap.Stringer("query", q))

	results := []string{}
	var cutOff error
	for _, rule := range e.rules {
		e.logger.Debug("Applying rule", zap.String("rule", rule.Name()))

		out, err := rule.Evaluate(ctx, e.store, q)
		if errors.Is(err, internalerr.ErrDepthExceeded) {
			e.metrics.DepthExceeded()
			e.logger.Warn("Resolution cut off by depth limit",
				zap.String("rule", rule.Name()),
				zap.Stringer("query", q),
				zap.Int("max_depth", e.maxDepth))
			if cutOff == nil {
				cutOff = fmt.Errorf("rule %s: %w", rule.Name(), err)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.Name(), err)
		}

		e.metrics.RuleResults(rule.Name(), len(out))
		results = append(results, out...)
	}

	e.logger.Debug("Results", zap.Strings("results", results))
	return results, cutOff
}

// InferText parses text into a query and infers it. Malformed text gives
// an empty result.
func (e *Engine) InferText(ctx context.Context, text string) ([]string, error) {
	q, err := query.Parse(text)
	if err != nil {
		e.metrics.Malformed()
		e.logger.Debug("Ignoring malformed query", zap.String("text", text), zap.Error(err))
		return []string{}, nil
	}
	return e.Infer(ctx, q)
}

// Rules returns rule names in evaluation order
func (e *Engine) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name()
	}
	return names
}

var _ inference.Engine = (*Engine)(nil)
