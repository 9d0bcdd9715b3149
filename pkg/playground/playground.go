package playground

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cognicore/playground/pkg/playground/config"
	"github.com/cognicore/playground/pkg/playground/facts"
	"github.com/cognicore/playground/pkg/playground/inference"
	"github.com/cognicore/playground/pkg/playground/inference/simple"
	"github.com/cognicore/playground/pkg/playground/metrics"
	"github.com/cognicore/playground/pkg/playground/query"
	"github.com/cognicore/playground/pkg/playground/store"
	"github.com/cognicore/playground/pkg/playground/store/memstore"
	"github.com/cognicore/playground/pkg/playground/store/sqlite"
)

// Messages front ends show for an empty result and for a search cut off
// by the depth limit.
const (
	NoInference = "No inference found."
	CutOff      = "Search stopped at the depth limit; some relations were not explored."
)

// Playground is one reasoning session: a knowledge store and the engine
// that answers questions about it.
type Playground struct {
	store  store.Store
	engine inference.Engine
	logger *zap.Logger
}

// Options configures a Playground
type Options struct {
	Store    store.Store      // defaults to a fresh memstore
	Engine   inference.Engine // defaults to simple.Engine over Store
	MaxDepth int
	Logger   *zap.Logger
	Metrics  *metrics.Collector
}

// New creates a Playground with the given dependencies
func New(opts Options) *Playground {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	st := opts.Store
	if st == nil {
		st = memstore.New()
	}

	engine := opts.Engine
	if engine == nil {
		engOpts := []simple.Option{
			simple.WithLogger(logger),
			simple.WithMetrics(opts.Metrics),
		}
		if opts.MaxDepth > 0 {
			engOpts = append(engOpts, simple.WithMaxDepth(opts.MaxDepth))
		}
		engine = simple.New(st, engOpts...)
	}

	return &Playground{store: st, engine: engine, logger: logger}
}

// Open creates a Playground with the store backend named in cfg.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger, m *metrics.Collector) (*Playground, error) {
	var st store.Store
	switch cfg.Store.Backend {
	case config.BackendMemory, "":
		st = memstore.New()
	case config.BackendSQLite:
		var err error
		st, err = sqlite.Open(ctx)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("open playground: unknown backend %q", cfg.Store.Backend)
	}

	return New(Options{
		Store:    st,
		MaxDepth: cfg.Engine.MaxDepth,
		Logger:   logger,
		Metrics:  m,
	}), nil
}

// Close releases the store.
func (p *Playground) Close() error {
	return p.store.Close()
}

// AddConcept adds a concept with no relations. Re-adding is a no-op.
func (p *Playground) AddConcept(ctx context.Context, name string) error {
	return p.store.AddConcept(ctx, name)
}

// AddRelation records subject -label-> target.
func (p *Playground) AddRelation(ctx context.Context, subject, label, target string) error {
	if err := p.store.AddRelation(ctx, subject, label, target); err != nil {
		return err
	}
	p.logger.Debug("Relation added",
		zap.String("subject", subject),
		zap.String("relation", label),
		zap.String("target", target))
	return nil
}

// AddProperty marks a data source with a property, e.g. "sensitive".
func (p *Playground) AddProperty(ctx context.Context, source, property string) error {
	return p.AddRelation(ctx, source, store.LabelHas, property)
}

// Infer answers a parsed question. A search cut off by the depth limit
// returns partial results and an error wrapping internalerr.ErrDepthExceeded.
func (p *Playground) Infer(ctx context.Context, q query.Query) ([]string, error) {
	return p.engine.Infer(ctx, q)
}

// Ask answers a free-text question such as "Dog is Animal". Errors are as
// for Infer.
func (p *Playground) Ask(ctx context.Context, text string) ([]string, error) {
	return p.engine.InferText(ctx, text)
}

// Knowledge returns a read-only snapshot of the knowledge base.
func (p *Playground) Knowledge(ctx context.Context) (store.Knowledge, error) {
	return p.store.Knowledge(ctx)
}

// Rules lists the engine's rules in evaluation order.
func (p *Playground) Rules() []string {
	return p.engine.Rules()
}

// Seed applies seed knowledge: concepts, then relations, then properties
// by data source name.
func (p *Playground) Seed(ctx context.Context, seed *config.Seed) error {
	if seed == nil {
		return nil
	}
	for _, c := range seed.Concepts {
		if err := p.AddConcept(ctx, c); err != nil {
			return fmt.Errorf("seed concept %s: %w", c, err)
		}
	}
	for _, rel := range seed.Relations {
		if len(rel) != 3 {
			return fmt.Errorf("seed relation %v: need 3 terms", rel)
		}
		if err := p.AddRelation(ctx, rel[0], rel[1], rel[2]); err != nil {
			return fmt.Errorf("seed relation %v: %w", rel, err)
		}
	}

	sources := make([]string, 0, len(seed.Properties))
	for src := range seed.Properties {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	for _, src := range sources {
		for _, prop := range seed.Properties[src] {
			if err := p.AddProperty(ctx, src, prop); err != nil {
				return fmt.Errorf("seed property %s: %w", src, err)
			}
		}
	}
	return nil
}

// LoadFacts applies parsed fact lines.
func (p *Playground) LoadFacts(ctx context.Context, fs []facts.Fact) error {
	return facts.Apply(ctx, p.store, fs)
}

// Lines returns results as display lines, using NoInference when empty.
func Lines(results []string) []string {
	if len(results) == 0 {
		return []string{NoInference}
	}
	return results
}
