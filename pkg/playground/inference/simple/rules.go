package simple

import (
	"context"
	"fmt"

	"github.com/cognicore/playground/pkg/playground/inference"
	"github.com/cognicore/playground/pkg/playground/internalerr"
	"github.com/cognicore/playground/pkg/playground/query"
	"github.com/cognicore/playground/pkg/playground/store"
)

// SensitiveProperty marks a data source whose use raises a privacy concern.
const SensitiveProperty = "sensitive"

// DefaultRules returns the transparency, data quality and data privacy
// rules in evaluation order.
func DefaultRules(maxDepth int) []inference.Rule {
	return []inference.Rule{
		IsRule{Resolver: Resolver{MaxDepth: maxDepth}},
		HasRule{},
		UsesRule{},
	}
}

// IsRule checks whether the target sits under the query's relation on the
// subject, falling back to the "is" closure. The relation is read from the
// query and is not required to be "is"; the subject only has to carry it.
type IsRule struct {
	Resolver Resolver
}

func (IsRule) Name() string { return "is-transitivity" }

func (r IsRule) Evaluate(ctx context.Context, rd store.Reader, q query.Query) ([]string, error) {
	rels, ok, err := rd.Concept(ctx, q.Subject)
	if err != nil || !ok {
		return nil, err
	}
	targets, ok := rels[q.Relation]
	if !ok {
		return nil, nil
	}

	if store.Contains(targets, q.Target) {
		return []string{Explain(q.Subject, q.Target)}, nil
	}

	res, err := r.Resolver.Resolve(ctx, rd, q.Subject, q.Target)
	if err != nil {
		return nil, err
	}
	switch res.Outcome {
	case inference.Found:
		return []string{Explain(q.Subject, q.Target)}, nil
	case inference.DepthExceeded:
		return nil, fmt.Errorf("%w: %s", internalerr.ErrDepthExceeded, q)
	}
	return nil, nil
}

// HasRule verifies attributes. A subject that is unknown or has no "has"
// list at all is reported as a data quality issue; a subject whose "has"
// list lacks the attribute yields nothing.
type HasRule struct{}

func (HasRule) Name() string { return "has-data-quality" }

func (HasRule) Evaluate(ctx context.Context, rd store.Reader, q query.Query) ([]string, error) {
	if q.Relation != store.LabelHas {
		return nil, nil
	}

	rels, ok, err := rd.Concept(ctx, q.Subject)
	if err != nil {
		return nil, err
	}
	attrs, hasList := rels[store.LabelHas]
	if !ok || !hasList {
		return []string{fmt.Sprintf("Data Quality Issue: Missing or Inconsistent Data for %s", q.Subject)}, nil
	}

	if store.Contains(attrs, q.Target) {
		return []string{fmt.Sprintf("%s has %s (verified)", q.Subject, q.Target)}, nil
	}
	return nil, nil
}

// UsesRule flags a subject that uses a data source marked sensitive.
// The subject only needs some "uses" list; the data source is looked up by
// the query target. Unknown data sources raise no concern.
type UsesRule struct{}

func (UsesRule) Name() string { return "uses-data-privacy" }

func (UsesRule) Evaluate(ctx context.Context, rd store.Reader, q query.Query) ([]string, error) {
	if q.Relation != store.LabelUses {
		return nil, nil
	}

	rels, ok, err := rd.Concept(ctx, q.Subject)
	if err != nil || !ok {
		return nil, err
	}
	if _, ok := rels[store.LabelUses]; !ok {
		return nil, nil
	}

	sensitive, err := rd.Has(ctx, q.Target, store.LabelHas, SensitiveProperty)
	if err != nil {
		return nil, err
	}
	if sensitive {
		return []string{fmt.Sprintf("Data Privacy Concern: %s uses sensitive data from %s", q.Subject, q.Target)}, nil
	}
	return nil, nil
}
