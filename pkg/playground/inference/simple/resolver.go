package simple

import (
	"context"
	"fmt"

	"github.com/cognicore/playground/pkg/playground/inference"
	"github.com/cognicore/playground/pkg/playground/store"
)

// DefaultMaxDepth bounds the recursion depth of a resolution. Each level
// checks two hops, so a walk at depth d proves chains of up to d+2 hops.
const DefaultMaxDepth = 64

// Resolver decides whether target is reachable from subject through chained
// "is" relations. Traversal is depth-first in insertion order and stops at
// the first proof. A concept is walked again only when reached at a
// shallower depth than before, so cyclic graphs terminate with NotFound.
type Resolver struct {
	MaxDepth int
}

// Resolve walks the "is" graph from subject looking for target.
func (r Resolver) Resolve(ctx context.Context, rd store.Reader, subject, target string) (inference.Resolution, error) {
	maxDepth := r.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	w := walker{
		ctx:      ctx,
		reader:   rd,
		target:   target,
		maxDepth: maxDepth,
		visited:  make(map[string]int),
	}
	path, outcome, err := w.walk(subject, 0, nil)
	if err != nil {
		return inference.Resolution{}, err
	}
	if outcome != inference.Found {
		path = nil
	}
	return inference.Resolution{Outcome: outcome, Path: path}, nil
}

type walker struct {
	ctx      context.Context
	reader   store.Reader
	target   string
	maxDepth int
	visited  map[string]int // shallowest depth each concept was entered at
}

func (w *walker) walk(from string, depth int, path []inference.Step) ([]inference.Step, inference.Outcome, error) {
	if seen, ok := w.visited[from]; ok && seen <= depth {
		return nil, inference.NotFound, nil
	}
	w.visited[from] = depth

	parents, err := w.reader.Relations(w.ctx, from, store.LabelIs)
	if err != nil {
		return nil, inference.NotFound, err
	}

	if store.Contains(parents, w.target) {
		return extend(path, from, w.target, depth), inference.Found, nil
	}

	exceeded := false
	for _, mid := range parents {
		grand, err := w.reader.Relations(w.ctx, mid, store.LabelIs)
		if err != nil {
			return nil, inference.NotFound, err
		}
		via := extend(path, from, mid, depth)
		if store.Contains(grand, w.target) {
			return extend(via, mid, w.target, depth+1), inference.Found, nil
		}

		if depth+1 >= w.maxDepth {
			exceeded = true
			continue
		}
		found, outcome, err := w.walk(mid, depth+1, via)
		if err != nil {
			return nil, inference.NotFound, err
		}
		switch outcome {
		case inference.Found:
			return found, outcome, nil
		case inference.DepthExceeded:
			exceeded = true
		}
	}

	if exceeded {
		return nil, inference.DepthExceeded, nil
	}
	return nil, inference.NotFound, nil
}

func extend(path []inference.Step, from, to string, depth int) []inference.Step {
	out := make([]inference.Step, len(path), len(path)+1)
	copy(out, path)
	return append(out, inference.Step{
		Relation: store.LabelIs,
		From:     from,
		To:       to,
		Depth:    depth,
	})
}

// Explain formats the result line for a proven "is" relation. The line
// does not encode how many hops were taken.
func Explain(subject, target string) string {
	return fmt.Sprintf("%s is %s (inferred)", subject, target)
}
