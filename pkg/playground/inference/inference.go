package inference

import (
	"context"

	"github.com/cognicore/playground/pkg/playground/query"
	"github.com/cognicore/playground/pkg/playground/store"
)

// Engine answers questions about a knowledge store.
// This interface allows swapping implementations behind the playground facade.
type Engine interface {
	// Infer runs every rule in order and concatenates their results.
	// An empty result means no inference was found. If a resolution was
	// cut off by the depth limit, the results gathered so far are returned
	// with an error wrapping internalerr.ErrDepthExceeded.
	Infer(ctx context.Context, q query.Query) ([]string, error)

	// InferText parses raw question text first. Text that is not a
	// three-term question yields an empty result, not an error.
	InferText(ctx context.Context, text string) ([]string, error)

	// Rules lists rule names in evaluation order
	Rules() []string
}

// Rule evaluates one question against the knowledge base.
// A nil result means the rule does not apply or found nothing. Errors are
// reserved for store failures and resolution limits.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, r store.Reader, q query.Query) ([]string, error)
}

// Outcome is the result of a transitive resolution
type Outcome int

const (
	NotFound Outcome = iota
	Found
	DepthExceeded
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case DepthExceeded:
		return "depth exceeded"
	default:
		return "not found"
	}
}

// Step represents one hop of a resolution
type Step struct {
	Relation string // always "is" for the closure resolver
	From     string
	To       string
	Depth    int // how many hops from the subject
}

// Resolution is the outcome of a reachability check plus the chain that
// proved it (empty unless Outcome is Found).
type Resolution struct {
	Outcome Outcome
	Path    []Step
}
