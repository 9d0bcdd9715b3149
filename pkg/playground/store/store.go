package store

import "context"

// Relation labels given meaning by the rule set. Any other label is stored
// and matched verbatim.
const (
	LabelIs   = "is"
	LabelHas  = "has"
	LabelUses = "uses"
)

// Reader is the read side of a knowledge store. Rules only ever see a Reader.
type Reader interface {
	// Concept returns the outgoing relations of c and whether c is known.
	// A concept that only appears as a relation target is known with an
	// empty Relations map.
	Concept(ctx context.Context, c string) (Relations, bool, error)

	// Relations returns the targets of c under label in insertion order.
	// Unknown concepts and labels yield an empty slice, never an error.
	Relations(ctx context.Context, c, label string) ([]string, error)

	// Has reports whether target appears in Relations(c, label).
	Has(ctx context.Context, c, label, target string) (bool, error)
}

// Writer is the mutation side. There is no removal.
type Writer interface {
	// AddConcept is idempotent.
	AddConcept(ctx context.Context, c string) error

	// AddRelation adds both endpoints as concepts and appends target to
	// subject's label list. Duplicates are kept.
	AddRelation(ctx context.Context, subject, label, target string) error
}

// Store is the knowledge base held by one session.
type Store interface {
	Reader
	Writer

	// Knowledge returns a detached snapshot for display.
	Knowledge(ctx context.Context) (Knowledge, error)

	Close() error
}

// Relations maps a relation label to its ordered targets.
type Relations map[string][]string

// Knowledge is an ordered snapshot of a store: concepts in first-seen order,
// labels in first-seen order per concept.
type Knowledge struct {
	Concepts []Concept
}

// Concept is one entry of a Knowledge snapshot.
type Concept struct {
	Name      string
	Relations []Relation
}

// Relation is one labeled target list of a Concept.
type Relation struct {
	Label   string
	Targets []string
}

// Lookup finds a concept in the snapshot by name.
func (k Knowledge) Lookup(name string) (Concept, bool) {
	for _, c := range k.Concepts {
		if c.Name == name {
			return c, true
		}
	}
	return Concept{}, false
}

// Targets returns the targets of label, or nil when the concept has no such label.
func (c Concept) Targets(label string) []string {
	for _, r := range c.Relations {
		if r.Label == label {
			return r.Targets
		}
	}
	return nil
}

// Contains reports whether target is one of targets.
func Contains(targets []string, target string) bool {
	for _, t := range targets {
		if t == target {
			return true
		}
	}
	return false
}
