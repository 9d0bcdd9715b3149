package query

import (
	"fmt"
	"strings"

	"github.com/cognicore/playground/pkg/playground/internalerr"
)

// Query is a subject/relation/target question, e.g. "Dog is Animal".
type Query struct {
	Subject  string
	Relation string
	Target   string
}

// New builds a query from its three parts.
func New(subject, relation, target string) Query {
	return Query{Subject: subject, Relation: relation, Target: target}
}

// Parse splits text on whitespace. Anything that does not yield exactly
// three tokens is rejected with internalerr.ErrInvalidInput.
func Parse(text string) (Query, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return Query{}, fmt.Errorf("%w: query needs 3 terms, got %d", internalerr.ErrInvalidInput, len(fields))
	}
	return New(fields[0], fields[1], fields[2]), nil
}

func (q Query) String() string {
	return q.Subject + " " + q.Relation + " " + q.Target
}
