// Package facts reads and writes knowledge as Prolog-style fact lines:
//
//	# comments start with '#' or '%'
//	concept(Cat).
//	is(Dog, Mammal).
//	has(CustomerDB, sensitive).
//
// The trailing period is optional on input.
package facts

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/playground/pkg/playground/internalerr"
	"github.com/cognicore/playground/pkg/playground/store"
)

// ConceptPredicate declares a bare concept when used with one argument.
const ConceptPredicate = "concept"

// Fact is one parsed line. Concept facts carry only Subject.
type Fact struct {
	Relation string
	Subject  string
	Object   string
	Concept  bool
}

func (f Fact) String() string {
	if f.Concept {
		return fmt.Sprintf("%s(%s).", ConceptPredicate, f.Subject)
	}
	return fmt.Sprintf("%s(%s, %s).", f.Relation, f.Subject, f.Object)
}

// Parse reads facts from r, one per line.
func Parse(r io.Reader) ([]Fact, error) {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	var out []Fact

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "%") {
			continue
		}

		fact, err := parseFact(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		out = append(out, fact)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Apply adds facts to w in order.
func Apply(ctx context.Context, w store.Writer, facts []Fact) error {
	for _, f := range facts {
		var err error
		if f.Concept {
			err = w.AddConcept(ctx, f.Subject)
		} else {
			err = w.AddRelation(ctx, f.Subject, f.Relation, f.Object)
		}
		if err != nil {
			return fmt.Errorf("apply %s: %w", f, err)
		}
	}
	return nil
}

// Load parses r and applies the facts to w.
func Load(ctx context.Context, w store.Writer, r io.Reader) (int, error) {
	fs, err := Parse(r)
	if err != nil {
		return 0, err
	}
	return len(fs), Apply(ctx, w, fs)
}

// parseFact parses "relation(subject, object)" or "concept(name)"
func parseFact(line string) (Fact, error) {
	openParen := strings.Index(line, "(")
	if openParen == -1 {
		return Fact{}, fmt.Errorf("%w: missing '(': %s", internalerr.ErrInvalidInput, line)
	}
	relation := strings.TrimSpace(line[:openParen])

	closeParen := strings.LastIndex(line, ")")
	if closeParen < openParen {
		return Fact{}, fmt.Errorf("%w: missing ')': %s", internalerr.ErrInvalidInput, line)
	}

	rest := strings.TrimSpace(line[closeParen+1:])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "."))
	if rest != "" && !strings.HasPrefix(rest, "%") && !strings.HasPrefix(rest, "#") {
		return Fact{}, fmt.Errorf("%w: trailing text after ')': %s", internalerr.ErrInvalidInput, line)
	}

	args := line[openParen+1 : closeParen]
	parts := strings.Split(args, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch {
	case len(parts) == 1 && relation == ConceptPredicate:
		return Fact{Subject: parts[0], Concept: true}, nil
	case len(parts) == 2:
		return Fact{Relation: relation, Subject: parts[0], Object: parts[1]}, nil
	default:
		return Fact{}, fmt.Errorf("%w: expected 2 arguments, got %d: %s", internalerr.ErrInvalidInput, len(parts), line)
	}
}
