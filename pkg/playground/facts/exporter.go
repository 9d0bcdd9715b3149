package facts

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/playground/pkg/playground/internalerr"
	"github.com/cognicore/playground/pkg/playground/store"
)

// FactWriter receives rendered fact lines (a terminal, a buffer, a test fake).
type FactWriter interface {
	WriteFacts(ctx context.Context, content string) error
}

// IOWriter adapts an io.Writer to FactWriter.
type IOWriter struct {
	W io.Writer
}

func (w IOWriter) WriteFacts(_ context.Context, content string) error {
	_, err := io.WriteString(w.W, content)
	return err
}

// Exporter renders a knowledge snapshot as fact lines for display.
type Exporter struct {
	Writer FactWriter
}

func (e *Exporter) Export(ctx context.Context, k store.Knowledge) error {
	if e.Writer == nil {
		return fmt.Errorf("fact exporter: nil writer")
	}
	content, err := Format(k)
	if err != nil {
		return err
	}
	return e.Writer.WriteFacts(ctx, content)
}

// Format renders k so that Parse followed by Apply on an empty store
// rebuilds it: every concept is declared first, in order, then relations
// are grouped by concept and label.
func Format(k store.Knowledge) (string, error) {
	var b strings.Builder
	for _, c := range k.Concepts {
		if err := checkTerm(c.Name); err != nil {
			return "", err
		}
		b.WriteString(Fact{Subject: c.Name, Concept: true}.String())
		b.WriteByte('\n')
	}
	for _, c := range k.Concepts {
		for _, rel := range c.Relations {
			if err := checkLabel(rel.Label); err != nil {
				return "", err
			}
			for _, target := range rel.Targets {
				if err := checkTerm(target); err != nil {
					return "", err
				}
				b.WriteString(Fact{Relation: rel.Label, Subject: c.Name, Object: target}.String())
				b.WriteByte('\n')
			}
		}
	}
	return b.String(), nil
}

func checkTerm(s string) error {
	if strings.ContainsAny(s, "(),\n\r") || strings.TrimSpace(s) != s {
		return fmt.Errorf("%w: term %q cannot be written as a fact", internalerr.ErrInvalidInput, s)
	}
	return nil
}

func checkLabel(s string) error {
	if err := checkTerm(s); err != nil {
		return err
	}
	if strings.HasPrefix(s, "#") || strings.HasPrefix(s, "%") {
		return fmt.Errorf("%w: label %q would read as a comment", internalerr.ErrInvalidInput, s)
	}
	return nil
}
