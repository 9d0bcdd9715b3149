package facts

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cognicore/playground/pkg/playground/internalerr"
	"github.com/cognicore/playground/pkg/playground/store"
	"github.com/cognicore/playground/pkg/playground/store/memstore"
)

func TestParse(t *testing.T) {
	input := `
# AI taxonomy
is(bert, transformer)
is(transformer, neural-network).
concept(gpt).

% data sources
has(CustomerDB, sensitive). % confidence 1.00
uses(CRM, CustomerDB)
`
	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []Fact{
		{Relation: "is", Subject: "bert", Object: "transformer"},
		{Relation: "is", Subject: "transformer", Object: "neural-network"},
		{Subject: "gpt", Concept: true},
		{Relation: "has", Subject: "CustomerDB", Object: "sensitive"},
		{Relation: "uses", Subject: "CRM", Object: "CustomerDB"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"missing paren", "is bert transformer", "line 1"},
		{"missing close", "ok(a, b)\nis(bert, transformer", "line 2"},
		{"one arg", "is(bert)", "line 1"},
		{"three args", "is(a, b, c)", "line 1"},
		{"trailing text", "is(a, b) extra", "line 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, internalerr.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.line) {
				t.Errorf("expected %q in error, got %v", tt.line, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	n, err := Load(ctx, s, strings.NewReader("is(Dog, Mammal)\nconcept(Cat)\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 facts, got %d", n)
	}

	if has, _ := s.Has(ctx, "Dog", "is", "Mammal"); !has {
		t.Error("expected Dog is Mammal")
	}
	if _, ok, _ := s.Concept(ctx, "Cat"); !ok {
		t.Error("expected Cat to be declared")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := memstore.New()
	if err := src.AddConcept(ctx, "Cat"); err != nil {
		t.Fatal(err)
	}
	for _, tr := range [][3]string{
		{"Dog", "is", "Mammal"},
		{"CustomerDB", "has", "sensitive"},
		{"Dog", "has", "fur"},
		{"Dog", "is", "Mammal"},
		{"CRM", "uses", "CustomerDB"},
	} {
		if err := src.AddRelation(ctx, tr[0], tr[1], tr[2]); err != nil {
			t.Fatal(err)
		}
	}

	want, _ := src.Knowledge(ctx)
	text, err := Format(want)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	dst := memstore.New()
	if _, err := Load(ctx, dst, strings.NewReader(text)); err != nil {
		t.Fatalf("Load(Format()): %v\n%s", err, text)
	}
	got, _ := dst.Knowledge(ctx)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatRejectsUnwritableTerms(t *testing.T) {
	for _, k := range []store.Knowledge{
		{Concepts: []store.Concept{{Name: "a,b"}}},
		{Concepts: []store.Concept{{Name: " padded"}}},
		{Concepts: []store.Concept{{Name: "a", Relations: []store.Relation{{Label: "#x", Targets: []string{"b"}}}}}},
		{Concepts: []store.Concept{{Name: "a", Relations: []store.Relation{{Label: "is", Targets: []string{"f(x)"}}}}}},
	} {
		if _, err := Format(k); !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("Format(%v): expected ErrInvalidInput, got %v", k, err)
		}
	}
}

type captureWriter struct {
	content string
}

func (w *captureWriter) WriteFacts(ctx context.Context, content string) error {
	w.content += content
	return nil
}

func TestExporter(t *testing.T) {
	ctx := context.Background()
	k := store.Knowledge{Concepts: []store.Concept{
		{Name: "Dog", Relations: []store.Relation{{Label: "is", Targets: []string{"Mammal"}}}},
		{Name: "Mammal"},
	}}

	w := &captureWriter{}
	exp := &Exporter{Writer: w}
	if err := exp.Export(ctx, k); err != nil {
		t.Fatalf("Export: %v", err)
	}

	want := "concept(Dog).\nconcept(Mammal).\nis(Dog, Mammal).\n"
	if w.content != want {
		t.Errorf("Export wrote %q, want %q", w.content, want)
	}

	var buf bytes.Buffer
	if err := (&Exporter{Writer: IOWriter{W: &buf}}).Export(ctx, k); err != nil {
		t.Fatal(err)
	}
	if buf.String() != want {
		t.Errorf("IOWriter got %q", buf.String())
	}

	if err := (&Exporter{}).Export(ctx, k); err == nil {
		t.Error("expected error for nil writer")
	}
}
