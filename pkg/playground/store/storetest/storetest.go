// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cognicore/playground/pkg/playground/store"
)

// Run exercises a backend. open must return a fresh, empty store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"AddRelationCreatesBothEndpoints", testAddRelationCreatesBothEndpoints},
		{"AddConceptIdempotent", testAddConceptIdempotent},
		{"DuplicatesKept", testDuplicatesKept},
		{"InsertionOrder", testInsertionOrder},
		{"UnknownLookups", testUnknownLookups},
		{"EmptyStringConcept", testEmptyStringConcept},
		{"KnowledgeSnapshot", testKnowledgeSnapshot},
		{"SnapshotDetached", testSnapshotDetached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			defer s.Close()
			tt.fn(t, s)
		})
	}
}

func mustAdd(t *testing.T, s store.Store, subject, label, target string) {
	t.Helper()
	if err := s.AddRelation(context.Background(), subject, label, target); err != nil {
		t.Fatalf("AddRelation(%q, %q, %q): %v", subject, label, target, err)
	}
}

func testAddRelationCreatesBothEndpoints(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustAdd(t, s, "Dog", "is", "Mammal")

	rels, ok, err := s.Concept(ctx, "Mammal")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected target concept to be known")
	}
	if len(rels) != 0 {
		t.Errorf("expected no outgoing relations for target, got %v", rels)
	}

	rels, ok, err = s.Concept(ctx, "Dog")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected subject concept to be known")
	}
	if diff := cmp.Diff(store.Relations{"is": {"Mammal"}}, rels); diff != "" {
		t.Errorf("Dog relations mismatch (-want +got):\n%s", diff)
	}
}

func testAddConceptIdempotent(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustAdd(t, s, "Dog", "is", "Mammal")

	before, err := s.Knowledge(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := s.AddConcept(ctx, "Dog"); err != nil {
			t.Fatal(err)
		}
	}
	after, err := s.Knowledge(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, after, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("re-adding a concept changed the store (-before +after):\n%s", diff)
	}
}

func testDuplicatesKept(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustAdd(t, s, "Dog", "is", "Mammal")
	mustAdd(t, s, "Dog", "is", "Mammal")

	got, err := s.Relations(ctx, "Dog", "is")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Mammal", "Mammal"}, got); diff != "" {
		t.Errorf("duplicates mismatch (-want +got):\n%s", diff)
	}
}

func testInsertionOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, target := range []string{"Pet", "Mammal", "Animal"} {
		mustAdd(t, s, "Dog", "is", target)
	}

	got, err := s.Relations(ctx, "Dog", "is")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Pet", "Mammal", "Animal"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	has, err := s.Has(ctx, "Dog", "is", "Mammal")
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Error("expected Has(Dog, is, Mammal)")
	}
}

func testUnknownLookups(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustAdd(t, s, "Dog", "is", "Mammal")

	for _, tc := range []struct{ concept, label string }{
		{"Ghost", "is"},
		{"Dog", "has"},
		{"Mammal", "is"},
	} {
		got, err := s.Relations(ctx, tc.concept, tc.label)
		if err != nil {
			t.Fatalf("Relations(%q, %q): %v", tc.concept, tc.label, err)
		}
		if len(got) != 0 {
			t.Errorf("Relations(%q, %q) = %v, want empty", tc.concept, tc.label, got)
		}
	}

	_, ok, err := s.Concept(ctx, "Ghost")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected Ghost to be unknown")
	}

	has, err := s.Has(ctx, "Ghost", "is", "Mammal")
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Error("unknown concept should not have relations")
	}
}

func testEmptyStringConcept(t *testing.T, s store.Store) {
	ctx := context.Background()
	if _, ok, _ := s.Concept(ctx, ""); ok {
		t.Fatal("empty concept should start absent")
	}
	if err := s.AddConcept(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Concept(ctx, ""); !ok {
		t.Error("empty concept should be known after AddConcept")
	}
}

func testKnowledgeSnapshot(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustAdd(t, s, "Dog", "is", "Mammal")
	mustAdd(t, s, "CustomerDB", "has", "sensitive")
	mustAdd(t, s, "Dog", "has", "fur")
	mustAdd(t, s, "Dog", "is", "Pet")
	if err := s.AddConcept(ctx, "Cat"); err != nil {
		t.Fatal(err)
	}

	got, err := s.Knowledge(ctx)
	if err != nil {
		t.Fatal(err)
	}

	want := store.Knowledge{Concepts: []store.Concept{
		{Name: "Dog", Relations: []store.Relation{
			{Label: "is", Targets: []string{"Mammal", "Pet"}},
			{Label: "has", Targets: []string{"fur"}},
		}},
		{Name: "Mammal"},
		{Name: "CustomerDB", Relations: []store.Relation{
			{Label: "has", Targets: []string{"sensitive"}},
		}},
		{Name: "sensitive"},
		{Name: "fur"},
		{Name: "Pet"},
		{Name: "Cat"},
	}}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("knowledge mismatch (-want +got):\n%s", diff)
	}
}

func testSnapshotDetached(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustAdd(t, s, "Dog", "is", "Mammal")

	k, err := s.Knowledge(ctx)
	if err != nil {
		t.Fatal(err)
	}
	k.Concepts[0].Relations[0].Targets[0] = "Reptile"

	got, err := s.Relations(ctx, "Dog", "is")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Mammal"}, got); diff != "" {
		t.Errorf("snapshot mutation leaked into store (-want +got):\n%s", diff)
	}
}
