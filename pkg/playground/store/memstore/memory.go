package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/playground/pkg/playground/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu       sync.RWMutex
	order    []string
	concepts map[string]*concept
}

type concept struct {
	labels []string
	rels   map[string][]string
}

// New creates a new, empty in-memory store.
func New() *Store {
	return &Store{
		concepts: make(map[string]*concept),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// AddConcept inserts c with no relations unless it already exists.
func (s *Store) AddConcept(ctx context.Context, c string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vivify(c)
	return nil
}

// AddRelation appends target to subject's label list, creating both concepts.
func (s *Store) AddRelation(ctx context.Context, subject, label, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.vivify(subject)
	s.vivify(target)

	if _, ok := src.rels[label]; !ok {
		src.labels = append(src.labels, label)
	}
	src.rels[label] = append(src.rels[label], target)
	return nil
}

// Concept returns a copy of c's relations.
func (s *Store) Concept(ctx context.Context, c string) (store.Relations, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.concepts[c]
	if !ok {
		return nil, false, nil
	}
	out := make(store.Relations, len(entry.rels))
	for label, targets := range entry.rels {
		out[label] = copyStrings(targets)
	}
	return out, true, nil
}

// Relations returns a copy of c's targets under label.
func (s *Store) Relations(ctx context.Context, c, label string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.concepts[c]
	if !ok {
		return []string{}, nil
	}
	return copyStrings(entry.rels[label]), nil
}

// Has reports whether target is among c's label targets.
func (s *Store) Has(ctx context.Context, c, label, target string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.concepts[c]
	if !ok {
		return false, nil
	}
	return store.Contains(entry.rels[label], target), nil
}

// Knowledge returns an ordered snapshot of the store.
func (s *Store) Knowledge(ctx context.Context) (store.Knowledge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k := store.Knowledge{Concepts: make([]store.Concept, 0, len(s.order))}
	for _, name := range s.order {
		entry := s.concepts[name]
		c := store.Concept{Name: name, Relations: make([]store.Relation, 0, len(entry.labels))}
		for _, label := range entry.labels {
			c.Relations = append(c.Relations, store.Relation{
				Label:   label,
				Targets: copyStrings(entry.rels[label]),
			})
		}
		k.Concepts = append(k.Concepts, c)
	}
	return k, nil
}

// vivify returns c's entry, creating it if absent. Caller holds the write lock.
func (s *Store) vivify(c string) *concept {
	if entry, ok := s.concepts[c]; ok {
		return entry
	}
	entry := &concept{rels: make(map[string][]string)}
	s.concepts[c] = entry
	s.order = append(s.order, c)
	return entry
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

var _ store.Store = (*Store)(nil)
