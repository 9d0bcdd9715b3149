package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/playground/pkg/playground/internalerr"
	"github.com/cognicore/playground/pkg/playground/store"
)

// sqliteStore implements store.Store on a private in-memory SQLite database.
// Nothing is written to disk; the knowledge base lives as long as the store.
type sqliteStore struct {
	db *sql.DB
}

// Open creates a fresh in-memory knowledge store.
func Open(ctx context.Context) (store.Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection, discarding its contents.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS concepts (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS relations (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	subject TEXT NOT NULL,
	label TEXT NOT NULL,
	target TEXT NOT NULL,
	FOREIGN KEY(subject) REFERENCES concepts(name),
	FOREIGN KEY(target) REFERENCES concepts(name)
);

CREATE INDEX IF NOT EXISTS relations_subject_label ON relations(subject, label);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

const insertConcept = `INSERT INTO concepts (name) VALUES (?) ON CONFLICT(name) DO NOTHING`

// AddConcept inserts c unless it already exists.
func (s *sqliteStore) AddConcept(ctx context.Context, c string) error {
	_, err := s.db.ExecContext(ctx, insertConcept, c)
	return err
}

// AddRelation inserts both endpoints and appends the relation row.
func (s *sqliteStore) AddRelation(ctx context.Context, subject, label, target string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range []string{subject, target} {
		if _, err := tx.ExecContext(ctx, insertConcept, c); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO relations (subject, label, target) VALUES (?, ?, ?)`,
		subject, label, target,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Concept returns c's relations grouped by label.
func (s *sqliteStore) Concept(ctx context.Context, c string) (store.Relations, bool, error) {
	known, err := s.known(ctx, c)
	if err != nil || !known {
		return nil, false, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT label, target FROM relations WHERE subject = ? ORDER BY seq`, c)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	rels := make(store.Relations)
	for rows.Next() {
		var label, target string
		if err := rows.Scan(&label, &target); err != nil {
			return nil, false, err
		}
		rels[label] = append(rels[label], target)
	}
	return rels, true, rows.Err()
}

// Relations returns c's targets under label in insertion order.
func (s *sqliteStore) Relations(ctx context.Context, c, label string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT target FROM relations WHERE subject = ? AND label = ? ORDER BY seq`, c, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	targets := []string{}
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}

// Has reports whether the relation row exists.
func (s *sqliteStore) Has(ctx context.Context, c, label, target string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM relations WHERE subject = ? AND label = ? AND target = ?)`,
		c, label, target,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

// Knowledge returns every concept and relation in insertion order.
func (s *sqliteStore) Knowledge(ctx context.Context) (store.Knowledge, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM concepts ORDER BY seq`)
	if err != nil {
		return store.Knowledge{}, err
	}

	k := store.Knowledge{Concepts: []store.Concept{}}
	index := make(map[string]int)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return store.Knowledge{}, err
		}
		index[name] = len(k.Concepts)
		k.Concepts = append(k.Concepts, store.Concept{Name: name, Relations: []store.Relation{}})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return store.Knowledge{}, err
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT subject, label, target FROM relations ORDER BY seq`)
	if err != nil {
		return store.Knowledge{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var subject, label, target string
		if err := rows.Scan(&subject, &label, &target); err != nil {
			return store.Knowledge{}, err
		}
		c := &k.Concepts[index[subject]]
		appended := false
		for i := range c.Relations {
			if c.Relations[i].Label == label {
				c.Relations[i].Targets = append(c.Relations[i].Targets, target)
				appended = true
				break
			}
		}
		if !appended {
			c.Relations = append(c.Relations, store.Relation{Label: label, Targets: []string{target}})
		}
	}
	return k, rows.Err()
}

func (s *sqliteStore) known(ctx context.Context, c string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM concepts WHERE name = ?)`, c,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}
