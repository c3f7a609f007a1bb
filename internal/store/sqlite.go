package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hurou927/tag-communities/internal/graph"
)

const createPeopleSQL = `
CREATE TABLE IF NOT EXISTS people (
	name      TEXT PRIMARY KEY,
	interests TEXT NOT NULL -- JSON array
)`

// SQLite stores people in a local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at path, creating the table if needed.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, createPeopleSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating people table: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Replace(ctx context.Context, interests graph.Interests) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM people"); err != nil {
		return fmt.Errorf("clearing people: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO people (name, interests) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, name := range interests.People() {
		encoded, err := encodeTags(interests[name])
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, name, encoded); err != nil {
			return fmt.Errorf("inserting %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing people: %w", err)
	}
	return nil
}

func (s *SQLite) Upsert(ctx context.Context, name string, tags []string) error {
	encoded, err := encodeTags(tags)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO people (name, interests) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET interests = excluded.interests`,
		name, encoded)
	if err != nil {
		return fmt.Errorf("upserting %q: %w", name, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, name string) ([]string, error) {
	var encoded string
	err := s.db.QueryRowContext(ctx, "SELECT interests FROM people WHERE name = ?", name).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", name, err)
	}
	return decodeTags(encoded)
}

func (s *SQLite) Snapshot(ctx context.Context) (graph.Interests, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, interests FROM people")
	if err != nil {
		return nil, fmt.Errorf("querying people: %w", err)
	}
	defer rows.Close()

	interests := make(graph.Interests)
	for rows.Next() {
		var name, encoded string
		if err := rows.Scan(&name, &encoded); err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		tags, err := decodeTags(encoded)
		if err != nil {
			return nil, err
		}
		interests[name] = tags
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating people: %w", err)
	}
	return interests, nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM people").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting people: %w", err)
	}
	return n, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func encodeTags(tags []string) (string, error) {
	b, err := json.Marshal(nonNil(tags))
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(b), nil
}

func decodeTags(encoded string) ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(encoded), &tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	return nonNil(tags), nil
}
