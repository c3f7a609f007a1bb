package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hurou927/tag-communities/internal/graph"
)

// Postgres stores people in a `people` table with a text[] column.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an open pool. The table is created by db.NewPool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Replace swaps the dataset inside one transaction, bulk-loading with COPY.
func (p *Postgres) Replace(ctx context.Context, interests graph.Interests) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM people"); err != nil {
		return fmt.Errorf("clearing people: %w", err)
	}

	rows := make([][]any, 0, len(interests))
	for _, name := range interests.People() {
		rows = append(rows, []any{name, nonNil(interests[name])})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"people"}, []string{"name", "interests"}, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copying people: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing people: %w", err)
	}
	return nil
}

func (p *Postgres) Upsert(ctx context.Context, name string, tags []string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO people (name, interests) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET interests = EXCLUDED.interests`,
		name, nonNil(tags))
	if err != nil {
		return fmt.Errorf("upserting %q: %w", name, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, name string) ([]string, error) {
	var tags []string
	err := p.pool.QueryRow(ctx, "SELECT interests FROM people WHERE name = $1", name).Scan(&tags)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", name, err)
	}
	return nonNil(tags), nil
}

func (p *Postgres) Snapshot(ctx context.Context) (graph.Interests, error) {
	rows, err := p.pool.Query(ctx, "SELECT name, interests FROM people")
	if err != nil {
		return nil, fmt.Errorf("querying people: %w", err)
	}
	defer rows.Close()

	interests := make(graph.Interests)
	for rows.Next() {
		var (
			name string
			tags []string
		)
		if err := rows.Scan(&name, &tags); err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		interests[name] = nonNil(tags)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating people: %w", err)
	}
	return interests, nil
}

func (p *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, "SELECT count(*) FROM people").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting people: %w", err)
	}
	return n, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
