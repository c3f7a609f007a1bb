// Package store keeps the uploaded person -> interests dataset between requests.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/hurou927/tag-communities/internal/config"
	"github.com/hurou927/tag-communities/internal/db"
	"github.com/hurou927/tag-communities/internal/graph"
)

var (
	ErrNoData         = errors.New("no data loaded, analyze a file first")
	ErrPersonNotFound = errors.New("person not found")
)

// Store persists one dataset. Implementations are safe for concurrent use,
// but callers that read, modify and recompute must serialize those steps
// themselves.
type Store interface {
	// Replace discards the current dataset and stores interests.
	Replace(ctx context.Context, interests graph.Interests) error
	// Upsert sets the tags of one person, adding the person if needed.
	Upsert(ctx context.Context, name string, tags []string) error
	// Get returns the tags of one person or ErrPersonNotFound.
	Get(ctx context.Context, name string) ([]string, error)
	// Snapshot returns a copy of the whole dataset.
	Snapshot(ctx context.Context) (graph.Interests, error)
	// Count returns the number of stored people.
	Count(ctx context.Context) (int, error)
	Close() error
}

// Open creates the store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, &cfg.Connection)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		return NewPostgres(pool), nil
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.Store.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// nonNil keeps empty tag lists from being stored as NULL.
func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
