// Package analysis runs the community pipeline over a stored dataset.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hurou927/tag-communities/internal/graph"
	"github.com/hurou927/tag-communities/internal/store"
)

// Community is one detected community with its tag profile.
type Community struct {
	ID               int                     `json:"id"`
	Members          []string                `json:"members"`
	SharedCategories []graph.CategorySummary `json:"shared_categories"`
}

// Result is the outcome of one analysis run.
type Result struct {
	Communities      []Community     `json:"communities"`
	TotalPeople      int             `json:"total_people"`
	TotalCommunities int             `json:"total_communities"`
	PeopleData       graph.Interests `json:"people_data"`
}

// Analyze builds the interest graph, finds its communities and profiles
// each of them. It does not retain interests.
func Analyze(interests graph.Interests) Result {
	communities := graph.FindCommunities(graph.Build(interests))

	res := Result{
		Communities:      make([]Community, 0, len(communities)),
		TotalPeople:      len(interests),
		TotalCommunities: len(communities),
		PeopleData:       interests.Clone(),
	}
	for i, c := range communities {
		res.Communities = append(res.Communities, Community{
			ID:               i,
			Members:          c.Members,
			SharedCategories: graph.Profile(interests, c),
		})
	}
	return res
}

// CommunityOf returns the community holding person, if any.
func (r Result) CommunityOf(person string) (Community, bool) {
	for _, c := range r.Communities {
		for _, m := range c.Members {
			if m == person {
				return c, true
			}
		}
	}
	return Community{}, false
}

// Service owns the dataset handle. A mutex makes every
// read-modify-compute sequence a single writer.
type Service struct {
	mu    sync.Mutex
	store store.Store
}

// NewService returns a Service backed by s.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Load replaces the dataset and analyzes it.
func (s *Service) Load(ctx context.Context, interests graph.Interests) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Replace(ctx, interests); err != nil {
		return Result{}, fmt.Errorf("storing people: %w", err)
	}
	return Analyze(interests), nil
}

// UpdatePerson replaces one person's tags and recomputes the communities.
// Tags are trimmed and empty ones dropped. Unknown people are added.
func (s *Service) UpdatePerson(ctx context.Context, name string, tags []string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireData(ctx); err != nil {
		return Result{}, err
	}

	clean := []string{}
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if err := s.store.Upsert(ctx, name, clean); err != nil {
		return Result{}, fmt.Errorf("updating %q: %w", name, err)
	}

	return s.current(ctx)
}

// Interests returns the stored tags of one person.
func (s *Service) Interests(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireData(ctx); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, name)
}

// Current analyzes the stored dataset.
func (s *Service) Current(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireData(ctx); err != nil {
		return Result{}, err
	}
	return s.current(ctx)
}

func (s *Service) current(ctx context.Context) (Result, error) {
	interests, err := s.store.Snapshot(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("reading people: %w", err)
	}
	return Analyze(interests), nil
}

func (s *Service) requireData(ctx context.Context) error {
	n, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting people: %w", err)
	}
	if n == 0 {
		return store.ErrNoData
	}
	return nil
}
