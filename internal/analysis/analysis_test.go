package analysis

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/tag-communities/internal/graph"
	"github.com/hurou927/tag-communities/internal/store"
)

func scenario() graph.Interests {
	return graph.Interests{
		"A": {"sports", "music"},
		"B": {"music", "art"},
		"C": {"cooking"},
	}
}

func TestAnalyze_Scenario(t *testing.T) {
	res := Analyze(scenario())

	assert.Equal(t, 3, res.TotalPeople)
	assert.Equal(t, 2, res.TotalCommunities)
	require.Len(t, res.Communities, 2)

	assert.Equal(t, 0, res.Communities[0].ID)
	assert.Equal(t, []string{"A", "B"}, res.Communities[0].Members)
	assert.Equal(t, []graph.CategorySummary{
		{Category: "music", People: 2, Percentage: 100},
		{Category: "sports", People: 1, Percentage: 50},
		{Category: "art", People: 1, Percentage: 50},
	}, res.Communities[0].SharedCategories)

	assert.Equal(t, 1, res.Communities[1].ID)
	assert.Equal(t, []string{"C"}, res.Communities[1].Members)
	assert.Equal(t, scenario(), res.PeopleData)
}

func TestAnalyze_Empty(t *testing.T) {
	res := Analyze(graph.Interests{})

	assert.Zero(t, res.TotalPeople)
	assert.Zero(t, res.TotalCommunities)
	assert.NotNil(t, res.Communities)
	assert.Empty(t, res.Communities)
}

func TestService_NoData(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	_, err := svc.UpdatePerson(ctx, "A", []string{"x"})
	assert.ErrorIs(t, err, store.ErrNoData)

	_, err = svc.Interests(ctx, "A")
	assert.ErrorIs(t, err, store.ErrNoData)

	_, err = svc.Current(ctx)
	assert.ErrorIs(t, err, store.ErrNoData)
}

func TestService_UpdateMovesPersonOut(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	res, err := svc.Load(ctx, graph.Interests{
		"A": {"music"},
		"B": {"music"},
		"C": {"music"},
	})
	require.NoError(t, err)
	require.Len(t, res.Communities, 1)

	res, err = svc.UpdatePerson(ctx, "B", []string{" gardening ", ""})
	require.NoError(t, err)

	comm, ok := res.CommunityOf("B")
	require.True(t, ok)
	assert.Equal(t, []string{"B"}, comm.Members)

	comm, ok = res.CommunityOf("A")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "C"}, comm.Members)

	tags, err := svc.Interests(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"gardening"}, tags)
}

func TestService_UpdateJoinsCommunity(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	_, err := svc.Load(ctx, scenario())
	require.NoError(t, err)

	res, err := svc.UpdatePerson(ctx, "C", []string{"cooking", "art"})
	require.NoError(t, err)

	require.Len(t, res.Communities, 1)
	assert.Equal(t, []string{"A", "B", "C"}, res.Communities[0].Members)
}

func TestService_UpdateAddsNewPerson(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	_, err := svc.Load(ctx, scenario())
	require.NoError(t, err)

	res, err := svc.UpdatePerson(ctx, "D", []string{"cooking"})
	require.NoError(t, err)

	assert.Equal(t, 4, res.TotalPeople)
	comm, ok := res.CommunityOf("D")
	require.True(t, ok)
	assert.Equal(t, []string{"C", "D"}, comm.Members)
}

func TestService_InterestsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	_, err := svc.Load(ctx, scenario())
	require.NoError(t, err)

	_, err = svc.Interests(ctx, "Z")
	assert.ErrorIs(t, err, store.ErrPersonNotFound)
}

func TestService_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory())

	base := graph.Interests{}
	for i := 0; i < 20; i++ {
		base[fmt.Sprintf("p%02d", i)] = []string{"shared"}
	}
	_, err := svc.Load(ctx, base)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.UpdatePerson(ctx, fmt.Sprintf("p%02d", i), []string{fmt.Sprintf("own-%d", i)})
			if assert.NoError(t, err) {
				assert.Equal(t, 20, res.TotalPeople)
			}
		}(i)
	}
	wg.Wait()

	res, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, res.TotalCommunities)
}
