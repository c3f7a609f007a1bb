package graph

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Scenario(t *testing.T) {
	got := Profile(scenario(), Community{Members: []string{"A", "B"}})

	assert.Equal(t, []CategorySummary{
		{Category: "music", People: 2, Percentage: 100},
		{Category: "sports", People: 1, Percentage: 50},
		{Category: "art", People: 1, Percentage: 50},
	}, got)
}

func TestProfile_EmptyCommunity(t *testing.T) {
	got := Profile(scenario(), Community{})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProfile_UnknownMemberCountsTowardSize(t *testing.T) {
	in := Interests{"A": {"x"}}
	got := Profile(in, Community{Members: []string{"A", "ghost"}})

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].People)
	assert.InDelta(t, 50.0, got[0].Percentage, 1e-9)
}

func TestProfile_DuplicateTagCountsOncePerPerson(t *testing.T) {
	in := Interests{
		"A": {"x", "x"},
		"B": {"y"},
	}
	got := Profile(in, Community{Members: []string{"A", "B"}})

	assert.Equal(t, []CategorySummary{
		{Category: "x", People: 1, Percentage: 50},
		{Category: "y", People: 1, Percentage: 50},
	}, got)
}

func TestProfile_TieKeepsFirstSeenOrder(t *testing.T) {
	in := Interests{
		"A": {"zeta", "alpha"},
		"B": {"mid"},
	}
	got := Profile(in, Community{Members: []string{"A", "B"}})

	var order []string
	for _, s := range got {
		order = append(order, s.Category)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, order)
}

func TestProfile_PercentageBound(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	in := randomInterests(r, 30, 6)

	for _, c := range FindCommunities(Build(in)) {
		for _, s := range Profile(in, c) {
			assert.GreaterOrEqual(t, s.Percentage, 0.0)
			assert.LessOrEqual(t, s.Percentage, 100.0)

			holders := 0
			for _, m := range c.Members {
				if tagSet(in[m])[s.Category] {
					holders++
				}
			}
			assert.Equal(t, holders, s.People)
			if holders == c.Size() {
				assert.Equal(t, 100.0, s.Percentage)
			}
		}
	}
}

func TestProfile_SortedByCountDescending(t *testing.T) {
	in := Interests{
		"A": {"rare", "common"},
		"B": {"common", "mid"},
		"C": {"common", "mid"},
	}
	got := Profile(in, Community{Members: []string{"A", "B", "C"}})

	require.Len(t, got, 3)
	assert.Equal(t, "common", got[0].Category)
	assert.Equal(t, "mid", got[1].Category)
	assert.Equal(t, "rare", got[2].Category)
}
