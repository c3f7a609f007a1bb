package graph

import "sort"

// CategorySummary tells how many members of a community hold a tag.
type CategorySummary struct {
	Category   string  `json:"category"`
	People     int     `json:"people"`
	Percentage float64 `json:"percentage"`
}

// Profile tallies the tags held by the members of c, most common first.
// Ties keep the order in which tags were first seen, walking members in
// community order. Members missing from interests still count toward the
// community size.
//
// A tag listed several times by one person counts once for that person, so
// People never exceeds the community size and Percentage stays within
// [0, 100]. Counting every listed occurrence would let a single member
// push a tag past 100%.
func Profile(interests Interests, c Community) []CategorySummary {
	summaries := []CategorySummary{}
	total := len(c.Members)
	if total == 0 {
		return summaries
	}

	counts := make(map[string]int)
	var order []string
	for _, member := range c.Members {
		tags, ok := interests[member]
		if !ok {
			continue
		}
		// a person holds a tag once, however often it is listed
		held := make(map[string]bool, len(tags))
		for _, tag := range tags {
			if held[tag] {
				continue
			}
			held[tag] = true
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	for _, tag := range order {
		summaries = append(summaries, CategorySummary{
			Category:   tag,
			People:     counts[tag],
			Percentage: float64(counts[tag]) / float64(total) * 100,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].People > summaries[j].People
	})

	return summaries
}
