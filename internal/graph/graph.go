package graph

import "sort"

// Interests maps a person identifier to that person's interest tags.
// Tags keep their listed order; duplicates are allowed.
type Interests map[string][]string

// People returns the person identifiers in lexicographic order.
func (in Interests) People() []string {
	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the mapping.
func (in Interests) Clone() Interests {
	out := make(Interests, len(in))
	for name, tags := range in {
		out[name] = append([]string(nil), tags...)
	}
	return out
}

// Graph connects people who share at least one interest tag.
// Edges are always stored in both directions.
type Graph struct {
	// Adjacency maps person -> neighbors in insertion order
	Adjacency map[string][]string
}

// Build constructs the interest graph. Every person gets a vertex, even
// with no tags. Two people are linked when their tag sets intersect;
// tags are compared by exact string equality.
func Build(interests Interests) *Graph {
	g := &Graph{Adjacency: make(map[string][]string, len(interests))}

	people := interests.People()
	sets := make([]map[string]bool, len(people))
	for i, name := range people {
		g.Adjacency[name] = []string{}
		sets[i] = tagSet(interests[name])
	}

	for i := 0; i < len(people); i++ {
		for j := i + 1; j < len(people); j++ {
			if !intersects(sets[i], sets[j]) {
				continue
			}
			// each unordered pair is visited once, so no duplicate check
			g.Adjacency[people[i]] = append(g.Adjacency[people[i]], people[j])
			g.Adjacency[people[j]] = append(g.Adjacency[people[j]], people[i])
		}
	}

	return g
}

// Neighbors returns the neighbors of person.
func (g *Graph) Neighbors(person string) []string {
	return g.Adjacency[person]
}

// HasEdge reports whether b is a neighbor of a.
func (g *Graph) HasEdge(a, b string) bool {
	for _, n := range g.Adjacency[a] {
		if n == b {
			return true
		}
	}
	return false
}

// Vertices returns every vertex of the graph in lexicographic order,
// including identifiers that only appear as someone's neighbor.
func (g *Graph) Vertices() []string {
	seen := make(map[string]bool, len(g.Adjacency))
	var vertices []string
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			vertices = append(vertices, v)
		}
	}
	for v, neighbors := range g.Adjacency {
		add(v)
		for _, n := range neighbors {
			add(n)
		}
	}
	sort.Strings(vertices)
	return vertices
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, neighbors := range g.Adjacency {
		count += len(neighbors)
	}
	return count / 2
}

func tagSet(tags []string) map[string]bool {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}

func intersects(a, b map[string]bool) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for t := range a {
		if b[t] {
			return true
		}
	}
	return false
}
