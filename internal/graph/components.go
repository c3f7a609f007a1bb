package graph

import "sort"

// Community is a maximal set of people who can all reach each other.
type Community struct {
	Members []string
}

// Size returns the number of members.
func (c Community) Size() int {
	return len(c.Members)
}

// FindCommunities detects strongly connected components with Malgrange's
// method: the component of a vertex is the intersection of its direct and
// inverse transitive closures. Seeds are taken in lexicographic order, so
// communities come out ordered by their smallest member.
func FindCommunities(g *Graph) []Community {
	vertices := g.Vertices()
	reverse := g.reverse()

	processed := make(map[string]bool, len(vertices))
	var communities []Community

	for _, v := range vertices {
		if processed[v] {
			continue
		}

		direct := closure(v, g.Adjacency)
		inverse := closure(v, reverse)

		var members []string
		for u := range direct {
			if inverse[u] {
				members = append(members, u)
				processed[u] = true
			}
		}
		sort.Strings(members)
		communities = append(communities, Community{Members: members})
	}

	return communities
}

// reverse returns the adjacency with every edge flipped, so the inverse
// closure can follow edges backwards without scanning all vertices.
func (g *Graph) reverse() map[string][]string {
	rev := make(map[string][]string, len(g.Adjacency))
	for _, u := range g.Vertices() {
		for _, n := range g.Adjacency[u] {
			rev[n] = append(rev[n], u)
		}
	}
	return rev
}

// closure returns every vertex reachable from start along adj, start included.
func closure(start string, adj map[string][]string) map[string]bool {
	visited := map[string]bool{start: true}
	stack := []string{start}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, next := range adj[node] {
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}

	return visited
}
