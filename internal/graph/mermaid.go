package graph

import (
	"fmt"
	"io"
	"strings"
)

// WriteMermaid writes the interest graph in Mermaid format to w.
// Each community is a subgraph.
func WriteMermaid(w io.Writer, interests Interests) error {
	g := Build(interests)
	communities := FindCommunities(g)

	ids := make(map[string]string)
	for i, v := range g.Vertices() {
		ids[v] = fmt.Sprintf("p%d", i+1)
	}

	if _, err := fmt.Fprintln(w, "graph LR"); err != nil {
		return err
	}

	for i, comm := range communities {
		fmt.Fprintf(w, "    subgraph community_%d\n", i+1)

		for _, m := range comm.Members {
			fmt.Fprintf(w, "        %s[\"%s\"]\n", ids[m], mermaidLabel(m))
		}

		// each undirected edge once, from the smaller name
		for _, m := range comm.Members {
			for _, n := range g.Neighbors(m) {
				if m < n {
					fmt.Fprintf(w, "        %s --- %s\n", ids[m], ids[n])
				}
			}
		}

		fmt.Fprintln(w, "    end")
		if i < len(communities)-1 {
			fmt.Fprintln(w)
		}
	}

	return nil
}

// WriteText writes a text summary of the communities to w.
func WriteText(w io.Writer, interests Interests) error {
	g := Build(interests)
	communities := FindCommunities(g)

	if _, err := fmt.Fprintf(w, "People: %d\n", len(interests)); err != nil {
		return err
	}
	fmt.Fprintf(w, "Connections: %d\n", g.EdgeCount())
	fmt.Fprintf(w, "Communities: %d\n\n", len(communities))

	for i, comm := range communities {
		if comm.Size() == 1 {
			fmt.Fprintf(w, "=== Community %d - isolated person: %s ===\n\n", i+1, comm.Members[0])
			continue
		}

		fmt.Fprintf(w, "=== Community %d (%d people) ===\n", i+1, comm.Size())
		fmt.Fprintf(w, "  Members: %s\n", strings.Join(comm.Members, ", "))

		summaries := Profile(interests, comm)
		if len(summaries) > 0 {
			fmt.Fprintln(w, "  Shared categories:")
			for _, s := range summaries {
				fmt.Fprintf(w, "    - %s: %d/%d people (%.1f%%)\n",
					s.Category, s.People, comm.Size(), s.Percentage)
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

// mermaidLabel makes a person name safe inside a quoted Mermaid label.
func mermaidLabel(name string) string {
	return strings.ReplaceAll(name, `"`, "#quot;")
}
