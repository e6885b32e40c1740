package model

import (
	"github.com/hupe1980/semconvert/internal/rdf"
	"github.com/hupe1980/semconvert/internal/store"
)

// Node is a graph node. Label holds the raw identifier value.
type Node struct {
	Key   string
	Label string
}

// Edge connects the nodes of a quad's subject and object. Label holds the
// raw predicate value.
type Edge struct {
	From  string
	To    string
	Label string
}

// Graph is the node and edge view of a store.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// BuildGraph collects nodes from the subjects and then the objects of the
// store, keyed by NodeKey. A later value whose key is already present
// replaces that node's label in place. Every quad with a non-empty
// predicate contributes one edge.
func BuildGraph(s *store.Store) *Graph {
	g := &Graph{}
	index := make(map[string]int)

	add := func(terms []rdf.Term) {
		for _, t := range terms {
			key := NodeKey(t.Value)
			if i, ok := index[key]; ok {
				g.Nodes[i].Label = t.Value
				continue
			}

			index[key] = len(g.Nodes)
			g.Nodes = append(g.Nodes, Node{Key: key, Label: t.Value})
		}
	}

	add(s.Subjects())
	add(s.Objects())

	for _, q := range s.Quads() {
		if q.Predicate.Value == "" {
			continue
		}

		g.Edges = append(g.Edges, Edge{
			From:  NodeKey(q.Subject.Value),
			To:    NodeKey(q.Object.Value),
			Label: q.Predicate.Value,
		})
	}

	return g
}
