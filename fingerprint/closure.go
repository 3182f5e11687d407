package fingerprint

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// closureNode adapts a fingerprint's canonical string into a gonum graph
// node so the transitive dependency set can be walked with the same
// algorithms the pack's graph-algorithms repo (katalvlaran/lvlath) uses for
// join-tree traversal, rather than a hand-rolled recursive walk.
type closureNode struct {
	id  int64
	key string
}

func (n closureNode) ID() int64 { return n.id }

// ValidateClosure builds a directed graph over the full transitive
// dependency closure of fp (nodes = canonical fingerprint strings, edges =
// "depends on") and verifies it is a DAG. Fingerprints built exclusively
// through this package's variant constructors can never contain a cycle,
// but hand-assembled or deserialized fingerprints can; constructing a
// fingerprint that turns out to reference a missing or cyclic dependency is
// a fatal configuration error per spec.md §4.1, surfaced here rather than
// lazily during a tracker lookup.
func ValidateClosure(fp Fingerprint) error {
	g := simple.NewDirectedGraph()
	nodes := make(map[string]closureNode)
	var nextID int64

	var nodeFor func(key string) closureNode
	nodeFor = func(key string) closureNode {
		if n, ok := nodes[key]; ok {
			return n
		}
		n := closureNode{id: nextID, key: key}
		nextID++
		nodes[key] = n
		g.AddNode(n)
		return n
	}

	seen := make(map[string]bool)
	var walk func(f Fingerprint)
	walk = func(f Fingerprint) {
		key := f.String()
		if seen[key] {
			return
		}
		seen[key] = true
		from := nodeFor(key)
		for _, dep := range f.Dependencies() {
			to := nodeFor(dep.String())
			if from.ID() == to.ID() {
				continue
			}
			if !g.HasEdgeFromTo(from.ID(), to.ID()) {
				g.SetEdge(simple.Edge{F: from, T: to})
			}
			walk(dep)
		}
	}
	walk(fp)

	if _, err := topo.Sort(g); err != nil {
		return fmt.Errorf("fingerprint: dependency closure of %s is not acyclic: %w", fp.Kind(), err)
	}

	// Every node reachable from fp must itself resolve to a well-formed
	// fingerprint (non-empty kind); a zero-value Fingerprint embedded as a
	// dependency indicates a missing reference.
	iter := g.Nodes()
	for iter.Next() {
		n, ok := iter.Node().(closureNode)
		if !ok {
			continue
		}
		if n.key == (Fingerprint{}).String() {
			return &ErrMissingDependency{Fingerprint: fp.String()}
		}
	}
	return nil
}

var _ graph.Node = closureNode{}
