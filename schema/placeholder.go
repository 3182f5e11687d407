package schema

import (
	"fmt"
	"strings"
)

// Placeholder is the canonicalized version of a DataModel after staging:
// many-to-one chains are flattened into aliased composite table names, and
// every memory/horizon pair is rewritten into explicit upper/lower
// time-stamp column names. Aliases are assigned t1, t2, ... in join-tree
// pre-order starting from the population.
type Placeholder struct {
	Name  string // carries POPULATION_SUFFIX for the root
	Alias string // "t1", "t2", ...

	JoinedTables        []*Placeholder // only to-many edges become children
	Relationship        []Relationship
	JoinKeysUsed        []string
	OtherJoinKeysUsed   []string
	TimeStampsUsed      []string
	OtherTimeStampsUsed []string
	UpperTimeStampsUsed []string
	LowerTimeStampsUsed []string
	AllowLaggedTargets  []bool

	// Peripheral lists every reachable peripheral table name under this
	// node (spec.md §4.3 step 4 "Output").
	Peripheral []string
}

// Walk visits every Placeholder node in the tree, pre-order, calling fn
// with the node and its depth. This is the traversal spec.md's "Output: A
// Placeholder tree" is built around, and the shape column-importance
// dealiasing and SQL generation both reuse.
func (p *Placeholder) Walk(fn func(node *Placeholder, depth int)) {
	p.walk(fn, 0)
}

func (p *Placeholder) walk(fn func(node *Placeholder, depth int), depth int) {
	fn(p, depth)
	for _, child := range p.JoinedTables {
		child.walk(fn, depth+1)
	}
}

// Encode produces a deterministic textual encoding of the Placeholder tree,
// mirroring DataModel.Encode so fingerprints taken before and after staging
// use the same canonicalization discipline.
func (p *Placeholder) Encode() string {
	var b strings.Builder
	p.encode(&b)
	return b.String()
}

func (p *Placeholder) encode(b *strings.Builder) {
	fmt.Fprintf(b, "name=%s;alias=%s;peripheral=%s;edges=[", p.Name, p.Alias, strings.Join(p.Peripheral, ","))
	for i, joined := range p.JoinedTables {
		if i > 0 {
			b.WriteString("|")
		}
		fmt.Fprintf(b, "rel=%d,jk=%s,ojk=%s,ts=%s,ots=%s,uts=%s,lts=%s,alt=%t,joined=(",
			p.Relationship[i], p.JoinKeysUsed[i], p.OtherJoinKeysUsed[i],
			p.TimeStampsUsed[i], p.OtherTimeStampsUsed[i], p.UpperTimeStampsUsed[i],
			p.LowerTimeStampsUsed[i], p.AllowLaggedTargets[i])
		joined.encode(b)
		b.WriteString(")")
	}
	b.WriteString("]")
}

// FindAlias returns the Placeholder node with the given alias, or nil.
func (p *Placeholder) FindAlias(alias string) *Placeholder {
	var found *Placeholder
	p.Walk(func(node *Placeholder, _ int) {
		if found == nil && node.Alias == alias {
			found = node
		}
	})
	return found
}
