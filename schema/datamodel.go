package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relauto/engine/core"
)

// NoJoinKey is the sentinel join-key value meaning "synthesize a constant
// join key on both sides of the edge."
const NoJoinKey = "no join key"

// RowID is the sentinel time-stamp value meaning "synthesize a 0,1,2,...
// row-number time stamp."
const RowID = "rowid"

// CompositeSeparator joins the component names of a composite join key.
const CompositeSeparator = ","

// DataModel is the recursive, user-supplied declaration of a table and its
// edges to joined tables. All per-edge slices (spec.md §3) must share
// JoinedTables' length; this is validated at construction time, never
// lazily.
type DataModel struct {
	TableName string

	JoinedTables        []*DataModel
	Relationship        []Relationship
	JoinKeysUsed        []string
	OtherJoinKeysUsed   []string
	TimeStampsUsed      []string
	OtherTimeStampsUsed []string
	UpperTimeStampsUsed []string
	Horizon             []float64
	Memory              []float64
	AllowLaggedTargets  []bool

	Roles map[string]Role
}

// New constructs a DataModel for a single table with no edges yet.
func New(tableName string) *DataModel {
	return &DataModel{TableName: tableName, Roles: make(map[string]Role)}
}

// AddJoin appends one edge to another DataModel. All optional fields
// default to their spec.md zero-equivalents ("" for key/time-stamp names,
// 0 for horizon/memory, false for allow-lagged-targets) and can be set
// after construction, provided Validate() is called again before staging.
func (d *DataModel) AddJoin(joined *DataModel, rel Relationship, joinKey, otherJoinKey string) {
	d.JoinedTables = append(d.JoinedTables, joined)
	d.Relationship = append(d.Relationship, rel)
	d.JoinKeysUsed = append(d.JoinKeysUsed, joinKey)
	d.OtherJoinKeysUsed = append(d.OtherJoinKeysUsed, otherJoinKey)
	d.TimeStampsUsed = append(d.TimeStampsUsed, "")
	d.OtherTimeStampsUsed = append(d.OtherTimeStampsUsed, "")
	d.UpperTimeStampsUsed = append(d.UpperTimeStampsUsed, "")
	d.Horizon = append(d.Horizon, 0)
	d.Memory = append(d.Memory, 0)
	d.AllowLaggedTargets = append(d.AllowLaggedTargets, false)
}

// Validate checks the per-edge vector length invariant and the
// upper-time-stamp/memory mutual-exclusion rule (spec.md §4.3 step 2),
// returning a wrapped core.ErrConfiguration on any violation.
func (d *DataModel) Validate() error {
	n := len(d.JoinedTables)
	lengths := map[string]int{
		"Relationship":        len(d.Relationship),
		"JoinKeysUsed":        len(d.JoinKeysUsed),
		"OtherJoinKeysUsed":   len(d.OtherJoinKeysUsed),
		"TimeStampsUsed":      len(d.TimeStampsUsed),
		"OtherTimeStampsUsed": len(d.OtherTimeStampsUsed),
		"UpperTimeStampsUsed": len(d.UpperTimeStampsUsed),
		"Horizon":             len(d.Horizon),
		"Memory":              len(d.Memory),
		"AllowLaggedTargets":  len(d.AllowLaggedTargets),
	}
	for field, l := range lengths {
		if l != n {
			return fmt.Errorf("schema: table %q: edge vector %s has length %d, want %d (len(JoinedTables)): %w",
				d.TableName, field, l, n, core.ErrConfiguration)
		}
	}
	for i := range d.JoinedTables {
		if d.UpperTimeStampsUsed[i] != "" && d.Memory[i] > 0 {
			return fmt.Errorf("schema: table %q edge %d: both upper time stamp and positive memory set: %w",
				d.TableName, i, core.ErrConfiguration)
		}
		if err := d.JoinedTables[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Encode produces a deterministic textual encoding of the DataModel,
// suitable as input to fingerprint.DataModel. Encoding walks the join tree
// in the same pre-order staging uses for alias assignment so the encoding
// is stable across identical inputs regardless of map iteration order
// (Roles is sorted by key).
func (d *DataModel) Encode() string {
	var b strings.Builder
	d.encode(&b)
	return b.String()
}

func (d *DataModel) encode(b *strings.Builder) {
	b.WriteString("table=")
	b.WriteString(d.TableName)
	b.WriteString(";roles=")

	keys := make([]string, 0, len(d.Roles))
	for k := range d.Roles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s:%d,", k, d.Roles[k])
	}

	b.WriteString(";edges=[")
	for i, joined := range d.JoinedTables {
		if i > 0 {
			b.WriteString("|")
		}
		fmt.Fprintf(b, "rel=%d,jk=%s,ojk=%s,ts=%s,ots=%s,uts=%s,h=%g,m=%g,alt=%t,joined=(",
			d.Relationship[i], d.JoinKeysUsed[i], d.OtherJoinKeysUsed[i],
			d.TimeStampsUsed[i], d.OtherTimeStampsUsed[i], d.UpperTimeStampsUsed[i],
			d.Horizon[i], d.Memory[i], d.AllowLaggedTargets[i])
		joined.encode(b)
		b.WriteString(")")
	}
	b.WriteString("]")
}
