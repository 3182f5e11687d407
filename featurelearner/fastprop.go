package featurelearner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/schema"
)

// Hyperparams controls FastProp's feature bank size and aggregation
// recursion, per spec.md §4.5 / fingerprint.FastPropHyperparams.
type Hyperparams struct {
	NumFeaturesMax   int
	AggregationDepth int
	MinRatio         float64
}

var aggFuncs = []struct {
	name string
	fn   func([]float64) float64
}{
	{"SUM", sum},
	{"AVG", avg},
	{"COUNT", count},
	{"MIN", min},
	{"MAX", max},
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func avg(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return sum(xs) / float64(len(xs))
}

func count(xs []float64) float64 { return float64(len(xs)) }

func min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// FastProp generates numeric features by aggregating each to-many
// peripheral table into the population (and, up to AggregationDepth
// levels, each peripheral's own to-many children into it first), then
// trims the resulting bank to NumFeaturesMax and MinRatio (spec.md §4.5).
// No dedicated automated-feature-engineering library is available; the
// aggregation functions (SUM/AVG/COUNT/MIN/MAX) are implemented in this
// file and applied over each join-key group.
type FastProp struct {
	hp          Hyperparams
	deps        []fingerprint.Fingerprint
	peripheral  []string
	placeholder *schema.Placeholder
	targetNum   int

	featureNames []string
	silent       bool
	fitted       bool
}

// NewFastProp creates an unfitted FastProp learner.
func NewFastProp(hp Hyperparams, deps []fingerprint.Fingerprint, peripheral []string, placeholder *schema.Placeholder, targetNum int) *FastProp {
	return &FastProp{hp: hp, deps: deps, peripheral: peripheral, placeholder: placeholder, targetNum: targetNum}
}

// groupKey joins a dataframe row's join-key column value into a lookup key.
func groupKey(df *dataframe.DataFrame, col string, row int) (string, bool) {
	s, err := df.Column(col)
	if err != nil {
		return "", false
	}
	v, ok := s.Get(row)
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

func numericColumns(df *dataframe.DataFrame) []string {
	var out []string
	for _, col := range df.Columns() {
		if df.Role(col) == schema.RoleNumerical.String() {
			out = append(out, col)
		}
	}
	sort.Strings(out)
	return out
}

// rolledUp returns child's own table, first recursively rolling up each of
// child's own to-many grandchildren into it (one level per remaining
// depth), so deeper peripheral tables contribute through their immediate
// parent rather than being skipped.
func rolledUp(ph *schema.Placeholder, periphs map[string]*dataframe.DataFrame, depthRemaining int) (*dataframe.DataFrame, error) {
	df, ok := periphs[ph.Name]
	if !ok {
		return nil, fmt.Errorf("featurelearner: peripheral table %q not supplied", ph.Name)
	}

	if depthRemaining <= 0 {
		return df, nil
	}

	out := df
	for i, grandchild := range ph.JoinedTables {
		rolledChild, err := rolledUp(grandchild, periphs, depthRemaining-1)
		if err != nil {
			return nil, err
		}

		aggregated, err := aggregateInto(out, rolledChild, ph.JoinKeysUsed[i], ph.OtherJoinKeysUsed[i], grandchild.Name)
		if err != nil {
			return nil, err
		}
		out = aggregated
	}
	return out, nil
}

// aggregateInto computes SUM/AVG/COUNT/MIN/MAX of every numerical column of
// child, grouped by childJoinKey, and adds the result as new numerical
// columns on parent, matched via parentJoinKey.
func aggregateInto(parent, child *dataframe.DataFrame, parentJoinKey, childJoinKey, childLabel string) (*dataframe.DataFrame, error) {
	cols := numericColumns(child)
	if len(cols) == 0 {
		return parent, nil
	}

	groups := make(map[string][]int)
	for row := 0; row < child.Nrows(); row++ {
		key, ok := groupKey(child, childJoinKey, row)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], row)
	}

	out := parent
	for _, col := range cols {
		s, err := child.Column(col)
		if err != nil {
			return nil, err
		}

		values := make(map[string][]float64, len(groups))
		for key, rows := range groups {
			vals := make([]float64, 0, len(rows))
			for _, row := range rows {
				v, ok := s.Get(row)
				if !ok || v == nil {
					continue
				}
				f, ok := toFloat(v)
				if !ok {
					continue
				}
				vals = append(vals, f)
			}
			values[key] = vals
		}

		for _, agg := range aggFuncs {
			outCol := fmt.Sprintf("%s(%s.%s)", agg.name, childLabel, col)
			vals := make([]any, parent.Nrows())
			for row := 0; row < parent.Nrows(); row++ {
				key, ok := groupKey(parent, parentJoinKey, row)
				if !ok {
					vals[row] = nil
					continue
				}
				group, ok := values[key]
				if !ok {
					vals[row] = nil
					continue
				}
				vals[row] = agg.fn(group)
			}
			newDF, err := dataframe.New(map[string]any{outCol: toNullableFloat64Slice(vals)})
			if err != nil {
				return nil, err
			}
			newCol, _ := newDF.Column(outCol)
			next := out.WithColumn(outCol, newCol)
			next.CopyMetadataFrom(out)
			next.SetRole(outCol, schema.RoleNumerical.String())
			out = next
		}
	}

	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func toNullableFloat64Slice(vals []any) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v == nil {
			out[i] = 0
			continue
		}
		out[i] = v.(float64)
	}
	return out
}

// fillRatio returns the fraction of non-null entries among n.
func fillRatio(df *dataframe.DataFrame, col string) float64 {
	s, err := df.Column(col)
	if err != nil || s.Len() == 0 {
		return 0
	}
	nonNull := 0
	for i := 0; i < s.Len(); i++ {
		if _, ok := s.Get(i); ok {
			nonNull++
		}
	}
	return float64(nonNull) / float64(s.Len())
}

// Fit builds the feature bank against params.Population/Peripherals,
// rolling up to AggregationDepth levels, then filters by MinRatio and caps
// at NumFeaturesMax, keeping the lexicographically first survivors so the
// selection is deterministic.
func (f *FastProp) Fit(params FitParams) error {
	augmented := params.Population
	for i, child := range f.placeholder.JoinedTables {
		rolled, err := rolledUp(child, params.Peripherals, f.hp.AggregationDepth-1)
		if err != nil {
			return err
		}
		next, err := aggregateInto(augmented, rolled, f.placeholder.JoinKeysUsed[i], f.placeholder.OtherJoinKeysUsed[i], child.Name)
		if err != nil {
			return err
		}
		augmented = next
	}

	var candidates []string
	for _, col := range augmented.Columns() {
		if params.Population.HasColumn(col) {
			continue // pass-through column, not a generated feature
		}
		if f.hp.MinRatio > 0 && fillRatio(augmented, col) < f.hp.MinRatio {
			continue
		}
		candidates = append(candidates, col)
	}
	sort.Strings(candidates)

	if f.hp.NumFeaturesMax > 0 && len(candidates) > f.hp.NumFeaturesMax {
		candidates = candidates[:f.hp.NumFeaturesMax]
	}

	f.featureNames = candidates
	f.fitted = true
	return nil
}

// Transform rebuilds the same aggregation against params and projects onto
// the fitted feature-name set, in fitted order.
func (f *FastProp) Transform(params TransformParams) ([]NumericFeature, error) {
	augmented := params.Population
	for i, child := range f.placeholder.JoinedTables {
		rolled, err := rolledUp(child, params.Peripherals, f.hp.AggregationDepth-1)
		if err != nil {
			return nil, err
		}
		next, err := aggregateInto(augmented, rolled, f.placeholder.JoinKeysUsed[i], f.placeholder.OtherJoinKeysUsed[i], child.Name)
		if err != nil {
			return nil, err
		}
		augmented = next
	}

	out := make([]NumericFeature, 0, len(f.featureNames))
	for _, name := range f.featureNames {
		s, err := augmented.Column(name)
		if err != nil {
			return nil, fmt.Errorf("featurelearner: feature %q missing at transform time: %w", name, core.ErrConfiguration)
		}
		vals := make([]float64, s.Len())
		for i := 0; i < s.Len(); i++ {
			v, ok := s.Get(i)
			if ok && v != nil {
				vals[i] = v.(float64)
			}
		}
		out = append(out, NumericFeature{Name: name, Values: vals})
	}
	return out, nil
}

func (f *FastProp) NumFeatures() int              { return len(f.featureNames) }
func (f *FastProp) Silent() bool                  { return f.silent }
func (f *FastProp) PopulationNeedsTargets() bool  { return false }
func (f *FastProp) SupportsMultipleTargets() bool { return false }

// ThreadSafe is true: FastProp.Fit mutates only the receiver, and distinct
// per-target replicas (per SupportsMultipleTargets()==false) own distinct
// receivers, so the orchestrator may fan per-target fits out to its pool.
func (f *FastProp) ThreadSafe() bool { return true }

// ColumnImportances sums importanceFactors back onto the (child table,
// source column) pair each generated feature was aggregated from.
func (f *FastProp) ColumnImportances(importanceFactors []float64) map[ColumnDescription]float64 {
	out := make(map[ColumnDescription]float64)
	for i, name := range f.featureNames {
		if i >= len(importanceFactors) {
			break
		}
		table, col, ok := parseAggregateName(name)
		if !ok {
			continue
		}
		out[ColumnDescription{Table: table, Column: col}] += importanceFactors[i]
	}
	return out
}

// parseAggregateName extracts "table.col" from "AGG(table.col)".
func parseAggregateName(name string) (table, col string, ok bool) {
	open := -1
	dot := -1
	closeP := -1
	for i, r := range name {
		switch r {
		case '(':
			if open == -1 {
				open = i
			}
		case '.':
			if dot == -1 {
				dot = i
			}
		case ')':
			closeP = i
		}
	}
	if open == -1 || dot == -1 || closeP == -1 || dot < open || closeP < dot {
		return "", "", false
	}
	return name[open+1 : dot], name[dot+1 : closeP], true
}

// Fingerprint identifies this fitted FastProp instance.
func (f *FastProp) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.FastProp(
		fingerprint.FastPropHyperparams{
			NumFeaturesMax:   f.hp.NumFeaturesMax,
			AggregationDepth: f.hp.AggregationDepth,
			MinRatio:         f.hp.MinRatio,
		},
		f.deps, strings.Join(f.peripheral, ","), f.placeholder.Encode(), f.targetNum)
}

// ToSQL transpiles each surviving aggregate feature into one SQL SELECT
// expression. Dialect-specific quoting is left to sqlgen; here we emit the
// dialect-agnostic aggregate expression sqlgen wraps.
func (f *FastProp) ToSQL(categories bool, includeTargets bool, fullPipeline bool, dialect string, prefix string) ([]string, error) {
	out := make([]string, 0, len(f.featureNames))
	for _, name := range f.featureNames {
		out = append(out, fmt.Sprintf("%s%s AS %q", prefix, name, name))
	}
	return out, nil
}

func (f *FastProp) IsFitted() bool { return f.fitted }
