package pipeline

import "sort"

// ColumnKey identifies one raw input column for importance back-propagation
// (spec.md §4.10's "(marker, population_name, colname)"). Reusing the
// featurelearner.ColumnDescription shape (Table, Column) would create an
// import-cycle risk if featurelearner ever needed pipeline types, so this
// package declares its own equivalent key.
type ColumnKey struct {
	Table  string
	Column string
}

// ColumnImportance is one row of the final, zero-filled, per-target
// importance table (spec.md §4.10's "fill zeros" output).
type ColumnImportance struct {
	Table     string
	Column    string
	PerTarget map[string]float64
}

// ImportanceMaker accumulates per-target column-importance contributions
// from feature learners (via ColumnImportances) and manual columns
// (assigned directly), then unions and zero-fills across targets
// (spec.md §4.10).
type ImportanceMaker struct {
	perTarget map[string]map[ColumnKey]float64
}

// NewImportanceMaker creates an empty accumulator.
func NewImportanceMaker() *ImportanceMaker {
	return &ImportanceMaker{perTarget: make(map[string]map[ColumnKey]float64)}
}

func (m *ImportanceMaker) bucket(target string) map[ColumnKey]float64 {
	b, ok := m.perTarget[target]
	if !ok {
		b = make(map[ColumnKey]float64)
		m.perTarget[target] = b
	}
	return b
}

// Merge adds a learner's back-propagated contributions (table/column ->
// importance) into target's running total.
func (m *ImportanceMaker) Merge(target string, contributions map[ColumnKey]float64) {
	b := m.bucket(target)
	for k, v := range contributions {
		b[k] += v
	}
}

// AssignManual assigns importance directly to a manually-selected
// numerical or categorical column (spec.md §4.10's "for each manual
// column... assign the corresponding slice directly").
func (m *ImportanceMaker) AssignManual(target, table, column string, importance float64) {
	m.bucket(target)[ColumnKey{Table: table, Column: column}] += importance
}

// FillZeros returns the union of column keys across every target, each row
// carrying one value per target (0 where that target never touched the
// column), sorted by (Table, Column) for a stable, reproducible emission
// order. dealias rewrites a staging alias (e.g. "t2") back to its
// human-readable table name before the row is emitted; pass a no-op
// identity function if dealiasing has already happened upstream.
func (m *ImportanceMaker) FillZeros(targets []string, dealias func(table string) string) []ColumnImportance {
	union := make(map[ColumnKey]bool)
	for _, bucket := range m.perTarget {
		for k := range bucket {
			union[k] = true
		}
	}

	keys := make([]ColumnKey, 0, len(union))
	for k := range union {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Table != keys[j].Table {
			return keys[i].Table < keys[j].Table
		}
		return keys[i].Column < keys[j].Column
	})

	out := make([]ColumnImportance, 0, len(keys))
	for _, k := range keys {
		row := ColumnImportance{
			Table:     dealias(k.Table),
			Column:    k.Column,
			PerTarget: make(map[string]float64, len(targets)),
		}
		for _, t := range targets {
			row.PerTarget[t] = m.perTarget[t][k]
		}
		out = append(out, row)
	}
	return out
}
