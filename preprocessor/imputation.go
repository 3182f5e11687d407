package preprocessor

import (
	"fmt"
	"sort"

	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
)

// ImputationStrategy names the value a numerical column's nulls are filled
// with.
type ImputationStrategy string

const (
	ImputeMean   ImputationStrategy = "mean"
	ImputeMedian ImputationStrategy = "median"
	ImputeZero   ImputationStrategy = "zero"
)

// Imputation fills null values in configured numerical columns with a
// per-column statistic learned at fit time (spec.md §4.4: "analogous
// fit/transform shape"; mapping-style). An accompanying "was_null" flag
// column is added per imputed column so the information that a value was
// missing survives into feature learning.
type Imputation struct {
	dep      fingerprint.Fingerprint
	Strategy ImputationStrategy
	Columns  []string

	fillValue map[string]float64
	fitted    bool
}

// NewImputation creates an unfitted Imputation preprocessor.
func NewImputation(dep fingerprint.Fingerprint, strategy ImputationStrategy, columns []string) *Imputation {
	return &Imputation{dep: dep, Strategy: strategy, Columns: columns}
}

// Fit computes the fill value for each configured column.
func (p *Imputation) Fit(df *dataframe.DataFrame) error {
	p.fillValue = make(map[string]float64, len(p.Columns))

	for _, col := range p.Columns {
		s, err := df.Column(col)
		if err != nil {
			return err
		}

		var values []float64
		for i := 0; i < s.Len(); i++ {
			v, ok := s.Get(i)
			if !ok || v == nil {
				continue
			}
			f, ok := toFloat(v)
			if !ok {
				continue
			}
			values = append(values, f)
		}

		p.fillValue[col] = statistic(p.Strategy, values)
	}

	p.fitted = true
	return nil
}

func statistic(strategy ImputationStrategy, values []float64) float64 {
	if len(values) == 0 || strategy == ImputeZero {
		return 0
	}
	switch strategy {
	case ImputeMedian:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2
		}
		return sorted[mid]
	default: // ImputeMean
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	}
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

// Transform fills nulls in each configured column with its learned
// statistic and adds a "was_null(col)" indicator column.
func (p *Imputation) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	out := df
	for _, col := range p.Columns {
		s, err := out.Column(col)
		if err != nil {
			return nil, err
		}

		filled := make([]any, s.Len())
		wasNull := make([]any, s.Len())
		fill := p.fillValue[col]

		for i := 0; i < s.Len(); i++ {
			v, ok := s.Get(i)
			if !ok || v == nil {
				filled[i] = fill
				wasNull[i] = 1.0
				continue
			}
			f, ok := toFloat(v)
			if !ok {
				filled[i] = fill
				wasNull[i] = 1.0
				continue
			}
			filled[i] = f
			wasNull[i] = 0.0
		}

		next := out.WithColumn(col, newFloatSeries(col, filled))
		next.CopyMetadataFrom(out)
		next = next.WithColumn("was_null("+col+")", newFloatSeries("was_null("+col+")", wasNull))
		next.CopyMetadataFrom(out)
		out = next
	}
	return out, nil
}

// Fingerprint identifies this fitted Imputation instance.
func (p *Imputation) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.Imputation(string(p.Strategy), []fingerprint.Fingerprint{p.dep})
}

func (p *Imputation) Type() Type     { return TypeMapping }
func (p *Imputation) IsFitted() bool { return p.fitted }

// ToSQL emits the COALESCE fill expression and was_null indicator for each
// configured column, matching Transform's two-column-per-input output.
func (p *Imputation) ToSQL(prefix string) ([]string, error) {
	out := make([]string, 0, len(p.Columns)*2)
	for _, col := range p.Columns {
		ref := prefix + col
		fill := p.fillValue[col]
		expr := fmt.Sprintf("COALESCE(%s, %g)", ref, fill)
		out = append(out, fmt.Sprintf("%s AS %q", expr, col))

		wasNullCol := "was_null(" + col + ")"
		wasNullExpr := fmt.Sprintf("CASE WHEN %s IS NULL THEN 1.0 ELSE 0.0 END", ref)
		out = append(out, fmt.Sprintf("%s AS %q", wasNullExpr, wasNullCol))
	}
	return out, nil
}
