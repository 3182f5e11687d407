// Package predictorimpl implements PredictorImpl, the column-layout
// descriptor shared between the feature-selector and predictor stages
// (spec.md §4.6): which auto-features survive selection, which manual
// numerical/categorical columns participate, and how categorical columns
// are densely encoded into the design matrix. Grounded on
// features/encoders (Encoding shape) and models/linear's extractFeatures
// numerical-column filtering rules.
package predictorimpl

import (
	"fmt"
	"math"
	"sort"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/schema"
)

// PredictorImpl is the column-layout descriptor of spec.md §4.6.
type PredictorImpl struct {
	// Autofeatures[l][k] is the column index, within feature learner l's
	// own feature bank, of the k-th surviving auto-feature.
	Autofeatures [][]int

	CategoricalColnames []string
	NumericalColnames   []string

	// Encodings[i] is the fitted dense encoding for CategoricalColnames[i].
	// len(Encodings) is either 0 (not yet fitted) or len(CategoricalColnames).
	Encodings []*Encoding
}

// NewSelectorImpl builds the feature-selector's PredictorImpl from the
// population table per spec.md §4.6 "Construction for the feature
// selector": every numerical column not marked comparison-only, not
// subroled exclude_predictors, and free of NaN/Inf; every categorical
// column under the same filters, only if includeCategoricals is set.
// learnerNumFeatures[l] is feature learner l's NumFeatures(); autofeatures
// are initialized to the full 0..NumFeatures(l)-1 range.
func NewSelectorImpl(population *dataframe.DataFrame, learnerNumFeatures []int, includeCategoricals bool) (*PredictorImpl, error) {
	p := &PredictorImpl{
		Autofeatures: make([][]int, len(learnerNumFeatures)),
	}
	for l, n := range learnerNumFeatures {
		af := make([]int, n)
		for k := range af {
			af[k] = k
		}
		p.Autofeatures[l] = af
	}

	cols := population.Columns()
	sort.Strings(cols)

	catRaw := make(map[string][]int64)

	for _, col := range cols {
		role := population.Role(col)
		switch role {
		case schema.RoleNumerical.String():
			if population.Unit(col) == schema.UnitComparisonOnly {
				continue
			}
			if population.HasSubrole(col, string(schema.SubroleExcludePredictors)) {
				continue
			}
			ok, err := isFiniteColumn(population, col)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			p.NumericalColnames = append(p.NumericalColnames, col)
		case schema.RoleCategorical.String():
			if !includeCategoricals {
				continue
			}
			if population.HasSubrole(col, string(schema.SubroleExcludePredictors)) {
				continue
			}
			raw, err := intColumnValues(population, col)
			if err != nil {
				return nil, err
			}
			p.CategoricalColnames = append(p.CategoricalColnames, col)
			catRaw[col] = raw
		}
	}

	if includeCategoricals && len(p.CategoricalColnames) > 0 {
		p.FitEncodings(catRaw)
	}

	return p, nil
}

// FitEncodings builds one Encoding per entry of CategoricalColnames from
// raw, keyed by column name. Maintains the invariant
// len(Encodings) ∈ {0, len(CategoricalColnames)}.
func (p *PredictorImpl) FitEncodings(raw map[string][]int64) {
	if len(p.CategoricalColnames) == 0 {
		p.Encodings = nil
		return
	}
	encodings := make([]*Encoding, len(p.CategoricalColnames))
	for i, name := range p.CategoricalColnames {
		encodings[i] = FitEncoding(raw[name])
	}
	p.Encodings = encodings
}

// TransformEncodings maps each column of Xcat (outer slice = column, inner
// = per-row raw code) to its dense encoding learned at fit. Rejects if the
// column count does not match CategoricalColnames.
func (p *PredictorImpl) TransformEncodings(xCat [][]int64) ([][]int, error) {
	if len(xCat) != len(p.CategoricalColnames) {
		return nil, fmt.Errorf("predictorimpl: transform_encodings: got %d categorical columns, want %d: %w",
			len(xCat), len(p.CategoricalColnames), core.ErrDataError)
	}
	out := make([][]int, len(xCat))
	for i, col := range xCat {
		enc := p.Encodings[i]
		dense := make([]int, len(col))
		for row, raw := range col {
			d, ok := enc.Transform(raw)
			if !ok {
				d = -1 // unseen category at fit time
			}
			dense[row] = d
		}
		out[i] = dense
	}
	return out, nil
}

// NumAutofeatures returns the total number of surviving auto-features
// across every learner.
func (p *PredictorImpl) NumAutofeatures() int {
	n := 0
	for _, af := range p.Autofeatures {
		n += len(af)
	}
	return n
}

// TotalCondensedFeatures returns the condensed feature-vector length:
// autofeatures + numerical + one slot per categorical column (spec.md
// §4.6 compress_importances' "condensed" layout).
func (p *PredictorImpl) TotalCondensedFeatures() int {
	return p.NumAutofeatures() + len(p.NumericalColnames) + len(p.CategoricalColnames)
}

// Clone returns a deep copy, used before SelectFeatures prunes the
// feature-selector's impl into the predictor's impl (spec.md §4.8 step 8:
// "clone the selector impl").
func (p *PredictorImpl) Clone() *PredictorImpl {
	out := &PredictorImpl{
		CategoricalColnames: append([]string(nil), p.CategoricalColnames...),
		NumericalColnames:   append([]string(nil), p.NumericalColnames...),
	}
	out.Autofeatures = make([][]int, len(p.Autofeatures))
	for i, af := range p.Autofeatures {
		out.Autofeatures[i] = append([]int(nil), af...)
	}
	out.Encodings = make([]*Encoding, len(p.Encodings))
	for i, e := range p.Encodings {
		out.Encodings[i] = e.Clone()
	}
	return out
}

// SelectFeatures prunes the condensed feature layout to the top-ranked
// nSelected entries named by index (a global ranking over condensed
// positions, best first), per spec.md §4.6 / S4: filtering proceeds in
// strict reverse group order over the ORIGINAL (pre-prune) layout —
// categorical colnames first, then numerical, then each learner's
// autofeature subset — so the column-number prefix stays correct as each
// group is pruned.
func (p *PredictorImpl) SelectFeatures(nSelected int, index []int) *PredictorImpl {
	total := p.TotalCondensedFeatures()
	keep := make([]bool, total)
	limit := nSelected
	if limit > len(index) {
		limit = len(index)
	}
	for i := 0; i < limit; i++ {
		pos := index[i]
		if pos >= 0 && pos < total {
			keep[pos] = true
		}
	}

	afOffsets := make([]int, len(p.Autofeatures))
	offset := 0
	for l, af := range p.Autofeatures {
		afOffsets[l] = offset
		offset += len(af)
	}
	numOffset := offset
	offset += len(p.NumericalColnames)
	catOffset := offset

	out := &PredictorImpl{Autofeatures: make([][]int, len(p.Autofeatures))}

	for i, name := range p.CategoricalColnames {
		if keep[catOffset+i] {
			out.CategoricalColnames = append(out.CategoricalColnames, name)
			if i < len(p.Encodings) {
				out.Encodings = append(out.Encodings, p.Encodings[i].Clone())
			}
		}
	}

	for i, name := range p.NumericalColnames {
		if keep[numOffset+i] {
			out.NumericalColnames = append(out.NumericalColnames, name)
		}
	}

	for l, af := range p.Autofeatures {
		for i, featIdx := range af {
			if keep[afOffsets[l]+i] {
				out.Autofeatures[l] = append(out.Autofeatures[l], featIdx)
			}
		}
	}

	return out
}

// CompressImportances implements spec.md §4.6's compress_importances:
// dense has length NumAutofeatures()+len(NumericalColnames)+
// Σ Encodings[i].NUnique(); the leading autofeatures+numerical entries are
// copied through, and the trailing per-categorical-encoding tail is summed
// per original categorical column so each contributes a single importance.
func (p *PredictorImpl) CompressImportances(dense []float64) ([]float64, error) {
	head := p.NumAutofeatures() + len(p.NumericalColnames)
	wantLen := head
	for _, e := range p.Encodings {
		wantLen += e.NUnique()
	}
	if len(dense) != wantLen {
		return nil, fmt.Errorf("predictorimpl: compress_importances: got %d dense importances, want %d: %w",
			len(dense), wantLen, core.ErrDataError)
	}

	out := make([]float64, head+len(p.CategoricalColnames))
	copy(out, dense[:head])

	pos := head
	for i, e := range p.Encodings {
		var sum float64
		for k := 0; k < e.NUnique(); k++ {
			sum += dense[pos]
			pos++
		}
		out[head+i] = sum
	}
	return out, nil
}

func isFiniteColumn(df *dataframe.DataFrame, col string) (bool, error) {
	s, err := df.Column(col)
	if err != nil {
		return false, err
	}
	for i := 0; i < s.Len(); i++ {
		v, ok := s.Get(i)
		if !ok || v == nil {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false, nil
		}
	}
	return true, nil
}

func intColumnValues(df *dataframe.DataFrame, col string) ([]int64, error) {
	s, err := df.Column(col)
	if err != nil {
		return nil, err
	}
	out := make([]int64, s.Len())
	for i := 0; i < s.Len(); i++ {
		v, ok := s.Get(i)
		if !ok || v == nil {
			out[i] = -1
			continue
		}
		switch n := v.(type) {
		case int64:
			out[i] = n
		case int:
			out[i] = int64(n)
		case float64:
			out[i] = int64(n)
		default:
			out[i] = -1
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
