package pipeline

import (
	"fmt"
	"sort"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/internal/memory"
	"github.com/relauto/engine/predictorimpl"
)

// buildFeatureMatrix assembles the dense (xCat, xNum) design matrix a
// Predictor.Fit/Predict call consumes, from impl's surviving column layout
// and banks[l], learner l's materialized feature bank (spec.md §4.6's
// condensed ordering: autofeatures per learner, then manual numerical
// columns, then manual categorical columns densely encoded).
func buildFeatureMatrix(pop *dataframe.DataFrame, impl *predictorimpl.PredictorImpl, banks [][]featurelearner.NumericFeature) (xCat [][]int, xNum [][]float64, n int, err error) {
	n = pop.Nrows()

	for l, indices := range impl.Autofeatures {
		if l >= len(banks) {
			return nil, nil, 0, fmt.Errorf("pipeline: build_feature_matrix: learner %d has no feature bank: %w", l, core.ErrDataError)
		}
		bank := banks[l]
		for _, idx := range indices {
			if idx < 0 || idx >= len(bank) {
				return nil, nil, 0, fmt.Errorf("pipeline: build_feature_matrix: learner %d autofeature index %d out of range [0,%d): %w",
					l, idx, len(bank), core.ErrDataError)
			}
			xNum = append(xNum, bank[idx].Values)
		}
	}

	for _, col := range impl.NumericalColnames {
		vals, err := numericRawColumn(pop, col, n)
		if err != nil {
			return nil, nil, 0, err
		}
		xNum = append(xNum, vals)
	}

	if len(impl.CategoricalColnames) > 0 {
		rawCols := make([][]int64, len(impl.CategoricalColnames))
		for i, col := range impl.CategoricalColnames {
			raw, err := categoricalRawColumn(pop, col, n)
			if err != nil {
				return nil, nil, 0, err
			}
			rawCols[i] = raw
		}
		xCat, err = impl.TransformEncodings(rawCols)
		if err != nil {
			return nil, nil, 0, err
		}
	}

	return xCat, xNum, n, nil
}

// numericRawColumn reads col into a scratch buffer borrowed from
// memory.Float64SlicePool, then copies it into a freshly-sized slice to
// return: the pool buffer goes back as soon as this call returns, but the
// returned slice is retained inside xNum for the life of the fit/predict
// call, so it cannot alias pooled memory.
func numericRawColumn(df *dataframe.DataFrame, col string, n int) ([]float64, error) {
	s, err := df.Column(col)
	if err != nil {
		return nil, fmt.Errorf("pipeline: numerical column %q: %w", col, err)
	}

	scratch := memory.Float64SlicePool.Get()
	if cap(scratch) < n {
		scratch = make([]float64, n)
	} else {
		scratch = scratch[:n]
		for i := range scratch {
			scratch[i] = 0
		}
	}

	for i := 0; i < n; i++ {
		v, ok := s.Get(i)
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case float64:
			scratch[i] = x
		case int64:
			scratch[i] = float64(x)
		case int:
			scratch[i] = float64(x)
		}
	}

	out := make([]float64, n)
	copy(out, scratch)
	memory.Float64SlicePool.Put(scratch[:0])
	return out, nil
}

// categoricalRawColumn mirrors numericRawColumn's borrow-fill-copy-out
// pattern using memory.Int64SlicePool.
func categoricalRawColumn(df *dataframe.DataFrame, col string, n int) ([]int64, error) {
	s, err := df.Column(col)
	if err != nil {
		return nil, fmt.Errorf("pipeline: categorical column %q: %w", col, err)
	}

	scratch := memory.Int64SlicePool.Get()
	if cap(scratch) < n {
		scratch = make([]int64, n)
	} else {
		scratch = scratch[:n]
	}

	for i := 0; i < n; i++ {
		v, ok := s.Get(i)
		if !ok || v == nil {
			scratch[i] = -1
			continue
		}
		switch x := v.(type) {
		case int64:
			scratch[i] = x
		case int:
			scratch[i] = int64(x)
		case float64:
			scratch[i] = int64(x)
		default:
			scratch[i] = -1
		}
	}

	out := make([]int64, n)
	copy(out, scratch)
	memory.Int64SlicePool.Put(scratch[:0])
	return out, nil
}

// condensedImportance combines several selectors' per-target
// FeatureImportances() vectors (one call each, same condensed length) into
// a single ranking via elementwise sum, then returns the descending
// condensed-index order SelectFeatures expects (spec.md §4.8 step 8).
func condensedImportance(total int, vecs [][]float64) []int {
	summed := make([]float64, total)
	for _, v := range vecs {
		for i := 0; i < total && i < len(v); i++ {
			summed[i] += v[i]
		}
	}
	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return summed[idx[i]] > summed[idx[j]] })
	return idx
}
