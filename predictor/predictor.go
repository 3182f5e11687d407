// Package predictor implements the Predictor capability (spec.md §4.7) and
// its three concrete adapters: LinearRegression and LogisticRegression wrap
// models/linear types; XGBoost is a gradient-boosted ensemble of
// models/tree.DecisionTree regressors, since no gradient-boosting library
// is available (see DESIGN.md).
package predictor

import (
	"fmt"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
)

// Logger is the orchestrator-facing logging capability a predictor's Fit
// call receives, matching pipeline.Logger's shape so either satisfies this
// interface structurally without an import cycle.
type Logger interface {
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Info(string, ...any) {}
func (NoopLogger) Warn(string, ...any) {}

// ValidationSet is the optional held-out frame threaded through Fit
// (spec.md §4.7's "optional X_cat_valid, optional X_num_valid, optional
// y_valid").
type ValidationSet struct {
	XCat [][]int
	XNum [][]float64
	Y    []float64
}

// Predictor is the capability interface every predictor adapter implements.
type Predictor interface {
	// Fit trains the predictor on (XCat, XNum, y), returning a short
	// human-readable training summary.
	Fit(logger Logger, xCat [][]int, xNum [][]float64, y []float64, valid *ValidationSet) (string, error)

	// Predict returns one prediction per row.
	Predict(xCat [][]int, xNum [][]float64) ([]float64, error)

	// FeatureImportances returns a vector of length nFeatures summing to 1.
	FeatureImportances(nFeatures int) []float64

	Fingerprint() fingerprint.Fingerprint

	Save(path string) error
	Load(path string) error

	Type() string
	Silent() bool
	IsClassification() bool
}

// buildMatrixDataFrame assembles a DataFrame from xCat (dense-encoded
// categorical columns) and xNum (numerical columns), in a fixed
// deterministic column order c0, c1, ..., n0, n1, ..., so the
// models/linear and models/tree extractFeatures helpers (which iterate
// DataFrame.Columns() in storage order) see the same layout at Fit and at
// Predict time. dataframe.New's map-literal constructor does not itself
// guarantee column order across calls, so every column beyond the first is
// threaded on via WithColumn, which appends in call order.
func buildMatrixDataFrame(xCat [][]int, xNum [][]float64, n int) (*dataframe.DataFrame, []string, error) {
	names := make([]string, 0, len(xCat)+len(xNum))
	cols := make([][]float64, 0, len(xCat)+len(xNum))

	for i, col := range xCat {
		name := fmt.Sprintf("c%d", i)
		vals := make([]float64, n)
		for row, v := range col {
			vals[row] = float64(v)
		}
		names = append(names, name)
		cols = append(cols, vals)
	}
	for i, col := range xNum {
		name := fmt.Sprintf("n%d", i)
		names = append(names, name)
		cols = append(cols, col)
	}

	if len(names) == 0 {
		return nil, nil, fmt.Errorf("predictor: no feature columns supplied: %w", core.ErrDataError)
	}

	df, err := dataframe.New(map[string]any{names[0]: cols[0]})
	if err != nil {
		return nil, nil, err
	}
	for i := 1; i < len(names); i++ {
		tmp, err := dataframe.New(map[string]any{names[i]: cols[i]})
		if err != nil {
			return nil, nil, err
		}
		s, err := tmp.Column(names[i])
		if err != nil {
			return nil, nil, err
		}
		df = df.WithColumn(names[i], s)
	}
	return df, names, nil
}

// normalize scales vals so they sum to 1, leaving an all-zero vector alone
// (no importance signal, not a divide-by-zero error).
func normalize(vals []float64) []float64 {
	var sum float64
	for _, v := range vals {
		if v < 0 {
			v = -v
		}
		sum += v
	}
	if sum == 0 {
		return vals
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v < 0 {
			v = -v
		}
		out[i] = v / sum
	}
	return out
}

// fitLength pads or truncates vals to exactly n entries.
func fitLength(vals []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, vals)
	return out
}
