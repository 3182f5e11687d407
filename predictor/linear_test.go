package predictor

import (
	"path/filepath"
	"testing"

	"github.com/relauto/engine/fingerprint"
	"github.com/stretchr/testify/require"
)

func TestLinearRegressionFitPredictRoundTrip(t *testing.T) {
	xNum := [][]float64{{1, 2, 3, 4}}
	y := []float64{2, 4, 6, 8}

	p := NewLinearRegression(true, fingerprint.PredictorHyperparams{}, nil)
	summary, err := p.Fit(NoopLogger{}, nil, xNum, y, nil)
	require.NoError(t, err)
	require.Contains(t, summary, "LinearRegression fitted on 4 rows")

	preds, err := p.Predict(nil, xNum)
	require.NoError(t, err)
	require.Len(t, preds, 4)
	for i, v := range preds {
		require.InDelta(t, y[i], v, 1e-6)
	}
}

func TestLinearRegressionPredictBeforeFitErrors(t *testing.T) {
	p := NewLinearRegression(true, fingerprint.PredictorHyperparams{}, nil)
	_, err := p.Predict(nil, [][]float64{{1, 2}})
	require.Error(t, err)
}

func TestLinearRegressionSaveLoadPreservesPredictions(t *testing.T) {
	xNum := [][]float64{{1, 2, 3, 4}}
	y := []float64{2, 4, 6, 8}

	p := NewLinearRegression(true, fingerprint.PredictorHyperparams{}, nil)
	_, err := p.Fit(NoopLogger{}, nil, xNum, y, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "linear.json")
	require.NoError(t, p.Save(path))

	loaded := NewLinearRegression(false, fingerprint.PredictorHyperparams{}, nil)
	require.NoError(t, loaded.Load(path))

	preds, err := loaded.Predict(nil, xNum)
	require.NoError(t, err)
	for i, v := range preds {
		require.InDelta(t, y[i], v, 1e-6)
	}
}

func TestLinearRegressionFeatureImportancesSumToOne(t *testing.T) {
	xNum := [][]float64{{1, 2, 3, 4}, {4, 3, 2, 1}}
	y := []float64{1, 2, 3, 4}

	p := NewLinearRegression(true, fingerprint.PredictorHyperparams{}, nil)
	_, err := p.Fit(NoopLogger{}, nil, xNum, y, nil)
	require.NoError(t, err)

	imp := p.FeatureImportances(2)
	require.Len(t, imp, 2)
	var sum float64
	for _, v := range imp {
		require.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	require.InDelta(t, 1.0, sum, 1e-6)
}

func TestLinearRegressionTypeAndClassificationFlag(t *testing.T) {
	p := NewLinearRegression(true, fingerprint.PredictorHyperparams{}, nil)
	require.Equal(t, "LinearRegression", p.Type())
	require.False(t, p.IsClassification())
}

func TestNormalizeHandlesAllZero(t *testing.T) {
	out := normalize([]float64{0, 0, 0})
	require.Equal(t, []float64{0, 0, 0}, out)
}

func TestNormalizeSumsToOne(t *testing.T) {
	out := normalize([]float64{1, -1, 2})
	var sum float64
	for _, v := range out {
		sum += v
	}
	require.InDelta(t, 1.0, sum, 1e-9)
}

func TestFitLengthPadsAndTruncates(t *testing.T) {
	require.Equal(t, []float64{1, 2, 0}, fitLength([]float64{1, 2}, 3))
	require.Equal(t, []float64{1, 2}, fitLength([]float64{1, 2, 3}, 2))
}
