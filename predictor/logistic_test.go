package predictor

import (
	"path/filepath"
	"testing"

	"github.com/relauto/engine/fingerprint"
	"github.com/stretchr/testify/require"
)

func separableDataset() ([][]float64, []float64) {
	xNum := [][]float64{{-3, -2, -1, 1, 2, 3}}
	y := []float64{0, 0, 0, 1, 1, 1}
	return xNum, y
}

func TestLogisticRegressionFitPredictSeparatesClasses(t *testing.T) {
	xNum, y := separableDataset()
	p := NewLogisticRegression("l2", 1.0, 200, fingerprint.PredictorHyperparams{}, nil)
	summary, err := p.Fit(NoopLogger{}, nil, xNum, y, nil)
	require.NoError(t, err)
	require.Contains(t, summary, "LogisticRegression fitted on 6 rows")

	preds, err := p.Predict(nil, xNum)
	require.NoError(t, err)
	require.Len(t, preds, 6)
	for i, v := range preds {
		if y[i] == 1 {
			require.Greater(t, v, 0.5)
		} else {
			require.Less(t, v, 0.5)
		}
	}
}

func TestLogisticRegressionPredictBeforeFitErrors(t *testing.T) {
	p := NewLogisticRegression("l2", 1.0, 100, fingerprint.PredictorHyperparams{}, nil)
	_, err := p.Predict(nil, [][]float64{{1, 2}})
	require.Error(t, err)
}

func TestLogisticRegressionSaveLoadPreservesClassification(t *testing.T) {
	xNum, y := separableDataset()
	p := NewLogisticRegression("l2", 1.0, 200, fingerprint.PredictorHyperparams{}, nil)
	_, err := p.Fit(NoopLogger{}, nil, xNum, y, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "logistic.json")
	require.NoError(t, p.Save(path))

	loaded := NewLogisticRegression("", 0, 0, fingerprint.PredictorHyperparams{}, nil)
	require.NoError(t, loaded.Load(path))

	preds, err := loaded.Predict(nil, xNum)
	require.NoError(t, err)
	for i, v := range preds {
		if y[i] == 1 {
			require.Greater(t, v, 0.5)
		} else {
			require.Less(t, v, 0.5)
		}
	}
}

func TestLogisticRegressionTypeAndClassificationFlag(t *testing.T) {
	p := NewLogisticRegression("l2", 1.0, 100, fingerprint.PredictorHyperparams{}, nil)
	require.Equal(t, "LogisticRegression", p.Type())
	require.True(t, p.IsClassification())
}
