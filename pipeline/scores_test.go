package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeScoresRejectsLengthMismatch(t *testing.T) {
	_, err := ComputeScores("y", false, []float64{1, 2}, []float64{1})
	require.Error(t, err)
}

func TestComputeScoresEmptyInput(t *testing.T) {
	s, err := ComputeScores("y", false, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, s.NRows)
}

func TestComputeScoresRegressionPerfectFit(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	s, err := ComputeScores("y", false, yTrue, yTrue)
	require.NoError(t, err)
	require.InDelta(t, 1.0, s.RSquared, 1e-9)
	require.InDelta(t, 0.0, s.MSE, 1e-9)
	require.InDelta(t, 0.0, s.MAPE, 1e-9)
}

func TestComputeScoresRegressionConstantTargetSkipsRSquared(t *testing.T) {
	yTrue := []float64{5, 5, 5}
	yPred := []float64{5, 5, 5}
	s, err := ComputeScores("y", false, yTrue, yPred)
	require.NoError(t, err)
	require.Zero(t, s.RSquared)
}

func TestComputeScoresClassificationMetrics(t *testing.T) {
	yTrue := []float64{1, 1, 0, 0}
	yPred := []float64{0.9, 0.4, 0.2, 0.8}
	s, err := ComputeScores("churned", true, yTrue, yPred)
	require.NoError(t, err)

	require.InDelta(t, 0.5, s.Accuracy, 1e-9)
	require.InDelta(t, 0.5, s.Precision, 1e-9)
	require.InDelta(t, 0.5, s.Recall, 1e-9)
}

func TestComputeScoresClassificationNoPositivePredictions(t *testing.T) {
	yTrue := []float64{1, 0}
	yPred := []float64{0.1, 0.1}
	s, err := ComputeScores("churned", true, yTrue, yPred)
	require.NoError(t, err)
	require.Zero(t, s.Precision)
	require.Zero(t, s.Recall)
}

func TestComputeScoresMAPEIgnoresZeroTargets(t *testing.T) {
	yTrue := []float64{0, 10}
	yPred := []float64{1, 11}
	s, err := ComputeScores("y", false, yTrue, yPred)
	require.NoError(t, err)
	require.InDelta(t, 0.1, s.MAPE, 1e-9)
}
