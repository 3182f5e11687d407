package pipeline

import (
	"fmt"
	"math"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/stats"
	"gonum.org/v1/gonum/stat"
)

// Scores is the evaluation snapshot produced by one fit or one scored
// transform, for one target (spec.md §4.8 step 10, §4.9 step 8).
type Scores struct {
	Target           string  `json:"target"`
	IsClassification bool    `json:"is_classification"`
	NRows            int     `json:"n_rows"`
	Correlation      float64 `json:"correlation"`

	// Regression metrics.
	RSquared float64 `json:"r_squared,omitempty"`
	MSE      float64 `json:"mse,omitempty"`
	MAPE     float64 `json:"mape,omitempty"`

	// Classification metrics (yPred thresholded at 0.5).
	Accuracy  float64 `json:"accuracy,omitempty"`
	Precision float64 `json:"precision,omitempty"`
	Recall    float64 `json:"recall,omitempty"`
}

// ComputeScores computes the in-sample scoring snapshot for one target.
// Uses the stats package for the mean and gonum/stat.Correlation for the
// correlation coefficient.
func ComputeScores(target string, isClassification bool, yTrue, yPred []float64) (Scores, error) {
	if len(yTrue) != len(yPred) {
		return Scores{}, fmt.Errorf("pipeline: scoring %q: len(y_true)=%d != len(y_pred)=%d: %w",
			target, len(yTrue), len(yPred), core.ErrDataError)
	}
	n := len(yTrue)
	s := Scores{Target: target, IsClassification: isClassification, NRows: n}
	if n == 0 {
		return s, nil
	}

	s.Correlation = stat.Correlation(yTrue, yPred, nil)

	if isClassification {
		var tp, fp, fn, correct int
		for i := range yTrue {
			predicted := yPred[i] >= 0.5
			actual := yTrue[i] >= 0.5
			if predicted == actual {
				correct++
			}
			switch {
			case predicted && actual:
				tp++
			case predicted && !actual:
				fp++
			case !predicted && actual:
				fn++
			}
		}
		s.Accuracy = float64(correct) / float64(n)
		if tp+fp > 0 {
			s.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			s.Recall = float64(tp) / float64(tp+fn)
		}
		return s, nil
	}

	mean := stats.Mean(yTrue)
	var ssRes, ssTot, sqErr, apeSum float64
	apeCount := 0
	for i := range yTrue {
		diff := yTrue[i] - yPred[i]
		ssRes += diff * diff
		sqErr += diff * diff
		d := yTrue[i] - mean
		ssTot += d * d
		if yTrue[i] != 0 {
			apeSum += math.Abs(diff / yTrue[i])
			apeCount++
		}
	}
	s.MSE = sqErr / float64(n)
	if ssTot > 0 {
		s.RSquared = 1 - ssRes/ssTot
	}
	if apeCount > 0 {
		s.MAPE = apeSum / float64(apeCount)
	}
	return s, nil
}
