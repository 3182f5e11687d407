package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/models/tree"
	seriespkg "github.com/relauto/engine/series"
)

// XGBoost is a gradient-boosted ensemble of
// models/tree.DecisionTree regressors: each round fits a regression tree to
// the current pseudo-residual (y - prediction for squared-error regression,
// y - sigmoid(score) for logistic classification) and adds it back scaled
// by learningRate, per Friedman's gradient boosting with squared-error and
// log loss respectively. It stands in for a real gradient-boosting library
// (none exists anywhere in the retrieved pack, see DESIGN.md) while keeping
// the boosting algorithm itself, rather than reducing to a bagged average.
type XGBoost struct {
	numTrees         int
	maxDepth         int
	learningRate     float64
	isClassification bool
	fields           fingerprint.PredictorHyperparams
	deps             []fingerprint.Fingerprint

	trees          []*tree.DecisionTree
	basePrediction float64
	featureNames   []string
	fitted         bool
}

func NewXGBoost(numTrees, maxDepth int, learningRate float64, isClassification bool, fields fingerprint.PredictorHyperparams, deps []fingerprint.Fingerprint) *XGBoost {
	return &XGBoost{
		numTrees:         numTrees,
		maxDepth:         maxDepth,
		learningRate:     learningRate,
		isClassification: isClassification,
		fields:           fields,
		deps:             deps,
	}
}

func (p *XGBoost) Fit(logger Logger, xCat [][]int, xNum [][]float64, y []float64, valid *ValidationSet) (string, error) {
	n := len(y)
	df, names, err := buildMatrixDataFrame(xCat, xNum, n)
	if err != nil {
		return "", err
	}
	p.featureNames = names

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(n)

	scores := make([]float64, n)
	if p.isClassification {
		p.basePrediction = logit(clampProba(mean))
	} else {
		p.basePrediction = mean
	}
	for i := range scores {
		scores[i] = p.basePrediction
	}

	p.trees = make([]*tree.DecisionTree, 0, p.numTrees)
	for round := 0; round < p.numTrees; round++ {
		residual := make([]any, n)
		for i := range scores {
			var pred float64
			if p.isClassification {
				pred = sigmoidXGB(scores[i])
			} else {
				pred = scores[i]
			}
			residual[i] = y[i] - pred
		}
		target := seriespkg.New("residual", residual, core.DtypeFloat64)

		dt := tree.NewDecisionTreeRegressor(p.maxDepth, 2)
		if err := dt.Fit(df, target); err != nil {
			return "", fmt.Errorf("predictor: xgboost round %d fit: %w", round, err)
		}
		preds, err := dt.Predict(df)
		if err != nil {
			return "", err
		}
		for i := 0; i < preds.Len(); i++ {
			v, _ := preds.Get(i)
			f, _ := v.(float64)
			scores[i] += p.learningRate * f
		}
		p.trees = append(p.trees, dt)
	}
	p.fitted = true

	summary := fmt.Sprintf("XGBoost fitted %d rounds on %d rows, %d features", p.numTrees, n, len(names))
	logger.Info(summary)
	return summary, nil
}

func (p *XGBoost) Predict(xCat [][]int, xNum [][]float64) ([]float64, error) {
	if !p.fitted {
		return nil, fmt.Errorf("predictor: xgboost not fitted: %w", core.ErrConfiguration)
	}
	n := rowCount(xCat, xNum)
	df, _, err := buildMatrixDataFrame(xCat, xNum, n)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = p.basePrediction
	}
	for _, dt := range p.trees {
		preds, err := dt.Predict(df)
		if err != nil {
			return nil, err
		}
		for i := 0; i < preds.Len(); i++ {
			v, _ := preds.Get(i)
			f, _ := v.(float64)
			scores[i] += p.learningRate * f
		}
	}
	if p.isClassification {
		for i := range scores {
			scores[i] = sigmoidXGB(scores[i])
		}
	}
	return scores, nil
}

func (p *XGBoost) FeatureImportances(nFeatures int) []float64 {
	sum := make([]float64, nFeatures)
	for _, dt := range p.trees {
		fi := dt.FeatureImportances()
		for i := 0; i < len(fi) && i < nFeatures; i++ {
			sum[i] += fi[i]
		}
	}
	return normalize(sum)
}

func (p *XGBoost) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.XGBoost(p.numTrees, p.maxDepth, p.learningRate, p.fields, p.deps)
}

type xgboostState struct {
	NumTrees         int          `json:"num_trees"`
	MaxDepth         int          `json:"max_depth"`
	LearningRate     float64      `json:"learning_rate"`
	IsClassification bool         `json:"is_classification"`
	BasePrediction   float64      `json:"base_prediction"`
	FeatureNames     []string     `json:"feature_names"`
	Trees            []tree.State `json:"trees"`
}

func (p *XGBoost) Save(path string) error {
	state := xgboostState{
		NumTrees:         p.numTrees,
		MaxDepth:         p.maxDepth,
		LearningRate:     p.learningRate,
		IsClassification: p.isClassification,
		BasePrediction:   p.basePrediction,
		FeatureNames:     p.featureNames,
	}
	for _, dt := range p.trees {
		state.Trees = append(state.Trees, *dt.Snapshot())
	}
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func (p *XGBoost) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("predictor: load xgboost: %w", err)
	}
	var state xgboostState
	if err := json.Unmarshal(b, &state); err != nil {
		return err
	}
	p.numTrees = state.NumTrees
	p.maxDepth = state.MaxDepth
	p.learningRate = state.LearningRate
	p.isClassification = state.IsClassification
	p.basePrediction = state.BasePrediction
	p.featureNames = state.FeatureNames
	p.trees = make([]*tree.DecisionTree, len(state.Trees))
	for i := range state.Trees {
		s := state.Trees[i]
		p.trees[i] = tree.Restore(&s)
	}
	p.fitted = true
	return nil
}

func (p *XGBoost) Type() string          { return "XGBoost" }
func (p *XGBoost) Silent() bool          { return false }
func (p *XGBoost) IsClassification() bool { return p.isClassification }

func sigmoidXGB(z float64) float64 {
	if z > 20 {
		return 1.0
	}
	if z < -20 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

func clampProba(p float64) float64 {
	const eps = 1e-6
	if p < eps {
		return eps
	}
	if p > 1-eps {
		return 1 - eps
	}
	return p
}
