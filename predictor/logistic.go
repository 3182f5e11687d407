package predictor

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/models/linear"
	seriespkg "github.com/relauto/engine/series"
)

// LogisticRegression wraps models/linear.LogisticRegression behind
// the Predictor capability. y is expected to carry exactly two distinct
// values (0/1 style target encoding), converted to string class labels
// since the underlying model classifies over string labels.
type LogisticRegression struct {
	penalty string
	c       float64
	maxIter int
	fields  fingerprint.PredictorHyperparams
	deps    []fingerprint.Fingerprint

	model        *linear.LogisticRegression
	featureNames []string
	fitted       bool
}

func NewLogisticRegression(penalty string, c float64, maxIter int, fields fingerprint.PredictorHyperparams, deps []fingerprint.Fingerprint) *LogisticRegression {
	return &LogisticRegression{
		penalty: penalty,
		c:       c,
		maxIter: maxIter,
		fields:  fields,
		deps:    deps,
		model:   linear.NewLogisticRegression(penalty, c, maxIter),
	}
}

func (p *LogisticRegression) Fit(logger Logger, xCat [][]int, xNum [][]float64, y []float64, valid *ValidationSet) (string, error) {
	n := len(y)
	df, names, err := buildMatrixDataFrame(xCat, xNum, n)
	if err != nil {
		return "", err
	}
	p.featureNames = names

	yVals := make([]any, n)
	for i, v := range y {
		yVals[i] = fmt.Sprintf("%g", v)
	}
	yseries := seriespkg.New("target", yVals, core.DtypeString)

	if err := p.model.Fit(df, yseries); err != nil {
		return "", fmt.Errorf("predictor: logistic regression fit: %w", err)
	}
	p.fitted = true

	summary := fmt.Sprintf("LogisticRegression fitted on %d rows, %d features, %d iterations", n, len(names), p.model.NIter())
	logger.Info(summary)
	return summary, nil
}

func (p *LogisticRegression) Predict(xCat [][]int, xNum [][]float64) ([]float64, error) {
	if !p.fitted {
		return nil, fmt.Errorf("predictor: logistic regression not fitted: %w", core.ErrConfiguration)
	}
	n := rowCount(xCat, xNum)
	df, _, err := buildMatrixDataFrame(xCat, xNum, n)
	if err != nil {
		return nil, err
	}
	proba, err := p.model.PredictProba(df)
	if err != nil {
		return nil, err
	}
	classes := p.model.Classes()
	col, err := proba.Column(classes[1])
	if err != nil {
		return nil, err
	}
	out := make([]float64, col.Len())
	for i := 0; i < col.Len(); i++ {
		v, _ := col.Get(i)
		out[i], _ = v.(float64)
	}
	return out, nil
}

func (p *LogisticRegression) FeatureImportances(nFeatures int) []float64 {
	coef := p.model.Coef()
	abs := make([]float64, len(coef))
	copy(abs, coef)
	return normalize(fitLength(abs, nFeatures))
}

func (p *LogisticRegression) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.LogisticRegression(p.penalty, p.c, p.maxIter, p.fields, p.deps)
}

type logisticRegressionState struct {
	Penalty      string    `json:"penalty"`
	C            float64   `json:"c"`
	MaxIter      int       `json:"max_iter"`
	Coef         []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
	Classes      []string  `json:"classes"`
	FeatureNames []string  `json:"feature_names"`
}

func (p *LogisticRegression) Save(path string) error {
	state := logisticRegressionState{
		Penalty:      p.penalty,
		C:            p.c,
		MaxIter:      p.maxIter,
		Coef:         p.model.Coef(),
		Intercept:    p.model.Intercept(),
		Classes:      p.model.Classes(),
		FeatureNames: p.featureNames,
	}
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func (p *LogisticRegression) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("predictor: load logistic regression: %w", err)
	}
	var state logisticRegressionState
	if err := json.Unmarshal(b, &state); err != nil {
		return err
	}
	p.penalty = state.Penalty
	p.c = state.C
	p.maxIter = state.MaxIter
	p.featureNames = state.FeatureNames
	p.model = linear.NewLogisticRegression(state.Penalty, state.C, state.MaxIter)
	p.model.SetFitted(state.Coef, state.Intercept, state.Classes)
	p.fitted = true
	return nil
}

func (p *LogisticRegression) Type() string          { return "LogisticRegression" }
func (p *LogisticRegression) Silent() bool           { return false }
func (p *LogisticRegression) IsClassification() bool { return true }
