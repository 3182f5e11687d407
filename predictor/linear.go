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

// LinearRegression wraps models/linear.LinearRegression behind
// the Predictor capability.
type LinearRegression struct {
	fitIntercept bool
	fields       fingerprint.PredictorHyperparams
	deps         []fingerprint.Fingerprint

	model        *linear.LinearRegression
	featureNames []string
	fitted       bool
}

// NewLinearRegression creates an unfitted adapter.
func NewLinearRegression(fitIntercept bool, fields fingerprint.PredictorHyperparams, deps []fingerprint.Fingerprint) *LinearRegression {
	return &LinearRegression{
		fitIntercept: fitIntercept,
		fields:       fields,
		deps:         deps,
		model:        linear.NewLinearRegression(fitIntercept),
	}
}

func (p *LinearRegression) Fit(logger Logger, xCat [][]int, xNum [][]float64, y []float64, valid *ValidationSet) (string, error) {
	n := len(y)
	df, names, err := buildMatrixDataFrame(xCat, xNum, n)
	if err != nil {
		return "", err
	}
	p.featureNames = names

	yVals := make([]any, n)
	for i, v := range y {
		yVals[i] = v
	}
	yseries := seriespkg.New("target", yVals, core.DtypeFloat64)

	if err := p.model.Fit(df, yseries); err != nil {
		return "", fmt.Errorf("predictor: linear regression fit: %w", err)
	}
	p.fitted = true

	summary := fmt.Sprintf("LinearRegression fitted on %d rows, %d features", n, len(names))
	if valid != nil && len(valid.Y) > 0 {
		vdf, _, err := buildMatrixDataFrame(valid.XCat, valid.XNum, len(valid.Y))
		if err == nil {
			vyVals := make([]any, len(valid.Y))
			for i, v := range valid.Y {
				vyVals[i] = v
			}
			vy := seriespkg.New("target", vyVals, core.DtypeFloat64)
			if score, err := p.model.Score(vdf, vy); err == nil {
				summary = fmt.Sprintf("%s, validation R²=%.4f", summary, score)
			}
		}
	}
	logger.Info(summary)
	return summary, nil
}

func (p *LinearRegression) Predict(xCat [][]int, xNum [][]float64) ([]float64, error) {
	if !p.fitted {
		return nil, fmt.Errorf("predictor: linear regression not fitted: %w", core.ErrConfiguration)
	}
	n := rowCount(xCat, xNum)
	df, _, err := buildMatrixDataFrame(xCat, xNum, n)
	if err != nil {
		return nil, err
	}
	preds, err := p.model.Predict(df)
	if err != nil {
		return nil, err
	}
	out := make([]float64, preds.Len())
	for i := 0; i < preds.Len(); i++ {
		v, _ := preds.Get(i)
		out[i], _ = v.(float64)
	}
	return out, nil
}

func (p *LinearRegression) FeatureImportances(nFeatures int) []float64 {
	coef := p.model.Coef()
	abs := make([]float64, len(coef))
	copy(abs, coef)
	return normalize(fitLength(abs, nFeatures))
}

func (p *LinearRegression) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.LinearRegression(p.fitIntercept, p.fields, p.deps)
}

type linearRegressionState struct {
	FitIntercept bool      `json:"fit_intercept"`
	Coef         []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
	FeatureNames []string  `json:"feature_names"`
}

func (p *LinearRegression) Save(path string) error {
	state := linearRegressionState{
		FitIntercept: p.fitIntercept,
		Coef:         p.model.Coef(),
		Intercept:    p.model.Intercept(),
		FeatureNames: p.featureNames,
	}
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func (p *LinearRegression) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("predictor: load linear regression: %w", err)
	}
	var state linearRegressionState
	if err := json.Unmarshal(b, &state); err != nil {
		return err
	}
	p.fitIntercept = state.FitIntercept
	p.featureNames = state.FeatureNames
	p.model = linear.NewLinearRegression(state.FitIntercept)
	p.model.SetFitted(state.Coef, state.Intercept)
	p.fitted = true
	return nil
}

func (p *LinearRegression) Type() string          { return "LinearRegression" }
func (p *LinearRegression) Silent() bool           { return false }
func (p *LinearRegression) IsClassification() bool { return false }

func rowCount(xCat [][]int, xNum [][]float64) int {
	if len(xNum) > 0 {
		return len(xNum[0])
	}
	if len(xCat) > 0 {
		return len(xCat[0])
	}
	return 0
}
