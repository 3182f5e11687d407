package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/predictor"
	"github.com/relauto/engine/schema"
	"github.com/relauto/engine/staging"
)

func smallPopulationAndPeripherals(t *testing.T) (*dataframe.DataFrame, staging.Tables) {
	t.Helper()
	pop, err := dataframe.New(map[string]any{
		"id":      []int64{1, 2, 3},
		"churned": []float64{0, 1, 0},
	})
	require.NoError(t, err)
	pop.SetName("customers")
	pop.SetRole("id", schema.RoleJoinKey.String())
	pop.SetRole("churned", schema.RoleTarget.String())

	orders, err := dataframe.New(map[string]any{
		"customer_id": []int64{1, 1, 2, 3},
		"amount":      []float64{10, 20, 5, 7},
	})
	require.NoError(t, err)
	orders.SetName("orders")
	orders.SetRole("customer_id", schema.RoleJoinKey.String())
	orders.SetRole("amount", schema.RoleNumerical.String())

	return pop, staging.Tables{"orders": orders}
}

func smallConfig() *Config {
	model := schema.New("customers")
	orders := schema.New("orders")
	model.AddJoin(orders, schema.OneToMany, "id", "customer_id")

	fastpropFactory := func(deps []fingerprint.Fingerprint, peripheral []string, placeholder *schema.Placeholder, targetNum int) featurelearner.FeatureLearner {
		return featurelearner.NewFastProp(featurelearner.Hyperparams{NumFeaturesMax: 10, AggregationDepth: 1}, deps, peripheral, placeholder, targetNum)
	}
	predictorFactory := func(fields fingerprint.PredictorHyperparams, deps []fingerprint.Fingerprint) predictor.Predictor {
		return predictor.NewLinearRegression(true, fields, deps)
	}

	return &Config{
		ProjectName:      "proj",
		PipelineName:     "pipe",
		DataModel:        model,
		Targets:          []string{"churned"},
		FeatureLearners:  []FeatureLearnerFactory{fastpropFactory},
		FeatureSelectors: []PredictorFactory{predictorFactory},
		Predictors:       []PredictorFactory{predictorFactory},
	}
}

// TestOrchestratorFitProducesScoresForEveryTarget exercises the full fit
// state machine (spec.md §4.8) against a small population/peripheral pair
// and checks the assembled fitted artifact carries a score for its one
// target.
func TestOrchestratorFitProducesScoresForEveryTarget(t *testing.T) {
	pm := NewProjectManager()
	o := NewOrchestrator(pm, nil, 1)

	pop, peripherals := smallPopulationAndPeripherals(t)
	cfg := smallConfig()

	fp, history, err := o.Fit(context.Background(), cfg, pop, peripherals)
	require.NoError(t, err)
	require.NotNil(t, fp)
	require.Len(t, history, 1)
	require.Equal(t, "churned", history[0].Target)

	_, ok := pm.GetPipeline("proj", "pipe")
	require.True(t, ok)
}

// TestOrchestratorTransformCacheHitsOnRepeatedCall covers scenario S6: a
// second Transform call against the same FittedPipeline and identical
// population/peripheral data must hit the data-frame tracker rather than
// re-running staging and feature-learner transforms, evidenced by both
// calls returning an assembled frame with the same row count and columns.
func TestOrchestratorTransformCacheHitsOnRepeatedCall(t *testing.T) {
	pm := NewProjectManager()
	o := NewOrchestrator(pm, nil, 1)

	pop, peripherals := smallPopulationAndPeripherals(t)
	cfg := smallConfig()

	fp, _, err := o.Fit(context.Background(), cfg, pop, peripherals)
	require.NoError(t, err)

	pop2, peripherals2 := smallPopulationAndPeripherals(t)
	assembled1, _, err := o.Transform(context.Background(), fp, pop2, peripherals2, false, false)
	require.NoError(t, err)

	proj := pm.project(cfg.ProjectName)
	dfFingerprints := collectDataFrameFingerprints(cfg.DataModel, pop2, peripherals2)
	cacheKey := fingerprint.PipelineBuildHistory(allFeatureSelectorFingerprints(fp, cfg), dfFingerprints)
	cached, hit := proj.dataFrameTracker.Retrieve(cacheKey)
	require.True(t, hit, "first Transform call must populate the data-frame tracker")
	require.Equal(t, assembled1.Nrows(), cached.Nrows())

	pop3, peripherals3 := smallPopulationAndPeripherals(t)
	assembled2, _, err := o.Transform(context.Background(), fp, pop3, peripherals3, false, false)
	require.NoError(t, err)

	require.Equal(t, assembled1.Nrows(), assembled2.Nrows())
	require.ElementsMatch(t, assembled1.Columns(), assembled2.Columns())
}

// TestOrchestratorTransformPredictAndScore covers Transform's predict/score
// path end to end against the fitted pipeline above.
func TestOrchestratorTransformPredictAndScore(t *testing.T) {
	pm := NewProjectManager()
	o := NewOrchestrator(pm, nil, 1)

	pop, peripherals := smallPopulationAndPeripherals(t)
	cfg := smallConfig()

	fp, _, err := o.Fit(context.Background(), cfg, pop, peripherals)
	require.NoError(t, err)

	pop2, peripherals2 := smallPopulationAndPeripherals(t)
	assembled, scores, err := o.Transform(context.Background(), fp, pop2, peripherals2, true, true)
	require.NoError(t, err)
	require.True(t, assembled.HasColumn("churned_predicted"))
	require.Len(t, scores, 1)
}
