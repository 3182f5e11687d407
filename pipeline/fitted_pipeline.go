package pipeline

import (
	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/predictor"
	"github.com/relauto/engine/predictorimpl"
	"github.com/relauto/engine/preprocessor"
	"github.com/relauto/engine/schema"
)

// FittedPipeline is the artifact produced by Orchestrator.Fit: every
// fitted component plus the schema/placeholder state Transform needs to
// replay feature generation against new data (spec.md §4.8's "Assemble and
// return (FittedPipeline, Scores)").
type FittedPipeline struct {
	Config *Config

	Placeholder *schema.Placeholder

	OriginalPopulationSchema   *schema.Schema
	ModifiedPopulationSchema   *schema.Schema
	OriginalPeripheralSchemata map[string]*schema.Schema
	ModifiedPeripheralSchemata map[string]*schema.Schema

	Preprocessors            []preprocessor.Preprocessor
	PreprocessorFingerprints []fingerprint.Fingerprint

	// Per-target slices, one entry per Config.Targets[i]. A learner with
	// SupportsMultipleTargets() == true is the *same* instance pointer
	// shared across every target's slot, so downstream iteration stays
	// uniform regardless of replication (spec.md §4.8 step 4).
	FeatureLearners   map[string][]featurelearner.FeatureLearner
	FLFingerprints    map[string][]fingerprint.Fingerprint

	FeatureSelectorImpl *predictorimpl.PredictorImpl
	FeatureSelectors    map[string][]predictor.Predictor
	FSFingerprints      map[string][]fingerprint.Fingerprint

	PredictorImpl *predictorimpl.PredictorImpl
	Predictors    map[string][]predictor.Predictor
	PredFingerprints map[string][]fingerprint.Fingerprint

	// History is the append-only per-fit Scores log (supplemented from
	// original_source/'s FittedPipeline.hpp: the original keeps every
	// fit's scores across repeated fits, not only the latest).
	History []Scores

	CreationTime string
	AllowHTTP    bool
}

// IsClassification implements spec.md §4.7's mixed-classification rule: a
// pipeline is classification iff every feature selector and predictor
// reports IsClassification() == true; regression iff none do; any other mix
// is a fatal error raised on first interrogation. Feature learners are not
// consulted.
func (fp *FittedPipeline) IsClassification() (bool, error) {
	var sawTrue, sawFalse bool
	mark := func(v bool) {
		if v {
			sawTrue = true
		} else {
			sawFalse = true
		}
	}
	for _, learners := range fp.FeatureLearners {
		for range learners {
			// FeatureLearner has no IsClassification method (spec.md §4.5
			// does not require one); only feature selectors and predictors
			// (both Predictor-capability) carry it.
		}
	}
	for _, selectors := range fp.FeatureSelectors {
		for _, s := range selectors {
			mark(s.IsClassification())
		}
	}
	for _, preds := range fp.Predictors {
		for _, p := range preds {
			mark(p.IsClassification())
		}
	}
	if sawTrue && sawFalse {
		return false, errMixedClassification()
	}
	return sawTrue, nil
}
