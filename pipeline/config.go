package pipeline

import (
	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/predictor"
	"github.com/relauto/engine/preprocessor"
	"github.com/relauto/engine/schema"
)

// PreprocessorFactory builds one preprocessor instance, wiring in the
// dependency fingerprints (upstream data-frame/preprocessor fingerprints)
// the resulting Fingerprint() call needs.
type PreprocessorFactory func(deps []fingerprint.Fingerprint) preprocessor.Preprocessor

// FeatureLearnerFactory builds one feature-learner instance for a given
// target number (spec.md §4.8 step 4's "expand per-target if the learner
// cannot handle multi-target").
type FeatureLearnerFactory func(deps []fingerprint.Fingerprint, peripheral []string, placeholder *schema.Placeholder, targetNum int) featurelearner.FeatureLearner

// PredictorFactory builds one predictor (or feature-selector, since both
// share the Predictor capability per spec.md §4.6/§4.7) instance. fields
// carries the column layout (autofeature indices, manual column names) the
// orchestrator only knows once the feature-selector impl has been built or
// pruned, which is why it is a call argument rather than closed over at
// Config-construction time.
type PredictorFactory func(fields fingerprint.PredictorHyperparams, deps []fingerprint.Fingerprint) predictor.Predictor

// Config is the declarative pipeline definition an Orchestrator.Fit call
// consumes: the join-tree DataModel, the target list, and the factories
// for every preprocessor/feature-learner/feature-selector/predictor the
// pipeline is built from. Hyperparameters live inside each factory
// closure, mirroring the plain-struct ("LinearRegression{
// FitIntercept: ...}") configuration idiom used elsewhere in this repo
// rather than a config-file format (spec.md §2 ambient stack: no config-
// file library is available).
type Config struct {
	ProjectName  string
	PipelineName string

	DataModel *schema.DataModel
	Targets   []string

	IncludeCategoricals bool

	// ShareSelectedFeatures, if > 0, prunes the predictor feature space to
	// the top max(1, floor(share*total)) features by summed selector
	// importance (spec.md §4.8 step 8). 0 or 1 keeps every feature.
	ShareSelectedFeatures float64

	Preprocessors    []PreprocessorFactory
	FeatureLearners  []FeatureLearnerFactory
	FeatureSelectors []PredictorFactory
	Predictors       []PredictorFactory

	// AllowHTTP is carried through to the persisted PipelineJSON per
	// spec.md §4.11; the orchestrator itself never opens a socket (§1
	// Non-goals), so this is metadata for downstream consumers only.
	AllowHTTP bool

	// PoolSize bounds the worker pool used for thread-safe per-target
	// feature-learner fits (spec.md §5, §13); predictor fits run
	// sequentially. 0 defaults to runtime.NumCPU() via internal/parallel.NewPool.
	PoolSize int
}
