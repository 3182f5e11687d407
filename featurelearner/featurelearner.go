// Package featurelearner implements the feature-learner capability and its
// one concrete adapter, FastProp (spec.md §4.5). FastProp builds a
// propositionalization feature bank: it turns each to-many peripheral table
// into a fixed-width numeric feature vector per population row via
// SUM/AVG/COUNT/MIN/MAX aggregation, recursing into child tables up to a
// configured aggregation depth. It adds no polynomial, interaction, or
// binned derivatives of those aggregates.
package featurelearner

import (
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/schema"
)

// NumericFeature is one materialized generated-feature column: the
// Vec<NumericFeature> spec.md §4.5's transform() returns.
type NumericFeature struct {
	Name   string
	Values []float64
}

// ColumnDescription names a raw input column for the column_importances
// back-propagation contract.
type ColumnDescription struct {
	Table  string
	Column string
}

// FitParams bundles everything a feature learner needs to fit against one
// staged population/peripheral set for one target.
type FitParams struct {
	Population  *dataframe.DataFrame
	Peripherals map[string]*dataframe.DataFrame
	Placeholder *schema.Placeholder
	TargetNum   int
}

// TransformParams bundles everything a feature learner needs to produce
// its feature bank for a (possibly different) population/peripheral set.
type TransformParams struct {
	Population  *dataframe.DataFrame
	Peripherals map[string]*dataframe.DataFrame
}

// FeatureLearner is the capability interface of spec.md §4.5.
type FeatureLearner interface {
	Fit(params FitParams) error
	Transform(params TransformParams) ([]NumericFeature, error)

	NumFeatures() int
	Silent() bool
	PopulationNeedsTargets() bool
	SupportsMultipleTargets() bool

	// ThreadSafe reports whether Fit may be called concurrently for
	// different targets on independently-owned replicas of this learner.
	// The orchestrator only hands learner fits to its worker pool when true.
	ThreadSafe() bool

	// ColumnImportances back-propagates a per-generated-feature importance
	// vector (length NumFeatures()) into a raw-column contribution map.
	ColumnImportances(importanceFactors []float64) map[ColumnDescription]float64

	Fingerprint() fingerprint.Fingerprint

	// ToSQL transpiles every generated feature of this learner into one SQL
	// statement per feature, in the requested dialect.
	ToSQL(categories bool, includeTargets bool, fullPipeline bool, dialect string, prefix string) ([]string, error)
}
