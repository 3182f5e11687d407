// Package preprocessor implements the preprocessor capability and its six
// concrete variants: EMailDomain, Seasonal, Substring, TextFieldSplitter,
// CategoryTrimmer, Imputation (spec.md §4.4). Shaped after
// features.Estimator / features.Transformer's fit/transform contract, with
// concrete variants grounded on features/encoders for dense-encoding and
// features/creators for derived-column generation.
package preprocessor

import (
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
)

// Type distinguishes ordinary column-adding preprocessors from the
// "mapping" style ones (CategoryTrimmer, Imputation) the orchestrator
// stable-partitions to the end of the fit order.
type Type int

const (
	TypeOrdinary Type = iota
	TypeMapping
)

// Preprocessor is the capability interface every preprocessor variant
// implements: Fit learns parameters from the staged population/peripheral
// tables, Transform applies them (idempotently) to produce the preprocessed
// tables the feature learners run against.
type Preprocessor interface {
	// Fit learns this preprocessor's parameters from df.
	Fit(df *dataframe.DataFrame) error

	// Transform returns a new DataFrame with this preprocessor's derived
	// columns added (or, for mapping-style preprocessors, its source
	// columns rewritten in place).
	Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error)

	// Fingerprint identifies this fitted preprocessor instance, including
	// its dependency on the upstream fingerprint(s) it was fit against.
	Fingerprint() fingerprint.Fingerprint

	// Type reports whether the orchestrator must fit this preprocessor
	// after every ordinary preprocessor (spec.md §4.4, §4.8 step 3).
	Type() Type

	// IsFitted reports whether Fit has been called successfully.
	IsFitted() bool

	// ToSQL transpiles this preprocessor's fitted derived columns into one
	// dialect-agnostic SQL SELECT expression per column, each column of
	// the source table referenced as prefix+colname (mirrors
	// featurelearner.FeatureLearner.ToSQL's prefix convention; dialect-
	// specific quoting is left to sqlgen).
	ToSQL(prefix string) ([]string, error)
}

// PeripheralProducer is implemented by preprocessors that, in addition to
// rewriting their input table, materialize new peripheral tables (only
// TextFieldSplitter does today). The orchestrator type-asserts for this
// after calling Transform and merges the result into the working table set.
type PeripheralProducer interface {
	Peripherals() map[string]*dataframe.DataFrame
}
