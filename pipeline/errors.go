package pipeline

import (
	"fmt"

	"github.com/relauto/engine/core"
)

func errMixedClassification() error {
	return fmt.Errorf("pipeline: feature selectors and predictors disagree on is_classification: all three component layers must agree: %w", core.ErrMixedClassification)
}
