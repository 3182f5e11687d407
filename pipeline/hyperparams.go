package pipeline

import (
	"fmt"

	"github.com/relauto/engine/core"
)

// HyperparamBag is a nested parameter bag (as decoded from persisted
// pipeline.json or supplied by a CLI config), keyed by hyperparameter
// name. spec.md §9's design note: a missing required hyperparameter is a
// fatal configuration error, never a silently-substituted default — see
// DESIGN.md's Open Question entry. decodeHyperparams enforces this by
// checking key presence explicitly rather than relying on Go's
// zero-value-on-missing-key map semantics, which would otherwise silently
// turn an absent int into 0 or an absent string into "".
type HyperparamBag map[string]any

// decodeHyperparams fails fatally if any of required is absent from bag.
func decodeHyperparams(bag HyperparamBag, required []string) error {
	for _, key := range required {
		if _, present := bag[key]; !present {
			return fmt.Errorf("pipeline: required hyperparameter %q is absent: %w", key, core.ErrConfiguration)
		}
	}
	return nil
}

// RequiredFloat reads a required float64-valued hyperparameter.
func RequiredFloat(bag HyperparamBag, key string) (float64, error) {
	if err := decodeHyperparams(bag, []string{key}); err != nil {
		return 0, err
	}
	switch v := bag[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("pipeline: hyperparameter %q: want float64, got %T: %w", key, bag[key], core.ErrConfiguration)
	}
}

// RequiredInt reads a required int-valued hyperparameter.
func RequiredInt(bag HyperparamBag, key string) (int, error) {
	if err := decodeHyperparams(bag, []string{key}); err != nil {
		return 0, err
	}
	switch v := bag[key].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("pipeline: hyperparameter %q: want int, got %T: %w", key, bag[key], core.ErrConfiguration)
	}
}

// RequiredString reads a required string-valued hyperparameter.
func RequiredString(bag HyperparamBag, key string) (string, error) {
	if err := decodeHyperparams(bag, []string{key}); err != nil {
		return "", err
	}
	v, ok := bag[key].(string)
	if !ok {
		return "", fmt.Errorf("pipeline: hyperparameter %q: want string, got %T: %w", key, bag[key], core.ErrConfiguration)
	}
	return v, nil
}

// RequiredBool reads a required bool-valued hyperparameter.
func RequiredBool(bag HyperparamBag, key string) (bool, error) {
	if err := decodeHyperparams(bag, []string{key}); err != nil {
		return false, err
	}
	v, ok := bag[key].(bool)
	if !ok {
		return false, fmt.Errorf("pipeline: hyperparameter %q: want bool, got %T: %w", key, bag[key], core.ErrConfiguration)
	}
	return v, nil
}
