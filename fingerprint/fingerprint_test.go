package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterminism(t *testing.T) {
	hp := FastPropHyperparams{NumFeaturesMax: 10, AggregationDepth: 2, MinRatio: 0.01}
	a := FastProp(hp, nil, "PERIPHERAL", "t1", 0)
	b := FastProp(hp, nil, "PERIPHERAL", "t1", 0)
	require.Equal(t, a.String(), b.String())
	require.True(t, a.Equal(b))
}

func TestFingerprintInclusionOnMutation(t *testing.T) {
	base := FastPropHyperparams{NumFeaturesMax: 10, AggregationDepth: 2, MinRatio: 0.01}
	mutated := base
	mutated.MinRatio = 0.02

	a := FastProp(base, nil, "PERIPHERAL", "t1", 0)
	b := FastProp(mutated, nil, "PERIPHERAL", "t1", 0)
	require.NotEqual(t, a.String(), b.String())

	df := OrdinaryDataFrame("population", "v1")
	withDep := FastProp(base, []Fingerprint{df}, "PERIPHERAL", "t1", 0)
	require.NotEqual(t, a.String(), withDep.String())

	dfMutated := OrdinaryDataFrame("population", "v2")
	withDepMutated := FastProp(base, []Fingerprint{dfMutated}, "PERIPHERAL", "t1", 0)
	require.NotEqual(t, withDep.String(), withDepMutated.String())
}

func TestPredictorReplicationPerTarget(t *testing.T) {
	hp := PredictorHyperparams{
		Autofeatures:        [][]int{{0, 1, 2}},
		CategoricalColnames: []string{"cat1"},
		NumericalColnames:   []string{"num1"},
	}
	t0 := LogisticRegression("l2", 1.0, 100, hp, []Fingerprint{TargetNumber(0)})
	t1 := LogisticRegression("l2", 1.0, 100, hp, []Fingerprint{TargetNumber(1)})

	require.NotEqual(t, t0.String(), t1.String())
	require.Equal(t, t0.Kind(), t1.Kind())

	// The hyperparameter subtree (everything but the TargetNumber dependency)
	// must be byte-identical, per spec.md S3.
	v, ok := t0.Field("penalty")
	require.True(t, ok)
	v2, _ := t1.Field("penalty")
	require.Equal(t, v, v2)
}

func TestValidateClosureAcceptsWellFormedTree(t *testing.T) {
	df := OrdinaryDataFrame("population", "v1")
	pp := EMailDomain([]Fingerprint{df})
	fl := FastProp(FastPropHyperparams{NumFeaturesMax: 5, AggregationDepth: 1, MinRatio: 0.0}, []Fingerprint{pp}, "PERIPHERAL", "t1", 0)
	require.NoError(t, ValidateClosure(fl))
}

func TestValidateClosureRejectsMissingDependency(t *testing.T) {
	broken := FastProp(FastPropHyperparams{}, []Fingerprint{{}}, "PERIPHERAL", "t1", 0)
	require.Error(t, ValidateClosure(broken))
}

func TestTrackerKeyStability(t *testing.T) {
	hp := FastPropHyperparams{NumFeaturesMax: 3, AggregationDepth: 1, MinRatio: 0.05}
	fps := make(map[string]bool)
	for i := 0; i < 100; i++ {
		fps[FastProp(hp, nil, "PERIPHERAL", "t1", 0).String()] = true
	}
	require.Len(t, fps, 1)
}
