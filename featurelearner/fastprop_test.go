package featurelearner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/schema"
)

func TestFastPropAggregatesToManyChild(t *testing.T) {
	population, err := dataframe.New(map[string]any{
		"id": []int64{1, 2},
	})
	require.NoError(t, err)

	orders, err := dataframe.New(map[string]any{
		"customer_id": []int64{1, 1, 2},
		"amount":      []float64{10, 20, 5},
	})
	require.NoError(t, err)
	orders.SetName("orders")
	orders.SetRole("amount", schema.RoleNumerical.String())

	ph := &schema.Placeholder{
		Name:              "population",
		JoinedTables:      []*schema.Placeholder{{Name: "orders"}},
		Relationship:      []schema.Relationship{schema.OneToMany},
		JoinKeysUsed:      []string{"id"},
		OtherJoinKeysUsed: []string{"customer_id"},
	}

	learner := NewFastProp(Hyperparams{NumFeaturesMax: 100, AggregationDepth: 1, MinRatio: 0}, nil, []string{"orders"}, ph, 0)
	err = learner.Fit(FitParams{
		Population:  population,
		Peripherals: map[string]*dataframe.DataFrame{"orders": orders},
		Placeholder: ph,
	})
	require.NoError(t, err)
	require.Greater(t, learner.NumFeatures(), 0)

	features, err := learner.Transform(TransformParams{
		Population:  population,
		Peripherals: map[string]*dataframe.DataFrame{"orders": orders},
	})
	require.NoError(t, err)

	var sumFeature *NumericFeature
	for i := range features {
		if features[i].Name == "SUM(orders.amount)" {
			sumFeature = &features[i]
		}
	}
	require.NotNil(t, sumFeature)
	require.Equal(t, []float64{30, 5}, sumFeature.Values)
}

func TestFastPropCapsAtNumFeaturesMax(t *testing.T) {
	population, err := dataframe.New(map[string]any{"id": []int64{1}})
	require.NoError(t, err)

	orders, err := dataframe.New(map[string]any{
		"customer_id": []int64{1},
		"amount":      []float64{10},
	})
	require.NoError(t, err)
	orders.SetName("orders")
	orders.SetRole("amount", schema.RoleNumerical.String())

	ph := &schema.Placeholder{
		Name:              "population",
		JoinedTables:      []*schema.Placeholder{{Name: "orders"}},
		Relationship:      []schema.Relationship{schema.OneToMany},
		JoinKeysUsed:      []string{"id"},
		OtherJoinKeysUsed: []string{"customer_id"},
	}

	learner := NewFastProp(Hyperparams{NumFeaturesMax: 2, AggregationDepth: 1}, nil, []string{"orders"}, ph, 0)
	err = learner.Fit(FitParams{
		Population:  population,
		Peripherals: map[string]*dataframe.DataFrame{"orders": orders},
		Placeholder: ph,
	})
	require.NoError(t, err)
	require.Equal(t, 2, learner.NumFeatures())
}
