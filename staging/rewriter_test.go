package staging

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/schema"
)

func newPopulation(t *testing.T) *dataframe.DataFrame {
	t.Helper()
	df, err := dataframe.New(map[string]any{
		"customer_id": []string{"c1", "c2"},
	})
	require.NoError(t, err)
	df.SetRole("customer_id", schema.RoleJoinKey.String())
	return df
}

func newOrders(t *testing.T) *dataframe.DataFrame {
	t.Helper()
	df, err := dataframe.New(map[string]any{
		"cust": []string{"c1", "c1", "c2"},
		"ts":   []float64{10, 20, 5},
		"amt":  []float64{1, 2, 3},
	})
	require.NoError(t, err)
	df.SetRole("cust", schema.RoleJoinKey.String())
	df.SetRole("ts", schema.RoleTimeStamp.String())
	df.SetRole("amt", schema.RoleNumerical.String())
	return df
}

// TestSynthesizeJoinKeysNoJoinKeySentinel covers spec.md §8's synthetic
// join-key scenario: an edge with no declared join key gets a constant
// NoJoinKey column added to both sides so the join key is always present.
func TestSynthesizeJoinKeysNoJoinKeySentinel(t *testing.T) {
	r := NewRewriter()
	ctx := &stageContext{composite: make(map[string]*Encoding)}
	node := schema.New("customers")
	joined := schema.New("orders")
	node.AddJoin(joined, schema.OneToMany, schema.NoJoinKey, schema.NoJoinKey)

	pop := newPopulation(t)
	ord := newOrders(t)

	outPop, outOrd, err := r.synthesizeJoinKeys(ctx, pop, ord, node, 0)
	require.NoError(t, err)

	require.True(t, outPop.HasColumn(NoJoinKey))
	require.True(t, outOrd.HasColumn(NoJoinKey))
	require.Equal(t, NoJoinKey, node.JoinKeysUsed[0])
	require.Equal(t, NoJoinKey, node.OtherJoinKeysUsed[0])

	col, err := outPop.Column(NoJoinKey)
	require.NoError(t, err)
	for i := 0; i < col.Len(); i++ {
		v, ok := col.Get(i)
		require.True(t, ok)
		require.Equal(t, int64(0), v)
	}
}

// TestSynthesizeJoinKeysCompositeKeyStableAcrossCalls covers the composite
// (multi-column) join-key path: both sides must land in the same code
// space, encoded across both calls through the single ctx.composite
// encoding registered for the key pair (spec.md §4.3 step 1: "identity
// carried forward").
func TestSynthesizeJoinKeysCompositeKeyStableAcrossCalls(t *testing.T) {
	r := NewRewriter()
	ctx := &stageContext{composite: make(map[string]*Encoding)}

	pop, err := dataframe.New(map[string]any{
		"a": []string{"x", "y"},
		"b": []string{"1", "2"},
	})
	require.NoError(t, err)
	ord, err := dataframe.New(map[string]any{
		"oa": []string{"x", "y"},
		"ob": []string{"1", "2"},
	})
	require.NoError(t, err)

	node := schema.New("customers")
	joined := schema.New("orders")
	key := "a" + schema.CompositeSeparator + "b"
	otherKey := "oa" + schema.CompositeSeparator + "ob"
	node.AddJoin(joined, schema.OneToMany, key, otherKey)

	outPop, outOrd, err := r.synthesizeJoinKeys(ctx, pop, ord, node, 0)
	require.NoError(t, err)
	require.True(t, outPop.HasColumn("composite(a,b)"))
	require.True(t, outOrd.HasColumn("composite(oa,ob)"))

	popCol, err := outPop.Column("composite(a,b)")
	require.NoError(t, err)
	ordCol, err := outOrd.Column("composite(oa,ob)")
	require.NoError(t, err)

	for i := 0; i < popCol.Len(); i++ {
		pv, _ := popCol.Get(i)
		ov, _ := ordCol.Get(i)
		require.Equal(t, pv, ov, "matching rows must encode to the same composite code")
	}

	require.Len(t, ctx.composite, 1, "both sides of the key pair must share one encoding")
}

// TestSynthesizeTimeStampsMemoryProducesUpperBound covers the memory ->
// upper-time-stamp scenario from spec.md §8: a positive Memory[i] must
// synthesize a GENERATED_TS upper-bound column shifted by horizon+memory
// and record its name on node.UpperTimeStampsUsed.
func TestSynthesizeTimeStampsMemoryProducesUpperBound(t *testing.T) {
	r := NewRewriter()

	pop := newPopulation(t)
	ord := newOrders(t)

	node := schema.New("customers")
	joined := schema.New("orders")
	node.AddJoin(joined, schema.OneToMany, "customer_id", "cust")
	node.OtherTimeStampsUsed[0] = "ts"
	node.Horizon[0] = 2
	node.Memory[0] = 5

	_, outOrd, upper, lower, err := r.synthesizeTimeStamps(pop, ord, node, 0)
	require.NoError(t, err)

	wantLower := GeneratedTS("ts", 2)
	wantUpper := GeneratedTS(wantLower, 7)
	require.Equal(t, wantLower, lower)
	require.Equal(t, wantUpper, upper)
	require.True(t, outOrd.HasColumn(wantLower))
	require.True(t, outOrd.HasColumn(wantUpper))

	lowerCol, err := outOrd.Column(wantLower)
	require.NoError(t, err)
	upperCol, err := outOrd.Column(wantUpper)
	require.NoError(t, err)
	for i := 0; i < lowerCol.Len(); i++ {
		lv, _ := lowerCol.Get(i)
		uv, _ := upperCol.Get(i)
		require.Equal(t, lv.(float64)+5, uv.(float64))
	}
}

// TestSynthesizeTimeStampsRowIDFallback covers the schema.RowID sentinel:
// when no real time stamp is declared, a synthesized 0,1,2,... row-number
// column must be added and recorded in place of the sentinel.
func TestSynthesizeTimeStampsRowIDFallback(t *testing.T) {
	r := NewRewriter()

	pop := newPopulation(t)
	ord := newOrders(t)

	node := schema.New("customers")
	joined := schema.New("orders")
	node.AddJoin(joined, schema.OneToMany, "customer_id", "cust")
	node.TimeStampsUsed[0] = schema.RowID

	outPop, _, _, _, err := r.synthesizeTimeStamps(pop, ord, node, 0)
	require.NoError(t, err)

	require.True(t, outPop.HasColumn(RowIDColumn))
	require.Equal(t, RowIDColumn, node.TimeStampsUsed[0])
}

// TestStageIdempotentOnRepeatedCalls covers property #5 (staging
// idempotence): staging the same population/peripherals/model twice must
// produce equivalent Placeholder trees and row counts, since Stage copies
// its input DataFrames rather than mutating them in place (the model is
// rewritten in place, so the second call gets a fresh one).
func TestStageIdempotentOnRepeatedCalls(t *testing.T) {
	r := NewRewriter()
	pop := newPopulation(t)
	periphs := Tables{"orders": newOrders(t)}

	model := schema.New("customers")
	orders := schema.New("orders")
	model.AddJoin(orders, schema.OneToMany, "customer_id", "cust")
	model.OtherTimeStampsUsed[0] = "ts"
	model.Memory[0] = 3

	ph1, stagedPop1, outPeriph1, err := r.Stage(pop, periphs, model)
	require.NoError(t, err)

	model2 := schema.New("customers")
	orders2 := schema.New("orders")
	model2.AddJoin(orders2, schema.OneToMany, "customer_id", "cust")
	model2.OtherTimeStampsUsed[0] = "ts"
	model2.Memory[0] = 3

	ph2, stagedPop2, outPeriph2, err := r.Stage(pop, periphs, model2)
	require.NoError(t, err)

	require.Equal(t, ph1.Name, ph2.Name)
	require.Equal(t, ph1.Peripheral, ph2.Peripheral)
	require.Equal(t, stagedPop1.Nrows(), stagedPop2.Nrows())
	require.Equal(t, len(outPeriph1), len(outPeriph2))

	require.Equal(t, 2, pop.Nrows(), "Stage must not mutate its population input")
	ordersCol, err := periphs["orders"].Column("cust")
	require.NoError(t, err)
	require.Equal(t, 3, ordersCol.Len(), "Stage must not mutate its peripheral input")
}

// TestStageToManyChildBecomesPeripheral covers the to-many staging
// scenario end to end: the joined table must surface as a standalone
// staged peripheral frame (not inlined) under its own name.
func TestStageToManyChildBecomesPeripheral(t *testing.T) {
	r := NewRewriter()
	pop := newPopulation(t)
	periphs := Tables{"orders": newOrders(t)}

	model := schema.New("customers")
	orders := schema.New("orders")
	model.AddJoin(orders, schema.OneToMany, "customer_id", "cust")

	ph, stagedPop, outPeriph, err := r.Stage(pop, periphs, model)
	require.NoError(t, err)

	require.Contains(t, outPeriph, "orders")
	require.Contains(t, ph.Peripheral, "orders")
	require.Equal(t, 2, stagedPop.Nrows())
	require.Len(t, ph.JoinedTables, 1)
	require.True(t, model.Relationship[0].IsToMany())
}
