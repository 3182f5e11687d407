package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/predictor"
	"github.com/relauto/engine/schema"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSchemaRoundTrips(t *testing.T) {
	s := schema.NewSchema("customers")
	s.Add(schema.RoleJoinKey, "id")
	s.Add(schema.RoleNumerical, "age")
	s.Add(schema.RoleTarget, "churned")

	back := decodeSchema(encodeSchema(s))
	require.Equal(t, "customers", back.Name)
	require.Equal(t, []string{"id"}, back.Names(schema.RoleJoinKey))
	require.Equal(t, []string{"age"}, back.Names(schema.RoleNumerical))
	require.Equal(t, []string{"churned"}, back.Names(schema.RoleTarget))
}

func TestEncodeDecodeSchemataRoundTrips(t *testing.T) {
	orders := schema.NewSchema("orders")
	orders.Add(schema.RoleJoinKey, "order_id")
	m := map[string]*schema.Schema{"orders": orders}

	back := decodeSchemata(encodeSchemata(m))
	require.Contains(t, back, "orders")
	require.Equal(t, []string{"order_id"}, back["orders"].Names(schema.RoleJoinKey))
}

func TestFpStringsPreservesOrder(t *testing.T) {
	a := fingerprint.OrdinaryDataFrame("a", "t1")
	b := fingerprint.OrdinaryDataFrame("b", "t2")
	out := fpStrings([]fingerprint.Fingerprint{a, b})
	require.Equal(t, []string{a.String(), b.String()}, out)
}

func TestFpStringsByTargetCoversEveryTarget(t *testing.T) {
	m := map[string][]fingerprint.Fingerprint{
		"churned": {fingerprint.OrdinaryDataFrame("a", "t1")},
		"ltv":     {fingerprint.OrdinaryDataFrame("b", "t2")},
	}
	out := fpStringsByTarget(m)
	require.Len(t, out, 2)
	require.Len(t, out["churned"], 1)
	require.Len(t, out["ltv"], 1)
}

func TestPredictorTypesByTargetReadsEachPredictorsType(t *testing.T) {
	m := map[string][]predictor.Predictor{
		"churned": {predictor.NewLogisticRegression("l2", 1.0, 100, fingerprint.PredictorHyperparams{}, nil)},
	}
	out := predictorTypesByTarget(m)
	require.Equal(t, []string{"LogisticRegression"}, out["churned"])
}

func TestWriteJSONThenReadJSONRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	in := []Scores{{Target: "churned", NRows: 10}}

	require.NoError(t, writeJSON(path, in))

	var out []Scores
	require.NoError(t, readJSON(path, &out))
	require.Equal(t, in, out)
}

func TestReadJSONErrorsWhenFileMissing(t *testing.T) {
	var out []Scores
	err := readJSON(filepath.Join(t.TempDir(), "missing.json"), &out)
	require.Error(t, err)
}

func TestWriteJSONErrorsOnUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	err := writeJSON(filepath.Join(dir, "nonexistent-subdir", "x.json"), Scores{})
	require.Error(t, err)
}

func TestSaveThenLoadManifestRoundTripsPipelineJSONFields(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "pipeline.json")
	in := pipelineJSON{
		Version:      "1",
		CreationTime: "2026-01-01T00:00:00Z",
		AllowHTTP:    true,
		Targets:      []string{"churned"},
	}
	require.NoError(t, writeJSON(manifestPath, in))

	var out pipelineJSON
	require.NoError(t, readJSON(manifestPath, &out))
	require.Equal(t, in, out)
	_, err := os.Stat(manifestPath)
	require.NoError(t, err)
}
