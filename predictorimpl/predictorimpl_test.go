package predictorimpl

import "testing"

// TestSelectFeaturesPrunesInReverseGroupOrder is spec.md §8 scenario S4:
// 3 learners with NumFeatures = [10, 10, 10], 3 numerical + 2 categorical
// inputs; select_features(7, [0,1,2,3,4,5,6,...]) must retain exactly 7
// entries, all from the first learner's leading autofeatures.
func TestSelectFeaturesPrunesInReverseGroupOrder(t *testing.T) {
	p := &PredictorImpl{
		Autofeatures: [][]int{
			seq(10), seq(10), seq(10),
		},
		NumericalColnames:   []string{"n1", "n2", "n3"},
		CategoricalColnames: []string{"c1", "c2"},
		Encodings: []*Encoding{
			FitEncoding([]int64{0, 1, 2, 3}),
			FitEncoding([]int64{0, 1, 2, 3, 4}),
		},
	}

	index := make([]int, 35)
	for i := range index {
		index[i] = i
	}

	out := p.SelectFeatures(7, index)

	total := len(out.NumericalColnames) + len(out.CategoricalColnames)
	for _, af := range out.Autofeatures {
		total += len(af)
	}
	if total != 7 {
		t.Fatalf("expected 7 surviving entries, got %d", total)
	}
	if len(out.Autofeatures[0]) != 7 {
		t.Fatalf("expected learner 0 to keep 7 autofeatures, got %d", len(out.Autofeatures[0]))
	}
	if len(out.Autofeatures[1]) != 0 || len(out.Autofeatures[2]) != 0 {
		t.Fatalf("expected learners 1 and 2 to be fully pruned")
	}
	if len(out.NumericalColnames) != 0 || len(out.CategoricalColnames) != 0 {
		t.Fatalf("expected numerical and categorical columns fully pruned")
	}
}

func TestEncodingRoundTrip(t *testing.T) {
	enc := FitEncoding([]int64{5, 5, 9, 1, 9})
	if enc.NUnique() != 3 {
		t.Fatalf("expected 3 distinct values, got %d", enc.NUnique())
	}
	dense, ok := enc.Transform(1)
	if !ok || dense != 0 {
		t.Fatalf("expected raw 1 to map to dense 0 (smallest), got %d ok=%v", dense, ok)
	}
	if _, ok := enc.Transform(42); ok {
		t.Fatalf("expected unseen raw code to report not-ok")
	}
}

func TestCompressImportances(t *testing.T) {
	p := &PredictorImpl{
		Autofeatures:        [][]int{{0, 1}},
		NumericalColnames:   []string{"n1"},
		CategoricalColnames: []string{"c1"},
		Encodings:           []*Encoding{FitEncoding([]int64{0, 1, 2})},
	}
	// 2 autofeatures + 1 numerical + 3 encoded categorical slots = 6
	dense := []float64{1, 2, 3, 0.1, 0.2, 0.3}
	out, err := p.CompressImportances(dense)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected condensed length 4, got %d", len(out))
	}
	if out[3] < 0.59 || out[3] > 0.61 {
		t.Fatalf("expected categorical slot to sum to ~0.6, got %f", out[3])
	}
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
