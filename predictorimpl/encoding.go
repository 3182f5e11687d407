package predictorimpl

import (
	"encoding/json"
	"sort"
)

// Encoding maps the raw integer codes a categorical column was seen to hold
// at fit time onto a dense 0..N-1 range, per spec.md §4.6. The mapping
// direction is fixed at Fit time; Transform-time codes that were never seen
// at fit have no entry and TransformEncodings reports them as unseen.
type Encoding struct {
	toDense map[int64]int
	toRaw   []int64
}

// FitEncoding builds an Encoding from every raw code observed in values.
// The dense range is assigned in ascending raw-code order so the mapping is
// deterministic regardless of row order, satisfying the fingerprint/encoding
// round-trip property spec.md §8 property 9 requires.
func FitEncoding(values []int64) *Encoding {
	seen := make(map[int64]bool)
	for _, v := range values {
		seen[v] = true
	}
	raw := make([]int64, 0, len(seen))
	for v := range seen {
		raw = append(raw, v)
	}
	sort.Slice(raw, func(i, j int) bool { return raw[i] < raw[j] })

	enc := &Encoding{toDense: make(map[int64]int, len(raw)), toRaw: raw}
	for i, v := range raw {
		enc.toDense[v] = i
	}
	return enc
}

// NUnique returns the number of distinct raw values encoded, i.e. N.
func (e *Encoding) NUnique() int { return len(e.toRaw) }

// Transform maps a raw code to its dense index. ok is false if the code was
// never seen at fit time.
func (e *Encoding) Transform(raw int64) (int, bool) {
	dense, ok := e.toDense[raw]
	return dense, ok
}

// RawAt returns the raw code that was assigned dense index i.
func (e *Encoding) RawAt(i int) (int64, bool) {
	if i < 0 || i >= len(e.toRaw) {
		return 0, false
	}
	return e.toRaw[i], true
}

// Clone returns a deep copy, used when PredictorImpl.Clone() snapshots the
// feature-selector impl before pruning it into the predictor impl (spec.md
// §4.8 step 8: "clone the selector impl").
func (e *Encoding) Clone() *Encoding {
	if e == nil {
		return nil
	}
	toDense := make(map[int64]int, len(e.toDense))
	for k, v := range e.toDense {
		toDense[k] = v
	}
	return &Encoding{toDense: toDense, toRaw: append([]int64(nil), e.toRaw...)}
}

// MarshalJSON persists only toRaw: toDense is fully determined by it (dense
// index == position in the ascending-sorted slice), so round-tripping
// through UnmarshalJSON rebuilds toDense rather than storing it twice.
func (e *Encoding) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.toRaw)
}

func (e *Encoding) UnmarshalJSON(data []byte) error {
	var raw []int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	toDense := make(map[int64]int, len(raw))
	for i, v := range raw {
		toDense[v] = i
	}
	e.toDense = toDense
	e.toRaw = raw
	return nil
}
