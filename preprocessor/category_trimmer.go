package preprocessor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
)

// OtherCategory is the sentinel value CategoryTrimmer maps every
// below-threshold category onto.
const OtherCategory = "__other__"

// CategoryTrimmer remaps the long tail of a categorical column's rarest
// values onto a single OTHER bucket, keeping only categories seen at least
// MinFrequency times in the fitted data (spec.md §4.4: "analogous fit/
// transform shape" to the other preprocessors; mapping-style, fit after
// every ordinary preprocessor per the orchestrator's stable partition).
type CategoryTrimmer struct {
	dep          fingerprint.Fingerprint
	MinFrequency int
	Columns      []string

	keep   map[string]map[string]bool
	fitted bool
}

// NewCategoryTrimmer creates an unfitted CategoryTrimmer.
func NewCategoryTrimmer(dep fingerprint.Fingerprint, minFrequency int, columns []string) *CategoryTrimmer {
	return &CategoryTrimmer{dep: dep, MinFrequency: minFrequency, Columns: columns}
}

// Fit counts occurrences per category and records which ones clear the
// frequency threshold.
func (p *CategoryTrimmer) Fit(df *dataframe.DataFrame) error {
	p.keep = make(map[string]map[string]bool)

	for _, col := range p.Columns {
		s, err := df.Column(col)
		if err != nil {
			return err
		}

		counts := make(map[string]int)
		for i := 0; i < s.Len(); i++ {
			v, ok := s.Get(i)
			if !ok || v == nil {
				continue
			}
			counts[toString(v)]++
		}

		keep := make(map[string]bool, len(counts))
		for cat, n := range counts {
			keep[cat] = n >= p.MinFrequency
		}
		p.keep[col] = keep
	}

	p.fitted = true
	return nil
}

// Transform rewrites each configured column in place, replacing any value
// that did not clear the frequency threshold with OtherCategory.
func (p *CategoryTrimmer) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	out := df
	for _, col := range p.Columns {
		s, err := out.Column(col)
		if err != nil {
			return nil, err
		}

		vals := make([]any, s.Len())
		for i := 0; i < s.Len(); i++ {
			v, ok := s.Get(i)
			if !ok || v == nil {
				vals[i] = nil
				continue
			}
			cat := toString(v)
			if p.keep[col][cat] {
				vals[i] = cat
			} else {
				vals[i] = OtherCategory
			}
		}

		next := out.WithColumn(col, newStringSeries(col, vals))
		next.CopyMetadataFrom(out)
		out = next
	}
	return out, nil
}

// Fingerprint identifies this fitted CategoryTrimmer instance.
func (p *CategoryTrimmer) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.CategoryTrimmer(p.MinFrequency, []fingerprint.Fingerprint{p.dep})
}

func (p *CategoryTrimmer) Type() Type     { return TypeMapping }
func (p *CategoryTrimmer) IsFitted() bool { return p.fitted }

// ToSQL emits one CASE expression per configured column, rewriting each
// below-threshold category to OtherCategory exactly as Transform does.
func (p *CategoryTrimmer) ToSQL(prefix string) ([]string, error) {
	out := make([]string, 0, len(p.Columns))
	for _, col := range p.Columns {
		ref := prefix + col
		var whens []string
		for cat, kept := range p.keep[col] {
			if kept {
				whens = append(whens, fmt.Sprintf("WHEN %s = '%s' THEN '%s'", ref, cat, cat))
			}
		}
		sort.Strings(whens)
		expr := fmt.Sprintf("CASE %s ELSE '%s' END", strings.Join(whens, " "), OtherCategory)
		out = append(out, fmt.Sprintf("%s AS %q", expr, col))
	}
	return out, nil
}
