package preprocessor

import (
	"fmt"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/schema"
	"github.com/relauto/engine/series"
	"github.com/relauto/engine/staging"
)

// Substring emits substring(begin, length) of each configured text or
// categorical source column, dense-encoded, inheriting the source column's
// unit (spec.md §4.4).
type Substring struct {
	dep           fingerprint.Fingerprint
	begin, length int
	columns       []string

	encoding map[string]*staging.Encoding
	fitted   bool
}

// NewSubstring creates an unfitted Substring preprocessor extracting
// text[begin:begin+length] from each of columns.
func NewSubstring(dep fingerprint.Fingerprint, begin, length int, columns []string) *Substring {
	return &Substring{dep: dep, begin: begin, length: length, columns: columns}
}

func substr(s string, begin, length int) string {
	if begin < 0 || begin >= len(s) {
		return ""
	}
	end := begin + length
	if end > len(s) {
		end = len(s)
	}
	return s[begin:end]
}

// Fit builds the dense encoding for each configured column's substring.
func (p *Substring) Fit(df *dataframe.DataFrame) error {
	p.encoding = make(map[string]*staging.Encoding)

	for _, col := range p.columns {
		s, err := df.Column(col)
		if err != nil {
			return err
		}
		enc := staging.NewEncoding()
		for i := 0; i < s.Len(); i++ {
			v, ok := s.Get(i)
			if !ok || v == nil {
				continue
			}
			enc.Encode(substr(toString(v), p.begin, p.length))
		}
		p.encoding[col] = enc
	}

	p.fitted = true
	return nil
}

// Transform adds one dense-encoded substring column per configured column.
func (p *Substring) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	out := df
	for _, col := range p.columns {
		s, err := out.Column(col)
		if err != nil {
			return nil, err
		}

		enc := p.encoding[col]
		codes := make([]any, s.Len())
		for i := 0; i < s.Len(); i++ {
			v, ok := s.Get(i)
			if !ok || v == nil {
				codes[i] = staging.NullCode
				continue
			}
			code, known := enc.Lookup(substr(toString(v), p.begin, p.length))
			if !known {
				codes[i] = staging.NullCode
				continue
			}
			codes[i] = code
		}

		outCol := fmt.Sprintf("substring(%s,%d,%d)", col, p.begin, p.length)
		newCol := series.New(outCol, codes, core.DtypeInt64)
		next := out.WithColumn(outCol, newCol)
		next.CopyMetadataFrom(out)
		next.SetRole(outCol, schema.RoleCategorical.String())
		next.SetUnit(outCol, out.Unit(col))
		out = next
	}
	return out, nil
}

// Fingerprint identifies this fitted Substring instance.
func (p *Substring) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.Substring(p.begin, p.length, []fingerprint.Fingerprint{p.dep})
}

func (p *Substring) Type() Type     { return TypeOrdinary }
func (p *Substring) IsFitted() bool { return p.fitted }

// ToSQL emits one substr(...) expression per configured column.
func (p *Substring) ToSQL(prefix string) ([]string, error) {
	out := make([]string, 0, len(p.columns))
	for _, col := range p.columns {
		outCol := fmt.Sprintf("substring(%s,%d,%d)", col, p.begin, p.length)
		expr := fmt.Sprintf("substr(%s%s, %d, %d)", prefix, col, p.begin+1, p.length)
		out = append(out, fmt.Sprintf("%s AS %q", expr, outCol))
	}
	return out, nil
}
