package preprocessor

import (
	"fmt"
	"strings"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/schema"
	"github.com/relauto/engine/series"
	"github.com/relauto/engine/staging"
)

// EMailDomain extracts, for every eligible text column, the domain part of
// an e-mail address (the substring after "@") into a new
// dense-encoded categorical column (spec.md §4.4).
type EMailDomain struct {
	dep fingerprint.Fingerprint

	columns  []string
	encoding map[string]*staging.Encoding
	dropped  map[string]bool
	fitted   bool
}

// NewEMailDomain creates an unfitted EMailDomain preprocessor that will
// depend on dep (typically the staged population/peripheral fingerprint).
func NewEMailDomain(dep fingerprint.Fingerprint) *EMailDomain {
	return &EMailDomain{dep: dep}
}

func eligible(df *dataframe.DataFrame, col string) bool {
	if df.Role(col) != schema.RoleText.String() {
		return false
	}
	hasEMail := df.HasSubrole(col, string(schema.SubroleEMail)) || df.HasSubrole(col, string(schema.SubroleEMailOnly))
	if !hasEMail {
		return false
	}
	if df.HasSubrole(col, string(schema.SubroleExcludePreprocessors)) {
		return false
	}
	if df.HasSubrole(col, string(schema.SubroleSubstringOnly)) {
		return false
	}
	return true
}

func domainOf(val string) string {
	i := strings.IndexByte(val, '@')
	if i < 0 {
		return ""
	}
	return val[i+1:]
}

// Fit selects eligible columns and builds the domain encoding for each,
// dropping any column whose domain set has fewer than two distinct values.
func (p *EMailDomain) Fit(df *dataframe.DataFrame) error {
	p.columns = nil
	p.encoding = make(map[string]*staging.Encoding)
	p.dropped = make(map[string]bool)

	for _, col := range df.Columns() {
		if !eligible(df, col) {
			continue
		}

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
			enc.Encode(domainOf(toString(v)))
		}

		p.columns = append(p.columns, col)
		p.encoding[col] = enc
		p.dropped[col] = enc.NUnique() < 2
	}

	p.fitted = true
	return nil
}

// Transform adds one dense-encoded domain column per eligible, non-dropped
// source column.
func (p *EMailDomain) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	out := df
	for _, col := range p.columns {
		if p.dropped[col] {
			continue
		}

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
			code, known := enc.Lookup(domainOf(toString(v)))
			if !known {
				codes[i] = staging.NullCode
				continue
			}
			codes[i] = code
		}

		outCol := staging.EMailDomainMarker + staging.OpenBracket + col + staging.CloseBracket
		newCol := series.New(outCol, codes, core.DtypeInt64)
		next := out.WithColumn(outCol, newCol)
		next.CopyMetadataFrom(out)
		next.SetRole(outCol, schema.RoleCategorical.String())
		next.SetUnit(outCol, "email domain")
		out = next
	}
	return out, nil
}

// Fingerprint identifies this fitted EMailDomain instance and its upstream
// dependency, per spec.md §3's preprocessor-variant fingerprint.
func (p *EMailDomain) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.EMailDomain([]fingerprint.Fingerprint{p.dep})
}

func (p *EMailDomain) Type() Type     { return TypeOrdinary }
func (p *EMailDomain) IsFitted() bool { return p.fitted }

// ToSQL emits one substring-after-"@" expression per non-dropped column.
func (p *EMailDomain) ToSQL(prefix string) ([]string, error) {
	var out []string
	for _, col := range p.columns {
		if p.dropped[col] {
			continue
		}
		ref := prefix + col
		outCol := staging.EMailDomainMarker + staging.OpenBracket + col + staging.CloseBracket
		expr := fmt.Sprintf("substr(%s, strpos(%s, '@') + 1)", ref, ref)
		out = append(out, fmt.Sprintf("%s AS %q", expr, outCol))
	}
	return out, nil
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
