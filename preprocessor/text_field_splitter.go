package preprocessor

import (
	"github.com/relauto/engine/core"
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/schema"
	"github.com/relauto/engine/series"
	"github.com/relauto/engine/staging"
)

// TextFieldSplitter tokenizes every text column of a table into a separate
// peripheral data frame of one row per token, replacing the original
// column's role with unused_string (spec.md §4.4). Unlike the other five
// preprocessors it produces new tables, not just new columns, so it also
// implements PeripheralProducer.
type TextFieldSplitter struct {
	dep fingerprint.Fingerprint

	columns     []string
	peripherals map[string]*dataframe.DataFrame
	fitted      bool
}

// NewTextFieldSplitter creates an unfitted TextFieldSplitter.
func NewTextFieldSplitter(dep fingerprint.Fingerprint) *TextFieldSplitter {
	return &TextFieldSplitter{dep: dep}
}

func textEligible(df *dataframe.DataFrame, col string) bool {
	return df.Role(col) == schema.RoleText.String()
}

// Fit discovers the table's text columns. TextFieldSplitter carries no
// learned parameters beyond that (tokenization is pure).
func (p *TextFieldSplitter) Fit(df *dataframe.DataFrame) error {
	p.columns = nil
	for _, col := range df.Columns() {
		if textEligible(df, col) {
			p.columns = append(p.columns, col)
		}
	}
	p.fitted = true
	return nil
}

// Transform ensures a ROWID join key exists, builds one peripheral token
// table per text column, and renames the source column out of the way.
func (p *TextFieldSplitter) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	out := df
	p.peripherals = make(map[string]*dataframe.DataFrame)

	if len(p.columns) == 0 {
		return out, nil
	}

	if !out.HasColumn(staging.RowIDColumn) {
		n := out.Nrows()
		rowIDs := make([]any, n)
		for i := range rowIDs {
			rowIDs[i] = float64(i)
		}
		withRowID := out.WithColumn(staging.RowIDColumn, series.New(staging.RowIDColumn, rowIDs, core.DtypeFloat64))
		withRowID.CopyMetadataFrom(out)
		withRowID.SetRole(staging.RowIDColumn, schema.RoleJoinKey.String())
		out = withRowID
	}

	for _, col := range p.columns {
		s, err := out.Column(col)
		if err != nil {
			return nil, err
		}

		var rownums []any
		var words []any
		for i := 0; i < s.Len(); i++ {
			v, ok := s.Get(i)
			if !ok || v == nil {
				continue
			}
			row, _ := out.Column(staging.RowIDColumn)
			rowID, _ := row.Get(i)
			for _, tok := range Tokenize(toString(v)) {
				rownums = append(rownums, rowID)
				words = append(words, tok)
			}
		}

		periphName := out.Name() + staging.TextField + col
		periph, err := dataframe.New(map[string]any{
			"rownum": toFloat64Slice(rownums),
			"word":   toStringSlice(words),
		})
		if err != nil {
			return nil, err
		}
		periph.SetName(periphName)
		periph.SetRole("rownum", schema.RoleJoinKey.String())
		periph.SetRole("word", schema.RoleCategorical.String())
		p.peripherals[periphName] = periph

		newCol := staging.TextField + staging.OpenBracket + col + staging.CloseBracket
		renamed := out.Rename(map[string]string{col: newCol})
		renamed.CopyMetadataFrom(out)
		renamed.SetRole(newCol, schema.RoleUnusedString.String())
		out = renamed
	}

	return out, nil
}

// Peripherals returns the token tables produced by the last Transform call.
func (p *TextFieldSplitter) Peripherals() map[string]*dataframe.DataFrame {
	return p.peripherals
}

// Fingerprint identifies this fitted TextFieldSplitter instance.
func (p *TextFieldSplitter) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.TextFieldSplitter([]fingerprint.Fingerprint{p.dep})
}

func (p *TextFieldSplitter) Type() Type     { return TypeOrdinary }
func (p *TextFieldSplitter) IsFitted() bool { return p.fitted }

// ToSQL returns no inline column expression: unlike the other five
// preprocessors, TextFieldSplitter materializes a whole peripheral table
// per text column rather than adding a column to its source table. That
// table's SQL is emitted separately, via sqlgen.Dialect.SplitTextFields
// against a featurelearner.ColumnDescription naming this table/column.
func (p *TextFieldSplitter) ToSQL(prefix string) ([]string, error) {
	return nil, nil
}

func toFloat64Slice(vals []any) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		if f, ok := v.(float64); ok {
			out[i] = f
		}
	}
	return out
}

func toStringSlice(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = toString(v)
	}
	return out
}
