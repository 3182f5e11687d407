package preprocessor

import (
	"fmt"
	"time"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/fingerprint"
	"github.com/relauto/engine/schema"
	"github.com/relauto/engine/series"
)

// seasonalComponent describes one of the five derived columns Seasonal can
// emit from a time-stamp column. Categorical components render as a
// zero-padded string (spec.md §4.4: "hour (0-23, two-digit padded)" etc.);
// year is the lone numeric, comparison-only component.
type seasonalComponent struct {
	marker    string
	numeric   bool
	deriveStr func(time.Time) string
	deriveNum func(time.Time) float64
}

var seasonalComponents = []seasonalComponent{
	{marker: "hour", deriveStr: func(t time.Time) string { return fmt.Sprintf("%02d", t.Hour()) }},
	{marker: "minute", deriveStr: func(t time.Time) string { return fmt.Sprintf("%02d", t.Minute()) }},
	{marker: "month", deriveStr: func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) }},
	{marker: "weekday", deriveStr: func(t time.Time) string { return fmt.Sprintf("%d", int(t.Weekday())) }},
	{marker: "year", numeric: true, deriveNum: func(t time.Time) float64 { return float64(t.Year()) }},
}

// Seasonal derives up to five calendar columns (hour, minute, month,
// weekday, year) from each eligible time-stamp column (spec.md §4.4). A
// derived column is only kept if it has at least two distinct values.
type Seasonal struct {
	dep fingerprint.Fingerprint

	columns []string
	keep    map[string]map[string]bool // source column -> component marker -> keep
	fitted  bool
}

// NewSeasonal creates an unfitted Seasonal preprocessor.
func NewSeasonal(dep fingerprint.Fingerprint) *Seasonal {
	return &Seasonal{dep: dep}
}

func seasonalEligible(df *dataframe.DataFrame, col string) bool {
	if df.Role(col) != schema.RoleTimeStamp.String() {
		return false
	}
	if df.HasSubrole(col, string(schema.SubroleExcludeSeasonal)) {
		return false
	}
	return true
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case float64:
		return time.Unix(int64(x), 0).UTC(), true
	case int64:
		return time.Unix(x, 0).UTC(), true
	default:
		return time.Time{}, false
	}
}

func (c seasonalComponent) key(t time.Time) string {
	if c.numeric {
		return fmt.Sprintf("%g", c.deriveNum(t))
	}
	return c.deriveStr(t)
}

// Fit determines, per eligible column and per calendar component, whether
// at least two distinct values are produced.
func (p *Seasonal) Fit(df *dataframe.DataFrame) error {
	p.columns = nil
	p.keep = make(map[string]map[string]bool)

	for _, col := range df.Columns() {
		if !seasonalEligible(df, col) {
			continue
		}

		s, err := df.Column(col)
		if err != nil {
			return err
		}

		distinct := make(map[string]map[string]bool, len(seasonalComponents))
		for _, c := range seasonalComponents {
			distinct[c.marker] = make(map[string]bool)
		}

		for i := 0; i < s.Len(); i++ {
			v, ok := s.Get(i)
			if !ok || v == nil {
				continue
			}
			t, ok := toTime(v)
			if !ok {
				continue
			}
			for _, c := range seasonalComponents {
				distinct[c.marker][c.key(t)] = true
			}
		}

		keep := make(map[string]bool, len(seasonalComponents))
		for _, c := range seasonalComponents {
			keep[c.marker] = len(distinct[c.marker]) >= 2
		}

		p.columns = append(p.columns, col)
		p.keep[col] = keep
	}

	p.fitted = true
	return nil
}

// Transform adds the kept derived columns for every eligible source column.
func (p *Seasonal) Transform(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	out := df
	for _, col := range p.columns {
		s, err := out.Column(col)
		if err != nil {
			return nil, err
		}

		for _, c := range seasonalComponents {
			if !p.keep[col][c.marker] {
				continue
			}

			vals := make([]any, s.Len())
			for i := 0; i < s.Len(); i++ {
				v, ok := s.Get(i)
				if !ok || v == nil {
					vals[i] = nil
					continue
				}
				t, ok := toTime(v)
				if !ok {
					vals[i] = nil
					continue
				}
				if c.numeric {
					vals[i] = c.deriveNum(t)
				} else {
					vals[i] = c.deriveStr(t)
				}
			}

			outCol := fmt.Sprintf("%s(%s)", c.marker, col)
			dtype := core.DtypeString
			if c.numeric {
				dtype = core.DtypeFloat64
			}
			newCol := series.New(outCol, vals, dtype)
			next := out.WithColumn(outCol, newCol)
			next.CopyMetadataFrom(out)
			if c.numeric {
				next.SetRole(outCol, schema.RoleNumerical.String())
				next.SetUnit(outCol, "year, "+schema.UnitComparisonOnly)
			} else {
				next.SetRole(outCol, schema.RoleCategorical.String())
			}
			out = next
		}
	}
	return out, nil
}

// Fingerprint identifies this fitted Seasonal instance.
func (p *Seasonal) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.Seasonal([]fingerprint.Fingerprint{p.dep})
}

func (p *Seasonal) Type() Type     { return TypeOrdinary }
func (p *Seasonal) IsFitted() bool { return p.fitted }

// seasonalSQLFormat maps a calendar component marker to the strftime-style
// format token most SQL dialects' date-formatting functions accept.
func seasonalSQLFormat(marker string) string {
	switch marker {
	case "hour":
		return "%H"
	case "minute":
		return "%M"
	case "month":
		return "%m"
	case "weekday":
		return "%w"
	default:
		return "%Y"
	}
}

// ToSQL emits one date-formatting expression per kept calendar component.
func (p *Seasonal) ToSQL(prefix string) ([]string, error) {
	var out []string
	for _, col := range p.columns {
		ref := prefix + col
		for _, c := range seasonalComponents {
			if !p.keep[col][c.marker] {
				continue
			}
			outCol := fmt.Sprintf("%s(%s)", c.marker, col)
			expr := fmt.Sprintf("strftime('%s', %s)", seasonalSQLFormat(c.marker), ref)
			if c.numeric {
				expr = fmt.Sprintf("CAST(%s AS INTEGER)", expr)
			}
			out = append(out, fmt.Sprintf("%s AS %q", expr, outCol))
		}
	}
	return out, nil
}
