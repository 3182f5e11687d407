// Package sqlgen transpiles a fitted pipeline's staging, preprocessing, and
// feature-generation steps into SQL DDL/DML (spec.md §6's "SQL dialect
// printer" contract). One file per dialect, matching the io/csv + io/json
// one-file-per-concern reader/writer pairing style.
package sqlgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/schema"
)

// Sentinels re-exported for SQL generation, mirroring staging's (spec.md §6
// requires these fixed strings recognizable by both the stager and the SQL
// printer).
const (
	NoJoinKey        = "__no_join_key__"
	RowIDColumn      = "__rowid__"
	TextField        = "__text_field__"
	PopulationSuffix = "__population__"
)

// Dialect is the SQL dialect printer contract of spec.md §6.
type Dialect interface {
	// Name identifies the dialect ("sqlite", "postgres", "mysql").
	Name() string

	Quotechar1() byte
	Quotechar2() byte

	DropTableIfExists(name string) string

	// MakeStagingTables emits one CREATE TABLE statement per table in
	// populationSchema/peripheralSchemata, adding a target column only when
	// the corresponding needsTargets flag is set.
	MakeStagingTables(populationNeedsTargets, peripheralNeedsTargets bool, populationSchema *schema.Schema, peripheralSchemata map[string]*schema.Schema) []string

	// MakeSQL emits the CREATE TABLE + INSERT...SELECT pair that
	// materializes tableName's condensed feature columns (autofeatureNames)
	// plus components (arbitrary SQL column expressions, e.g. preprocessor
	// output) and targets, selected against catColnames/numColnames.
	MakeSQL(tableName string, autofeatureNames, components, targets, catColnames, numColnames []string) string

	// SplitTextFields emits the CREATE TABLE statement for the
	// TextFieldSplitter peripheral table of desc's column (a row-id column
	// and a word column, spec.md §4.4). It emits no statement that
	// tokenizes the raw column or fills the table.
	SplitTextFields(desc featurelearner.ColumnDescription) string

	// MakeStagingTableColumn quotes colname, aliasing it to alias when alias
	// is non-empty.
	MakeStagingTableColumn(colname, alias string) string
}

// roleSQLType maps a schema.Role to the SQL column type every dialect in
// this package agrees on (TEXT/DOUBLE/BIGINT cover every role staging and
// the preprocessors ever materialize).
func roleSQLType(role schema.Role) string {
	switch role {
	case schema.RoleNumerical, schema.RoleUnusedFloat, schema.RoleTimeStamp:
		return "DOUBLE PRECISION"
	case schema.RoleDiscrete, schema.RoleCategorical, schema.RoleJoinKey, schema.RoleTarget:
		return "BIGINT"
	default:
		return "TEXT"
	}
}

func quoteWith(q1, q2 byte, name string) string {
	return string(q1) + name + string(q2)
}

func createTableStatements(d Dialect, populationNeedsTargets, peripheralNeedsTargets bool, populationSchema *schema.Schema, peripheralSchemata map[string]*schema.Schema) []string {
	var out []string
	out = append(out, createTableStatement(d, populationSchema, populationNeedsTargets))
	names := make([]string, 0, len(peripheralSchemata))
	for name := range peripheralSchemata {
		names = append(names, name)
	}
	for _, name := range sortedStrings(names) {
		out = append(out, createTableStatement(d, peripheralSchemata[name], peripheralNeedsTargets))
	}
	return out
}

func createTableStatement(d Dialect, s *schema.Schema, needsTargets bool) string {
	var cols []string
	for _, role := range []schema.Role{
		schema.RoleJoinKey, schema.RoleTimeStamp, schema.RoleCategorical,
		schema.RoleDiscrete, schema.RoleNumerical, schema.RoleText,
		schema.RoleUnusedFloat, schema.RoleUnusedString,
	} {
		for _, name := range s.Names(role) {
			cols = append(cols, fmt.Sprintf("%s %s", quoteWith(d.Quotechar1(), d.Quotechar2(), name), roleSQLType(role)))
		}
	}
	if needsTargets {
		for _, name := range s.Names(schema.RoleTarget) {
			cols = append(cols, fmt.Sprintf("%s %s", quoteWith(d.Quotechar1(), d.Quotechar2(), name), roleSQLType(schema.RoleTarget)))
		}
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", quoteWith(d.Quotechar1(), d.Quotechar2(), s.Name), strings.Join(cols, ",\n  "))
}

func makeSQLStatement(d Dialect, tableName string, autofeatureNames, components, targets, catColnames, numColnames []string) string {
	var selectCols []string
	for _, c := range catColnames {
		selectCols = append(selectCols, quoteWith(d.Quotechar1(), d.Quotechar2(), c))
	}
	for _, c := range numColnames {
		selectCols = append(selectCols, quoteWith(d.Quotechar1(), d.Quotechar2(), c))
	}
	selectCols = append(selectCols, components...)
	for _, t := range targets {
		selectCols = append(selectCols, quoteWith(d.Quotechar1(), d.Quotechar2(), t))
	}

	var createCols []string
	for _, name := range autofeatureNames {
		createCols = append(createCols, fmt.Sprintf("%s DOUBLE PRECISION", quoteWith(d.Quotechar1(), d.Quotechar2(), name)))
	}

	create := fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", quoteWith(d.Quotechar1(), d.Quotechar2(), tableName), strings.Join(createCols, ",\n  "))
	insert := fmt.Sprintf("INSERT INTO %s\nSELECT\n  %s\nFROM %s;",
		quoteWith(d.Quotechar1(), d.Quotechar2(), tableName), strings.Join(selectCols, ",\n  "), quoteWith(d.Quotechar1(), d.Quotechar2(), PopulationSuffix))

	return create + "\n" + insert
}

func splitTextFieldsStatement(d Dialect, desc featurelearner.ColumnDescription) string {
	peripheral := desc.Table + TextField + desc.Column
	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s BIGINT,\n  word TEXT\n);",
		quoteWith(d.Quotechar1(), d.Quotechar2(), peripheral),
		quoteWith(d.Quotechar1(), d.Quotechar2(), RowIDColumn),
	)
}

func sortedStrings(ss []string) []string {
	out := append([]string(nil), ss...)
	sort.Strings(out)
	return out
}
