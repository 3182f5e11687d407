package sqlgen

import (
	"fmt"

	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/schema"
)

// Postgres prints Postgres-flavored SQL: double-quoted identifiers and an
// explicit CASCADE on DROP TABLE IF EXISTS, since the staging tables this
// package emits are frequently referenced by downstream feature tables.
type Postgres struct{}

func (Postgres) Name() string     { return "postgres" }
func (Postgres) Quotechar1() byte { return '"' }
func (Postgres) Quotechar2() byte { return '"' }

func (d Postgres) DropTableIfExists(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", quoteWith(d.Quotechar1(), d.Quotechar2(), name))
}

func (d Postgres) MakeStagingTables(populationNeedsTargets, peripheralNeedsTargets bool, populationSchema *schema.Schema, peripheralSchemata map[string]*schema.Schema) []string {
	return createTableStatements(d, populationNeedsTargets, peripheralNeedsTargets, populationSchema, peripheralSchemata)
}

func (d Postgres) MakeSQL(tableName string, autofeatureNames, components, targets, catColnames, numColnames []string) string {
	return makeSQLStatement(d, tableName, autofeatureNames, components, targets, catColnames, numColnames)
}

func (d Postgres) SplitTextFields(desc featurelearner.ColumnDescription) string {
	return splitTextFieldsStatement(d, desc)
}

func (d Postgres) MakeStagingTableColumn(colname, alias string) string {
	if alias == "" {
		return quoteWith(d.Quotechar1(), d.Quotechar2(), colname)
	}
	return fmt.Sprintf("%s.%s", alias, quoteWith(d.Quotechar1(), d.Quotechar2(), colname))
}
