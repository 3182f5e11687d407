package sqlgen

import (
	"fmt"

	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/schema"
)

// SQLite prints SQLite-flavored SQL: double-quoted identifiers, no
// autoincrement column type distinct from INTEGER.
type SQLite struct{}

func (SQLite) Name() string     { return "sqlite" }
func (SQLite) Quotechar1() byte { return '"' }
func (SQLite) Quotechar2() byte { return '"' }

func (d SQLite) DropTableIfExists(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteWith(d.Quotechar1(), d.Quotechar2(), name))
}

func (d SQLite) MakeStagingTables(populationNeedsTargets, peripheralNeedsTargets bool, populationSchema *schema.Schema, peripheralSchemata map[string]*schema.Schema) []string {
	return createTableStatements(d, populationNeedsTargets, peripheralNeedsTargets, populationSchema, peripheralSchemata)
}

func (d SQLite) MakeSQL(tableName string, autofeatureNames, components, targets, catColnames, numColnames []string) string {
	return makeSQLStatement(d, tableName, autofeatureNames, components, targets, catColnames, numColnames)
}

func (d SQLite) SplitTextFields(desc featurelearner.ColumnDescription) string {
	return splitTextFieldsStatement(d, desc)
}

func (d SQLite) MakeStagingTableColumn(colname, alias string) string {
	if alias == "" {
		return quoteWith(d.Quotechar1(), d.Quotechar2(), colname)
	}
	return fmt.Sprintf("%s.%s", alias, quoteWith(d.Quotechar1(), d.Quotechar2(), colname))
}
