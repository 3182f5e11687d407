package sqlgen

import (
	"fmt"

	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/schema"
)

// MySQL prints MySQL-flavored SQL: backtick-quoted identifiers.
type MySQL struct{}

func (MySQL) Name() string     { return "mysql" }
func (MySQL) Quotechar1() byte { return '`' }
func (MySQL) Quotechar2() byte { return '`' }

func (d MySQL) DropTableIfExists(name string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", quoteWith(d.Quotechar1(), d.Quotechar2(), name))
}

func (d MySQL) MakeStagingTables(populationNeedsTargets, peripheralNeedsTargets bool, populationSchema *schema.Schema, peripheralSchemata map[string]*schema.Schema) []string {
	return createTableStatements(d, populationNeedsTargets, peripheralNeedsTargets, populationSchema, peripheralSchemata)
}

func (d MySQL) MakeSQL(tableName string, autofeatureNames, components, targets, catColnames, numColnames []string) string {
	return makeSQLStatement(d, tableName, autofeatureNames, components, targets, catColnames, numColnames)
}

func (d MySQL) SplitTextFields(desc featurelearner.ColumnDescription) string {
	return splitTextFieldsStatement(d, desc)
}

func (d MySQL) MakeStagingTableColumn(colname, alias string) string {
	if alias == "" {
		return quoteWith(d.Quotechar1(), d.Quotechar2(), colname)
	}
	return fmt.Sprintf("%s.%s", alias, quoteWith(d.Quotechar1(), d.Quotechar2(), colname))
}
