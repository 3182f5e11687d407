package sqlgen

import (
	"strings"
	"testing"

	"github.com/relauto/engine/featurelearner"
	"github.com/relauto/engine/schema"
	"github.com/stretchr/testify/require"
)

func testSchema() *schema.Schema {
	s := schema.NewSchema("customers")
	s.Add(schema.RoleJoinKey, "id")
	s.Add(schema.RoleNumerical, "age")
	s.Add(schema.RoleCategorical, "plan")
	s.Add(schema.RoleTarget, "churned")
	return s
}

func TestSQLiteMakeStagingTablesOmitsTargetsWhenNotNeeded(t *testing.T) {
	stmts := SQLite{}.MakeStagingTables(false, false, testSchema(), nil)
	require.Len(t, stmts, 1)
	require.Contains(t, stmts[0], `"id" BIGINT`)
	require.Contains(t, stmts[0], `"age" DOUBLE PRECISION`)
	require.NotContains(t, stmts[0], `"churned"`)
}

func TestSQLiteMakeStagingTablesIncludesTargetsWhenNeeded(t *testing.T) {
	stmts := SQLite{}.MakeStagingTables(true, false, testSchema(), nil)
	require.Contains(t, stmts[0], `"churned" BIGINT`)
}

func TestMakeStagingTablesOrdersPeripheralsByName(t *testing.T) {
	peripherals := map[string]*schema.Schema{
		"zeta":  schema.NewSchema("zeta"),
		"alpha": schema.NewSchema("alpha"),
	}
	stmts := SQLite{}.MakeStagingTables(false, false, testSchema(), peripherals)
	require.Len(t, stmts, 3)
	require.Contains(t, stmts[1], `"alpha"`)
	require.Contains(t, stmts[2], `"zeta"`)
}

func TestPostgresAndMySQLQuoteIdentifiersDifferently(t *testing.T) {
	s := testSchema()
	pg := Postgres{}.MakeStagingTables(false, false, s, nil)[0]
	my := MySQL{}.MakeStagingTables(false, false, s, nil)[0]

	require.Contains(t, pg, `"id"`)
	require.Contains(t, my, "`id`")
}

func TestMakeSQLOrdersColumnsCategoricalThenNumericalThenComponentsThenTargets(t *testing.T) {
	d := SQLite{}
	stmt := d.MakeSQL("features", []string{"auto1"}, []string{"avg(x)"}, []string{"churned"},
		[]string{"plan"}, []string{"age"})

	selectIdx := strings.Index(stmt, "SELECT")
	planIdx := strings.Index(stmt, `"plan"`)
	ageIdx := strings.Index(stmt, `"age"`)
	avgIdx := strings.Index(stmt, "avg(x)")
	targetIdx := strings.LastIndex(stmt, `"churned"`)

	require.True(t, selectIdx < planIdx)
	require.True(t, planIdx < ageIdx)
	require.True(t, ageIdx < avgIdx)
	require.True(t, avgIdx < targetIdx)
	require.Contains(t, stmt, `"auto1" DOUBLE PRECISION`)
	require.Contains(t, stmt, `FROM "__population__"`)
}

func TestSplitTextFieldsNamesPeripheralTableAfterColumn(t *testing.T) {
	desc := featurelearner.ColumnDescription{Table: "reviews", Column: "body"}
	stmt := SQLite{}.SplitTextFields(desc)
	require.Contains(t, stmt, `"reviews`+TextField+`body"`)
	require.Contains(t, stmt, "word TEXT")
}

func TestMakeStagingTableColumnAliasesOnlyWhenAliasGiven(t *testing.T) {
	d := SQLite{}
	require.Equal(t, `"age"`, d.MakeStagingTableColumn("age", ""))
	require.Equal(t, `t1."age"`, d.MakeStagingTableColumn("age", "t1"))
}

func TestDropTableIfExistsPerDialect(t *testing.T) {
	require.Equal(t, `DROP TABLE IF EXISTS "customers";`, SQLite{}.DropTableIfExists("customers"))
	require.Equal(t, "DROP TABLE IF EXISTS `customers`;", MySQL{}.DropTableIfExists("customers"))
}
