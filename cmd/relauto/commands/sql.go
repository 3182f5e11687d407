package commands

import (
	"fmt"

	"github.com/relauto/engine/dataframe"
	"github.com/relauto/engine/schema"
	"github.com/relauto/engine/sqlgen"
	"github.com/relauto/engine/staging"
	"github.com/spf13/cobra"
)

func dialectByName(name string) (sqlgen.Dialect, error) {
	switch name {
	case "sqlite":
		return sqlgen.SQLite{}, nil
	case "postgres":
		return sqlgen.Postgres{}, nil
	case "mysql":
		return sqlgen.MySQL{}, nil
	default:
		return nil, fmt.Errorf("relauto: unknown dialect %q (want sqlite, postgres, or mysql)", name)
	}
}

func buildSchema(df *dataframe.DataFrame) *schema.Schema {
	s := schema.NewSchema(df.Name())
	for _, col := range df.Columns() {
		s.Add(schema.ParseRole(df.Role(col)), col)
	}
	return s
}

// SQLCmd returns the sql command: stages a recipe's join tree and prints
// the target dialect's CREATE TABLE statements for the staged schema
// (spec.md §6's SQL dialect printer, exercised against a real join tree
// rather than a synthetic example).
func SQLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql <recipe.json>",
		Short: "Print staging-table SQL for a recipe's data model",
		Args:  cobra.ExactArgs(1),
	}

	dialectName := cmd.Flags().String("dialect", "sqlite", "SQL dialect: sqlite, postgres, or mysql")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dialect, err := dialectByName(*dialectName)
		if err != nil {
			return err
		}

		r, err := loadRecipe(args[0])
		if err != nil {
			return err
		}
		_, data, err := buildConfig(r)
		if err != nil {
			return err
		}

		model := buildDataModel(r)

		placeholder, stagedPop, stagedPeripherals, err := staging.NewRewriter().Stage(data.Population, data.Peripherals, model)
		if err != nil {
			return fmt.Errorf("relauto: stage: %w", err)
		}

		popSchema := buildSchema(stagedPop)
		peripheralSchemata := make(map[string]*schema.Schema, len(stagedPeripherals))
		for name, df := range stagedPeripherals {
			peripheralSchemata[name] = buildSchema(df)
		}

		needsTargets := len(r.Targets) > 0
		statements := dialect.MakeStagingTables(needsTargets, needsTargets, popSchema, peripheralSchemata)
		for _, stmt := range statements {
			fmt.Println(stmt)
		}

		_ = placeholder // reserved for future per-target feature-table SQL
		return nil
	}

	return cmd
}
