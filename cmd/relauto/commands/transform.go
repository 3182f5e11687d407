package commands

import (
	"context"
	"fmt"

	"github.com/relauto/engine/io/csv"
	"github.com/relauto/engine/pipeline"
	"github.com/spf13/cobra"
)

// TransformCmd returns the transform command: reloads a persisted
// pipeline (pipeline.Load), replays it against fresh population/peripheral
// CSVs named by the recipe, and writes the autofeature-augmented,
// predicted population frame (spec.md §4.9).
func TransformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform <recipe.json> <pipeline-dir> <output.csv>",
		Short: "Replay a saved pipeline against fresh data and predict",
		Args:  cobra.ExactArgs(3),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		recipePath, pipelineDir, outPath := args[0], args[1], args[2]

		r, err := loadRecipe(recipePath)
		if err != nil {
			return err
		}
		cfg, data, err := buildConfig(r)
		if err != nil {
			return err
		}

		ctx := context.Background()
		pm := pipeline.NewProjectManager()
		orch := pipeline.NewOrchestrator(pm, pipeline.StderrLogger{}, cfg.PoolSize)

		fp, err := pipeline.Load(ctx, orch, cfg, pipelineDir, data.Population, data.Peripherals)
		if err != nil {
			return fmt.Errorf("relauto: load pipeline: %w", err)
		}

		out, _, err := orch.Transform(ctx, fp, data.Population, data.Peripherals, true, false)
		if err != nil {
			return fmt.Errorf("relauto: transform: %w", err)
		}

		if err := csv.ToCSV(out, outPath); err != nil {
			return fmt.Errorf("relauto: write output: %w", err)
		}

		fmt.Printf("Transformed %d rows -> %s\n", out.Nrows(), outPath)
		return nil
	}

	return cmd
}
