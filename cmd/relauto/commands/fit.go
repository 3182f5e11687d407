package commands

import (
	"context"
	"fmt"

	"github.com/relauto/engine/pipeline"
	"github.com/spf13/cobra"
)

// FitCmd returns the fit command: reads a recipe JSON, fits a pipeline
// against the population/peripheral CSVs it names, and persists the
// result with pipeline.Save (spec.md §4.8, §4.11).
func FitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit <recipe.json> <output-dir>",
		Short: "Fit a pipeline from a recipe and persist it",
		Args:  cobra.ExactArgs(2),
	}

	poolSize := cmd.Flags().Int("pool-size", 0, "Worker pool size (0 = runtime.NumCPU())")
	quiet := cmd.Flags().Bool("quiet", false, "Suppress progress logging")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		recipePath, outDir := args[0], args[1]

		r, err := loadRecipe(recipePath)
		if err != nil {
			return err
		}

		cfg, data, err := buildConfig(r)
		if err != nil {
			return err
		}
		if *poolSize > 0 {
			cfg.PoolSize = *poolSize
		}

		logger := pipeline.Logger(pipeline.StderrLogger{})
		if *quiet {
			logger = pipeline.NoopLogger{}
		}

		pm := pipeline.NewProjectManager()
		orch := pipeline.NewOrchestrator(pm, logger, cfg.PoolSize)

		fp, scores, err := orch.Fit(context.Background(), cfg, data.Population, data.Peripherals)
		if err != nil {
			return fmt.Errorf("relauto: fit: %w", err)
		}

		if err := pipeline.Save(fp, outDir); err != nil {
			return fmt.Errorf("relauto: save pipeline: %w", err)
		}

		fmt.Printf("Fitted pipeline %q saved to %s\n", cfg.PipelineName, outDir)
		printScores(scores)
		return nil
	}

	return cmd
}
