package commands

import (
	"context"
	"fmt"

	"github.com/relauto/engine/pipeline"
	"github.com/spf13/cobra"
)

// ScoreCmd returns the score command: reloads a persisted pipeline and
// evaluates it against fresh labeled data without predicting (spec.md
// §4.9 step 8's scored-only transform variant).
func ScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <recipe.json> <pipeline-dir>",
		Short: "Score a saved pipeline against fresh labeled data",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		recipePath, pipelineDir := args[0], args[1]

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

		_, scores, err := orch.Transform(ctx, fp, data.Population, data.Peripherals, false, true)
		if err != nil {
			return fmt.Errorf("relauto: score: %w", err)
		}

		printScores(scores)
		return nil
	}

	return cmd
}
