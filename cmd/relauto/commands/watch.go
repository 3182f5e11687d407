package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/relauto/engine/pipeline"
	"github.com/spf13/cobra"
)

// WatchCmd returns the watch command: refits a pipeline whenever the
// recipe file or any CSV it references changes on disk. Fits run one at a
// time on the event loop: a change that arrives during a fit is handled
// after that fit returns, so a running fit is not cancelled.
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <recipe.json> <output-dir>",
		Short: "Refit a pipeline whenever its recipe or input CSVs change",
		Args:  cobra.ExactArgs(2),
	}

	debounce := cmd.Flags().Duration("debounce", 300*time.Millisecond, "Debounce duration for file changes")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		recipePath, outDir := args[0], args[1]

		absRecipe, err := filepath.Abs(recipePath)
		if err != nil {
			return fmt.Errorf("relauto: resolve recipe path: %w", err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("relauto: create watcher: %w", err)
		}
		defer watcher.Close()

		if err := addRecipeWatchPaths(watcher, absRecipe); err != nil {
			return fmt.Errorf("relauto: add watch paths: %w", err)
		}

		fmt.Printf("[%s] Watching %s for changes (debounce: %s)\n", formatTimestamp(time.Now()), absRecipe, *debounce)
		fmt.Println("Press Ctrl+C to stop watching")

		var cancel context.CancelFunc
		runFit := func() {
			if cancel != nil {
				cancel()
			}
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			fmt.Printf("[%s] Fitting...\n", formatTimestamp(time.Now()))
			if err := fitOnce(ctx, absRecipe, outDir); err != nil {
				fmt.Fprintf(os.Stderr, "[%s] Fit error: %v\n", formatTimestamp(time.Now()), err)
				return
			}
			fmt.Printf("[%s] Fit succeeded: %s\n", formatTimestamp(time.Now()), outDir)
		}

		runFit()

		debounceTimer := time.NewTimer(0)
		if !debounceTimer.Stop() {
			<-debounceTimer.C
		}
		pending := false

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !shouldProcessRecipeEvent(event.Op.String(), event.Name) {
					continue
				}
				pending = true
				debounceTimer.Reset(*debounce)

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				fmt.Fprintf(os.Stderr, "[%s] Watch error: %v\n", formatTimestamp(time.Now()), err)

			case <-debounceTimer.C:
				if pending {
					pending = false
					runFit()
				}
			}
		}
	}

	return cmd
}

// addRecipeWatchPaths watches the recipe's own directory plus the
// directories of every CSV it references, at directory-level fsnotify
// granularity (inotify has no per-file watch on most platforms).
func addRecipeWatchPaths(watcher *fsnotify.Watcher, absRecipe string) error {
	dirs := map[string]bool{filepath.Dir(absRecipe): true}

	r, err := loadRecipe(absRecipe)
	if err == nil {
		dirs[filepath.Dir(r.PopulationFile)] = true
		for _, e := range r.Peripherals {
			dirs[filepath.Dir(e.File)] = true
		}
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}
	return nil
}

func shouldProcessRecipeEvent(op, path string) bool {
	if !strings.HasSuffix(path, ".json") && !strings.HasSuffix(path, ".csv") {
		return false
	}
	switch op {
	case "CREATE", "WRITE", "REMOVE", "RENAME":
		return true
	default:
		return false
	}
}

func formatTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}

// fitOnce runs exactly one fit/save cycle, the unit of work watch debounces
// between.
func fitOnce(ctx context.Context, recipePath, outDir string) error {
	r, err := loadRecipe(recipePath)
	if err != nil {
		return err
	}
	cfg, data, err := buildConfig(r)
	if err != nil {
		return err
	}

	pm := pipeline.NewProjectManager()
	orch := pipeline.NewOrchestrator(pm, pipeline.NoopLogger{}, cfg.PoolSize)

	fp, scores, err := orch.Fit(ctx, cfg, data.Population, data.Peripherals)
	if err != nil {
		return err
	}
	printScores(scores)

	return pipeline.Save(fp, outDir)
}
