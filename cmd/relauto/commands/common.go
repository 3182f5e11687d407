package commands

import (
	"fmt"

	"github.com/relauto/engine/pipeline"
)

// printScores renders one line per target, matching inspect.go's plain
// fmt.Printf texture rather than reaching for a table-rendering library.
func printScores(scores []pipeline.Scores) {
	for _, sc := range scores {
		if sc.IsClassification {
			fmt.Printf("  target=%s n=%d accuracy=%.4f precision=%.4f recall=%.4f\n",
				sc.Target, sc.NRows, sc.Accuracy, sc.Precision, sc.Recall)
			continue
		}
		fmt.Printf("  target=%s n=%d r_squared=%.4f mse=%.4f mape=%.4f\n",
			sc.Target, sc.NRows, sc.RSquared, sc.MSE, sc.MAPE)
	}
}
