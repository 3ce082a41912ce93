package commands

import (
	"fmt"
	"os"

	"github.com/perflab-ai/modelbench/runner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parallelCmd = &cobra.Command{
	Use:   "parallel",
	Short: "Run several independent benchmarks as concurrent OS processes",
	Long: `Launches one child process per built-in argument set, each re-executing
"modelbench run" with its own model, iteration count, and batch size. The
parent waits for every child; a failing child is reported but never aborts
its siblings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exe, err := os.Executable()
		if err != nil {
			return errors.Wrap(err, "resolving own executable")
		}

		r := runner.New(exe, logger)
		results := r.Run(cmd.Context(), runner.DefaultJobs())

		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			logger.Warn("some benchmark processes failed",
				zap.Int("failed", failed),
				zap.Int("total", len(results)))
		}

		fmt.Println("All concurrent benchmarks have finished.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parallelCmd)
}
