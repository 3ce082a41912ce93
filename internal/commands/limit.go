package commands

import (
	"fmt"
	"time"

	"github.com/perflab-ai/modelbench/affinity"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var limitCmd = &cobra.Command{
	Use:   "limit",
	Short: "Demonstrate CPU affinity limiting on a CPU-bound workload",
	Long: `Restricts the process to the given cores, times a fixed numeric
accumulation, then restores the full core set and times it again for
comparison. An unsupported platform or insufficient permissions is
reported and the demo continues unrestricted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cores, _ := cmd.Flags().GetIntSlice("cores")
		iterations, _ := cmd.Flags().GetInt("work-iterations")

		fmt.Println("Demonstration of resource limiting via CPU affinity.")

		limitAndMeasure(cores, iterations)

		all := affinity.AllCores()
		limitAndMeasure(all, iterations)
		fmt.Printf("Restored CPU affinity to all cores: %v\n", all)

		return nil
	},
}

func limitAndMeasure(cores []int, iterations int) {
	if err := affinity.SetCPUAffinity(cores); err != nil {
		// Non-fatal: the workload still runs, just unrestricted.
		logger.Warn("could not set CPU affinity", zap.Ints("cores", cores), zap.Error(err))
	} else {
		fmt.Printf("Set CPU affinity to cores: %v\n", cores)
	}

	fmt.Println("Starting a CPU-intensive task...")
	start := time.Now()
	x := affinity.BusyWork(iterations)
	fmt.Printf("Result of CPU task: %d, took %.2f seconds\n", x, time.Since(start).Seconds())
}

func init() {
	rootCmd.AddCommand(limitCmd)

	limitCmd.Flags().IntSlice("cores", []int{0}, "logical cores to restrict the process to")
	limitCmd.Flags().Int("work-iterations", 10_000_000, "iterations of the synthetic CPU workload")
}
