package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/perflab-ai/modelbench/benchmark"
	"github.com/perflab-ai/modelbench/models"
	"github.com/perflab-ai/modelbench/sysmon"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorgonia.org/tensor"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark a model's inference latency and throughput",
	RunE: func(cmd *cobra.Command, args []string) error {
		modelName, _ := cmd.Flags().GetString("model")
		iterations, _ := cmd.Flags().GetInt("iterations")
		batchSize, _ := cmd.Flags().GetInt("batch-size")
		mockDelay, _ := cmd.Flags().GetFloat64("mock-delay")
		saveLogs, _ := cmd.Flags().GetBool("save-logs")
		inputImage, _ := cmd.Flags().GetString("input-image")
		modelPath, _ := cmd.Flags().GetString("model-path")
		logsDir, _ := cmd.Flags().GetString("logs-dir")

		if iterations <= 0 {
			return errors.Errorf("--iterations must be positive, got %d", iterations)
		}
		if batchSize <= 0 {
			return errors.Errorf("--batch-size must be positive, got %d", batchSize)
		}
		if mockDelay < 0 {
			return errors.Errorf("--mock-delay must be non-negative, got %g", mockDelay)
		}

		modelName = strings.ToLower(modelName)
		if modelPath != "" {
			path := modelPath
			registry.Register("onnx", func() (models.Model, error) {
				return models.NewONNXModel(path)
			})
		}

		// Unknown model name is a terminal user error: no inference runs,
		// no log file is created, and the process exits non-zero.
		m, err := registry.New(modelName)
		if err != nil {
			return err
		}
		defer m.Close()

		shape := models.NewInputShape(batchSize)

		var input *tensor.Dense
		if inputImage != "" {
			if input, err = models.InputFromImage(inputImage, shape); err != nil {
				return err
			}
		}

		fmt.Printf("\nLoading %s model.\n", modelName)

		runner := benchmark.NewRunner(sysmon.NewSampler())
		result, err := runner.Run(cmd.Context(), m, benchmark.RunConfig{
			Shape:      shape,
			Iterations: iterations,
			MockDelay:  time.Duration(mockDelay * float64(time.Second)),
			Input:      input,
		})
		if err != nil {
			return err
		}

		divider := strings.Repeat("-", 50)
		fmt.Println(divider)
		fmt.Printf("Model: %s\n", modelName)
		fmt.Printf("Iterations: %d\n", iterations)
		fmt.Printf("Batch Size: %d\n", batchSize)
		if mockDelay > 0 {
			fmt.Printf("Mock Delay: %g sec per iteration\n", mockDelay)
		}
		fmt.Printf("Average Inference Time: %.4f seconds\n", result.AvgTime)
		fmt.Printf("Throughput: %.2f inferences/sec\n", result.Throughput)
		fmt.Println(divider)
		fmt.Println()

		if saveLogs {
			path, err := benchmark.SaveLog(logsDir, modelName, result.Log)
			if err != nil {
				return err
			}
			fmt.Printf("Detailed logs saved to %s\n", path)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("model", "m", "resnet18", "model to benchmark")
	runCmd.Flags().IntP("iterations", "i", 50, "number of inference iterations to measure")
	runCmd.Flags().IntP("batch-size", "b", 1, "batch size for the input tensor")
	runCmd.Flags().Float64("mock-delay", 0.0, "artificial delay in seconds before each inference")
	runCmd.Flags().Bool("save-logs", false, "save detailed metrics to a JSON file in the logs directory")
	runCmd.Flags().String("input-image", "", "benchmark against this image instead of a random tensor")
	runCmd.Flags().String("model-path", "", "path to a .onnx file, registered as the \"onnx\" model")
}
