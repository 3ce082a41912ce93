// Package commands wires the modelbench CLI: benchmark runs, the parallel
// runner, the CPU affinity demo, and the dashboard server.
package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/perflab-ai/modelbench/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile  string
	logger   *zap.Logger
	registry *models.Registry
)

var rootCmd = &cobra.Command{
	Use:   "modelbench",
	Short: "modelbench — benchmark image-classification models and sample host CPU/memory usage",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range []string{"debug"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.FormatBool(viper.GetBool(name)))
			}
		}
		if !cmd.Flags().Changed("logs-dir") {
			if v := viper.GetString("logs-dir"); v != "" {
				_ = cmd.Flags().Set("logs-dir", v)
			}
		}

		debug, _ := cmd.Flags().GetBool("debug")
		var err error
		if logger, err = buildLogger(debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		registry = models.Default()
		return nil
	},
}

// Execute runs the root command. It is called once from main.
func Execute() {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default modelbench.yaml in the working directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logs-dir", "logs", "directory for benchmark log files")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("logs-dir", rootCmd.PersistentFlags().Lookup("logs-dir"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("modelbench")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MODELBENCH")
	viper.AutomaticEnv()

	// Absent config file is fine; flags and defaults cover everything.
	_ = viper.ReadInConfig()
}
