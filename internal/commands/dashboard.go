package commands

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/perflab-ai/modelbench/dashboard"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Serve a web dashboard over saved benchmark logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		logsDir, _ := cmd.Flags().GetString("logs-dir")

		server := dashboard.NewServer(logsDir, logger)
		httpServer := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           server,
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down dashboard")
			_ = httpServer.Close()
		}()

		logger.Info("dashboard listening",
			zap.String("addr", fmt.Sprintf("http://localhost:%d", port)),
			zap.String("logs_dir", logsDir))

		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().IntP("port", "p", 8050, "port to listen on")
}
