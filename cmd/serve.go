package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hurou927/tag-communities/internal/analysis"
	"github.com/hurou927/tag-communities/internal/logging"
	"github.com/hurou927/tag-communities/internal/server"
	"github.com/hurou927/tag-communities/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Serves the upload, update and lookup endpoints over HTTP, keeping the dataset in the configured store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		logger, err := logging.New(cfg.Log.Environment)
		if err != nil {
			return err
		}
		defer logger.Sync()

		st, err := store.Open(ctx, cfg)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()
		logger.Info("store ready", zap.String("driver", cfg.Store.Driver))

		srv := server.New(cfg.Server, analysis.NewService(st), logger, server.NewMetrics("communities"))
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
