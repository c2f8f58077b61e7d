package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dyike/QuantHedge/internal/api"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			logger, err := newLogger(cfg.Debug, zapcore.InfoLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := buildService(ctx, cfg, logger, nil)
			if err != nil {
				return err
			}
			defer svc.Close()

			logger.Info("starting QuantHedge API",
				zap.String("addr", cfg.HTTPAddr),
				zap.String("provider", cfg.LLMProvider),
				zap.Bool("governance_enforced", cfg.Governance.Enforce))
			return api.NewServer(cfg.HTTPAddr, svc, logger).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides http_addr)")
	return cmd
}
