package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salesdash/pkg/config"
	"salesdash/pkg/engine"
	"salesdash/pkg/metrics"
	"salesdash/pkg/normalize"
	"salesdash/pkg/parser"
)

type rootOptions struct {
	configPath string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var root rootOptions

	renderCmd := newRenderCmd(&root)

	cmd := &cobra.Command{
		Use:           "salesdash",
		Short:         "Render the sales dashboard for every configured dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          renderCmd.RunE,
	}
	cmd.PersistentFlags().StringVar(&root.configPath, "config", "", "Config file (default: "+config.DefaultPath+" when present)")
	cmd.Flags().AddFlagSet(renderCmd.Flags())

	cmd.AddCommand(renderCmd, newIdentitiesCmd(&root))
	return cmd
}

// app is the wiring shared by every command.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	pipeline *engine.Pipeline
}

func newApp(root *rootOptions, override func(*config.Config)) (*app, error) {
	cfg, err := config.Load(root.configPath)
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid flags: %w", err)
		}
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	m := metrics.New()
	cleaner := engine.NewCleaner(normalize.NewCurrencyNormalizer(cfg.EURToUSD), logger, m)
	pipeline := engine.NewPipeline(parser.NewLoader(logger), cleaner, logger, m)

	return &app{cfg: cfg, logger: logger, metrics: m, pipeline: pipeline}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
