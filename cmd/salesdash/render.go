package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"salesdash/pkg/config"
	"salesdash/pkg/dashboard"
	"salesdash/pkg/report"
)

type renderOptions struct {
	format      string
	dataDirs    []string
	showMetrics bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Load, clean and aggregate each dataset directory and print the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: text or json (default from config)")
	cmd.Flags().StringArrayVar(&opts.dataDirs, "data", nil, "Dataset directory; repeat for several (default from config)")
	cmd.Flags().BoolVar(&opts.showMetrics, "metrics", false, "Log the collected render metrics when done")

	return cmd
}

func runRender(ctx context.Context, out io.Writer, root *rootOptions, opts renderOptions) error {
	a, err := newApp(root, func(cfg *config.Config) {
		if opts.format != "" {
			cfg.OutputFormat = strings.ToLower(opts.format)
		}
		if len(opts.dataDirs) > 0 {
			cfg.DataDirs = opts.dataDirs
		}
	})
	if err != nil {
		return err
	}
	defer a.close()

	renderer, err := dashboard.NewRenderer(a.cfg.OutputFormat)
	if err != nil {
		return err
	}

	panels := a.renderAll(ctx)
	if err := renderer.Render(out, panels); err != nil {
		return err
	}

	if opts.showMetrics {
		snap, err := a.metrics.Snapshot()
		if err != nil {
			return err
		}
		a.logger.Info("Render metrics", zap.Any("metrics", snap))
	}

	failed := 0
	for _, p := range panels {
		if p.Err != nil {
			failed++
		}
	}
	if failed == len(panels) {
		return fmt.Errorf("no dataset could be rendered (%d failed)", failed)
	}
	return nil
}

// renderAll renders every configured dataset concurrently, bounded by
// max_parallel_renders. A failed dataset becomes a "no data" panel and does
// not stop the others. Panels keep the configured order.
func (a *app) renderAll(ctx context.Context) []dashboard.Panel {
	panels := make([]dashboard.Panel, len(a.cfg.DataDirs))
	opts := report.Options{TopN: a.cfg.TopN}

	var g errgroup.Group
	g.SetLimit(a.cfg.MaxParallelRenders)

	for i, dir := range a.cfg.DataDirs {
		i, dir := i, dir
		g.Go(func() error {
			panel := dashboard.Panel{Dataset: filepath.Base(dir)}
			result, err := a.pipeline.Run(ctx, dir)
			if err != nil {
				panel.Err = err
			} else {
				panel.Dashboard = report.Build(result, opts)
			}
			panels[i] = panel
			return nil
		})
	}
	_ = g.Wait()

	return panels
}
