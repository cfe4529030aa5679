package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/event"
	"github.com/julienpequegnot/newsforge/internal/feed"
	"github.com/julienpequegnot/newsforge/internal/pipeline"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run in daemon mode",
	Long: `Periodically builds every batch and writes it as JSON to the output
directory.`,
	RunE: runDaemon,
}

var (
	daemonInterval int
	daemonOnce     bool
)

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().IntVar(&daemonInterval, "interval", 0, "Override interval in hours (0 = use config)")
	daemonCmd.Flags().BoolVar(&daemonOnce, "once", false, "Run once and exit")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	l := newLogger(cfg)
	ctx := cmd.Context()

	interval := cfg.Daemon.IntervalHours
	if daemonInterval > 0 {
		interval = daemonInterval
	}
	if interval <= 0 {
		return fmt.Errorf("invalid interval: %d hours", interval)
	}

	outDir := cfg.Daemon.OutputDir
	if outDir == "" {
		outDir = filepath.Join(config.Dir(), "batches")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	svc, err := newServices(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer svc.close()

	d := &daemon{cfg: cfg, logger: l, svc: svc, outDir: outDir}

	l.Info("daemon starting", "interval_hours", interval, "output", outDir)
	d.run(ctx)

	if daemonOnce {
		return nil
	}

	ticker := time.NewTicker(time.Duration(interval) * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.run(ctx)
		case <-ctx.Done():
			l.Info("daemon stopping")
			return nil
		}
	}
}

type daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	svc    *services
	outDir string
}

// run builds every batch once. A failing batch is logged and does not stop
// the others.
func (d *daemon) run(ctx context.Context) {
	stamp := time.Now().Format("20060102-150405")
	fetcher := feed.NewFetcher(d.cfg.Fetch, d.logger)
	processor := d.svc.processor(d.cfg, d.logger)

	for _, kind := range []pipeline.Kind{pipeline.Articles, pipeline.News, pipeline.Featured} {
		if ctx.Err() != nil {
			return
		}

		src := feed.NewMultiSource(fetcher, d.cfg.Sources, settingsFor(d.cfg, kind).PerSource, d.cfg.Fetch.Concurrency, d.logger)
		res, err := processor.Process(ctx, pipeline.NewRequest(kind, d.cfg), src)
		if errors.Is(err, pipeline.ErrNoItems) {
			d.logger.Error("batch failed: no items obtained", "kind", kind)
			continue
		}
		if err != nil {
			d.logger.Error("batch failed", "kind", kind, "error", err)
			continue
		}

		d.write(fmt.Sprintf("%s-%s.json", kind, stamp), res)
	}

	if ctx.Err() != nil {
		return
	}

	settings := d.cfg.Batches.Events
	if len(settings.Sources) == 0 {
		return
	}
	items, err := feed.NewMultiSource(fetcher, settings.Sources, settings.PerSource, d.cfg.Fetch.Concurrency, d.logger).Items(ctx)
	if err != nil {
		d.logger.Error("events batch failed", "error", err)
		return
	}
	d.write(fmt.Sprintf("events-%s.json", stamp), event.Build(items, event.Options{
		Limit:     settings.Limit,
		DaysAhead: settings.DaysAhead,
	}))
}

func (d *daemon) write(name string, v any) {
	path := filepath.Join(d.outDir, name)
	if err := writeJSON(v, path); err != nil {
		d.logger.Error("failed to write batch", "path", path, "error", err)
		return
	}
	d.logger.Info("batch written", "path", path)
}
