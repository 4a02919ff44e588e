package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/docweave/docweave/internal/events"
	"github.com/docweave/docweave/internal/metrics"
	"github.com/docweave/docweave/internal/preview"
	"github.com/docweave/docweave/internal/scan"
	"github.com/docweave/docweave/internal/sphinx"
	"github.com/docweave/docweave/internal/state"
)

// PreviewCmd implements the 'preview' command: serve the built site and
// rebuild it when sources change.
type PreviewCmd struct {
	Addr    string `help:"Listen address override (host:port)"`
	NoWatch bool   `name:"no-watch" help:"Disable the filesystem watcher"`
	NoScan  bool   `name:"no-scan" help:"Skip the embedded-code scan on rebuilds"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	// Signal-based context for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if p.Addr != "" {
		cfg.Preview.Addr = p.Addr
	}
	if p.NoWatch {
		off := false
		cfg.Preview.Watch = &off
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	publisher, err := events.ForConfig(cfg.Events)
	if err != nil {
		slog.Warn("Event publisher unavailable, continuing without events", "error", err)
		publisher = events.NopPublisher{}
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("Failed to close event publisher", "error", err)
		}
	}()

	var store *state.Store
	if st, err := state.Open(cfg.State.Path); err != nil {
		slog.Warn("Scan state unavailable, rebuilds rescan everything", "path", cfg.State.Path, "error", err)
	} else {
		store = st
		defer func() { _ = store.Close() }()
	}

	builder := sphinx.NewBuilder(cfg)
	scanner := scan.New(cfg, store)
	rebuild := func(ctx context.Context, force bool) error {
		if !p.NoScan {
			result, err := scanner.WithForce(force).Run(ctx, nil)
			if result != nil {
				recorder.AddScanFiles(string(scan.StatusProcessed), result.Processed)
				recorder.AddScanFiles(string(scan.StatusSkipped), result.Skipped)
				recorder.AddScanFiles(string(scan.StatusFailed), result.Failed)
			}
			if err != nil {
				return err
			}
		}
		_, err := builder.Build(ctx, cfg.Preview.Builder)
		return err
	}

	server, err := preview.NewServer(cfg, rebuild)
	if err != nil {
		return err
	}
	server.WithRecorder(recorder).WithPublisher(publisher).WithRegistry(registry)
	return server.Run(ctx)
}
