package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docweave/docweave/internal/scan"
	"github.com/docweave/docweave/internal/state"
)

// ScanCmd implements the 'scan' command.
type ScanCmd struct {
	Paths   []string `arg:"" optional:"" help:"Files or directories to scan (default: the configured source directory)"`
	Force   bool     `short:"f" help:"Process files even when their fingerprints are unchanged"`
	Changed bool     `help:"Only scan files with uncommitted changes"`
	NoState bool     `name:"no-state" help:"Skip the fingerprint cache for this run"`
}

func (s *ScanCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	var store *state.Store
	if !s.NoState {
		st, err := state.Open(cfg.State.Path)
		if err != nil {
			slog.Warn("Scan state unavailable, processing everything", "path", cfg.State.Path, "error", err)
		} else {
			store = st
			defer func() { _ = store.Close() }()
		}
	}

	scanner := scan.New(cfg, store).WithForce(s.Force).WithChangedOnly(s.Changed)
	result, err := scanner.Run(context.Background(), s.Paths)
	if result != nil {
		fmt.Printf("Scan complete: %d processed, %d skipped, %d failed\n",
			result.Processed, result.Skipped, result.Failed)
	}
	return err
}
