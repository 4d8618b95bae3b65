package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docid/internal/docerr"
	"docid/internal/drift"
)

var driftWatch bool

// driftCmd compares the current tree against the last-known-good baseline.
var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Detect unexplained divergence from the last sync",
	Long: `Compares the current scan against the per-file hashes recorded at the last
successful sync. Content edits under an unchanged identifier are normal; an
identifier change on a tracked path is flagged as potential collision or
misuse and is never auto-corrected. With --watch the workspace is monitored
live and drift is re-evaluated after each burst of changes.`,
	RunE: runDrift,
}

func init() {
	driftCmd.Flags().BoolVar(&driftWatch, "watch", false, "watch the workspace and report drift continuously")
}

func runDrift(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	detector := &drift.Detector{Log: logger}
	check := func() (*drift.Report, error) {
		base, err := drift.ReadBaseline(cfg.Resolve(cfg.Paths.Baseline))
		if err != nil {
			return nil, docerr.System("read baseline", err)
		}
		snap, err := newScanner(cfg).Scan(cmd.Context())
		if err != nil {
			return nil, docerr.System("scan", err)
		}
		return detector.Compare(base, snap), nil
	}

	report, err := check()
	if err != nil {
		return err
	}
	printDriftReport(report)

	if !driftWatch {
		if !report.Clean() {
			return errChecksFailed
		}
		return nil
	}

	watcher := &drift.Watcher{
		Root: cfg.Workspace,
		Log:  logger,
		OnChange: func(paths []string) {
			logger.Info("changes detected", zap.Int("paths", len(paths)))
			report, err := check()
			if err != nil {
				logger.Error("drift check failed", zap.Error(err))
				return
			}
			printDriftReport(report)
		},
	}
	err = watcher.Run(cmd.Context())
	if err != nil && cmd.Context().Err() != nil {
		return nil // interrupted, not a failure
	}
	return err
}

func printDriftReport(report *drift.Report) {
	printTitle("drift report")
	printKV("content changed", len(report.ContentChanged))
	printKV("identifier changed", len(report.IdentifierChanged))
	printKV("added", len(report.Added))
	printKV("removed", len(report.Removed))
	for _, c := range report.IdentifierChanged {
		fmt.Printf("  %s %s: %s -> %s (never auto-corrected)\n",
			styleFail.Render("!"), c.Path, c.OldIdentifier, c.NewIdentifier)
	}
	for _, p := range report.Removed {
		fmt.Printf("  %s %s removed since last sync\n", styleWarn.Render("-"), p)
	}
}
