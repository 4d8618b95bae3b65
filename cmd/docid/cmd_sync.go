package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"docid/internal/docerr"
	"docid/internal/drift"
	"docid/internal/scan"
	"docid/internal/state"
	"docid/internal/syncer"
)

// syncCmd reconciles a fresh scan against the registry.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the inventory against the registry",
	Long: `Scans the workspace, then merges the snapshot into the registry: tolerated
renames update the recorded path, externally-created identifiers are adopted,
and entries whose file has vanished are marked missing_file. On success the
drift baseline is re-recorded.`,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, err := newScanner(cfg).Scan(cmd.Context())
	if err != nil {
		return docerr.System("scan", err)
	}
	if err := scan.WriteInventory(cfg.Resolve(cfg.Paths.Inventory), snap); err != nil {
		return docerr.System("write inventory", err)
	}

	s := &syncer.Syncer{Store: newStore(cfg), Log: logger}
	report, err := s.Sync(snap)
	if err != nil {
		return err
	}

	// Record the post-sync world as last-known-good for drift detection.
	if err := drift.WriteBaseline(cfg.Resolve(cfg.Paths.Baseline), snap); err != nil {
		return docerr.System("write baseline", err)
	}
	statePath := cfg.Resolve(cfg.Paths.State)
	st, err := state.Load(statePath)
	if err != nil {
		return docerr.System("load state", err)
	}
	now := time.Now().UTC()
	st.LastSyncAt = &now
	st.LastSnapshotID = snap.ID
	if err := state.Save(statePath, st); err != nil {
		return docerr.System("save state", err)
	}

	printTitle("sync summary")
	printKV("moved", len(report.Moved))
	printKV("inserted", len(report.Inserted))
	printKV("newly missing", len(report.NewlyMissing))
	printKV("recovered", len(report.Recovered))
	printKV("unchanged", report.Unchanged)
	for _, m := range report.Moved {
		fmt.Printf("  %s %s: %s -> %s\n", styleWarn.Render("~"), m.Identifier, m.From, m.To)
	}
	for _, id := range report.Inserted {
		fmt.Printf("  %s adopted %s\n", stylePass.Render("+"), id)
	}
	for _, id := range report.NewlyMissing {
		fmt.Printf("  %s %s has no file (marked missing_file)\n", styleWarn.Render("?"), id)
	}
	for _, id := range report.DeprecatedInUse {
		fmt.Printf("  %s %s is deprecated but still embedded in a file\n", styleFail.Render("!"), id)
	}
	return nil
}
