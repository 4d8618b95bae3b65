package main

import (
	"github.com/spf13/cobra"

	"docid/internal/docerr"
	"docid/internal/scan"
)

// scanCmd produces a fresh inventory snapshot.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the workspace and rewrite the inventory snapshot",
	Long: `Walks the workspace, applies the matching format adapter to every eligible
file, and rewrites the inventory snapshot wholesale. Read-only apart from
the inventory file itself.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
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

	counts := snap.Counts()
	printTitle("scan summary")
	printKV("snapshot", snap.ID)
	printKV("files", len(snap.Records))
	printKV("found", counts[scan.StatusFound])
	printKV("missing", counts[scan.StatusMissing])
	printKV("invalid", counts[scan.StatusInvalid])
	return nil
}
