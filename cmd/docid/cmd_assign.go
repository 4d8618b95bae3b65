package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docid/internal/docerr"
	"docid/internal/inject"
	"docid/internal/scan"
)

var (
	assignDryRun bool
	assignLimit  int
)

// assignCmd mints and injects identifiers for files that lack one.
var assignCmd = &cobra.Command{
	Use:   "auto-assign",
	Short: "Assign identifiers to files that are missing one",
	Long: `Mints an identifier for every inventory record with status missing, up to
--limit, and injects it into the file at its canonical location. With
--dry-run the identifiers that would be minted are computed through a shadow
allocator; neither the registry nor any file is touched.`,
	RunE: runAutoAssign,
}

func init() {
	assignCmd.Flags().BoolVar(&assignDryRun, "dry-run", false, "preview assignments without mutating anything")
	assignCmd.Flags().IntVar(&assignLimit, "limit", 0, "maximum number of assignments (0 = no limit)")
}

func runAutoAssign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Always assign against a fresh snapshot; a stale inventory would mint
	// for files that were already tagged.
	snap, err := newScanner(cfg).Scan(cmd.Context())
	if err != nil {
		return docerr.System("scan", err)
	}

	injector := &inject.Injector{
		Root:                cfg.Workspace,
		CategoryByExtension: cfg.Assign.CategoryByExtension,
		HeaderLines:         cfg.Scan.HeaderLines,
		Store:               newStore(cfg),
		Log:                 logger,
	}
	result, err := injector.AutoAssign(snap.Records, assignLimit, assignDryRun)
	if err != nil {
		return err
	}

	if !assignDryRun && result.Assigned > 0 {
		// The snapshot predates the injections; rewrite it so downstream
		// commands see the new identifiers.
		fresh, err := newScanner(cfg).Scan(cmd.Context())
		if err != nil {
			return docerr.System("rescan", err)
		}
		if err := scan.WriteInventory(cfg.Resolve(cfg.Paths.Inventory), fresh); err != nil {
			return docerr.System("write inventory", err)
		}
	}

	title := "auto-assign summary"
	if result.DryRun {
		title = "auto-assign preview (dry run)"
	}
	printTitle(title)
	printKV("assigned", result.Assigned)
	printKV("failed", result.Failed)
	printKV("skipped", result.Skipped)
	for _, a := range result.Assignments {
		switch {
		case a.Error != "":
			fmt.Printf("  %s %s: %s\n", styleFail.Render("!"), a.Path, a.Error)
		default:
			fmt.Printf("  %s %s -> %s\n", stylePass.Render("+"), a.Path, a.Identifier)
		}
	}
	if result.Failed > 0 {
		return errChecksFailed
	}
	return nil
}
