package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"docid/internal/registry"
	"docid/internal/scan"
)

// statsCmd reports counts by status and category plus the coverage fraction.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report inventory and registry statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(cmd, cfg)
	if err != nil {
		return err
	}
	reg, err := newStore(cfg).Load()
	if err != nil {
		return err
	}

	counts := snap.Counts()
	printTitle("inventory")
	printKV("files", len(snap.Records))
	printKV("found", counts[scan.StatusFound])
	printKV("missing", counts[scan.StatusMissing])
	printKV("invalid", counts[scan.StatusInvalid])
	printKV("coverage", fmt.Sprintf("%.1f%%", snap.Coverage()*100))

	active, deprecated, missingFile := 0, 0, 0
	for _, e := range reg.Entries {
		switch {
		case e.Status == registry.StatusDeprecated:
			deprecated++
		case e.MissingFile:
			missingFile++
		default:
			active++
		}
	}

	printTitle("registry")
	printKV("entries", len(reg.Entries))
	printKV("active", active)
	printKV("missing file", missingFile)
	printKV("deprecated", deprecated)
	for _, key := range sortedCategoryKeys(reg) {
		cat := reg.Categories[key]
		printKV("category "+key,
			fmt.Sprintf("prefix=%s next=%d count=%d", cat.Prefix, cat.NextSequence, cat.Count))
	}
	return nil
}

func sortedCategoryKeys(reg *registry.Registry) []string {
	keys := make([]string, 0, len(reg.Categories))
	for k := range reg.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
