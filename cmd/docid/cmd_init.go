package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docid/internal/docerr"
	"docid/internal/registry"
)

// initCmd writes a default config and seeds the registry with the configured
// categories.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docid state in the workspace",
	Long: `Creates .docid/config.yaml with defaults and seeds the registry with the
configured categories. Existing files are left untouched.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(cfg.Workspace, ".docid", "config.yaml")
	}
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := cfg.Save(cfgPath); err != nil {
			return docerr.System("write config", err)
		}
		fmt.Printf("wrote %s\n", cfgPath)
	} else {
		fmt.Printf("config exists, leaving %s untouched\n", cfgPath)
	}

	store := newStore(cfg)
	seeded := 0
	_, err = store.Update(func(reg *registry.Registry) error {
		for key, seed := range cfg.Categories {
			if _, ok := reg.Categories[key]; ok {
				continue
			}
			reg.Categories[key] = &registry.Category{
				Prefix:       seed.Prefix,
				NextSequence: 1,
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return err
	}

	printTitle("docid initialized")
	printKV("registry", cfg.Resolve(cfg.Paths.Registry))
	printKV("categories seeded", seeded)
	return nil
}
