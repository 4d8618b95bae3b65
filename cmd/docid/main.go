// docid assigns permanent identifiers to eligible repository files, tracks
// them in an authoritative registry, and reconciles the two against drift.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"docid/internal/config"
	"docid/internal/docerr"
	"docid/internal/registry"
	"docid/internal/scan"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string

	// Logger
	logger *zap.Logger
)

// errChecksFailed marks a run where at least one blocking check failed.
// It maps to exit code 1; SystemError maps to exit code 2.
var errChecksFailed = errors.New("one or more checks failed")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "docid",
	Short: "docid - stable identity allocation and registry reconciliation",
	Long: `docid assigns a permanent, unique identifier to every eligible file in a
repository, embeds it in the file itself, tracks it in an authoritative
registry, and continuously reconciles the two against drift: renames,
deletions, duplication, and corruption.

Identifiers have the form DOC-{CATEGORY}-{NAME}-{SEQUENCE}. They are minted
once, never reused, and survive file moves; deprecation retires them
permanently without deleting their history.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: <workspace>/.docid/config.yaml)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(driftCmd)
	rootCmd.AddCommand(deprecateCmd)
	rootCmd.AddCommand(hookCmd)
}

// loadConfig resolves the workspace and loads engine configuration.
func loadConfig() (*config.Config, error) {
	ws := workspace
	if ws == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, docerr.System("resolve workspace", err)
		}
		ws = cwd
	}

	path := configPath
	if path == "" {
		path = filepath.Join(ws, ".docid", "config.yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.Workspace == "" {
		cfg.Workspace = ws
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newStore builds the registry store for cfg.
func newStore(cfg *config.Config) *registry.Store {
	return registry.NewStore(
		cfg.Resolve(cfg.Paths.Registry),
		cfg.Resolve(cfg.Paths.Lock),
		registry.WithLogger(logger),
		registry.WithJournal(cfg.Resolve(cfg.Paths.Journal)),
		registry.WithLockBudget(cfg.Lock.Attempts, cfg.LockBaseDelay()),
	)
}

// newScanner builds the inventory scanner for cfg.
func newScanner(cfg *config.Config) *scan.Scanner {
	return &scan.Scanner{
		Root:         cfg.Workspace,
		IncludeGlobs: cfg.Scan.IncludeGlobs,
		ExcludeGlobs: cfg.Scan.ExcludeGlobs,
		Workers:      cfg.Scan.Workers,
		HeaderLines:  cfg.Scan.HeaderLines,
		Log:          logger,
	}
}

// loadSnapshot reads the inventory file, falling back to a fresh scan when
// none exists yet.
func loadSnapshot(cmd *cobra.Command, cfg *config.Config) (*scan.Snapshot, error) {
	path := cfg.Resolve(cfg.Paths.Inventory)
	snap, err := scan.ReadInventory(path)
	if err == nil {
		return snap, nil
	}
	if !os.IsNotExist(err) {
		return nil, docerr.System("read inventory", err)
	}
	logger.Debug("no inventory file, scanning", zap.String("path", path))
	snap, err = newScanner(cfg).Scan(cmd.Context())
	if err != nil {
		return nil, err
	}
	if err := scan.WriteInventory(path, snap); err != nil {
		return nil, docerr.System("write inventory", err)
	}
	return snap, nil
}

func main() {
	err := rootCmd.Execute()
	if err == nil {
		os.Exit(0)
	}
	switch {
	case docerr.IsSystem(err):
		fmt.Fprintf(os.Stderr, "docid: %v\n", err)
		os.Exit(2)
	case errors.Is(err, errChecksFailed):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "docid: %v\n", err)
		os.Exit(1)
	}
}
