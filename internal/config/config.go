// Package config loads and persists docid engine configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all docid configuration.
type Config struct {
	// Workspace root. Usually supplied by the CLI, not the file.
	Workspace string `yaml:"workspace,omitempty"`

	Scan     ScanConfig     `yaml:"scan"`
	Paths    PathsConfig    `yaml:"paths"`
	Assign   AssignConfig   `yaml:"assign"`
	Validation ValidateConfig `yaml:"validate"`
	Lock     LockConfig     `yaml:"lock"`

	// Categories seeded into a fresh registry by `docid init`.
	Categories map[string]CategorySeed `yaml:"categories"`
}

// ScanConfig configures the inventory scanner.
type ScanConfig struct {
	IncludeGlobs []string `yaml:"include_globs"`
	ExcludeGlobs []string `yaml:"exclude_globs"`

	// Worker pool width. Zero means the default.
	Workers int `yaml:"workers"`

	// How many leading lines a comment-header adapter inspects.
	HeaderLines int `yaml:"header_lines"`
}

// PathsConfig locates the engine's state files, relative to the workspace.
type PathsConfig struct {
	Registry  string `yaml:"registry"`
	Inventory string `yaml:"inventory"`
	Baseline  string `yaml:"baseline"`
	Journal   string `yaml:"journal"`
	State     string `yaml:"state"`
	Lock      string `yaml:"lock"`
}

// AssignConfig controls auto-assignment of missing identifiers.
type AssignConfig struct {
	// CategoryByExtension maps a file extension to the registry category
	// used when auto-assigning, e.g. ".md" -> "guide".
	CategoryByExtension map[string]string `yaml:"category_by_extension"`
}

// ValidateConfig configures the validator suite.
type ValidateConfig struct {
	CoverageBaseline float64  `yaml:"coverage_baseline"`
	BlockingChecks   []string `yaml:"blocking_checks"`
}

// LockConfig bounds registry lock acquisition.
type LockConfig struct {
	Attempts  int    `yaml:"attempts"`
	BaseDelay string `yaml:"base_delay"`
}

// CategorySeed declares a category for `docid init`.
type CategorySeed struct {
	Prefix string `yaml:"prefix"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			IncludeGlobs: []string{"**/*"},
			ExcludeGlobs: []string{
				".git/**",
				".docid/**",
				"node_modules/**",
				"vendor/**",
				"**/*.min.*",
			},
			Workers:     16,
			HeaderLines: 10,
		},
		Paths: PathsConfig{
			Registry:  ".docid/registry.yaml",
			Inventory: ".docid/inventory.jsonl",
			Baseline:  ".docid/baseline.jsonl",
			Journal:   ".docid/journal.jsonl",
			State:     ".docid/state.json",
			Lock:      ".docid/registry.lock",
		},
		Assign: AssignConfig{
			CategoryByExtension: map[string]string{
				".md":   "guide",
				".sh":   "script",
				".py":   "script",
				".yaml": "config",
				".yml":  "config",
				".json": "config",
			},
		},
		Validation: ValidateConfig{
			CoverageBaseline: 0.55,
			BlockingChecks:   []string{"format", "uniqueness"},
		},
		Lock: LockConfig{
			Attempts:  10,
			BaseDelay: "100ms",
		},
		Categories: map[string]CategorySeed{
			"guide":  {Prefix: "GUIDE"},
			"script": {Prefix: "SCRIPT"},
			"config": {Prefix: "CONFIG"},
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if ws := os.Getenv("DOCID_WORKSPACE"); ws != "" {
		c.Workspace = ws
	}
	if reg := os.Getenv("DOCID_REGISTRY"); reg != "" {
		c.Paths.Registry = reg
	}
}

// Resolve returns a state-file path resolved against the workspace.
func (c *Config) Resolve(rel string) string {
	if filepath.IsAbs(rel) || c.Workspace == "" {
		return rel
	}
	return filepath.Join(c.Workspace, rel)
}

// LockBaseDelay returns the lock retry base delay as a duration.
func (c *Config) LockBaseDelay() time.Duration {
	d, err := time.ParseDuration(c.Lock.BaseDelay)
	if err != nil {
		return 100 * time.Millisecond
	}
	return d
}

// IsBlocking reports whether a named check blocks on failure.
func (c *Config) IsBlocking(check string) bool {
	for _, b := range c.Validation.BlockingChecks {
		if b == check {
			return true
		}
	}
	return false
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Validation.CoverageBaseline < 0 || c.Validation.CoverageBaseline > 1 {
		return fmt.Errorf("coverage baseline must be in [0,1], got %v", c.Validation.CoverageBaseline)
	}
	if c.Lock.Attempts <= 0 {
		return fmt.Errorf("lock attempts must be positive, got %d", c.Lock.Attempts)
	}
	for key, seed := range c.Categories {
		if seed.Prefix == "" {
			return fmt.Errorf("category %q has no prefix", key)
		}
	}
	return nil
}
