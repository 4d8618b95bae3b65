package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"docid/internal/identifier"
	"docid/internal/registry"
	"docid/internal/scan"
)

// hookCmd groups Git hook entry points.
var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Git hook entry points",
}

// preCommitCmd gates a commit on the staged files' identifiers.
var preCommitCmd = &cobra.Command{
	Use:   "pre-commit [paths...]",
	Short: "Gate a commit: format and uniqueness checks over staged files",
	Long: `Receives the staged file paths as arguments or, when none are given, one
per line on stdin. Runs the format and uniqueness checks against just those
files and prints one line per violation. Exit 0 allows the commit, exit 1
blocks it.`,
	RunE: runPreCommit,
}

func init() {
	hookCmd.AddCommand(preCommitCmd)
}

func runPreCommit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				paths = append(paths, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read staged paths: %w", err)
		}
	}
	if len(paths) == 0 {
		return nil // nothing staged, nothing to gate
	}

	snap, err := newScanner(cfg).ScanPaths(cmd.Context(), paths)
	if err != nil {
		return err
	}
	reg, err := newStore(cfg).Load()
	if err != nil {
		return err
	}

	violations := gateViolations(reg, snap)
	for _, v := range violations {
		fmt.Println(v)
	}
	if len(violations) > 0 {
		return errChecksFailed
	}
	return nil
}

// gateViolations applies the commit-blocking subset of checks to a partial
// snapshot: grammar, registered category, duplicate claims among the staged
// files, retired identifiers, and claims that collide with the registry.
func gateViolations(reg *registry.Registry, snap *scan.Snapshot) []string {
	var out []string

	prefixes := map[string]bool{}
	for _, cat := range reg.Categories {
		prefixes[cat.Prefix] = true
	}

	claims := map[string][]string{}
	for _, rec := range snap.Records {
		switch rec.Status {
		case scan.StatusInvalid:
			out = append(out, fmt.Sprintf("%s: identifier %q fails grammar", rec.Path, rec.Identifier))
		case scan.StatusFound:
			claims[rec.Identifier] = append(claims[rec.Identifier], rec.Path)
			parsed, err := identifier.Parse(rec.Identifier)
			if err != nil {
				out = append(out, fmt.Sprintf("%s: %v", rec.Path, err))
				continue
			}
			if !prefixes[parsed.Prefix] {
				out = append(out, fmt.Sprintf("%s: identifier %s uses unregistered category prefix %q",
					rec.Path, rec.Identifier, parsed.Prefix))
			}
			if entry := reg.Lookup(rec.Identifier); entry != nil {
				if entry.Status == registry.StatusDeprecated {
					out = append(out, fmt.Sprintf("%s: identifier %s is deprecated and may not be reused",
						rec.Path, rec.Identifier))
				} else if entry.FilePath != rec.Path && !staged(snap, entry.FilePath) {
					out = append(out, fmt.Sprintf("%s: identifier %s is already registered to %s",
						rec.Path, rec.Identifier, entry.FilePath))
				}
			}
		}
	}

	for id, paths := range claims {
		if len(paths) > 1 {
			sort.Strings(paths)
			out = append(out, fmt.Sprintf("%v: identifier %s staged in %d files", paths, id, len(paths)))
		}
	}
	sort.Strings(out)
	return out
}

func staged(snap *scan.Snapshot, path string) bool {
	for _, rec := range snap.Records {
		if rec.Path == path {
			return true
		}
	}
	return false
}
