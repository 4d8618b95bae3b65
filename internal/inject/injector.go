// Package inject writes minted identifiers into files at their canonical
// locations. Every file write is atomic (temp, fsync, rename), so a crash
// mid-injection never leaves a partial file behind.
package inject

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"docid/internal/format"
	"docid/internal/registry"
	"docid/internal/scan"
)

// Injector binds the allocator to file mutation.
type Injector struct {
	Root string

	// CategoryByExtension maps file extensions to registry categories for
	// auto-assignment.
	CategoryByExtension map[string]string

	HeaderLines int
	Store       *registry.Store
	Log         *zap.Logger
}

func (in *Injector) logger() *zap.Logger {
	if in.Log == nil {
		return zap.NewNop()
	}
	return in.Log
}

// Assign mints an identifier for the file at workspace-relative path rel and
// injects it. If injection or the final write fails the mint is not rolled
// back: a wasted sequence number is acceptable, a duplicate is not.
func (in *Injector) Assign(rel, category, name string) (*registry.Entry, error) {
	adapter, ok := format.ForPath(rel, in.HeaderLines)
	if !ok {
		return nil, fmt.Errorf("assign %s: no adapter for file type", rel)
	}

	full := filepath.Join(in.Root, filepath.FromSlash(rel))
	content, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("assign %s: %w", rel, err)
	}

	entry, err := in.Store.Mint(category, name, rel)
	if err != nil {
		return nil, err
	}

	injected, err := adapter.Inject(content, entry.Identifier)
	if err != nil {
		in.logger().Warn("injection failed after mint; sequence number is retired unused",
			zap.String("identifier", entry.Identifier),
			zap.String("path", rel),
			zap.Error(err))
		return nil, fmt.Errorf("inject %s into %s: %w", entry.Identifier, rel, err)
	}

	if err := writeInjected(full, injected); err != nil {
		in.logger().Warn("write failed after mint; sequence number is retired unused",
			zap.String("identifier", entry.Identifier),
			zap.String("path", rel),
			zap.Error(err))
		return nil, err
	}

	in.logger().Info("assigned identifier",
		zap.String("identifier", entry.Identifier),
		zap.String("path", rel))
	return entry, nil
}

// Assignment is one file's outcome within a batch.
type Assignment struct {
	Path       string `json:"path"`
	Category   string `json:"category,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BatchResult summarizes an auto-assign run.
type BatchResult struct {
	DryRun      bool         `json:"dry_run"`
	Assigned    int          `json:"assigned"`
	Failed      int          `json:"failed"`
	Skipped     int          `json:"skipped"`
	Assignments []Assignment `json:"assignments"`
}

// AutoAssign applies Assign to every missing inventory record, up to limit
// (zero means no limit). With dryRun the identifiers that would be minted
// are computed through a shadow allocator; neither the registry nor any file
// is touched. Per-file failures are recorded and the batch continues.
func (in *Injector) AutoAssign(records []scan.Record, limit int, dryRun bool) (*BatchResult, error) {
	result := &BatchResult{DryRun: dryRun}

	var preview *registry.Previewer
	if dryRun {
		reg, err := in.Store.Load()
		if err != nil {
			return nil, err
		}
		preview = registry.Preview(reg)
	}

	for _, rec := range records {
		if rec.Status != scan.StatusMissing {
			continue
		}
		if limit > 0 && result.Assigned >= limit {
			break
		}

		category, ok := in.categoryFor(rec.Path)
		if !ok {
			result.Skipped++
			result.Assignments = append(result.Assignments, Assignment{
				Path:  rec.Path,
				Error: "no category mapping for extension",
			})
			continue
		}
		name := baseName(rec.Path)

		if dryRun {
			id, err := preview.Next(category, name, rec.Path)
			if err != nil {
				result.Failed++
				result.Assignments = append(result.Assignments, Assignment{
					Path: rec.Path, Category: category, Error: err.Error(),
				})
				continue
			}
			result.Assigned++
			result.Assignments = append(result.Assignments, Assignment{
				Path: rec.Path, Category: category, Identifier: id,
			})
			continue
		}

		entry, err := in.Assign(rec.Path, category, name)
		if err != nil {
			result.Failed++
			result.Assignments = append(result.Assignments, Assignment{
				Path: rec.Path, Category: category, Error: err.Error(),
			})
			continue
		}
		result.Assigned++
		result.Assignments = append(result.Assignments, Assignment{
			Path: rec.Path, Category: category, Identifier: entry.Identifier,
		})
	}
	return result, nil
}

func (in *Injector) categoryFor(rel string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(rel))
	category, ok := in.CategoryByExtension[ext]
	return category, ok
}

func baseName(rel string) string {
	base := filepath.Base(rel)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
