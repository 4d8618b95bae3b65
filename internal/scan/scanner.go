package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docid/internal/format"
	"docid/internal/identifier"
)

// Scanner produces inventory snapshots. Scanning is read-only and
// embarrassingly parallel; completion order does not matter because results
// are merged into one snapshot keyed by path.
type Scanner struct {
	Root         string
	IncludeGlobs []string
	ExcludeGlobs []string
	Workers      int
	HeaderLines  int

	Log *zap.Logger
}

// directories that are never descended into, independent of exclude globs
var skipDirs = map[string]bool{
	".git":   true,
	".docid": true,
}

// Scan walks the tree and returns a full snapshot. Individual file failures
// are recorded on their records; only walk-level failures abort the scan.
func (s *Scanner) Scan(ctx context.Context) (*Snapshot, error) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := s.Workers
	if workers <= 0 {
		workers = 16
	}

	paths, err := s.collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.Root, err)
	}
	log.Debug("scan collected eligible files", zap.Int("count", len(paths)))

	snap := &Snapshot{
		ID:        uuid.NewString(),
		Root:      s.Root,
		ScannedAt: time.Now().UTC(),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, rel := range paths {
		rel := rel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec := s.scanFile(rel)
			mu.Lock()
			snap.Records = append(snap.Records, rec)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(snap.Records, func(i, j int) bool {
		return snap.Records[i].Path < snap.Records[j].Path
	})

	counts := snap.Counts()
	log.Info("scan complete",
		zap.Int("files", len(snap.Records)),
		zap.Int("found", counts[StatusFound]),
		zap.Int("missing", counts[StatusMissing]),
		zap.Int("invalid", counts[StatusInvalid]))
	return snap, nil
}

// ScanPaths builds a partial snapshot over an explicit set of
// workspace-relative paths (the pre-commit gate scans only staged files).
// Ineligible paths are skipped silently.
func (s *Scanner) ScanPaths(ctx context.Context, paths []string) (*Snapshot, error) {
	snap := &Snapshot{
		ID:        uuid.NewString(),
		Root:      s.Root,
		ScannedAt: time.Now().UTC(),
	}
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)
		if !format.Eligible(rel) {
			continue
		}
		snap.Records = append(snap.Records, s.scanFile(rel))
	}
	sort.Slice(snap.Records, func(i, j int) bool {
		return snap.Records[i].Path < snap.Records[j].Path
	})
	return snap, nil
}

// collect walks the tree and returns the eligible, glob-matched,
// workspace-relative paths.
func (s *Scanner) collect(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}

		rel, rerr := filepath.Rel(s.Root, path)
		if rerr != nil {
			return rerr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			name := d.Name()
			if skipDirs[name] || (strings.HasPrefix(name, ".") && name != ".") {
				if rel != "." {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !s.matches(rel) || !format.Eligible(rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	return paths, err
}

// matches applies the include set (any must match) then the exclude set.
func (s *Scanner) matches(rel string) bool {
	included := len(s.IncludeGlobs) == 0
	for _, g := range s.IncludeGlobs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, g := range s.ExcludeGlobs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return false
		}
	}
	return true
}

// scanFile reads one file and builds its record. Errors land on the record;
// the batch continues.
func (s *Scanner) scanFile(rel string) Record {
	now := time.Now().UTC()
	rec := Record{
		Path:      rel,
		Status:    StatusMissing,
		ScannedAt: now,
	}

	adapter, ok := format.ForPath(rel, s.HeaderLines)
	if !ok {
		// collect() only passes eligible paths; this is unreachable in
		// practice but a record with an error beats a panic.
		rec.Error = "no adapter for file type"
		return rec
	}
	rec.FileType = adapter.Kind()

	full := filepath.Join(s.Root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	rec.LastModified = info.ModTime().UTC()

	content, err := os.ReadFile(full)
	if err != nil {
		rec.Error = err.Error()
		return rec
	}
	rec.ContentHash = fmt.Sprintf("%016x", xxh3.Hash(content))

	embedded, found := adapter.Extract(content)
	if found {
		rec.Identifier = embedded
		if identifier.Valid(embedded) {
			rec.Status = StatusFound
		} else {
			rec.Status = StatusInvalid
			rec.Error = fmt.Sprintf("identifier %q fails grammar", embedded)
		}
	}

	// Harvest mentions of other identifiers for the reference check.
	seen := map[string]bool{embedded: true}
	for _, ref := range identifier.FindAll(content) {
		if !seen[ref] {
			seen[ref] = true
			rec.References = append(rec.References, ref)
		}
	}
	return rec
}
