// Package syncer reconciles an inventory snapshot against the registry.
//
// Renames are tolerated without losing identity: a found identifier whose
// registry path differs has its path updated, never its identifier.
// Identifiers that exist on disk but not in the registry (created by hand)
// are inserted as active entries rather than re-minted. Active entries whose
// file has vanished are marked missing_file; deprecation stays an explicit
// decision. Sync is idempotent: a second run over unchanged inputs mutates
// nothing.
package syncer

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"docid/internal/identifier"
	"docid/internal/registry"
	"docid/internal/scan"
)

// Move records a tolerated rename.
type Move struct {
	Identifier string `json:"identifier"`
	From       string `json:"from"`
	To         string `json:"to"`
}

// Report summarizes one sync run.
type Report struct {
	Moved            []Move   `json:"moved,omitempty"`
	Inserted         []string `json:"inserted,omitempty"`  // externally-created identifiers adopted
	NewlyMissing     []string `json:"missing,omitempty"`   // active entries whose file vanished
	Recovered        []string `json:"recovered,omitempty"` // missing_file entries found again
	DeprecatedInUse  []string `json:"deprecated_in_use,omitempty"`
	Unchanged        int      `json:"unchanged"`
	InvalidInventory int      `json:"invalid_inventory"`
}

// Changed reports whether the run mutated the registry.
func (r *Report) Changed() bool {
	return len(r.Moved) > 0 || len(r.Inserted) > 0 || len(r.NewlyMissing) > 0 || len(r.Recovered) > 0
}

// Syncer merges snapshots into the registry store.
type Syncer struct {
	Store *registry.Store
	Log   *zap.Logger
}

func (s *Syncer) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Sync runs one reconciliation transaction.
func (s *Syncer) Sync(snap *scan.Snapshot) (*Report, error) {
	report := &Report{}
	now := time.Now().UTC()

	_, err := s.Store.Update(func(reg *registry.Registry) error {
		s.mergeFound(reg, snap, report, now)
		s.markMissing(reg, snap, report, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, m := range report.Moved {
		s.Store.Journal("sync.move", m.Identifier, m.To)
	}
	for _, id := range report.Inserted {
		s.Store.Journal("sync.insert", id, "")
	}
	for _, id := range report.NewlyMissing {
		s.Store.Journal("sync.missing", id, "")
	}

	s.logger().Info("sync complete",
		zap.Int("moved", len(report.Moved)),
		zap.Int("inserted", len(report.Inserted)),
		zap.Int("newly_missing", len(report.NewlyMissing)),
		zap.Int("recovered", len(report.Recovered)),
		zap.Int("unchanged", report.Unchanged))
	return report, nil
}

func (s *Syncer) mergeFound(reg *registry.Registry, snap *scan.Snapshot, report *Report, now time.Time) {
	for _, rec := range snap.Records {
		switch rec.Status {
		case scan.StatusFound:
		case scan.StatusInvalid:
			report.InvalidInventory++
			continue
		default:
			continue
		}

		entry := reg.Lookup(rec.Identifier)
		if entry == nil {
			s.insertExternal(reg, rec, report, now)
			continue
		}

		if entry.Status == registry.StatusDeprecated {
			// A file is carrying a retired identifier. Never resurrect it
			// here; the uniqueness/reference checks surface the conflict.
			report.DeprecatedInUse = append(report.DeprecatedInUse, rec.Identifier)
			continue
		}

		changed := false
		if entry.FilePath != rec.Path {
			report.Moved = append(report.Moved, Move{
				Identifier: entry.Identifier,
				From:       entry.FilePath,
				To:         rec.Path,
			})
			entry.FilePath = rec.Path
			changed = true
		}
		if entry.MissingFile {
			entry.MissingFile = false
			report.Recovered = append(report.Recovered, entry.Identifier)
			changed = true
		}
		if changed {
			entry.ModifiedAt = now
		} else {
			report.Unchanged++
		}
	}
}

// insertExternal adopts an identifier that exists on disk but was never
// minted here (manual edits). The category counter is advanced past the
// adopted sequence so a future mint can never collide with it.
func (s *Syncer) insertExternal(reg *registry.Registry, rec scan.Record, report *Report, now time.Time) {
	parsed, err := identifier.Parse(rec.Identifier)
	if err != nil {
		report.InvalidInventory++
		return
	}

	categoryKey := ""
	for key, cat := range reg.Categories {
		if cat.Prefix == parsed.Prefix {
			categoryKey = key
			if cat.NextSequence <= parsed.Sequence {
				cat.NextSequence = parsed.Sequence + 1
			}
			cat.Count++
			break
		}
	}
	if categoryKey == "" {
		// Unregistered prefix: adopt the entry anyway, named after the
		// prefix, so the identifier is tracked. Validation flags the
		// unknown category separately.
		categoryKey = strings.ToLower(parsed.Prefix)
	}

	reg.Entries = append(reg.Entries, &registry.Entry{
		Identifier: rec.Identifier,
		Category:   categoryKey,
		Name:       parsed.Name,
		Status:     registry.StatusActive,
		FilePath:   rec.Path,
		CreatedAt:  now,
		ModifiedAt: now,
	})
	report.Inserted = append(report.Inserted, rec.Identifier)
}

func (s *Syncer) markMissing(reg *registry.Registry, snap *scan.Snapshot, report *Report, now time.Time) {
	foundByID := map[string]bool{}
	for _, rec := range snap.Records {
		if rec.Status == scan.StatusFound {
			foundByID[rec.Identifier] = true
		}
	}
	for _, entry := range reg.Entries {
		if !entry.Active() || entry.MissingFile {
			continue
		}
		if !foundByID[entry.Identifier] {
			entry.MissingFile = true
			entry.ModifiedAt = now
			report.NewlyMissing = append(report.NewlyMissing, entry.Identifier)
		}
	}
}
