package drift

import (
	"sort"

	"go.uber.org/zap"

	"docid/internal/scan"
)

// Change is one path's divergence from the baseline.
type Change struct {
	Path          string `json:"path"`
	OldIdentifier string `json:"old_identifier,omitempty"`
	NewIdentifier string `json:"new_identifier,omitempty"`
}

// Report classifies divergence between the baseline and a fresh snapshot.
type Report struct {
	// ContentChanged: hash differs, identifier unchanged. Normal editing.
	ContentChanged []string `json:"content_changed,omitempty"`

	// IdentifierChanged: the path previously held a different identifier.
	// Potential collision or misuse; never auto-corrected.
	IdentifierChanged []Change `json:"identifier_changed,omitempty"`

	Added   []string `json:"added,omitempty"`   // paths not in the baseline
	Removed []string `json:"removed,omitempty"` // baseline paths no longer scanned
}

// Clean reports whether nothing warrants attention. Content edits are
// expected and do not count against cleanliness.
func (r *Report) Clean() bool {
	return len(r.IdentifierChanged) == 0 && len(r.Removed) == 0
}

// Detector compares snapshots against the recorded baseline.
type Detector struct {
	Log *zap.Logger
}

func (d *Detector) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// Compare diffs snap against base.
func (d *Detector) Compare(base *Baseline, snap *scan.Snapshot) *Report {
	report := &Report{}
	current := snap.ByPath()

	for path, rec := range current {
		old, ok := base.Records[path]
		if !ok {
			report.Added = append(report.Added, path)
			continue
		}
		if old.Identifier != rec.Identifier && old.Identifier != "" && rec.Identifier != "" {
			report.IdentifierChanged = append(report.IdentifierChanged, Change{
				Path:          path,
				OldIdentifier: old.Identifier,
				NewIdentifier: rec.Identifier,
			})
			d.logger().Warn("identifier changed on tracked path",
				zap.String("path", path),
				zap.String("was", old.Identifier),
				zap.String("now", rec.Identifier))
			continue
		}
		if old.ContentHash != rec.ContentHash {
			report.ContentChanged = append(report.ContentChanged, path)
		}
	}

	for path := range base.Records {
		if _, ok := current[path]; !ok {
			report.Removed = append(report.Removed, path)
		}
	}

	sort.Strings(report.ContentChanged)
	sort.Strings(report.Added)
	sort.Strings(report.Removed)
	sort.Slice(report.IdentifierChanged, func(i, j int) bool {
		return report.IdentifierChanged[i].Path < report.IdentifierChanged[j].Path
	})
	return report
}
