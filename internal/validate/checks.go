package validate

import (
	"sort"

	"docid/internal/identifier"
	"docid/internal/registry"
	"docid/internal/scan"
)

// Format verifies that every embedded identifier matches the grammar and
// belongs to a registered category prefix.
func Format(reg *registry.Registry, snap *scan.Snapshot) Result {
	result := newResult(CheckFormat)

	prefixes := map[string]bool{}
	for _, cat := range reg.Categories {
		prefixes[cat.Prefix] = true
	}

	for _, rec := range snap.Records {
		switch rec.Status {
		case scan.StatusInvalid:
			result.errorf("%s: identifier %q fails grammar", rec.Path, rec.Identifier)
		case scan.StatusFound:
			parsed, err := identifier.Parse(rec.Identifier)
			if err != nil {
				result.errorf("%s: %v", rec.Path, err)
				continue
			}
			if !prefixes[parsed.Prefix] {
				result.errorf("%s: identifier %s uses unregistered category prefix %q",
					rec.Path, rec.Identifier, parsed.Prefix)
			}
		}
	}
	return *result
}

// Uniqueness verifies that no identifier is claimed by more than one file,
// that no retired identifier is in use, and that no active entry is orphaned
// (embedded in no file). Entries already marked missing_file are surfaced as
// warnings; they were flagged by sync and await an explicit decision.
func Uniqueness(reg *registry.Registry, snap *scan.Snapshot) Result {
	result := newResult(CheckUniqueness)

	claims := map[string][]string{}
	for _, rec := range snap.Records {
		if rec.Status == scan.StatusFound {
			claims[rec.Identifier] = append(claims[rec.Identifier], rec.Path)
		}
	}

	for _, id := range sortedKeys(claims) {
		paths := claims[id]
		if len(paths) > 1 {
			sort.Strings(paths)
			result.errorf("identifier %s claimed by %d files: %v", id, len(paths), paths)
		}
		if entry := reg.Lookup(id); entry != nil && entry.Status == registry.StatusDeprecated {
			result.errorf("identifier %s is deprecated but embedded in %v; retired identifiers are never reactivated", id, paths)
		}
	}

	for _, entry := range reg.Entries {
		if !entry.Active() {
			continue
		}
		if _, embedded := claims[entry.Identifier]; embedded {
			continue
		}
		if entry.MissingFile {
			result.warnf("active entry %s has no file (marked missing_file, awaiting deprecation or recovery)", entry.Identifier)
		} else {
			result.errorf("active entry %s is orphaned: embedded in no scanned file", entry.Identifier)
		}
	}
	return *result
}

// Consistency verifies that every active entry corresponds to a found record
// at the same path with the same identifier, distinguishing stale-path from
// missing-file mismatches.
func Consistency(reg *registry.Registry, snap *scan.Snapshot) Result {
	result := newResult(CheckConsistency)

	pathByID := map[string]string{}
	for _, rec := range snap.Records {
		if rec.Status == scan.StatusFound {
			pathByID[rec.Identifier] = rec.Path
		}
	}

	for _, entry := range reg.Entries {
		if !entry.Active() {
			continue
		}
		path, ok := pathByID[entry.Identifier]
		if !ok {
			if entry.MissingFile {
				result.warnf("registry stale, file missing: %s (last at %s)", entry.Identifier, entry.FilePath)
			} else {
				result.errorf("registry stale, file missing: %s (last at %s)", entry.Identifier, entry.FilePath)
			}
			continue
		}
		if path != entry.FilePath {
			result.errorf("file moved, registry stale: %s is at %s, registry says %s",
				entry.Identifier, path, entry.FilePath)
		}
	}
	return *result
}

// Coverage verifies the found/eligible fraction against the configured
// baseline and against the last recorded value. previous < 0 means no prior
// value is recorded.
func Coverage(snap *scan.Snapshot, baseline, previous float64) Result {
	result := newResult(CheckCoverage)

	coverage := snap.Coverage()
	if coverage < baseline {
		result.errorf("coverage %.3f below baseline %.3f (%d/%d files)",
			coverage, baseline, snap.Counts()[scan.StatusFound], len(snap.Records))
	}
	if previous >= 0 && coverage < previous {
		result.errorf("coverage regressed: %.3f, previously %.3f", coverage, previous)
	}
	return *result
}

// Reference verifies that every cross-file mention of an identifier resolves
// to an existing, non-deprecated entry.
func Reference(reg *registry.Registry, snap *scan.Snapshot) Result {
	result := newResult(CheckReference)

	for _, rec := range snap.Records {
		for _, ref := range rec.References {
			entry := reg.Lookup(ref)
			switch {
			case entry == nil:
				result.errorf("%s references %s: no such entry", rec.Path, ref)
			case entry.Status == registry.StatusDeprecated:
				result.errorf("%s references %s: entry is deprecated", rec.Path, ref)
			}
		}
	}
	return *result
}
