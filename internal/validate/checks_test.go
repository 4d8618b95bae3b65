package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docid/internal/registry"
	"docid/internal/scan"
)

func testRegistry() *registry.Registry {
	reg := registry.NewRegistry()
	reg.Categories["script"] = &registry.Category{Prefix: "SCRIPT", NextSequence: 3, Count: 2}
	reg.Categories["guide"] = &registry.Category{Prefix: "GUIDE", NextSequence: 1}
	return reg
}

func activeEntry(id, path string) *registry.Entry {
	return &registry.Entry{
		Identifier: id,
		Status:     registry.StatusActive,
		FilePath:   path,
	}
}

func deprecatedEntry(id, path string) *registry.Entry {
	now := time.Now().UTC()
	return &registry.Entry{
		Identifier:   id,
		Status:       registry.StatusDeprecated,
		FilePath:     path,
		DeprecatedAt: &now,
	}
}

func foundRecord(path, id string) scan.Record {
	return scan.Record{Path: path, Identifier: id, Status: scan.StatusFound}
}

func TestFormatCheck(t *testing.T) {
	reg := testRegistry()

	t.Run("passes clean snapshot", func(t *testing.T) {
		snap := &scan.Snapshot{Records: []scan.Record{
			foundRecord("scripts/a.sh", "DOC-SCRIPT-A-001"),
			{Path: "docs/untagged.md", Status: scan.StatusMissing},
		}}
		r := Format(reg, snap)
		assert.True(t, r.Passed)
		assert.Empty(t, r.Errors)
	})

	t.Run("flags grammar failures", func(t *testing.T) {
		snap := &scan.Snapshot{Records: []scan.Record{
			{Path: "tools/bad.py", Identifier: "DOC-bad-001", Status: scan.StatusInvalid},
		}}
		r := Format(reg, snap)
		require.False(t, r.Passed)
		assert.Contains(t, r.Errors[0], "tools/bad.py")
		assert.Contains(t, r.Errors[0], "fails grammar")
	})

	t.Run("flags unregistered prefix", func(t *testing.T) {
		snap := &scan.Snapshot{Records: []scan.Record{
			foundRecord("media/clip.md", "DOC-VIDEO-CLIP-001"),
		}}
		r := Format(reg, snap)
		require.False(t, r.Passed)
		assert.Contains(t, r.Errors[0], `unregistered category prefix "VIDEO"`)
	})
}

func TestUniquenessCheck(t *testing.T) {
	t.Run("duplicate claim lists every path", func(t *testing.T) {
		reg := testRegistry()
		reg.Entries = append(reg.Entries, activeEntry("DOC-SCRIPT-A-001", "scripts/a.sh"))
		snap := &scan.Snapshot{Records: []scan.Record{
			foundRecord("scripts/a.sh", "DOC-SCRIPT-A-001"),
			foundRecord("scripts/copy.sh", "DOC-SCRIPT-A-001"),
		}}
		r := Uniqueness(reg, snap)
		require.False(t, r.Passed)
		require.Len(t, r.Errors, 1)
		assert.Contains(t, r.Errors[0], "scripts/a.sh")
		assert.Contains(t, r.Errors[0], "scripts/copy.sh")
	})

	t.Run("deprecated identifier in use", func(t *testing.T) {
		reg := testRegistry()
		reg.Entries = append(reg.Entries, deprecatedEntry("DOC-SCRIPT-OLD-001", "scripts/old.sh"))
		snap := &scan.Snapshot{Records: []scan.Record{
			foundRecord("scripts/revived.sh", "DOC-SCRIPT-OLD-001"),
		}}
		r := Uniqueness(reg, snap)
		require.False(t, r.Passed)
		assert.Contains(t, r.Errors[0], "never reactivated")
	})

	t.Run("orphaned active entry", func(t *testing.T) {
		reg := testRegistry()
		reg.Entries = append(reg.Entries, activeEntry("DOC-SCRIPT-GONE-002", "scripts/gone.sh"))
		r := Uniqueness(reg, &scan.Snapshot{})
		require.False(t, r.Passed)
		assert.Contains(t, r.Errors[0], "orphaned")
	})

	t.Run("missing_file entry is a warning, not an error", func(t *testing.T) {
		reg := testRegistry()
		entry := activeEntry("DOC-SCRIPT-GONE-002", "scripts/gone.sh")
		entry.MissingFile = true
		reg.Entries = append(reg.Entries, entry)
		r := Uniqueness(reg, &scan.Snapshot{})
		assert.True(t, r.Passed)
		require.Len(t, r.Warnings, 1)
		assert.Contains(t, r.Warnings[0], "missing_file")
	})
}

func TestConsistencyCheck(t *testing.T) {
	t.Run("stale path", func(t *testing.T) {
		reg := testRegistry()
		reg.Entries = append(reg.Entries, activeEntry("DOC-SCRIPT-A-001", "scripts/a.sh"))
		snap := &scan.Snapshot{Records: []scan.Record{
			foundRecord("tools/a.sh", "DOC-SCRIPT-A-001"),
		}}
		r := Consistency(reg, snap)
		require.False(t, r.Passed)
		assert.Contains(t, r.Errors[0], "file moved, registry stale")
	})

	t.Run("file missing", func(t *testing.T) {
		reg := testRegistry()
		reg.Entries = append(reg.Entries, activeEntry("DOC-SCRIPT-A-001", "scripts/a.sh"))
		r := Consistency(reg, &scan.Snapshot{})
		require.False(t, r.Passed)
		assert.Contains(t, r.Errors[0], "registry stale, file missing")
	})

	t.Run("matching path passes", func(t *testing.T) {
		reg := testRegistry()
		reg.Entries = append(reg.Entries, activeEntry("DOC-SCRIPT-A-001", "scripts/a.sh"))
		snap := &scan.Snapshot{Records: []scan.Record{
			foundRecord("scripts/a.sh", "DOC-SCRIPT-A-001"),
		}}
		assert.True(t, Consistency(reg, snap).Passed)
	})
}

func TestCoverageCheck(t *testing.T) {
	snap := &scan.Snapshot{Records: []scan.Record{
		foundRecord("a.sh", "DOC-SCRIPT-A-001"),
		{Path: "b.sh", Status: scan.StatusMissing},
	}} // coverage 0.5

	t.Run("above baseline passes", func(t *testing.T) {
		assert.True(t, Coverage(snap, 0.4, -1).Passed)
	})

	t.Run("below baseline fails", func(t *testing.T) {
		r := Coverage(snap, 0.9, -1)
		require.False(t, r.Passed)
		assert.Contains(t, r.Errors[0], "below baseline")
	})

	t.Run("regression from previous value fails", func(t *testing.T) {
		r := Coverage(snap, 0.4, 0.8)
		require.False(t, r.Passed)
		assert.Contains(t, r.Errors[0], "regressed")
	})

	t.Run("empty snapshot is full coverage", func(t *testing.T) {
		assert.True(t, Coverage(&scan.Snapshot{}, 0.9, -1).Passed)
	})
}

func TestReferenceCheck(t *testing.T) {
	reg := testRegistry()
	reg.Entries = append(reg.Entries,
		activeEntry("DOC-SCRIPT-A-001", "scripts/a.sh"),
		deprecatedEntry("DOC-SCRIPT-OLD-002", "scripts/old.sh"),
	)

	t.Run("resolving reference passes", func(t *testing.T) {
		snap := &scan.Snapshot{Records: []scan.Record{
			{Path: "docs/guide.md", Status: scan.StatusMissing, References: []string{"DOC-SCRIPT-A-001"}},
		}}
		assert.True(t, Reference(reg, snap).Passed)
	})

	t.Run("dangling reference fails", func(t *testing.T) {
		snap := &scan.Snapshot{Records: []scan.Record{
			{Path: "docs/guide.md", Status: scan.StatusMissing, References: []string{"DOC-SCRIPT-NOPE-009"}},
		}}
		r := Reference(reg, snap)
		require.False(t, r.Passed)
		assert.Contains(t, r.Errors[0], "no such entry")
	})

	t.Run("reference to deprecated entry fails", func(t *testing.T) {
		snap := &scan.Snapshot{Records: []scan.Record{
			{Path: "docs/guide.md", Status: scan.StatusMissing, References: []string{"DOC-SCRIPT-OLD-002"}},
		}}
		r := Reference(reg, snap)
		require.False(t, r.Passed)
		assert.Contains(t, r.Errors[0], "deprecated")
	})
}

func TestSuite(t *testing.T) {
	reg := testRegistry()
	reg.Entries = append(reg.Entries, activeEntry("DOC-SCRIPT-A-001", "scripts/a.sh"))
	snap := &scan.Snapshot{Records: []scan.Record{
		foundRecord("scripts/a.sh", "DOC-SCRIPT-A-001"),
	}}

	t.Run("nil runs all checks in order", func(t *testing.T) {
		suite := &Suite{CoverageBaseline: 0.5, PreviousCoverage: -1}
		results, err := suite.Run(reg, snap, nil)
		require.NoError(t, err)
		require.Len(t, results, len(AllChecks))
		for i, r := range results {
			assert.Equal(t, AllChecks[i], r.CheckName)
			assert.True(t, r.Passed, r.CheckName)
		}
		assert.False(t, AnyFailed(results))
	})

	t.Run("unknown check name", func(t *testing.T) {
		suite := &Suite{}
		_, err := suite.Run(reg, snap, []string{"sorcery"})
		assert.Error(t, err)
	})

	t.Run("blocking policy", func(t *testing.T) {
		suite := &Suite{
			CoverageBaseline: 2.0, // forces a coverage failure
			PreviousCoverage: -1,
			Blocking:         map[string]bool{CheckFormat: true, CheckUniqueness: true},
		}
		results, err := suite.Run(reg, snap, nil)
		require.NoError(t, err)
		assert.True(t, AnyFailed(results))
		assert.False(t, suite.BlockingFailed(results),
			"an advisory coverage failure must not fail the gate")
	})
}
