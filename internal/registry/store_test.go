package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docid/internal/docerr"
	"docid/internal/fsutil"
)

// newTestStore returns a store over a fresh temp directory with the script
// category pre-registered.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "registry.yaml"), filepath.Join(dir, "registry.lock"))
	_, err := s.Update(func(reg *Registry) error {
		reg.Categories["script"] = &Category{Prefix: "SCRIPT", NextSequence: 1}
		reg.Categories["guide"] = &Category{Prefix: "GUIDE", NextSequence: 1}
		return nil
	})
	require.NoError(t, err)
	return s
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "registry.yaml"), filepath.Join(dir, "registry.lock"))
	reg, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, reg.Entries)
	assert.Empty(t, reg.Categories)
}

func TestUpdatePersistsAcrossReopen(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Mint("script", "foo", "scripts/foo.sh")
	require.NoError(t, err)

	reopened := NewStore(s.Path(), s.Path()+".lock")
	reg, err := reopened.Load()
	require.NoError(t, err)
	require.Len(t, reg.Entries, 1)
	assert.Equal(t, "DOC-SCRIPT-FOO-001", reg.Entries[0].Identifier)
	assert.Equal(t, 2, reg.Categories["script"].NextSequence)
}

func TestUpdateRollbackOnError(t *testing.T) {
	s := newTestStore(t)
	boom := errors.New("boom")
	_, err := s.Update(func(reg *Registry) error {
		reg.Entries = append(reg.Entries, &Entry{Identifier: "DOC-SCRIPT-X-001"})
		return boom
	})
	require.ErrorIs(t, err, boom)

	reg, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, reg.Entries, "a failed transaction must persist nothing")
}

func TestLockExhaustionIsSystemError(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "registry.lock")

	holder := fsutil.NewFileLock(lockPath)
	require.NoError(t, holder.TryLock())
	defer holder.Unlock()

	s := NewStore(filepath.Join(dir, "registry.yaml"), lockPath,
		WithLockBudget(3, time.Millisecond))
	_, err := s.Update(func(*Registry) error { return nil })
	require.Error(t, err)
	assert.True(t, docerr.IsSystem(err), "lock exhaustion must be fatal, not skipped")
	assert.ErrorIs(t, err, fsutil.ErrLocked)
}

func TestLockReleasedAfterUpdate(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.Update(func(*Registry) error { return nil })
		require.NoError(t, err, "iteration %d", i)
	}
}

func TestJournalAppends(t *testing.T) {
	dir := t.TempDir()
	journalPath := filepath.Join(dir, "journal.jsonl")
	s := NewStore(filepath.Join(dir, "registry.yaml"), filepath.Join(dir, "registry.lock"),
		WithJournal(journalPath))
	_, err := s.Update(func(reg *Registry) error {
		reg.Categories["script"] = &Category{Prefix: "SCRIPT", NextSequence: 1}
		return nil
	})
	require.NoError(t, err)

	_, err = s.Mint("script", "foo", "scripts/foo.sh")
	require.NoError(t, err)
	entry, err := s.Deprecate("DOC-SCRIPT-FOO-001")
	require.NoError(t, err)
	assert.NotNil(t, entry.DeprecatedAt)

	data, err := os.ReadFile(journalPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"op":"mint"`)
	assert.Contains(t, lines[1], `"op":"deprecate"`)
}
