package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	st, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Nil(t, st.LastCoverage)
	assert.Nil(t, st.LastSyncAt)
	assert.Empty(t, st.LastSnapshotID)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".docid", "state.json")

	coverage := 0.75
	at := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	require.NoError(t, Save(path, &State{
		LastCoverage:   &coverage,
		LastSyncAt:     &at,
		LastSnapshotID: "snap-42",
	}))

	st, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, st.LastCoverage)
	assert.Equal(t, 0.75, *st.LastCoverage)
	require.NotNil(t, st.LastSyncAt)
	assert.True(t, at.Equal(*st.LastSyncAt))
	assert.Equal(t, "snap-42", st.LastSnapshotID)
}
