// Package state persists the small bits of engine state that outlive a
// single run: the last recorded coverage value and the last successful sync.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"docid/internal/fsutil"
)

// State is the engine's cross-run memory. It is advisory: deleting it only
// resets regression comparisons, never identity.
type State struct {
	LastCoverage   *float64   `json:"last_coverage,omitempty"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
	LastSnapshotID string     `json:"last_snapshot_id,omitempty"`
}

// Load reads state from path. A missing file yields zero state.
func Load(path string) (*State, error) {
	st := &State{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	return st, nil
}

// Save atomically writes state to path.
func Save(path string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	return fsutil.WriteFileAtomic(path, append(data, '\n'), 0o644)
}
