// Package drift compares the current scan snapshot against the hashes
// recorded at the last successful sync, flagging unexplained divergence.
//
// A changed hash under an unchanged identifier is the expected case: content
// edited, identity preserved. A changed identifier on a path that previously
// held a different one is a potential collision or misuse; it is surfaced as
// a warning and never auto-corrected.
package drift

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"docid/internal/fsutil"
	"docid/internal/scan"
)

// BaselineRecord is one path's last-known-good state.
type BaselineRecord struct {
	Path        string `json:"path"`
	Identifier  string `json:"identifier,omitempty"`
	ContentHash string `json:"content_hash"`
}

// Baseline is the per-file state captured at the last successful sync.
type Baseline struct {
	SnapshotID string    `json:"snapshot_id"`
	RecordedAt time.Time `json:"recorded_at"`

	Records map[string]BaselineRecord `json:"-"` // keyed by path
}

type baselineHeader struct {
	SnapshotID string    `json:"snapshot_id"`
	RecordedAt time.Time `json:"recorded_at"`
}

// WriteBaseline captures snap as the new last-known-good state.
func WriteBaseline(path string, snap *scan.Snapshot) error {
	var buf bytes.Buffer

	header := baselineHeader{SnapshotID: snap.ID, RecordedAt: time.Now().UTC()}
	line, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshal baseline header: %w", err)
	}
	buf.Write(line)
	buf.WriteByte('\n')

	for _, rec := range snap.Records {
		b := BaselineRecord{
			Path:        rec.Path,
			Identifier:  rec.Identifier,
			ContentHash: rec.ContentHash,
		}
		line, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal baseline record %s: %w", rec.Path, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create baseline directory: %w", err)
	}
	return fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// ReadBaseline loads the last-known-good state. A missing file returns an
// empty baseline: everything is new the first time.
func ReadBaseline(path string) (*Baseline, error) {
	base := &Baseline{Records: map[string]BaselineRecord{}}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return nil, fmt.Errorf("open baseline: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	first := true
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if first {
			first = false
			var header baselineHeader
			if err := json.Unmarshal(line, &header); err == nil && header.SnapshotID != "" {
				base.SnapshotID = header.SnapshotID
				base.RecordedAt = header.RecordedAt
				continue
			}
		}
		var rec BaselineRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse baseline line: %w", err)
		}
		base.Records[rec.Path] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}
	return base, nil
}
