package scan

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"docid/internal/fsutil"
)

// The inventory file is JSON Lines: a snapshot header line followed by one
// record per line. It is rewritten wholesale on every scan.

type snapshotHeader struct {
	SnapshotID string `json:"snapshot_id"`
	Root       string `json:"root"`
	ScannedAt  string `json:"scanned_at"`
}

// WriteInventory atomically replaces the inventory file at path with snap.
func WriteInventory(path string, snap *Snapshot) error {
	var buf bytes.Buffer

	header := snapshotHeader{
		SnapshotID: snap.ID,
		Root:       snap.Root,
		ScannedAt:  snap.ScannedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
	line, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshal inventory header: %w", err)
	}
	buf.Write(line)
	buf.WriteByte('\n')

	for _, rec := range snap.Records {
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal inventory record %s: %w", rec.Path, err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create inventory directory: %w", err)
	}
	return fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// ReadInventory loads a previously written snapshot.
func ReadInventory(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	snap := &Snapshot{}
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
			var header snapshotHeader
			if err := json.Unmarshal(line, &header); err == nil && header.SnapshotID != "" {
				snap.ID = header.SnapshotID
				snap.Root = header.Root
				continue
			}
			// No header line: fall through and parse as a record.
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("parse inventory line: %w", err)
		}
		snap.Records = append(snap.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	return snap, nil
}
