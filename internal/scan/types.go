// Package scan walks the workspace, applies format adapters, and produces
// the inventory snapshot: one record per eligible file. The snapshot is
// ephemeral and rebuilt wholesale on every scan; the registry remains the
// single source of truth.
package scan

import (
	"time"
)

// Record status values.
const (
	StatusFound   = "found"   // a grammar-valid identifier was extracted
	StatusMissing = "missing" // eligible file with no identifier
	StatusInvalid = "invalid" // an identifier is present but fails the grammar
)

// Record is one file's scan result.
type Record struct {
	Path         string    `json:"path"` // workspace-relative, slash-separated
	Identifier   string    `json:"identifier,omitempty"`
	Status       string    `json:"status"`
	FileType     string    `json:"file_type"` // adapter kind
	ContentHash  string    `json:"content_hash"`
	References   []string  `json:"references,omitempty"` // other identifiers mentioned in the file
	LastModified time.Time `json:"last_modified"`
	ScannedAt    time.Time `json:"scanned_at"`
	Error        string    `json:"error,omitempty"`
}

// Snapshot is a full inventory, keyed by path.
type Snapshot struct {
	ID        string    `json:"snapshot_id"`
	Root      string    `json:"root"`
	ScannedAt time.Time `json:"scanned_at"`

	Records []Record `json:"-"` // serialized as one JSONL line each
}

// ByPath indexes the records.
func (s *Snapshot) ByPath() map[string]Record {
	out := make(map[string]Record, len(s.Records))
	for _, r := range s.Records {
		out[r.Path] = r
	}
	return out
}

// Counts returns record counts by status.
func (s *Snapshot) Counts() map[string]int {
	out := map[string]int{}
	for _, r := range s.Records {
		out[r.Status]++
	}
	return out
}

// Coverage returns found/eligible. An empty snapshot counts as full
// coverage: there is nothing left untagged.
func (s *Snapshot) Coverage() float64 {
	if len(s.Records) == 0 {
		return 1.0
	}
	return float64(s.Counts()[StatusFound]) / float64(len(s.Records))
}
