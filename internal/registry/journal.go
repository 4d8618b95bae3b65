package registry

import (
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// journalEntry is one line of the append-only mutation journal. The journal
// is an audit trail, not authoritative state: losing it loses history, never
// identity.
type journalEntry struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	Op         string    `json:"op"` // mint, deprecate, sync.move, sync.insert, sync.missing
	Identifier string    `json:"identifier"`
	Path       string    `json:"path,omitempty"`
}

// journal appends one entry. Failures are logged and swallowed; journal
// writes must never fail a registry mutation that already persisted.
func (s *Store) journal(op, identifier, path string) {
	if s.journalPath == "" {
		return
	}
	entry := journalEntry{
		ID:         uuid.NewString(),
		Time:       time.Now().UTC(),
		Op:         op,
		Identifier: identifier,
		Path:       path,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		s.log.Warn("journal marshal failed", zap.Error(err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.journalPath), 0o755); err != nil {
		s.log.Warn("journal directory failed", zap.Error(err))
		return
	}
	f, err := os.OpenFile(s.journalPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		s.log.Warn("journal open failed", zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		s.log.Warn("journal write failed", zap.Error(err))
	}
}

// Journal exposes the append hook for other registry mutators (sync).
func (s *Store) Journal(op, identifier, path string) {
	s.journal(op, identifier, path)
}
