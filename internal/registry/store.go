package registry

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"docid/internal/docerr"
	"docid/internal/fsutil"
)

// Store persists the registry as YAML behind an advisory file lock.
type Store struct {
	path        string
	journalPath string
	lock        *fsutil.FileLock

	attempts  int
	baseDelay time.Duration

	log *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithLockBudget bounds lock acquisition: attempts tries with jittered
// backoff starting at baseDelay.
func WithLockBudget(attempts int, baseDelay time.Duration) Option {
	return func(s *Store) {
		if attempts > 0 {
			s.attempts = attempts
		}
		if baseDelay > 0 {
			s.baseDelay = baseDelay
		}
	}
}

// WithJournal enables the append-only mutation journal at path.
func WithJournal(path string) Option {
	return func(s *Store) { s.journalPath = path }
}

// NewStore creates a store for the registry at path, guarded by the lock
// file at lockPath.
func NewStore(path, lockPath string, opts ...Option) *Store {
	s := &Store{
		path:      path,
		lock:      fsutil.NewFileLock(lockPath),
		attempts:  10,
		baseDelay: 100 * time.Millisecond,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the registry file path.
func (s *Store) Path() string { return s.path }

// Load reads the registry without taking the lock. Callers that intend to
// mutate must use Update instead.
func (s *Store) Load() (*Registry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRegistry(), nil
		}
		return nil, docerr.System("read registry", err)
	}
	reg := NewRegistry()
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, docerr.System("parse registry", fmt.Errorf("%s: %w", s.path, err))
	}
	if reg.Categories == nil {
		reg.Categories = map[string]*Category{}
	}
	return reg, nil
}

// Update runs fn inside an exclusive lock-scoped transaction: acquire, load,
// mutate, persist atomically, release. If fn returns an error nothing is
// persisted. The returned registry is the state after fn.
func (s *Store) Update(fn func(*Registry) error) (*Registry, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.log.Warn("failed to release registry lock", zap.Error(err))
		}
	}()

	reg, err := s.Load()
	if err != nil {
		return nil, err
	}
	if err := fn(reg); err != nil {
		return nil, err
	}
	if err := s.persist(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// acquire takes the exclusive lock with bounded, jittered retries.
// Exhaustion is a fatal SystemError, never a silent skip.
func (s *Store) acquire() error {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err := s.lock.TryLock()
		if err == nil {
			if attempt > 1 {
				s.log.Debug("registry lock acquired after retry", zap.Int("attempt", attempt))
			}
			return nil
		}
		if !errors.Is(err, fsutil.ErrLocked) {
			return docerr.System("acquire registry lock", err)
		}
		lastErr = err
		if attempt == s.attempts {
			break
		}
		delay := time.Duration(attempt) * s.baseDelay
		jitter := time.Duration(rand.Int63n(int64(s.baseDelay)))
		s.log.Debug("registry locked, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay+jitter))
		time.Sleep(delay + jitter)
	}
	return docerr.System("acquire registry lock",
		fmt.Errorf("exhausted %d attempts: %w", s.attempts, lastErr))
}

// persist atomically replaces the registry file.
func (s *Store) persist(reg *Registry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return docerr.System("create registry directory", err)
	}
	data, err := yaml.Marshal(reg)
	if err != nil {
		return docerr.System("marshal registry", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return docerr.System("persist registry", err)
	}
	return nil
}
