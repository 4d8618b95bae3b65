// Package registry implements the authoritative identifier registry: the
// category counter table, the append-only entry table, and the allocator
// that mints new identifiers against them.
//
// The persisted registry is a single YAML file. All mutation goes through an
// exclusive advisory-locked read-modify-write transaction, and the file is
// replaced atomically, so concurrent processes can never observe the same
// counter value or a torn file. Entries are never deleted: deprecation flips
// status and retires the identifier permanently.
package registry

import (
	"time"
)

// Entry status values.
const (
	StatusActive     = "active"
	StatusDeprecated = "deprecated"
)

// Category is a namespace with its own prefix and monotonic counter.
// NextSequence only increases; sequence numbers are never reused, even after
// deprecation.
type Category struct {
	Prefix       string `yaml:"prefix"`
	NextSequence int    `yaml:"next_sequence"`
	Count        int    `yaml:"count"`
}

// Entry is one minted identifier and its metadata. The identifier is
// immutable; moves update FilePath only.
type Entry struct {
	Identifier   string     `yaml:"identifier"`
	Category     string     `yaml:"category"`
	Name         string     `yaml:"name"`
	Title        string     `yaml:"title,omitempty"`
	Status       string     `yaml:"status"`
	FilePath     string     `yaml:"file_path"`
	CreatedAt    time.Time  `yaml:"created_at"`
	ModifiedAt   time.Time  `yaml:"modified_at"`
	DeprecatedAt *time.Time `yaml:"deprecated_at,omitempty"`
	Tags         []string   `yaml:"tags,omitempty"`

	// MissingFile marks an active entry whose file was absent at last sync.
	// It is a sub-state of active: deprecation stays an explicit decision.
	MissingFile bool `yaml:"missing_file,omitempty"`
}

// Active reports whether the entry is active (including missing_file).
func (e *Entry) Active() bool {
	return e.Status == StatusActive
}

// Registry is the in-memory form of the persisted store.
type Registry struct {
	Categories map[string]*Category `yaml:"categories"`
	Entries    []*Entry             `yaml:"entries"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Categories: map[string]*Category{}}
}

// Lookup returns the entry owning identifier, or nil.
func (r *Registry) Lookup(identifier string) *Entry {
	for _, e := range r.Entries {
		if e.Identifier == identifier {
			return e
		}
	}
	return nil
}

// ByPath returns the active entry currently recorded at path, or nil.
func (r *Registry) ByPath(path string) *Entry {
	for _, e := range r.Entries {
		if e.Active() && e.FilePath == path {
			return e
		}
	}
	return nil
}

// ActiveEntries returns all entries with active status.
func (r *Registry) ActiveEntries() []*Entry {
	var out []*Entry
	for _, e := range r.Entries {
		if e.Active() {
			out = append(out, e)
		}
	}
	return out
}
