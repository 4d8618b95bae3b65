package registry

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"docid/internal/docerr"
	"docid/internal/identifier"
)

// Mint allocates the next identifier in category, records a new active entry
// bound to path, and persists the store. The whole read-increment-append
// cycle runs under the exclusive lock, so two concurrent mints can never
// observe the same counter value.
//
// The category must already be registered; minting never creates categories.
func (s *Store) Mint(category, name, path string) (*Entry, error) {
	name = identifier.NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("mint: empty name after normalization")
	}

	var minted *Entry
	_, err := s.Update(func(reg *Registry) error {
		entry, err := mint(reg, category, name, path, time.Now().UTC())
		if err != nil {
			return err
		}
		minted = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("minted identifier",
		zap.String("identifier", minted.Identifier),
		zap.String("category", category),
		zap.String("path", path))
	s.journal("mint", minted.Identifier, path)
	return minted, nil
}

// mint is the allocation step shared by the real and preview paths.
func mint(reg *Registry, category, name, path string, now time.Time) (*Entry, error) {
	cat, ok := reg.Categories[category]
	if !ok {
		return nil, &docerr.CategoryError{Category: category}
	}
	if cat.NextSequence < 1 {
		cat.NextSequence = 1
	}

	id := identifier.Format(cat.Prefix, name, cat.NextSequence)
	if existing := reg.Lookup(id); existing != nil {
		// The counter table and entry table disagree; refuse to mint a
		// duplicate and surface the corruption.
		return nil, &docerr.UniquenessConflict{
			Identifier: id,
			Paths:      []string{existing.FilePath, path},
		}
	}

	cat.NextSequence++
	cat.Count++

	entry := &Entry{
		Identifier: id,
		Category:   category,
		Name:       name,
		Status:     StatusActive,
		FilePath:   path,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	reg.Entries = append(reg.Entries, entry)
	return entry, nil
}

// Deprecate retires an identifier: status flips to deprecated and
// deprecated_at is set. The entry is retained indefinitely and the sequence
// number is never reissued. Fails if the identifier is unknown or already
// deprecated.
func (s *Store) Deprecate(id string) (*Entry, error) {
	var deprecated *Entry
	_, err := s.Update(func(reg *Registry) error {
		entry := reg.Lookup(id)
		if entry == nil {
			return fmt.Errorf("deprecate: unknown identifier %s", id)
		}
		if entry.Status == StatusDeprecated {
			return fmt.Errorf("deprecate: %s is already deprecated", id)
		}
		now := time.Now().UTC()
		entry.Status = StatusDeprecated
		entry.DeprecatedAt = &now
		entry.ModifiedAt = now
		entry.MissingFile = false
		deprecated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("deprecated identifier", zap.String("identifier", id))
	s.journal("deprecate", id, deprecated.FilePath)
	return deprecated, nil
}

// Previewer computes the identifiers a batch of mints would produce without
// touching the store. It shares the allocation step with Mint, so the
// preview and the real path can never drift apart.
type Previewer struct {
	shadow *Registry
}

// Preview starts a dry-run allocation session over a snapshot of reg.
func Preview(reg *Registry) *Previewer {
	shadow := NewRegistry()
	for key, cat := range reg.Categories {
		c := *cat
		shadow.Categories[key] = &c
	}
	for _, e := range reg.Entries {
		entry := *e
		shadow.Entries = append(shadow.Entries, &entry)
	}
	return &Previewer{shadow: shadow}
}

// Next returns the identifier the next mint in category would produce,
// advancing only the in-memory shadow counters.
func (p *Previewer) Next(category, name, path string) (string, error) {
	name = identifier.NormalizeName(name)
	if name == "" {
		return "", fmt.Errorf("preview: empty name after normalization")
	}
	entry, err := mint(p.shadow, category, name, path, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return entry.Identifier, nil
}
