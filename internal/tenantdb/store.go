package tenantdb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/monitorbizz/monitorbizz/internal/kv"
)

// Kind is the static definition of an entity collection, shared by all
// tenants.
type Kind[T Row[T]] struct {
	// Collection is the collection name.
	Collection string
	// IDPrefix prefixes generated identifiers.
	IDPrefix string
	// Seed returns new copies of the demo records. May be nil.
	Seed func() []T
}

// DocKind is the static definition of a per-tenant document.
type DocKind[T Doc[T]] struct {
	Name string
	// LegacyPrefix, when set, names a key prefix older releases stored the
	// document under.
	LegacyPrefix string
	Default      func() T
}

// invalidator is implemented by every cached handle.
type invalidator interface {
	Invalidate()
}

// Store hands out collection and document handles over one storage
// namespace. Handles are cached per storage key so that concurrent callers
// share state.
type Store struct {
	kv         kv.Storage
	demoTenant string

	mu      sync.Mutex
	handles map[string]invalidator
}

// New returns a Store over s. demoTenantID is the tenant whose collections
// are seeded; empty disables seeding.
func New(s kv.Storage, demoTenantID string) *Store {
	return &Store{kv: s, demoTenant: demoTenantID, handles: make(map[string]invalidator)}
}

// Storage returns the underlying namespace.
func (s *Store) Storage() kv.Storage {
	return s.kv
}

// DemoTenantID returns the seeded tenant.
func (s *Store) DemoTenantID() string {
	return s.demoTenant
}

// Seeded reports whether collections of tenantID get the demo records.
func (s *Store) Seeded(tenantID string) bool {
	return s.demoTenant != "" && tenantID == s.demoTenant
}

// Open returns the collection of kind for tenantID. An empty tenantID yields
// an uncached handle that is always empty.
func Open[T Row[T]](s *Store, kind Kind[T], tenantID string) *Collection[T] {
	cfg := Config[T]{
		TenantID:   tenantID,
		Collection: kind.Collection,
		Seeded:     s.Seeded(tenantID),
		NewID:      PrefixedID(kind.IDPrefix),
	}
	if cfg.Seeded && kind.Seed != nil {
		cfg.Seed = kind.Seed()
	}
	if tenantID == "" {
		return NewCollection(s.kv, cfg)
	}
	key := Key(kind.Collection, tenantID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.handles[key]; ok {
		c, ok := h.(*Collection[T])
		if !ok {
			panic(fmt.Sprintf("tenantdb: key %q opened with two record types", key))
		}
		return c
	}
	c := NewCollection(s.kv, cfg)
	s.handles[key] = c
	return c
}

// OpenDocument returns the document of kind for tenantID.
func OpenDocument[T Doc[T]](s *Store, kind DocKind[T], tenantID string) *Document[T] {
	cfg := DocConfig[T]{TenantID: tenantID, Name: kind.Name, Default: kind.Default}
	if kind.LegacyPrefix != "" && tenantID != "" {
		cfg.LegacyKey = kind.LegacyPrefix + tenantID
	}
	if tenantID == "" {
		return NewDocument(s.kv, cfg)
	}
	key := Key(kind.Name, tenantID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.handles[key]; ok {
		d, ok := h.(*Document[T])
		if !ok {
			panic(fmt.Sprintf("tenantdb: key %q opened with two document types", key))
		}
		return d
	}
	d := NewDocument(s.kv, cfg)
	s.handles[key] = d
	if cfg.LegacyKey != "" {
		s.handles[cfg.LegacyKey] = d
	}
	return d
}

// Invalidate drops the cache of the handle stored at key, if any.
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	h := s.handles[key]
	s.mu.Unlock()
	if h != nil {
		h.Invalidate()
	}
}

// InvalidateAll drops the cache of every handle.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	hs := make([]invalidator, 0, len(s.handles))
	for _, h := range s.handles {
		hs = append(hs, h)
	}
	s.mu.Unlock()
	for _, h := range hs {
		h.Invalidate()
	}
}

// Reset clears the whole storage namespace, registry included, and
// invalidates every handle.
func (s *Store) Reset(ctx context.Context) error {
	err := s.kv.Clear()
	s.InvalidateAll()
	if err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	slog.InfoContext(ctx, "Storage reset")
	return nil
}
