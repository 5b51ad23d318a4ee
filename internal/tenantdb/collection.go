package tenantdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/monitorbizz/monitorbizz/internal/kv"
)

// maxIDAttempts bounds identifier regeneration on collision.
const maxIDAttempts = 16

// Row is implemented by record types stored in a Collection.
//
// Validate may normalize the record (e.g. recompute derived totals) and must
// not depend on the identifier.
type Row[T any] interface {
	Clone() T
	GetID() string
	SetID(id string)
	Validate() error
}

// Config describes one collection of one tenant.
type Config[T Row[T]] struct {
	// TenantID is the owning tenant. Empty means no tenant is selected.
	TenantID string
	// Collection is the collection name, used in the storage key.
	Collection string
	// Seed holds the records returned while nothing was ever stored, when
	// Seeded is set.
	Seed []T
	// Seeded enables Seed for this tenant.
	Seeded bool
	// NewID generates record identifiers. Defaults to PrefixedID("").
	NewID func() string
}

// Collection is the cached, write-through view of one tenant's collection.
// It is safe for concurrent use; operations are applied in call order.
type Collection[T Row[T]] struct {
	cfg   Config[T]
	key   string
	store kv.Storage

	// op serializes storage reads and mutations.
	op sync.Mutex

	mu    sync.RWMutex
	state State
	gen   uint64
	rows  []T
	err   error
	obs   observers[T]
	// unread is set while the stored value could not be read. Mutations then
	// apply in memory only, so the unread value is never overwritten.
	unread bool
}

// NewCollection returns a handle on the collection described by cfg. Nothing
// is read until the first Load or mutation.
func NewCollection[T Row[T]](store kv.Storage, cfg Config[T]) *Collection[T] {
	if cfg.NewID == nil {
		cfg.NewID = PrefixedID("")
	}
	return &Collection[T]{cfg: cfg, key: Key(cfg.Collection, cfg.TenantID), store: store}
}

// TenantID returns the owning tenant.
func (c *Collection[T]) TenantID() string {
	return c.cfg.TenantID
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.cfg.Collection
}

// Key returns the storage key, or "" without tenant.
func (c *Collection[T]) Key() string {
	if c.cfg.TenantID == "" {
		return ""
	}
	return c.key
}

// State returns the lifecycle state.
func (c *Collection[T]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Err returns the last storage failure, or nil once a later write succeeded.
// After a failed read it stays set until a read succeeds. A non-nil value
// means the in-memory view may not survive a restart.
func (c *Collection[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Snapshot returns clones of the cached records and whether a load is still
// pending. It never touches storage.
func (c *Collection[T]) Snapshot() ([]T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneRows(c.rows), c.state != Ready && c.cfg.TenantID != ""
}

// Observe registers fn to be called after every load, mutation and
// invalidation. fn runs synchronously on the goroutine that made the change
// and must not call back into the collection's mutations. The returned
// function unregisters it.
func (c *Collection[T]) Observe(fn func(Change[T])) (cancel func()) {
	c.mu.Lock()
	id := c.obs.add(fn)
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.obs.fns, id)
		c.mu.Unlock()
	}
}

// Invalidate drops the cache so that the next Load reads storage again. Use it
// when storage was changed behind the collection's back.
func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.state = Uninitialized
	c.rows = nil
	fns := c.obs.snapshot()
	c.mu.Unlock()
	for _, fn := range fns {
		fn(Change[T]{Op: OpInvalidate})
	}
}

// Load returns the collection, reading storage if it is not cached yet.
//
// Without tenant it returns an empty collection without touching storage.
// When nothing is stored it returns the seed records for a seeded tenant and
// an empty collection otherwise. Unreadable or malformed values are logged
// and resolve into an empty collection. Records that cannot be decoded are
// logged and skipped. After a failed read, every call reads storage again
// until it succeeds. Load never writes to storage.
func (c *Collection[T]) Load(ctx context.Context) []T {
	c.op.Lock()
	defer c.op.Unlock()
	rows, _ := c.load(ctx)
	return cloneRows(rows)
}

// load must be called with c.op held. It returns the cached rows, which must
// not be modified, and whether the cache was filled by this call.
func (c *Collection[T]) load(ctx context.Context) ([]T, bool) {
	c.mu.Lock()
	if c.state == Ready && !c.unread {
		rows := c.rows
		c.mu.Unlock()
		return rows, false
	}
	if c.cfg.TenantID == "" {
		c.state = Ready
		c.rows = []T{}
		c.mu.Unlock()
		return []T{}, false
	}
	retry := c.state == Ready
	if !retry {
		c.state = Loading
	}
	gen := c.gen
	c.mu.Unlock()

	rows, readErr := c.read(ctx)

	c.mu.Lock()
	if c.gen != gen {
		// Invalidated while reading; the next call reads again.
		c.mu.Unlock()
		return rows, false
	}
	if readErr != nil {
		c.err = readErr
		if retry {
			// Still unreadable; keep the in-memory view.
			rows = c.rows
			c.mu.Unlock()
			return rows, false
		}
	} else if c.unread {
		// Storage is the reference again; changes kept only in memory are
		// dropped.
		slog.WarnContext(ctx, "Collection readable again", "key", c.key, "records", len(rows))
		c.err = nil
	}
	c.unread = readErr != nil
	c.rows = rows
	c.state = Ready
	fns := c.obs.snapshot()
	c.mu.Unlock()
	c.notify(fns, Change[T]{Op: OpLoad, Rows: rows})
	return rows, true
}

// read fetches and decodes the stored collection. The returned error is only
// set for storage access failures; malformed values are not errors here.
func (c *Collection[T]) read(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(c.key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			if c.cfg.Seeded {
				return cloneRows(c.cfg.Seed), nil
			}
			return []T{}, nil
		}
		slog.ErrorContext(ctx, "Failed to read collection", "key", c.key, "err", err)
		return []T{}, err
	}
	rows, skipped, err := decodeRows[T](raw)
	if err != nil {
		slog.WarnContext(ctx, "Discarding malformed collection", "key", c.key, "err", err)
		return []T{}, nil
	}
	for _, err := range skipped {
		slog.WarnContext(ctx, "Skipping malformed record", "key", c.key, "err", err)
	}
	return rows, nil
}

// Create validates fields, assigns it a fresh identifier, appends it and
// persists the collection. Any identifier in fields is ignored.
func (c *Collection[T]) Create(ctx context.Context, fields T) (T, error) {
	var zero T
	if c.cfg.TenantID == "" {
		return zero, ErrNoTenant
	}
	row := fields.Clone()
	if err := row.Validate(); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	c.op.Lock()
	defer c.op.Unlock()
	rows, _ := c.load(ctx)

	id, err := c.uniqueID(rows)
	if err != nil {
		return zero, err
	}
	row.SetID(id)
	next := make([]T, len(rows), len(rows)+1)
	copy(next, rows)
	next = append(next, row)
	c.commit(ctx, next, Change[T]{Op: OpCreate, ID: id})
	return row.Clone(), nil
}

func (c *Collection[T]) uniqueID(rows []T) (string, error) {
	for range maxIDAttempts {
		id := c.cfg.NewID()
		if id == "" {
			continue
		}
		if !slices.ContainsFunc(rows, func(r T) bool { return r.GetID() == id }) {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

// Update replaces the record with the same identifier as row, persists the
// collection and returns a copy of the stored record. It returns false,
// leaving storage untouched, when no such record exists.
func (c *Collection[T]) Update(ctx context.Context, row T) (T, bool, error) {
	var zero T
	if c.cfg.TenantID == "" {
		return zero, false, ErrNoTenant
	}
	row = row.Clone()
	if err := row.Validate(); err != nil {
		return zero, false, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	c.op.Lock()
	defer c.op.Unlock()
	rows, _ := c.load(ctx)
	id := row.GetID()
	i := slices.IndexFunc(rows, func(r T) bool { return r.GetID() == id })
	if i < 0 || id == "" {
		return zero, false, nil
	}
	next := slices.Clone(rows)
	next[i] = row
	c.commit(ctx, next, Change[T]{Op: OpUpdate, ID: id})
	return row.Clone(), true, nil
}

// Remove deletes the record with the given identifier and persists the
// collection. It returns false, leaving storage untouched, when no such
// record exists or no tenant is selected.
func (c *Collection[T]) Remove(ctx context.Context, id string) bool {
	if c.cfg.TenantID == "" || id == "" {
		return false
	}
	c.op.Lock()
	defer c.op.Unlock()
	rows, _ := c.load(ctx)
	i := slices.IndexFunc(rows, func(r T) bool { return r.GetID() == id })
	if i < 0 {
		return false
	}
	next := slices.Delete(slices.Clone(rows), i, i+1)
	c.commit(ctx, next, Change[T]{Op: OpRemove, ID: id})
	return true
}

// commit persists next and makes it the cached collection. Must be called
// with c.op held. A failed write is logged and recorded in c.err; the change
// still applies in memory. Nothing is written while the stored value is
// unread.
func (c *Collection[T]) commit(ctx context.Context, next []T, change Change[T]) {
	c.mu.RLock()
	unread, werr := c.unread, c.err
	c.mu.RUnlock()
	if unread {
		slog.WarnContext(ctx, "Collection unreadable, change kept in memory", "key", c.key, "records", len(next))
	} else if werr = c.write(next); werr != nil {
		slog.ErrorContext(ctx, "Failed to persist collection", "key", c.key, "records", len(next), "err", werr)
	}
	c.mu.Lock()
	c.rows = next
	c.state = Ready
	c.err = werr
	fns := c.obs.snapshot()
	c.mu.Unlock()
	change.Rows = next
	c.notify(fns, change)
}

func (c *Collection[T]) write(rows []T) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}
	return c.store.Set(c.key, string(data))
}

func (c *Collection[T]) notify(fns []func(Change[T]), change Change[T]) {
	for _, fn := range fns {
		fn(change)
	}
}

// decodeRows parses a stored collection, which must be a JSON array. Elements
// that are not objects with a non-empty identifier are left out and reported
// in skipped.
func decodeRows[T Row[T]](raw string) (rows []T, skipped []error, err error) {
	data := bytes.TrimSpace([]byte(raw))
	if bytes.Equal(data, []byte("null")) {
		return []T{}, nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, nil, fmt.Errorf("not a JSON array: %w", err)
	}
	rows = make([]T, 0, len(items))
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			skipped = append(skipped, fmt.Errorf("record %d is not an object", i))
			continue
		}
		var row T
		if err := json.Unmarshal(item, &row); err != nil {
			skipped = append(skipped, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		if row.GetID() == "" {
			skipped = append(skipped, fmt.Errorf("record %d has no id", i))
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

func cloneRows[T Row[T]](rows []T) []T {
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
