package tenantdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/monitorbizz/monitorbizz/internal/kv"
)

// Doc is implemented by single-object documents stored in a Document.
type Doc[T any] interface {
	Clone() T
	Validate() error
}

// DocConfig describes one document of one tenant.
type DocConfig[T Doc[T]] struct {
	TenantID string
	// Name is the document name, used in the storage key.
	Name string
	// LegacyKey, when set, is read if nothing is stored at the primary key.
	// It is never written.
	LegacyKey string
	// Default returns the value used for missing fields and missing
	// documents. It must return a new value on each call.
	Default func() T
}

// Document is the cached, write-through view of one tenant's document.
// Stored values are decoded over the defaults, so fields added later keep
// their default value.
type Document[T Doc[T]] struct {
	cfg   DocConfig[T]
	key   string
	store kv.Storage

	op sync.Mutex

	mu    sync.RWMutex
	state State
	gen   uint64
	value T
	err   error
}

// NewDocument returns a handle on the document described by cfg.
func NewDocument[T Doc[T]](store kv.Storage, cfg DocConfig[T]) *Document[T] {
	return &Document[T]{cfg: cfg, key: Key(cfg.Name, cfg.TenantID), store: store}
}

// Key returns the primary storage key, or "" without tenant.
func (d *Document[T]) Key() string {
	if d.cfg.TenantID == "" {
		return ""
	}
	return d.key
}

// State returns the lifecycle state.
func (d *Document[T]) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Err returns the last storage failure, or nil once a later write succeeded.
func (d *Document[T]) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.err
}

// Invalidate drops the cache.
func (d *Document[T]) Invalidate() {
	d.mu.Lock()
	d.gen++
	d.state = Uninitialized
	var zero T
	d.value = zero
	d.mu.Unlock()
}

// Load returns the document, reading storage if it is not cached yet. It
// returns the defaults without tenant, when nothing is stored, or when the
// stored value is unreadable. Load never writes to storage.
func (d *Document[T]) Load(ctx context.Context) T {
	d.op.Lock()
	defer d.op.Unlock()
	return d.load(ctx).Clone()
}

func (d *Document[T]) load(ctx context.Context) T {
	d.mu.Lock()
	if d.state == Ready {
		v := d.value
		d.mu.Unlock()
		return v
	}
	if d.cfg.TenantID == "" {
		d.state = Ready
		d.value = d.cfg.Default()
		v := d.value
		d.mu.Unlock()
		return v
	}
	d.state = Loading
	gen := d.gen
	d.mu.Unlock()

	v, readErr := d.read(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen {
		return v
	}
	d.value = v
	d.state = Ready
	if readErr != nil {
		d.err = readErr
	}
	return v
}

func (d *Document[T]) read(ctx context.Context) (T, error) {
	raw, err := d.store.Get(d.key)
	if errors.Is(err, kv.ErrNotFound) && d.cfg.LegacyKey != "" {
		raw, err = d.store.Get(d.cfg.LegacyKey)
	}
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return d.cfg.Default(), nil
		}
		slog.ErrorContext(ctx, "Failed to read document", "key", d.key, "err", err)
		return d.cfg.Default(), err
	}
	v := d.cfg.Default()
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || data[0] != '{' {
		slog.WarnContext(ctx, "Discarding malformed document", "key", d.key)
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		slog.WarnContext(ctx, "Discarding malformed document", "key", d.key, "err", err)
		return d.cfg.Default(), nil
	}
	return v, nil
}

// Save validates v, caches it and persists it. A storage failure is logged
// and reported by Err; the new value is still returned and cached.
func (d *Document[T]) Save(ctx context.Context, v T) (T, error) {
	var zero T
	if d.cfg.TenantID == "" {
		return zero, ErrNoTenant
	}
	v = v.Clone()
	if err := v.Validate(); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	d.op.Lock()
	defer d.op.Unlock()
	var werr error
	if data, err := json.Marshal(v); err != nil {
		werr = fmt.Errorf("failed to marshal document: %w", err)
	} else {
		werr = d.store.Set(d.key, string(data))
	}
	if werr != nil {
		slog.ErrorContext(ctx, "Failed to persist document", "key", d.key, "err", werr)
	}
	d.mu.Lock()
	d.value = v
	d.state = Ready
	d.err = werr
	d.mu.Unlock()
	return v.Clone(), nil
}
