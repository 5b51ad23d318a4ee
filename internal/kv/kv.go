// Package kv defines the durable key-value surface the tenant store persists
// into, with in-memory, directory and BoltDB backends.
//
// The contract mirrors a browser's local storage: synchronous string-keyed
// get/set/remove, no transactions, and an optional capacity ceiling shared by
// every key of the namespace.
package kv

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("kv: key not found")
	// ErrQuotaExceeded is returned by Set when the namespace would grow past
	// its capacity ceiling. The previous value is left intact.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("kv: storage closed")
)

// Storage is a synchronous string-keyed store.
type Storage interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(key string) (string, error)
	// Set stores value at key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
	// Keys lists every key currently stored, in no particular order.
	Keys() ([]string, error)
	// Clear deletes every key of the namespace.
	Clear() error
	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendDir    = "dir"
	BackendBolt   = "bolt"
)

// Open opens the named backend. path is a directory for BackendDir and a
// database file for BackendBolt; it is ignored for BackendMemory. maxBytes
// is the capacity ceiling, 0 meaning unlimited.
func Open(backend, path string, maxBytes int64) (Storage, error) {
	if maxBytes < 0 {
		return nil, fmt.Errorf("kv: max bytes must be non-negative, got %d", maxBytes)
	}
	switch backend {
	case BackendMemory:
		return NewMemory(maxBytes), nil
	case BackendDir:
		return OpenDir(path, maxBytes)
	case BackendBolt:
		return OpenBolt(path, maxBytes)
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", backend)
	}
}

// validKey rejects keys no backend can represent.
func validKey(key string) error {
	if key == "" {
		return errors.New("kv: empty key")
	}
	if strings.ContainsRune(key, 0) {
		return errors.New("kv: key contains NUL")
	}
	return nil
}

// quota tracks the total size of a namespace. Sizes are counted as
// len(key)+len(value), like browsers do for local storage.
type quota struct {
	max   int64
	total int64
}

// fits reports whether replacing a value of size old by one of size next
// stays within the ceiling.
func (q *quota) fits(old, next int64) bool {
	return q.max == 0 || q.total-old+next <= q.max
}

func (q *quota) apply(old, next int64) {
	q.total += next - old
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}
