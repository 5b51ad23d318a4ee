package kv

import (
	"sync"
)

// Memory is an in-process Storage. It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	q      quota
	closed bool
}

// NewMemory returns an empty Memory storage with the given capacity ceiling
// in bytes (0 for unlimited).
func NewMemory(maxBytes int64) *Memory {
	return &Memory{data: make(map[string]string), q: quota{max: maxBytes}}
}

// Get implements Storage.
func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set implements Storage.
func (m *Memory) Set(key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	var old int64
	if prev, ok := m.data[key]; ok {
		old = entrySize(key, prev)
	}
	next := entrySize(key, value)
	if !m.q.fits(old, next) {
		return ErrQuotaExceeded
	}
	m.data[key] = value
	m.q.apply(old, next)
	return nil
}

// Remove implements Storage.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if prev, ok := m.data[key]; ok {
		m.q.apply(entrySize(key, prev), 0)
		delete(m.data, key)
	}
	return nil
}

// Keys implements Storage.
func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// Clear implements Storage.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	clear(m.data)
	m.q.total = 0
	return nil
}

// Close implements Storage.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
