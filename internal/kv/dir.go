// Stores one file per key in a directory.

package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const (
	dirExt       = ".kv"
	dirTmpPrefix = ".tmp-"
)

// Dir is a Storage keeping each key in its own file. Writes are atomic: the
// value is written to a temporary file then renamed over the previous one.
//
// The quota is accounted from the directory content at open time and then
// tracked in memory; files changed by other processes are only reflected
// after reopening.
type Dir struct {
	root string

	mu     sync.Mutex
	q      quota
	closed bool
}

// OpenDir opens (creating it if needed) a directory-backed storage.
func OpenDir(root string, maxBytes int64) (*Dir, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("kv: directory path is required")
	}
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create storage directory %s: %w", root, err)
	}
	d := &Dir{root: root, q: quota{max: maxBytes}}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage directory %s: %w", root, err)
	}
	for _, e := range entries {
		key, ok := decodeKey(e.Name())
		if !ok || e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		d.q.total += int64(len(key)) + info.Size()
	}
	return d, nil
}

// Root returns the storage directory.
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.root, encodeKey(key))
}

// Get implements Storage.
func (d *Dir) Get(key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return "", ErrClosed
	}
	b, err := os.ReadFile(d.path(key)) //nolint:gosec // G304: file name is escaped from the key
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %q: %w", key, err)
	}
	return string(b), nil
}

// Set implements Storage.
func (d *Dir) Set(key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	p := d.path(key)
	var old int64
	if info, err := os.Stat(p); err == nil {
		old = int64(len(key)) + info.Size()
	}
	next := entrySize(key, value)
	if !d.q.fits(old, next) {
		return ErrQuotaExceeded
	}
	if err := writeFileAtomic(d.root, p, []byte(value)); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	d.q.apply(old, next)
	return nil
}

// Remove implements Storage.
func (d *Dir) Remove(key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	p := d.path(key)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", key, err)
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	d.q.apply(int64(len(key))+info.Size(), 0)
	return nil
}

// Keys implements Storage.
func (d *Dir) Keys() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrClosed
	}
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage directory: %w", err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key, ok := decodeKey(e.Name()); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Clear implements Storage.
func (d *Dir) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return fmt.Errorf("failed to list storage directory: %w", err)
	}
	var errs []error
	for _, e := range entries {
		if _, ok := decodeKey(e.Name()); !ok || e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(d.root, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	d.q.total = 0
	return errors.Join(errs...)
}

// Close implements Storage.
func (d *Dir) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Watch reports keys created, written or removed in the directory until ctx
// is canceled. Writes made through this Dir are reported too. fn is called
// from a single goroutine.
func (d *Dir) Watch(ctx context.Context, fn func(key string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(d.root); err != nil {
		_ = w.Close()
		return err
	}
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if key, ok := decodeKey(filepath.Base(event.Name)); ok {
					fn(key)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.WarnContext(ctx, "Error watching storage directory", "dir", d.root, "err", err)
			}
		}
	}()
	return nil
}

// encodeKey maps a key to a file name. Leading dots are escaped so that keys
// never collide with temporary files.
func encodeKey(key string) string {
	s := url.PathEscape(key)
	if strings.HasPrefix(s, ".") {
		s = "%2E" + s[1:]
	}
	return s + dirExt
}

func decodeKey(name string) (string, bool) {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, dirExt) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimSuffix(name, dirExt))
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

func writeFileAtomic(dir, path string, data []byte) error {
	f, err := os.CreateTemp(dir, dirTmpPrefix+"*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
