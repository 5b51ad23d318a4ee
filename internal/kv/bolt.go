// Stores every key in a single BoltDB bucket.

package kv

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucket = "kv"

// Bolt is a Storage backed by a BoltDB file.
type Bolt struct {
	db *bbolt.DB

	mu sync.Mutex
	q  quota
}

// OpenBolt opens (creating it if needed) a BoltDB-backed storage at path.
func OpenBolt(path string, maxBytes int64) (*Bolt, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("kv: database path is required")
	}
	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}
	b := &Bolt{db: db, q: quota{max: maxBytes}}
	err = db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		if err != nil {
			return fmt.Errorf("create kv bucket: %w", err)
		}
		return bucket.ForEach(func(k, v []byte) error {
			b.q.total += int64(len(k) + len(v))
			return nil
		})
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// Get implements Storage.
func (b *Bolt) Get(key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	var value string
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction.
		value = string(v)
		return nil
	})
	if err != nil {
		return "", b.mapErr(err)
	}
	return value, nil
}

// Set implements Storage.
func (b *Bolt) Set(key, value string) error {
	if err := validKey(key); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var old int64
	next := entrySize(key, value)
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))
		if prev := bucket.Get([]byte(key)); prev != nil {
			old = int64(len(key) + len(prev))
		}
		if !b.q.fits(old, next) {
			return ErrQuotaExceeded
		}
		return bucket.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return b.mapErr(err)
	}
	b.q.apply(old, next)
	return nil
}

// Remove implements Storage.
func (b *Bolt) Remove(key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var old int64
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))
		prev := bucket.Get([]byte(key))
		if prev == nil {
			return nil
		}
		old = int64(len(key) + len(prev))
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return b.mapErr(err)
	}
	b.q.apply(old, 0)
	return nil
}

// Keys implements Storage.
func (b *Bolt) Keys() ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, b.mapErr(err)
	}
	return keys, nil
}

// Clear implements Storage.
func (b *Bolt) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(boltBucket)); err != nil {
			return fmt.Errorf("delete kv bucket: %w", err)
		}
		_, err := tx.CreateBucket([]byte(boltBucket))
		return err
	})
	if err != nil {
		return b.mapErr(err)
	}
	b.q.total = 0
	return nil
}

// Close implements Storage.
func (b *Bolt) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *Bolt) mapErr(err error) error {
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}
