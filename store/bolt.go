// MIT License
//
// Copyright (c) 2022-2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package store

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/flowchartsman/retry"
	bbolt "go.etcd.io/bbolt"

	"github.com/tochemey/postbox/errors"
)

const (
	boltFileMode os.FileMode = 0o600
)

var (
	boltTimeout        = 5 * time.Second
	defaultBoltOptions = &bbolt.Options{Timeout: boltTimeout, NoGrowSync: true}

	// opening can transiently fail while another process still holds the
	// file lock, so the open is retried with backoff
	boltOpenRetries      = 3
	boltOpenInitialDelay = 100 * time.Millisecond
	boltOpenMaxDelay     = time.Second
)

// BoltStore implements Store using go.etcd.io/bbolt for durable persistence.
//
// Concurrency:
//   - bbolt provides single-writer/multi-reader semantics. We only guard the
//     close state to prevent operations once the store is shut down.
//
// Layout:
//   - Each namespace maps to its own bucket, created lazily on first write.
type BoltStore struct {
	db     *bbolt.DB
	path   string
	closed atomic.Bool
}

var _ Store = (*BoltStore)(nil)

// NewBoltStore opens (or creates) a BoltDB-backed Store at the given path.
// The database is configured with production defaults (short open timeout,
// NoGrowSync). The backing file is owned by the caller and survives Close.
func NewBoltStore(path string) (*BoltStore, error) {
	optionsCopy := *defaultBoltOptions

	var db *bbolt.DB
	retrier := retry.NewRetrier(boltOpenRetries, boltOpenInitialDelay, boltOpenMaxDelay)
	err := retrier.Run(func() error {
		var openErr error
		db, openErr = bbolt.Open(path, boltFileMode, &optionsCopy)
		return openErr
	})
	if err != nil {
		return nil, fmt.Errorf("store: opening boltdb: %w", err)
	}

	return &BoltStore{db: db, path: path}, nil
}

// Put stores or replaces the value under the given namespace and key.
func (s *BoltStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if err := contextErr(ctx); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(namespace))
		if err != nil {
			return fmt.Errorf("store: initializing bucket %q: %w", namespace, err)
		}
		return bucket.Put([]byte(key), value)
	})
}

// Get returns the value stored under the given namespace and key.
func (s *BoltStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, false, err
	}
	if err := contextErr(ctx); err != nil {
		return nil, false, err
	}

	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(namespace))
		if bucket == nil {
			return nil
		}
		raw := bucket.Get([]byte(key))
		if raw == nil {
			return nil
		}
		// the slice is only valid inside the transaction
		value = make([]byte, len(raw))
		copy(value, raw)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

// Delete removes the value stored under the given namespace and key.
func (s *BoltStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if err := contextErr(ctx); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(namespace))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key))
	})
}

// Keys returns all keys of the given namespace.
func (s *BoltStore) Keys(ctx context.Context, namespace string) ([]string, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	if err := contextErr(ctx); err != nil {
		return nil, err
	}

	var keys []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(namespace))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Close releases the underlying BoltDB handle. The backing file is kept.
func (s *BoltStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

func (s *BoltStore) ensureOpen() error {
	if s.closed.Load() {
		return errors.ErrStoreClosed
	}
	return nil
}
