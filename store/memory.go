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
	"sync/atomic"

	"github.com/tochemey/postbox/errors"
	"github.com/tochemey/postbox/internal/syncmap"
)

// MemoryStore is an ephemeral Store kept entirely in process memory. It is
// the default substrate for tests and for deployments that do not need the
// mailbox state to survive a restart.
type MemoryStore struct {
	namespaces *syncmap.SyncMap[string, *syncmap.SyncMap[string, []byte]]
	closed     atomic.Bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: syncmap.New[string, *syncmap.SyncMap[string, []byte]](),
	}
}

// Put stores or replaces the value under the given namespace and key.
func (s *MemoryStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if err := contextErr(ctx); err != nil {
		return err
	}
	// copy the value so callers cannot mutate stored state afterwards
	data := make([]byte, len(value))
	copy(data, value)
	s.bucket(namespace).Set(key, data)
	return nil
}

// Get returns the value stored under the given namespace and key.
func (s *MemoryStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, false, err
	}
	if err := contextErr(ctx); err != nil {
		return nil, false, err
	}
	value, ok := s.bucket(namespace).Get(key)
	if !ok {
		return nil, false, nil
	}
	data := make([]byte, len(value))
	copy(data, value)
	return data, true, nil
}

// Delete removes the value stored under the given namespace and key.
func (s *MemoryStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if err := contextErr(ctx); err != nil {
		return err
	}
	s.bucket(namespace).Delete(key)
	return nil
}

// Keys returns all keys of the given namespace.
func (s *MemoryStore) Keys(ctx context.Context, namespace string) ([]string, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	if err := contextErr(ctx); err != nil {
		return nil, err
	}
	var keys []string
	s.bucket(namespace).Range(func(k string, _ []byte) {
		keys = append(keys, k)
	})
	return keys, nil
}

// Close marks the store closed. Subsequent operations fail with ErrStoreClosed.
func (s *MemoryStore) Close() error {
	s.closed.Store(true)
	return nil
}

func (s *MemoryStore) bucket(namespace string) *syncmap.SyncMap[string, []byte] {
	return s.namespaces.GetOrSet(namespace, func() *syncmap.SyncMap[string, []byte] {
		return syncmap.New[string, []byte]()
	})
}

func (s *MemoryStore) ensureOpen() error {
	if s.closed.Load() {
		return errors.ErrStoreClosed
	}
	return nil
}
