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

// Package store defines the key-value substrate backing the mailbox service
// and the keystore. The substrate only offers key-to-value lookup; any
// sequential structure (queues, rotation indices) is built on top of it by
// the callers. Implementations group keys into named namespaces so unrelated
// consumers never share a key space.
package store

import "context"

// Store defines a namespaced key-value store.
type Store interface {
	// Put stores or replaces the value under the given namespace and key.
	Put(ctx context.Context, namespace, key string, value []byte) error
	// Get returns the value stored under the given namespace and key.
	// The boolean is false when no value exists.
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	// Delete removes the value stored under the given namespace and key.
	// Deleting an absent key is a no-op.
	Delete(ctx context.Context, namespace, key string) error
	// Keys returns all keys of the given namespace. Ordering is unspecified.
	Keys(ctx context.Context, namespace string) ([]string, error)
	// Close releases the store resources. Operations on a closed store fail
	// with ErrStoreClosed.
	Close() error
}

func contextErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
