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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/postbox/errors"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	bolt, err := NewBoltStore(filepath.Join(t.TempDir(), "postbox.db"))
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"bolt":   bolt,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Cleanup(func() {
				require.NoError(t, kv.Close())
			})

			require.NoError(t, kv.Put(ctx, "mailbox", "k1", []byte("v1")))
			require.NoError(t, kv.Put(ctx, "mailbox", "k2", []byte("v2")))
			require.NoError(t, kv.Put(ctx, "keystore", "k1", []byte("other")))

			value, ok, err := kv.Get(ctx, "mailbox", "k1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []byte("v1"), value)

			// namespaces do not share keys
			value, ok, err = kv.Get(ctx, "keystore", "k1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []byte("other"), value)

			keys, err := kv.Keys(ctx, "mailbox")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"k1", "k2"}, keys)

			require.NoError(t, kv.Delete(ctx, "mailbox", "k1"))
			_, ok, err = kv.Get(ctx, "mailbox", "k1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStoreMissingKey(t *testing.T) {
	ctx := context.Background()
	for name, kv := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Cleanup(func() {
				require.NoError(t, kv.Close())
			})

			_, ok, err := kv.Get(ctx, "mailbox", "absent")
			require.NoError(t, err)
			assert.False(t, ok)

			// deleting an absent key is a no-op
			require.NoError(t, kv.Delete(ctx, "mailbox", "absent"))

			keys, err := kv.Keys(ctx, "empty")
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestStoreClosed(t *testing.T) {
	ctx := context.Background()
	for name, kv := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Close())
			// closing twice is harmless
			require.NoError(t, kv.Close())

			err := kv.Put(ctx, "mailbox", "k", []byte("v"))
			assert.ErrorIs(t, err, errors.ErrStoreClosed)
			_, _, err = kv.Get(ctx, "mailbox", "k")
			assert.ErrorIs(t, err, errors.ErrStoreClosed)
			err = kv.Delete(ctx, "mailbox", "k")
			assert.ErrorIs(t, err, errors.ErrStoreClosed)
			_, err = kv.Keys(ctx, "mailbox")
			assert.ErrorIs(t, err, errors.ErrStoreClosed)
		})
	}
}

func TestStoreContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for name, kv := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Cleanup(func() {
				require.NoError(t, kv.Close())
			})
			err := kv.Put(ctx, "mailbox", "k", []byte("v"))
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestBoltStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "postbox.db")

	kv, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, "mailbox", "k", []byte("v")))
	require.NoError(t, kv.Close())

	// data survives a close/reopen cycle
	kv, err = NewBoltStore(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, kv.Close())
	})
	value, ok, err := kv.Get(ctx, "mailbox", "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), value)
}
