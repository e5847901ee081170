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

package keystore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/tochemey/postbox/errors"
	"github.com/tochemey/postbox/store"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	t.Run("With happy path", func(t *testing.T) {
		directory := NewDirectory(WithAdmins("admin"))
		t.Cleanup(func() { _ = directory.Close() })

		require.NoError(t, directory.Register(ctx, "admin", "alice", []byte("pk-alice")))

		publicKey, err := directory.Lookup(ctx, "bob", "alice")
		require.NoError(t, err)
		assert.Equal(t, []byte("pk-alice"), publicKey)
	})
	t.Run("With duplicate identity", func(t *testing.T) {
		directory := NewDirectory(WithAdmins("admin"))
		t.Cleanup(func() { _ = directory.Close() })

		require.NoError(t, directory.Register(ctx, "admin", "alice", []byte("pk-alice")))
		err := directory.Register(ctx, "admin", "alice", []byte("pk-other"))
		require.ErrorIs(t, err, errors.ErrKeyAlreadyExists)
	})
	t.Run("With non-admin caller", func(t *testing.T) {
		directory := NewDirectory(WithAdmins("admin"))
		t.Cleanup(func() { _ = directory.Close() })

		err := directory.Register(ctx, "mallory", "alice", []byte("pk-alice"))
		require.ErrorIs(t, err, errors.ErrIdentityNotAllowed)

		_, err = directory.Lookup(ctx, "bob", "alice")
		require.ErrorIs(t, err, errors.ErrKeyNotFound)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	t.Run("With happy path", func(t *testing.T) {
		directory := NewDirectory(WithAdmins("admin"))
		t.Cleanup(func() { _ = directory.Close() })

		require.NoError(t, directory.Register(ctx, "admin", "alice", []byte("pk-v1")))
		require.NoError(t, directory.Update(ctx, "admin", "alice", []byte("pk-v2")))

		publicKey, err := directory.Lookup(ctx, "bob", "alice")
		require.NoError(t, err)
		assert.Equal(t, []byte("pk-v2"), publicKey)
	})
	t.Run("With unknown identity", func(t *testing.T) {
		directory := NewDirectory(WithAdmins("admin"))
		t.Cleanup(func() { _ = directory.Close() })

		err := directory.Update(ctx, "admin", "alice", []byte("pk-v2"))
		require.ErrorIs(t, err, errors.ErrKeyNotFound)
	})
	t.Run("With non-admin caller", func(t *testing.T) {
		directory := NewDirectory(WithAdmins("admin"))
		t.Cleanup(func() { _ = directory.Close() })

		require.NoError(t, directory.Register(ctx, "admin", "alice", []byte("pk-v1")))
		err := directory.Update(ctx, "mallory", "alice", []byte("pk-evil"))
		require.ErrorIs(t, err, errors.ErrIdentityNotAllowed)

		publicKey, err := directory.Lookup(ctx, "bob", "alice")
		require.NoError(t, err)
		assert.Equal(t, []byte("pk-v1"), publicKey)
	})
}

func TestUnregister(t *testing.T) {
	ctx := context.Background()
	t.Run("With happy path", func(t *testing.T) {
		directory := NewDirectory(WithAdmins("admin"))
		t.Cleanup(func() { _ = directory.Close() })

		require.NoError(t, directory.Register(ctx, "admin", "alice", []byte("pk-alice")))
		require.NoError(t, directory.Unregister(ctx, "admin", "alice"))

		_, err := directory.Lookup(ctx, "bob", "alice")
		require.ErrorIs(t, err, errors.ErrKeyNotFound)

		identities, err := directory.Identities(ctx)
		require.NoError(t, err)
		assert.Empty(t, identities)
	})
	t.Run("With unknown identity", func(t *testing.T) {
		directory := NewDirectory(WithAdmins("admin"))
		t.Cleanup(func() { _ = directory.Close() })

		err := directory.Unregister(ctx, "admin", "alice")
		require.ErrorIs(t, err, errors.ErrKeyNotFound)
	})
}

func TestRateLimit(t *testing.T) {
	ctx := context.Background()
	t.Run("With exhausted budget", func(t *testing.T) {
		directory := NewDirectory(WithAdmins("admin"), WithRateLimit(rate.Limit(1), 2))
		t.Cleanup(func() { _ = directory.Close() })

		require.NoError(t, directory.Register(ctx, "admin", "alice", []byte("pk-alice")))

		_, err := directory.Lookup(ctx, "bob", "alice")
		require.NoError(t, err)
		_, err = directory.Lookup(ctx, "bob", "alice")
		require.NoError(t, err)
		_, err = directory.Lookup(ctx, "bob", "alice")
		require.ErrorIs(t, err, errors.ErrRateLimited)
	})
	t.Run("With per-identity budgets", func(t *testing.T) {
		directory := NewDirectory(WithAdmins("admin"), WithRateLimit(rate.Limit(1), 1))
		t.Cleanup(func() { _ = directory.Close() })

		require.NoError(t, directory.Register(ctx, "admin", "alice", []byte("pk-alice")))

		_, err := directory.Lookup(ctx, "bob", "alice")
		require.NoError(t, err)
		_, err = directory.Lookup(ctx, "bob", "alice")
		require.ErrorIs(t, err, errors.ErrRateLimited)

		// carol's budget is untouched by bob's exhaustion
		_, err = directory.Lookup(ctx, "carol", "alice")
		require.NoError(t, err)
	})
	t.Run("With admins subject to the limit", func(t *testing.T) {
		directory := NewDirectory(WithAdmins("admin"), WithRateLimit(rate.Limit(1), 1))
		t.Cleanup(func() { _ = directory.Close() })

		require.NoError(t, directory.Register(ctx, "admin", "alice", []byte("pk-alice")))
		err := directory.Register(ctx, "admin", "bob", []byte("pk-bob"))
		require.ErrorIs(t, err, errors.ErrRateLimited)
	})
}

func TestBoltBacked(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keystore.db")

	kv, err := store.NewBoltStore(path)
	require.NoError(t, err)

	directory := NewDirectory(WithStore(kv), WithAdmins("admin"))
	require.NoError(t, directory.Register(ctx, "admin", "alice", []byte("pk-alice")))
	require.NoError(t, directory.Close())

	kv, err = store.NewBoltStore(path)
	require.NoError(t, err)
	directory = NewDirectory(WithStore(kv), WithAdmins("admin"))
	t.Cleanup(func() { _ = directory.Close() })

	publicKey, err := directory.Lookup(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, []byte("pk-alice"), publicKey)
}
