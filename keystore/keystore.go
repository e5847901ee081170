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

// Package keystore implements a public key directory keyed by identity.
//
// Mutations are restricted to an allow-list of admin identities and every
// caller is held to a fixed per-identity rate limit. Lookups are open to any
// identity within that budget.
package keystore

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/time/rate"

	"github.com/tochemey/postbox/errors"
	"github.com/tochemey/postbox/internal/syncmap"
	"github.com/tochemey/postbox/log"
	"github.com/tochemey/postbox/store"
)

const storeNamespace = "keystore"

const (
	// DefaultRateLimit is the per-identity request budget applied when no
	// WithRateLimit option is given.
	DefaultRateLimit = rate.Limit(5)
	// DefaultBurst is the burst size paired with DefaultRateLimit.
	DefaultBurst = 10
)

// Directory maps identities to their public keys.
type Directory struct {
	store    store.Store
	admins   mapset.Set[string]
	limiters *syncmap.SyncMap[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	logger   log.Logger
}

// NewDirectory creates a Directory with the given options. When no store is
// supplied the directory keeps keys in memory only.
func NewDirectory(opts ...Option) *Directory {
	directory := &Directory{
		store:    store.NewMemoryStore(),
		admins:   mapset.NewSet[string](),
		limiters: syncmap.New[string, *rate.Limiter](),
		limit:    DefaultRateLimit,
		burst:    DefaultBurst,
		logger:   log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(directory)
	}
	return directory
}

// Register stores the public key of the given identity. It fails with
// ErrIdentityNotAllowed when the caller is not an admin and with
// ErrKeyAlreadyExists when the identity already has a key.
func (d *Directory) Register(ctx context.Context, caller, identity string, publicKey []byte) error {
	if err := d.admit(caller, true); err != nil {
		return err
	}

	_, ok, err := d.store.Get(ctx, storeNamespace, identity)
	if err != nil {
		return err
	}
	if ok {
		return errors.ErrKeyAlreadyExists
	}

	if err := d.store.Put(ctx, storeNamespace, identity, publicKey); err != nil {
		return err
	}
	d.logger.Debugf("registered public key identity=(%s)", identity)
	return nil
}

// Update replaces the public key of the given identity. It fails with
// ErrKeyNotFound when the identity has no key.
func (d *Directory) Update(ctx context.Context, caller, identity string, publicKey []byte) error {
	if err := d.admit(caller, true); err != nil {
		return err
	}

	_, ok, err := d.store.Get(ctx, storeNamespace, identity)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewErrKeyNotFound(identity)
	}

	if err := d.store.Put(ctx, storeNamespace, identity, publicKey); err != nil {
		return err
	}
	d.logger.Debugf("updated public key identity=(%s)", identity)
	return nil
}

// Unregister removes the public key of the given identity.
func (d *Directory) Unregister(ctx context.Context, caller, identity string) error {
	if err := d.admit(caller, true); err != nil {
		return err
	}

	_, ok, err := d.store.Get(ctx, storeNamespace, identity)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewErrKeyNotFound(identity)
	}

	if err := d.store.Delete(ctx, storeNamespace, identity); err != nil {
		return err
	}
	d.logger.Debugf("unregistered public key identity=(%s)", identity)
	return nil
}

// Lookup returns the public key of the given identity. Any caller may look
// keys up within the rate limit.
func (d *Directory) Lookup(ctx context.Context, caller, identity string) ([]byte, error) {
	if err := d.admit(caller, false); err != nil {
		return nil, err
	}

	publicKey, ok, err := d.store.Get(ctx, storeNamespace, identity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewErrKeyNotFound(identity)
	}
	return publicKey, nil
}

// Identities returns the identities that have a registered public key.
func (d *Directory) Identities(ctx context.Context) ([]string, error) {
	return d.store.Keys(ctx, storeNamespace)
}

// Close releases the underlying store.
func (d *Directory) Close() error {
	return d.store.Close()
}

// admit enforces the rate limit and, for mutations, the admin allow-list.
func (d *Directory) admit(caller string, mutation bool) error {
	limiter := d.limiters.GetOrSet(caller, func() *rate.Limiter {
		return rate.NewLimiter(d.limit, d.burst)
	})
	if !limiter.Allow() {
		return errors.ErrRateLimited
	}
	if mutation && !d.admins.Contains(caller) {
		return errors.NewErrIdentityNotAllowed(caller)
	}
	return nil
}
