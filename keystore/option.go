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
	"golang.org/x/time/rate"

	"github.com/tochemey/postbox/log"
	"github.com/tochemey/postbox/store"
)

// Option is the interface that applies a Directory option.
type Option interface {
	// Apply sets the Option value of a Directory.
	Apply(directory *Directory)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(directory *Directory)

// Apply applies the Directory's option
func (f OptionFunc) Apply(directory *Directory) {
	f(directory)
}

// WithStore sets the backing key/value store. The directory takes ownership
// of the store and closes it on Close.
func WithStore(kv store.Store) Option {
	return OptionFunc(func(directory *Directory) {
		directory.store = kv
	})
}

// WithAdmins sets the identities allowed to mutate the directory.
func WithAdmins(identities ...string) Option {
	return OptionFunc(func(directory *Directory) {
		directory.admins.Append(identities...)
	})
}

// WithRateLimit sets the fixed per-identity request budget.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return OptionFunc(func(directory *Directory) {
		directory.limit = limit
		directory.burst = burst
	})
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(directory *Directory) {
		directory.logger = logger
	})
}
