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

package mailbox

import (
	"time"

	"github.com/tochemey/postbox/eventstream"
	"github.com/tochemey/postbox/log"
	"github.com/tochemey/postbox/store"
)

// Option is the interface that applies a Service option.
type Option interface {
	// Apply sets the Option value of a Service.
	Apply(*Service)
}

// OptionFunc implements the Option interface.
type OptionFunc func(*Service)

func (f OptionFunc) Apply(s *Service) {
	f(s)
}

// WithLogger sets the service custom log
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(s *Service) {
		s.logger = logger
	})
}

// WithStore sets the key-value store that committed messages are written
// through to. The service owns the store from then on and closes it on Close.
func WithStore(kv store.Store) Option {
	return OptionFunc(func(s *Service) {
		s.store = kv
	})
}

// WithEventStream sets a custom notification broker. Use this to share one
// broker between the mailbox service and other publishers.
func WithEventStream(stream eventstream.Stream) Option {
	return OptionFunc(func(s *Service) {
		s.stream = stream
	})
}

// WithClock sets the time source used to stamp messages and notifications.
// Mostly useful in tests.
func WithClock(clock func() time.Time) Option {
	return OptionFunc(func(s *Service) {
		s.clock = clock
	})
}
