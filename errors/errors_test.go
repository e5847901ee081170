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

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormattedErrors(t *testing.T) {
	t.Run("With NewErrMailboxFull", func(t *testing.T) {
		err := NewErrMailboxFull("alice", "bob")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMailboxFull)
		assert.Contains(t, err.Error(), "alice")
		assert.Contains(t, err.Error(), "bob")
	})
	t.Run("With NewErrMessageNotFound", func(t *testing.T) {
		err := NewErrMessageNotFound("deadbeefdeadbeef")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMessageNotFound)
		assert.Contains(t, err.Error(), "deadbeefdeadbeef")
	})
	t.Run("With NewErrMailboxNotEmpty", func(t *testing.T) {
		err := NewErrMailboxNotEmpty("bob")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMailboxNotEmpty)
	})
	t.Run("With NewErrKeyNotFound", func(t *testing.T) {
		err := NewErrKeyNotFound("carol")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
	t.Run("With NewErrIdentityNotAllowed", func(t *testing.T) {
		err := NewErrIdentityNotAllowed("mallory")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIdentityNotAllowed)
	})
}

func TestInternalError(t *testing.T) {
	base := errors.New("boom")
	err := NewInternalError(base)
	require.Error(t, err)
	assert.Equal(t, "internal error: boom", err.Error())
	assert.ErrorIs(t, err, base)
}
