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
	"fmt"
)

var (
	// ErrMailboxFull is returned when a sender has reached its pending-message
	// capacity for a given recipient. The write is rejected with no state change;
	// it becomes retryable once the recipient acknowledges messages.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrMessageNotFound is returned when acknowledging a message id that is
	// unknown or has already been acknowledged. This is a caller error and is
	// not retryable.
	ErrMessageNotFound = errors.New("message not found")

	// ErrMailboxNotEmpty is returned when attempting to drop a mailbox that
	// still holds pending messages.
	ErrMailboxNotEmpty = errors.New("mailbox is not empty")

	// ErrDuplicateItem is returned when inserting an item that is already
	// present in an indexed list. The node table is keyed by the item's own
	// value, so a duplicate would silently alias an existing node; the insert
	// fails fast instead. Surfacing this to a caller indicates a bug.
	ErrDuplicateItem = errors.New("item already present in list")

	// ErrEmptyList is returned when peeking or removing from an empty indexed
	// list. Surfacing this to a caller indicates a bug.
	ErrEmptyList = errors.New("list is empty")

	// ErrItemNotFound is returned when removing an item that is not present in
	// an indexed list.
	ErrItemNotFound = errors.New("item not found in list")

	// ErrReservedItem is returned when inserting an item that collides with a
	// list boundary sentinel key.
	ErrReservedItem = errors.New("item key is reserved")

	// ErrStoreClosed is returned when operations are attempted on a closed store.
	ErrStoreClosed = errors.New("store is closed")

	// ErrKeyNotFound is returned when a keystore lookup does not match any
	// registered identity.
	ErrKeyNotFound = errors.New("public key not found")

	// ErrKeyAlreadyExists is returned when registering a public key for an
	// identity that already has one.
	ErrKeyAlreadyExists = errors.New("public key already exists")

	// ErrIdentityNotAllowed is returned when a keystore mutation is attempted
	// by an identity that is not on the admin allow-list.
	ErrIdentityNotAllowed = errors.New("identity is not allowed")

	// ErrRateLimited is returned when an identity has exceeded its fixed
	// keystore request rate.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// NewErrMailboxFull formats an ErrMailboxFull for the given sender/recipient pair.
func NewErrMailboxFull(sender, recipient string) error {
	return fmt.Errorf("sender=(%s) recipient=(%s) %w", sender, recipient, ErrMailboxFull)
}

// NewErrMessageNotFound formats an ErrMessageNotFound with the given message id.
func NewErrMessageNotFound(id string) error {
	return fmt.Errorf("message=(%s) %w", id, ErrMessageNotFound)
}

// NewErrMailboxNotEmpty formats an ErrMailboxNotEmpty for the given recipient.
func NewErrMailboxNotEmpty(recipient string) error {
	return fmt.Errorf("recipient=(%s) %w", recipient, ErrMailboxNotEmpty)
}

// NewErrKeyNotFound formats an ErrKeyNotFound with the given identity.
func NewErrKeyNotFound(identity string) error {
	return fmt.Errorf("identity=(%s) %w", identity, ErrKeyNotFound)
}

// NewErrIdentityNotAllowed formats an ErrIdentityNotAllowed with the given identity.
func NewErrIdentityNotAllowed(identity string) error {
	return fmt.Errorf("identity=(%s) %w", identity, ErrIdentityNotAllowed)
}

// InternalError wraps an index invariant violation. It marks a defect in the
// mailbox bookkeeping rather than a caller mistake: the contracts in the list
// package guarantee these failures cannot happen when the indices are consistent.
type InternalError struct {
	err error
}

// enforce compilation error
var _ error = (*InternalError)(nil)

// NewInternalError returns an instance of InternalError
func NewInternalError(err error) *InternalError {
	return &InternalError{
		err: fmt.Errorf("internal error: %w", err),
	}
}

// Error implements the standard error interface
func (i *InternalError) Error() string {
	return i.err.Error()
}

func (i *InternalError) Unwrap() error {
	return i.err
}
