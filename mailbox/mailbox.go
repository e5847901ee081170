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

// Package mailbox implements a per-recipient mailbox service. Any caller can
// deposit a message addressed to a recipient; the recipient retrieves
// messages one at a time, acknowledges them and frees space for new ones.
//
// Two indices order the traffic. Each (sender, recipient) pair owns a
// capacity-bounded FIFO of pending message ids, the sender queue. A second
// per-recipient index, the rotation queue, holds exactly one entry per sender
// with pending mail, that sender's oldest message id, so a recipient can
// drain fairly across senders without naming them. Both are built on the
// key-addressed linked list of the internal list package.
package mailbox

import (
	"fmt"
	"sync"
	"time"

	"github.com/tochemey/postbox/errors"
	"github.com/tochemey/postbox/internal/list"
)

// Mailbox is the per-recipient aggregate owning the message table, one sender
// queue per effective sender and the rotation queue.
//
// The rotation invariant: for every sender whose queue is non-empty the
// rotation queue holds exactly one entry, the id at the head (oldest) of that
// sender's queue. Mutations preserve it or fail without partial effects.
//
// Reads never fail on absence of data; they return the empty sentinel
// ("" id, nil message) because read paths are queried speculatively and must
// not force error handling for the common nothing-pending case.
type Mailbox struct {
	recipient string
	clock     func() time.Time

	mu       sync.RWMutex
	messages map[string]*Message
	senders  map[string]*list.List
	rotation *list.List
}

func newMailbox(recipient string, clock func() time.Time) *Mailbox {
	return &Mailbox{
		recipient: recipient,
		clock:     clock,
		messages:  make(map[string]*Message),
		senders:   make(map[string]*list.List),
		rotation:  list.New(),
	}
}

// Recipient returns the identity owning this mailbox.
func (mb *Mailbox) Recipient() string {
	return mb.recipient
}

// ReadFrom returns the oldest pending message from the given sender without
// removing it. Repeated calls without an intervening acknowledge return the
// identical result. Pass Anonymous to read the shared anonymous lane.
func (mb *Mailbox) ReadFrom(sender string) (string, *Message) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	queue := mb.senders[sender]
	if queue == nil || queue.Len() == 0 {
		return "", nil
	}
	id, err := queue.Head()
	if err != nil {
		return "", nil
	}
	return id, mb.messages[id]
}

// ReadNext returns the oldest pending message of whichever sender has waited
// longest in rotation order, without the recipient naming a sender. The
// message's Sender field identifies the lane it came from.
func (mb *Mailbox) ReadNext() (string, *Message) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	if mb.rotation.Len() == 0 {
		return "", nil
	}
	id, err := mb.rotation.Head()
	if err != nil {
		return "", nil
	}
	return id, mb.messages[id]
}

// CountPending returns the number of undelivered messages from the given sender.
func (mb *Mailbox) CountPending(sender string) int {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	queue := mb.senders[sender]
	if queue == nil {
		return 0
	}
	return queue.Len()
}

// CountActiveSenders returns the number of senders with at least one pending
// message. By the rotation invariant this equals the rotation queue size.
func (mb *Mailbox) CountActiveSenders() int {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	return mb.rotation.Len()
}

// write appends a message for the given sender. The capacity bound and the id
// collision are checked before any state changes, so a failed write leaves
// the mailbox untouched.
func (mb *Mailbox) write(sender string, payload []byte, anonymous bool) (string, *Message, *Notification, error) {
	effective := sender
	if anonymous {
		effective = Anonymous
	}

	data := make([]byte, len(payload))
	copy(data, payload)

	mb.mu.Lock()
	defer mb.mu.Unlock()

	// the timestamp is taken under the lock so queue order and timestamp
	// order never disagree for a given sender
	msg := &Message{Sender: effective, Payload: data, SentAt: mb.clock()}

	id, notification, err := mb.insert(msg)
	if err != nil {
		return "", nil, nil, err
	}
	return id, msg, notification, nil
}

// restore re-inserts a previously committed message, recomputing its id from
// the stored content. The caller holds no lock.
func (mb *Mailbox) restore(msg *Message) (string, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	id, _, err := mb.insert(msg)
	return id, err
}

// insert runs the shared write path under the write lock held by the caller.
func (mb *Mailbox) insert(msg *Message) (string, *Notification, error) {
	queue := mb.senders[msg.Sender]
	if queue != nil && queue.Len() >= MaxPending {
		return "", nil, errors.NewErrMailboxFull(msg.Sender, mb.recipient)
	}

	id := messageID(msg)
	if _, ok := mb.messages[id]; ok {
		// identical sender, payload and timestamp; aliasing the existing
		// index node would corrupt both queues
		return "", nil, errors.NewInternalError(fmt.Errorf("message=(%s) %w", id, errors.ErrDuplicateItem))
	}

	if queue == nil {
		queue = list.New()
		mb.senders[msg.Sender] = queue
	} else {
		queue.Init()
	}

	mb.messages[id] = msg
	if err := queue.Push(id); err != nil {
		delete(mb.messages, id)
		return "", nil, errors.NewInternalError(err)
	}

	// a previously idle sender enters the rotation with this message
	if queue.Len() == 1 {
		mb.rotation.Init()
		if err := mb.rotation.Push(id); err != nil {
			_ = queue.Remove(id)
			delete(mb.messages, id)
			return "", nil, errors.NewInternalError(err)
		}
	}

	notification := &Notification{
		Sender:    msg.Sender,
		Recipient: mb.recipient,
		Pending:   queue.Len(),
		Timestamp: msg.SentAt,
	}
	return id, notification, nil
}

// acknowledge marks the message delivered, removes it from its sender queue
// and keeps the rotation queue consistent. It reports whether more messages
// remain from that sender.
func (mb *Mailbox) acknowledge(id string) (bool, *Notification, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	msg, ok := mb.messages[id]
	if !ok || msg.Acknowledged() {
		return false, nil, errors.NewErrMessageNotFound(id)
	}

	queue := mb.senders[msg.Sender]
	if queue == nil {
		return false, nil, errors.NewInternalError(fmt.Errorf("sender=(%s) queue missing: %w", msg.Sender, errors.ErrItemNotFound))
	}
	if err := queue.Remove(id); err != nil {
		return false, nil, errors.NewInternalError(err)
	}

	// the table slot stays reserved; the zero timestamp marks it delivered
	msg.SentAt = time.Time{}

	// when the acknowledged message was the sender's rotation representative,
	// the sender re-enters at the rotation tail with its new oldest message,
	// which is what advances the round-robin. Acknowledging a non-head
	// message leaves the representative (still the queue head) untouched.
	if mb.rotation.Contains(id) {
		if err := mb.rotation.Remove(id); err != nil {
			return false, nil, errors.NewInternalError(err)
		}
		if queue.Len() > 0 {
			head, err := queue.Head()
			if err != nil {
				return false, nil, errors.NewInternalError(err)
			}
			if err := mb.rotation.Push(head); err != nil {
				return false, nil, errors.NewInternalError(err)
			}
		}
	}

	notification := &Notification{
		Sender:    msg.Sender,
		Recipient: mb.recipient,
		Pending:   queue.Len(),
		Timestamp: mb.clock(),
	}
	return queue.Len() > 0, notification, nil
}

// clear drains the given sender's queue, marking every pending message
// delivered, and drops the sender from the rotation. It returns the cleared
// message ids.
func (mb *Mailbox) clear(sender string) ([]string, *Notification) {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	var cleared []string
	queue := mb.senders[sender]
	if queue != nil && queue.Len() > 0 {
		if head, err := queue.Head(); err == nil && mb.rotation.Contains(head) {
			_ = mb.rotation.Remove(head)
		}
		for queue.Len() > 0 {
			id, err := queue.Shift()
			if err != nil {
				break
			}
			if msg, ok := mb.messages[id]; ok {
				msg.SentAt = time.Time{}
			}
			cleared = append(cleared, id)
		}
	}

	notification := &Notification{
		Sender:    sender,
		Recipient: mb.recipient,
		Pending:   0,
		Timestamp: mb.clock(),
	}
	return cleared, notification
}

// empty reports whether the mailbox holds no pending messages at all.
func (mb *Mailbox) empty() bool {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	return mb.rotation.Len() == 0
}
