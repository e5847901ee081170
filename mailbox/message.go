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
	"encoding/binary"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"
)

const (
	// Anonymous is the reserved neutral sender identity. Writing anonymously
	// stores this identity in place of the caller's, which also collapses all
	// anonymous writers to a recipient into one shared FIFO lane: they are
	// indistinguishable to the reader and drain through a single queue.
	Anonymous = "anonymous"

	// MaxPending is the capacity bound of a single (sender, recipient) queue.
	// A write against a full queue fails with ErrMailboxFull and leaves the
	// mailbox unchanged.
	MaxPending = 10
)

// Message is a mailbox entry. It is immutable once written: the fields are
// exported for storage encoding only and must be treated as read-only.
// A zero SentAt marks the message as acknowledged even though its table slot
// still exists; the id stays reserved and is never reused.
type Message struct {
	// Sender is the effective sender identity, Anonymous for anonymous writes.
	Sender string `json:"sender"`
	// Payload is the opaque message body. Confidentiality is out of scope;
	// callers encrypt before writing when they need it.
	Payload []byte `json:"payload"`
	// SentAt is the host timestamp taken when the message was written.
	SentAt time.Time `json:"sent_at"`
}

// Acknowledged returns true once the message has been delivered and
// acknowledged by the recipient.
func (m *Message) Acknowledged() bool {
	return m.SentAt.IsZero()
}

// messageID derives the message identifier from the full message content:
// sender, payload and write timestamp. Two structurally identical messages
// written within the same timestamp granularity would collide; the write path
// rejects such a collision fail-fast instead of silently aliasing the
// existing index node.
func messageID(m *Message) string {
	buf := make([]byte, 0, len(m.Sender)+1+len(m.Payload)+8)
	buf = append(buf, m.Sender...)
	buf = append(buf, 0)
	buf = append(buf, m.Payload...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(m.SentAt.UnixNano()))
	return fmt.Sprintf("%016x", xxh3.Hash(buf))
}
