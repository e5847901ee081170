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

import "time"

// TopicAll is the firehose notification topic carrying every mailbox update.
const TopicAll = "mailbox.updates"

// Topic returns the notification topic scoped to the given recipient.
func Topic(recipient string) string {
	return TopicAll + "." + recipient
}

// Notification is the update record published to the event stream after every
// successful state-changing call. It is emitted only once the mutation has
// committed; a failed write or acknowledge publishes nothing.
type Notification struct {
	// Sender is the effective sender whose queue changed.
	Sender string `json:"sender"`
	// Recipient owns the mailbox that changed.
	Recipient string `json:"recipient"`
	// Pending is the sender's queue size after the change.
	Pending int `json:"pending"`
	// Timestamp is the host time of the change.
	Timestamp time.Time `json:"timestamp"`
}
