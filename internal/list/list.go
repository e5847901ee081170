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

// Package list implements an intrusive doubly-linked list of unique string
// items stored in a flat key-addressed node table. The table is keyed by the
// item's own value rather than a separate position handle, which keeps every
// operation a plain key lookup: tail-insert, head-peek, head-removal and
// removal of an arbitrary item by key are all O(1).
//
// The list is circular between two fixed sentinel nodes whose reserved keys
// mark the head and tail boundaries. Emptying the list leaves the sentinel
// pair intact with a size of zero.
package list

import "github.com/tochemey/postbox/errors"

// Reserved sentinel keys framing the list boundary. Item keys start with a
// NUL byte only here, so live items can never collide with them.
const (
	preHead  = "\x00pre_head"
	postTail = "\x00post_tail"
)

// node carries the keys of its two neighbors. The item value is the node's
// own table key, so it is not stored again.
type node struct {
	next string
	prev string
}

// List is an indexed doubly-linked list of unique string items.
//
// The zero value is usable: every operation initializes the sentinel pair on
// first touch. List is not safe for concurrent use; callers serialize access.
type List struct {
	nodes map[string]*node
	size  int
}

// New creates an initialized List.
func New() *List {
	l := &List{}
	l.Init()
	return l
}

// Init materializes the sentinel pair. It is idempotent and safe to call on
// every access: when the pre-head sentinel already has a next link the call
// is a no-op.
func (l *List) Init() {
	if l.nodes == nil {
		l.nodes = make(map[string]*node)
	}
	if boundary, ok := l.nodes[preHead]; ok && boundary.next != "" {
		return
	}
	l.nodes[preHead] = &node{next: postTail}
	l.nodes[postTail] = &node{prev: preHead}
}

// Len returns the number of live (non-sentinel) items.
func (l *List) Len() int {
	return l.size
}

// Contains reports whether the given item is present.
func (l *List) Contains(item string) bool {
	if l.nodes == nil {
		return false
	}
	_, ok := l.nodes[item]
	return ok && item != preHead && item != postTail
}

// Push appends the given item at the tail. It fails with ErrDuplicateItem
// when the item's node slot is already occupied: the table is value-keyed, so
// a duplicate insert would alias the existing node instead of creating a new
// one.
func (l *List) Push(item string) error {
	l.Init()
	if item == "" || item == preHead || item == postTail {
		return errors.ErrReservedItem
	}
	if _, ok := l.nodes[item]; ok {
		return errors.ErrDuplicateItem
	}

	// splice just before the tail sentinel
	tail := l.nodes[postTail]
	last := tail.prev
	l.nodes[item] = &node{prev: last, next: postTail}
	l.nodes[last].next = item
	tail.prev = item
	l.size++
	return nil
}

// Head returns the first item without removing it. It fails with ErrEmptyList
// when the list holds no live items.
func (l *List) Head() (string, error) {
	if l.size == 0 {
		return "", errors.ErrEmptyList
	}
	return l.nodes[preHead].next, nil
}

// Shift removes and returns the first item. It fails with ErrEmptyList when
// the list holds no live items.
func (l *List) Shift() (string, error) {
	head, err := l.Head()
	if err != nil {
		return "", err
	}
	if err := l.Remove(head); err != nil {
		return "", err
	}
	return head, nil
}

// Remove unlinks the given item wherever it sits, using the neighbor keys
// stored in its node. It fails with ErrEmptyList when the list is empty and
// with ErrItemNotFound when the item is absent.
func (l *List) Remove(item string) error {
	if l.size == 0 {
		return errors.ErrEmptyList
	}
	if item == preHead || item == postTail {
		return errors.ErrItemNotFound
	}
	current, ok := l.nodes[item]
	if !ok {
		return errors.ErrItemNotFound
	}

	l.nodes[current.prev].next = current.next
	l.nodes[current.next].prev = current.prev
	delete(l.nodes, item)
	l.size--
	return nil
}

// Items walks the list from head to tail and returns the live items in order.
// This is O(n) and used for diagnostics and invariant checks only.
func (l *List) Items() []string {
	if l.size == 0 {
		return nil
	}
	items := make([]string, 0, l.size)
	for key := l.nodes[preHead].next; key != postTail; key = l.nodes[key].next {
		items = append(items, key)
	}
	return items
}
