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
	"context"
	"encoding/json"
	"sort"
	"time"

	"go.uber.org/multierr"

	"github.com/tochemey/postbox/errors"
	"github.com/tochemey/postbox/eventstream"
	"github.com/tochemey/postbox/internal/syncmap"
	"github.com/tochemey/postbox/log"
	"github.com/tochemey/postbox/store"
)

// storeNamespace groups all mailbox records in the backing key-value store.
const storeNamespace = "mailbox"

// Service is the process-wide registry mapping recipient identities to their
// mailboxes. Mailboxes are created lazily on first touch and are never
// evicted while they hold pending messages.
//
// Every successful state-changing call publishes a Notification to the
// firehose topic and to the recipient's topic. When a store is configured,
// committed messages are written through to it and removed again on
// acknowledge or clear, so a restarted service can Restore its pending state.
type Service struct {
	mailboxes *syncmap.SyncMap[string, *Mailbox]
	stream    eventstream.Stream
	store     store.Store
	logger    log.Logger
	clock     func() time.Time
}

// NewService creates an instance of Service.
func NewService(opts ...Option) *Service {
	svc := &Service{
		mailboxes: syncmap.New[string, *Mailbox](),
		stream:    eventstream.New(),
		logger:    log.DiscardLogger,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt.Apply(svc)
	}
	return svc
}

// Write deposits a message from the given sender into the recipient's
// mailbox and returns the message id. It fails with ErrMailboxFull when the
// (sender, recipient) pair has reached its capacity bound, leaving the
// mailbox unchanged. With anonymous set, the stored sender identity is the
// reserved Anonymous lane.
func (s *Service) Write(ctx context.Context, recipient, sender string, payload []byte, anonymous bool) (string, error) {
	mb := s.mailbox(recipient)
	id, msg, notification, err := mb.write(sender, payload, anonymous)
	if err != nil {
		return "", err
	}

	s.persist(ctx, recipient, id, msg)
	s.publish(recipient, notification)
	s.logger.Debugf("wrote message=(%s) sender=(%s) recipient=(%s) pending=(%d)",
		id, notification.Sender, recipient, notification.Pending)
	return id, nil
}

// ReadFrom returns the oldest pending message from the given sender, or the
// empty sentinel ("", nil) when nothing is pending. It never removes the
// message; repeated calls return the identical result.
func (s *Service) ReadFrom(recipient, sender string) (string, *Message) {
	mb, ok := s.mailboxes.Get(recipient)
	if !ok {
		return "", nil
	}
	return mb.ReadFrom(sender)
}

// ReadNext returns the oldest pending message of the sender at the head of
// the recipient's rotation, or the empty sentinel when the mailbox is empty.
func (s *Service) ReadNext(recipient string) (string, *Message) {
	mb, ok := s.mailboxes.Get(recipient)
	if !ok {
		return "", nil
	}
	return mb.ReadNext()
}

// Acknowledge marks the message delivered and reports whether more messages
// remain pending from the same sender. It fails with ErrMessageNotFound when
// the id is unknown or already acknowledged.
func (s *Service) Acknowledge(ctx context.Context, recipient, id string) (bool, error) {
	mb, ok := s.mailboxes.Get(recipient)
	if !ok {
		return false, errors.NewErrMessageNotFound(id)
	}

	more, notification, err := mb.acknowledge(id)
	if err != nil {
		return false, err
	}

	s.unpersist(ctx, recipient, id)
	s.publish(recipient, notification)
	s.logger.Debugf("acknowledged message=(%s) recipient=(%s) pending=(%d)",
		id, recipient, notification.Pending)
	return more, nil
}

// Clear drains every pending message from the given sender to the recipient.
func (s *Service) Clear(ctx context.Context, recipient, sender string) error {
	mb, ok := s.mailboxes.Get(recipient)
	if !ok {
		return nil
	}

	cleared, notification := mb.clear(sender)
	for _, id := range cleared {
		s.unpersist(ctx, recipient, id)
	}
	s.publish(recipient, notification)
	s.logger.Debugf("cleared %d message(s) sender=(%s) recipient=(%s)",
		len(cleared), sender, recipient)
	return nil
}

// CountPending returns the number of undelivered messages from the given
// sender to the recipient.
func (s *Service) CountPending(recipient, sender string) int {
	mb, ok := s.mailboxes.Get(recipient)
	if !ok {
		return 0
	}
	return mb.CountPending(sender)
}

// CountActiveSenders returns the number of senders with pending mail for the
// recipient.
func (s *Service) CountActiveSenders(recipient string) int {
	mb, ok := s.mailboxes.Get(recipient)
	if !ok {
		return 0
	}
	return mb.CountActiveSenders()
}

// Drop removes the recipient's mailbox from the registry. It fails with
// ErrMailboxNotEmpty while any sender still has pending messages: evicting a
// live mailbox would silently break the capacity and rotation bookkeeping.
func (s *Service) Drop(recipient string) error {
	mb, ok := s.mailboxes.Get(recipient)
	if !ok {
		return nil
	}
	if !mb.empty() {
		return errors.NewErrMailboxNotEmpty(recipient)
	}
	s.mailboxes.Delete(recipient)
	return nil
}

// Subscribe registers a new subscriber on the given notification topics,
// defaulting to the firehose topic. Use mailbox.Topic to scope a
// subscription to one recipient.
func (s *Service) Subscribe(topics ...string) eventstream.Subscriber {
	sub := s.stream.AddSubscriber()
	if len(topics) == 0 {
		topics = []string{TopicAll}
	}
	for _, topic := range topics {
		s.stream.Subscribe(sub, topic)
	}
	return sub
}

// Unsubscribe removes the given subscriber from the notification stream.
func (s *Service) Unsubscribe(sub eventstream.Subscriber) {
	s.stream.RemoveSubscriber(sub)
}

// Restore reloads every pending message found in the configured store and
// replays it through the write path, oldest first. Per-sender FIFO order is
// exact; rotation order across senders follows the original write order.
// Restore publishes no notifications: the messages were already announced
// when first committed.
func (s *Service) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	keys, err := s.store.Keys(ctx, storeNamespace)
	if err != nil {
		return err
	}

	records := make([]*messageRecord, 0, len(keys))
	for _, key := range keys {
		raw, ok, err := s.store.Get(ctx, storeNamespace, key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		record := new(messageRecord)
		if err := json.Unmarshal(raw, record); err != nil {
			s.logger.Warnf("skipping unreadable record key=(%s): %v", key, err)
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Message.SentAt.Before(records[j].Message.SentAt)
	})

	for _, record := range records {
		mb := s.mailbox(record.Recipient)
		if _, err := mb.restore(record.Message); err != nil {
			return err
		}
	}

	s.logger.Infof("restored %d pending message(s)", len(records))
	return nil
}

// Close shuts down the notification stream and the backing store when one is
// configured.
func (s *Service) Close() error {
	s.stream.Close()
	var err error
	if s.store != nil {
		err = multierr.Append(err, s.store.Close())
	}
	return err
}

func (s *Service) mailbox(recipient string) *Mailbox {
	return s.mailboxes.GetOrSet(recipient, func() *Mailbox {
		return newMailbox(recipient, s.clock)
	})
}

func (s *Service) publish(recipient string, notification *Notification) {
	s.stream.Broadcast(notification, []string{TopicAll, Topic(recipient)})
}

// messageRecord is the store encoding of a committed message.
type messageRecord struct {
	Recipient string   `json:"recipient"`
	Message   *Message `json:"message"`
}

// persist writes the committed message through to the store. Durability here
// is best effort on top of an already committed mutation: a store failure is
// logged, not surfaced, per the persistence non-goal.
func (s *Service) persist(ctx context.Context, recipient, id string, msg *Message) {
	if s.store == nil {
		return
	}
	raw, err := json.Marshal(&messageRecord{Recipient: recipient, Message: msg})
	if err != nil {
		s.logger.Warnf("encoding message=(%s) recipient=(%s): %v", id, recipient, err)
		return
	}
	if err := s.store.Put(ctx, storeNamespace, storeKey(recipient, id), raw); err != nil {
		s.logger.Warnf("persisting message=(%s) recipient=(%s): %v", id, recipient, err)
	}
}

func (s *Service) unpersist(ctx context.Context, recipient, id string) {
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, storeNamespace, storeKey(recipient, id)); err != nil {
		s.logger.Warnf("deleting message=(%s) recipient=(%s): %v", id, recipient, err)
	}
}

func storeKey(recipient, id string) string {
	return recipient + "/" + id
}
