package services

import (
	"sync"

	"pressroom/internal/logger"

	"go.uber.org/zap"
)

// ChangeEvent is a cache-invalidation signal, not an event-sourcing
// record: subscribers re-fetch current state instead of trusting the
// payload.
type ChangeEvent struct {
	Event  string `json:"event"`
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

// ChangeHub fans article mutations out to subscribed admin sessions.
// Delivery is at-most-once per subscriber per event; a burst of writes
// coalesces into a single pending event because each subscription
// holds a one-slot buffer and publish never blocks.
type ChangeHub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

type Subscription struct {
	hub   *ChangeHub
	table string
	ch    chan ChangeEvent
	once  sync.Once
}

func NewChangeHub() *ChangeHub {
	return &ChangeHub{subs: make(map[*Subscription]struct{})}
}

// Subscribe opens a long-lived stream of change events for the given
// table. The stream is not restartable: a dropped consumer calls
// Subscribe again.
func (h *ChangeHub) Subscribe(table string) *Subscription {
	sub := &Subscription{
		hub:   h,
		table: table,
		ch:    make(chan ChangeEvent, 1),
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()

	logger.Log.Debug("realtime subscriber added", zap.String("table", table), zap.Int("subscribers", n))
	return sub
}

// Publish delivers the event to every current subscriber of its table.
// A subscriber that already has an undelivered event keeps exactly one
// pending event (coalescing), so a slow consumer never blocks writers.
func (h *ChangeHub) Publish(ev ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if sub.table != ev.Table {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// C is the receive side of the subscription.
func (s *Subscription) C() <-chan ChangeEvent { return s.ch }

// Close releases the subscription. Safe to call more than once; the
// owning session calls it on disconnect, including abnormal ones via
// request-context cancellation.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		n := len(s.hub.subs)
		s.hub.mu.Unlock()

		close(s.ch)
		logger.Log.Debug("realtime subscriber removed", zap.String("table", s.table), zap.Int("subscribers", n))
	})
}
