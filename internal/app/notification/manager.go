// Package notification broadcasts toasts to subscribers.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

// Stream represents a toast stream for a subscriber.
type Stream interface {
	Send(*Toast) error
}

// subscription represents a subscriber's subscription.
type subscription struct {
	id     string
	stream Stream
}

// Manager manages toast subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sequenceNo    uint64
	last          *Toast

	sendTimeout time.Duration
	now         func() time.Time
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
		sendTimeout:   500 * time.Millisecond,
		now:           time.Now,
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions[id] = &subscription{
		id:     id,
		stream: stream,
	}
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, subscriptionID)
}

// Notify creates a toast and broadcasts it.
func (m *Manager) Notify(t ToastType, message string) *Toast {
	toast := NewToast(t, message, m.now())
	m.Broadcast(toast)
	return toast
}

// Broadcast stamps the toast with the next sequence number, remembers it as the
// last toast and sends it to all subscribers. Slow subscribers are skipped after
// the send timeout.
func (m *Manager) Broadcast(toast *Toast) {
	m.mu.Lock()
	m.sequenceNo++
	toast.SequenceNo = m.sequenceNo
	m.last = toast
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), m.sendTimeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- s.stream.Send(toast)
			}()

			select {
			case err := <-done:
				if err != nil {
					zlog.Debug().Msgf("toast send failed: subscription=%s error=%v", s.id, err)
				}
			case <-ctx.Done():
				zlog.Debug().Msgf("toast send timed out: subscription=%s", s.id)
			}
		}(sub)
	}
	wg.Wait()
}

// Last returns the most recent toast while it is still visible.
func (m *Manager) Last() *Toast {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil || m.last.Expired(m.now()) {
		return nil
	}
	return m.last
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription)
}
