// Package frame provides the tick sources that drive avatar animation:
// an observer Signal with cancellable subscriptions and a fixed-rate Loop.
package frame

import (
	"sync"

	"github.com/google/uuid"
)

// Handler receives the frame delta time in seconds.
type Handler func(deltaTime float64)

// Cancel removes a subscription. Calling it more than once is safe.
type Cancel func()

type subscription struct {
	id uuid.UUID
	fn Handler
}

// Signal fans a frame delta out to its subscribers in subscription order.
// It is safe for concurrent use.
type Signal struct {
	mu   sync.RWMutex
	subs []subscription
}

// NewSignal creates a signal with no subscribers.
func NewSignal() *Signal {
	return &Signal{}
}

// Subscribe registers h and returns the handle that removes it.
func (s *Signal) Subscribe(h Handler) Cancel {
	id := uuid.New()

	s.mu.Lock()
	s.subs = append(s.subs, subscription{id: id, fn: h})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Signal) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Emit calls every subscriber with deltaTime. Handlers run outside the
// lock, so they may subscribe or cancel during the call.
func (s *Signal) Emit(deltaTime float64) {
	s.mu.RLock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(deltaTime)
	}
}

// Len returns the number of live subscriptions.
func (s *Signal) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
