// Package tokenchannel carries authentication token changes between the
// place a login happens and every dispatcher that must honor it, the way a
// storage event reaches other browser tabs. An empty token means logout.
package tokenchannel

import (
	"sync"
)

// Channel is a subscribe/notify source of token updates.
type Channel interface {
	// Subscribe registers fn for future token updates and returns an
	// unsubscribe function.
	Subscribe(fn func(token string)) (unsubscribe func())
	// Publish delivers a new token to all subscribers.
	Publish(token string) error
	Close() error
}

// Memory is an in-process channel. Delivery is synchronous, in subscription
// order.
type Memory struct {
	mu     sync.Mutex
	subs   map[int]func(string)
	nextID int
	closed bool
}

// NewMemory creates an in-process token channel.
func NewMemory() *Memory {
	return &Memory{subs: make(map[int]func(string))}
}

func (m *Memory) Subscribe(fn func(token string)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Memory) Publish(token string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	fns := make([]func(string), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(token)
	}
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.subs = make(map[int]func(string))
	m.mu.Unlock()
	return nil
}
