package chat

import (
	"sync"

	"utilhub/internal/domain"
)

const subscriberBuffer = 16

// Hub fans chat messages out to connected stream subscribers.
type Hub struct {
	mu   sync.Mutex
	subs map[chan domain.ChatMessage]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan domain.ChatMessage]struct{})}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away.
func (h *Hub) Subscribe() (<-chan domain.ChatMessage, func()) {
	ch := make(chan domain.ChatMessage, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers msg to every subscriber. Slow subscribers whose buffer
// is full miss the message instead of blocking the sender.
func (h *Hub) Publish(msg domain.ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}
