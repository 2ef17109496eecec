package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Hub fans change hints out to subscribers. Hints coalesce: a subscriber
// that has not drained its previous hint does not receive another one.
type Hub struct {
	mu   sync.Mutex
	subs map[uuid.UUID]chan struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]chan struct{})}
}

// Subscribe registers a subscriber until ctx is done, then closes its channel.
func (h *Hub) Subscribe(ctx context.Context) <-chan struct{} {
	id := uuid.New()
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Notify sends a hint to every subscriber without blocking.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
