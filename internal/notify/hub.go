// Package notify is the best-effort fan-out sink for finished
// notifications. Delivery is fire-and-forget: the pipeline does not await
// acknowledgment, and a slow subscriber drops messages rather than blocking
// the scheduler. Durability lives in the store, not here.
package notify

import (
	"log"
	"sync"

	"github.com/lox/weatheralert/internal/models"
)

// Transport receives finished notifications from the scheduler.
type Transport interface {
	Publish(n models.AlertNotification)
}

const subscriberBuffer = 16

// Hub is an in-process Transport fanning out to subscriber channels.
type Hub struct {
	mu   sync.Mutex
	subs map[chan models.AlertNotification]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan models.AlertNotification]struct{}),
	}
}

// Subscribe returns a buffered channel of notifications and a cancel
// function. After cancel returns, the channel is closed and receives
// nothing further.
func (h *Hub) Subscribe() (<-chan models.AlertNotification, func()) {
	ch := make(chan models.AlertNotification, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers n to every subscriber whose buffer has room. Full
// buffers are skipped.
func (h *Hub) Publish(n models.AlertNotification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- n:
		default:
			log.Printf("notify: dropping notification %s for slow subscriber", n.ID)
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
