package notifier

import "sync"

// Message is one named event ready to be written to a client stream.
type Message struct {
	Event string
	Data  []byte
}

// Hub broadcasts messages to every subscribed client. Sends are non-blocking:
// a client that cannot keep up loses messages rather than stalling the rest,
// since dashboards refresh their full state on every event anyway.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan Message]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Message]struct{}),
	}
}

func (h *Hub) Subscribe() chan Message {
	ch := make(chan Message, 16)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan Message) {
	h.mu.Lock()
	delete(h.subscribers, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
