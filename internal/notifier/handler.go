package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dhanushsit/smart-canteen-system/internal/domain"
)

type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// HandleEnvelope is the Kafka consumer callback: it decodes the notification
// envelope and fans it out to every connected client.
func (h *Handler) HandleEnvelope(ctx context.Context, payload []byte) error {
	var envelope domain.Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		// A malformed envelope is dropped, not retried; failing here would
		// wedge the consumer on the same message forever.
		h.logger.Error("dropping malformed notification envelope", "error", err)
		return nil
	}

	h.hub.Broadcast(Message{Event: envelope.Event, Data: envelope.Payload})
	h.logger.Info("notification broadcast", "event", envelope.Event, "subscribers", h.hub.Subscribers())
	return nil
}

// HandleEvents streams notifications to a dashboard client over SSE until the
// client disconnects.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(ch)

	h.logger.Info("client subscribed", "remote", r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("client disconnected", "remote", r.RemoteAddr)
			return
		case msg := <-ch:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data); err != nil {
				h.logger.Warn("failed to write event to client", "error", err, "remote", r.RemoteAddr)
				return
			}
			flusher.Flush()
		}
	}
}
