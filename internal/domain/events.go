package domain

import (
	"encoding/json"
	"time"
)

// Event names as seen by dashboard clients. The field names in the payloads
// below are part of the client contract and must not change.
const (
	EventOrderReceived      = "order_received"
	EventOrderStatusUpdated = "order_status_updated"
	EventNewComplaint       = "new_complaint"
)

type OrderReceivedEvent struct {
	OrderID  string  `json:"orderId"`
	UserName string  `json:"userName"`
	Total    float64 `json:"total"`
}

type OrderStatusUpdatedEvent struct {
	OrderID string      `json:"orderId"`
	UserID  string      `json:"userId"`
	Status  OrderStatus `json:"status"`
}

type NewComplaintEvent struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Envelope wraps every notification published to the broker so consumers can
// dispatch on the event name without knowing each payload shape.
type Envelope struct {
	EventID    string          `json:"eventId"`
	Event      string          `json:"event"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}
