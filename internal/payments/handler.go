package payments

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Handler struct {
	client *Client
	logger *slog.Logger
}

func NewHandler(client *Client, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

type createOrderRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		h.writeMessage(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	order, err := h.client.CreateOrder(r.Context(), req.Amount, req.Currency, req.Receipt)
	if err != nil {
		h.logger.Error("razorpay order creation failed", "error", err, "receipt", req.Receipt)
		h.writeMessage(w, http.StatusInternalServerError, "Failed to create Razorpay order")
		return
	}

	h.logger.Info("payment order created", "receipt", req.Receipt, "amount", req.Amount)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(order); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": message}); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
