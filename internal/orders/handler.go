package orders

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dhanushsit/smart-canteen-system/internal/domain"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type createOrderRequest struct {
	UserID     string             `json:"userId"`
	Items      []domain.OrderItem `json:"items"`
	Total      float64            `json:"total"`
	IsTestMode bool               `json:"isTestMode"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.CreateOrder(r.Context(), CreateOrderInput{
		UserID:     req.UserID,
		Items:      req.Items,
		Total:      req.Total,
		IsTestMode: req.IsTestMode,
	})
	if err != nil {
		var validationErr *ValidationError
		var outOfStock *OutOfStockError
		switch {
		case errors.As(err, &validationErr):
			h.writeMessage(w, http.StatusBadRequest, validationErr.Error())
		case errors.As(err, &outOfStock):
			h.writeMessage(w, http.StatusBadRequest, outOfStock.Error())
		case errors.Is(err, ErrStockConflict):
			h.writeMessage(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("failed to create order", "error", err, "user_id", req.UserID)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{
				"message": "Failed to create order",
				"error":   err.Error(),
			})
		}
		return
	}

	h.logger.Info("order created", "order_id", order.ID, "user_id", order.UserID, "total", order.Total)
	h.writeJSON(w, http.StatusCreated, order)
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeMessage(w, http.StatusBadRequest, "missing order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.SetOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		var validationErr *ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.writeMessage(w, http.StatusBadRequest, validationErr.Error())
		case errors.Is(err, ErrOrderNotFound):
			h.writeMessage(w, http.StatusNotFound, "Order not found")
		default:
			h.logger.Error("failed to update order status", "error", err, "id", id)
			h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.logger.Info("order status updated", "order_id", order.ID, "status", order.Status)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		h.writeMessage(w, http.StatusBadRequest, "missing user id")
		return
	}

	orders, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list user orders", "error", err, "user_id", userID)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeMessage(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"message": message})
}
