package complaints

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dhanushsit/smart-canteen-system/internal/domain"
)

// Notifier matches the intake service's notification sink; complaint
// submission reuses the same channel to alert admin dashboards.
type Notifier interface {
	Notify(ctx context.Context, event string, payload any) error
}

type Handler struct {
	repo     *Repository
	notifier Notifier
	logger   *slog.Logger
}

func NewHandler(repo *Repository, notifier Notifier, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list complaints", "error", err)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Message string `json:"message"`
	Photo   string `json:"photo"`
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Message == "" {
		h.writeMessage(w, http.StatusBadRequest, "Name, email, and message are required")
		return
	}

	contact := req.Contact
	if contact == "" {
		contact = "N/A"
	}

	complaint := &domain.Complaint{
		Name:    req.Name,
		Email:   req.Email,
		Contact: contact,
		Message: req.Message,
		Photo:   req.Photo,
		Date:    time.Now().UTC(),
		Status:  domain.ComplaintStatusUnread,
	}

	if err := h.repo.Create(r.Context(), complaint); err != nil {
		h.logger.Error("failed to create complaint", "error", err)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.notifier != nil {
		event := domain.NewComplaintEvent{
			ID:      complaint.ID,
			Name:    complaint.Name,
			Message: complaint.Message,
		}
		if err := h.notifier.Notify(r.Context(), domain.EventNewComplaint, event); err != nil {
			h.logger.Error("failed to publish complaint event", "error", err, "complaint_id", complaint.ID)
		}
	}

	h.logger.Info("complaint submitted", "complaint_id", complaint.ID)
	h.writeJSON(w, http.StatusCreated, complaint)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrComplaintNotFound) {
			h.writeMessage(w, http.StatusNotFound, "Complaint not found")
			return
		}
		h.logger.Error("failed to delete complaint", "error", err, "complaint_id", id)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Complaint deleted"})
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
