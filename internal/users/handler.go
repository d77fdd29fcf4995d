package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dhanushsit/smart-canteen-system/internal/domain"
)

type Handler struct {
	repo   *Repository
	logger *slog.Logger
}

func NewHandler(repo *Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if user.Name == "" || user.Email == "" {
		h.writeMessage(w, http.StatusBadRequest, "name and email are required")
		return
	}

	if err := h.repo.Create(r.Context(), &user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			h.writeMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.logger.Error("failed to create user", "error", err)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	h.writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	current, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.respondRepoError(w, err, id)
		return
	}

	var req struct {
		Name    *string  `json:"name"`
		Email   *string  `json:"email"`
		Role    *string  `json:"role"`
		Balance *float64 `json:"balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Email != nil {
		current.Email = *req.Email
	}
	if req.Role != nil {
		current.Role = *req.Role
	}
	if req.Balance != nil {
		current.Balance = *req.Balance
	}

	if err := h.repo.Update(r.Context(), current); err != nil {
		h.respondRepoError(w, err, id)
		return
	}

	h.writeJSON(w, http.StatusOK, current)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.respondRepoError(w, err, id)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (h *Handler) respondRepoError(w http.ResponseWriter, err error, id string) {
	if errors.Is(err, ErrUserNotFound) {
		h.writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	h.logger.Error("user operation failed", "error", err, "user_id", id)
	h.writeMessage(w, http.StatusInternalServerError, "internal server error")
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
