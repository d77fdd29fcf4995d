package catalog

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
	products, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

type productRequest struct {
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Category string   `json:"category"`
	Image    string   `json:"image"`
	Stock    int      `json:"stock"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Price == nil || req.Category == "" {
		h.writeMessage(w, http.StatusBadRequest, "Name, price, and category are required")
		return
	}
	if *req.Price < 0 || req.Stock < 0 {
		h.writeMessage(w, http.StatusBadRequest, "price and stock must not be negative")
		return
	}

	product := &domain.Product{
		Name:     req.Name,
		Price:    *req.Price,
		Category: req.Category,
		Image:    req.Image,
		Stock:    req.Stock,
	}

	if err := h.repo.Create(r.Context(), product); err != nil {
		h.logger.Error("failed to create product", "error", err)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	current, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.respondRepoError(w, err, id)
		return
	}

	var req struct {
		Name     *string  `json:"name"`
		Price    *float64 `json:"price"`
		Category *string  `json:"category"`
		Image    *string  `json:"image"`
		Stock    *int     `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Price != nil {
		current.Price = *req.Price
	}
	if req.Category != nil {
		current.Category = *req.Category
	}
	if req.Image != nil {
		current.Image = *req.Image
	}
	if req.Stock != nil {
		current.Stock = *req.Stock
	}

	if err := h.repo.Update(r.Context(), current); err != nil {
		h.respondRepoError(w, err, id)
		return
	}

	h.writeJSON(w, http.StatusOK, current)
}

type stockRequest struct {
	Stock int `json:"stock"`
}

func (h *Handler) HandleSetStock(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Stock < 0 {
		h.writeMessage(w, http.StatusBadRequest, "stock must not be negative")
		return
	}

	product, err := h.repo.SetStock(r.Context(), id, req.Stock)
	if err != nil {
		h.respondRepoError(w, err, id)
		return
	}

	h.logger.Info("stock updated", "product_id", id, "stock", req.Stock)
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.respondRepoError(w, err, id)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func (h *Handler) respondRepoError(w http.ResponseWriter, err error, id string) {
	if errors.Is(err, ErrProductNotFound) {
		h.writeMessage(w, http.StatusNotFound, "Product not found")
		return
	}
	h.logger.Error("product operation failed", "error", err, "product_id", id)
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
