package settings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dhanushsit/smart-canteen-system/internal/cache"
	"github.com/dhanushsit/smart-canteen-system/internal/domain"
)

// Handler serves the meal-timing toggles. The menu page reads them on every
// load, so GETs are cached in Redis and invalidated on writes; the cache is
// optional and all cache errors degrade to a direct database read.
type Handler struct {
	repo   *Repository
	cache  *cache.Store
	logger *slog.Logger
}

func NewHandler(repo *Repository, cacheStore *cache.Store, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		cache:  cacheStore,
		logger: logger,
	}
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		var cached domain.MealTimings
		hit, err := h.cache.GetJSON(ctx, cache.KeyMealTimings, &cached)
		if err != nil {
			h.logger.Warn("settings cache read failed", "error", err)
		} else if hit {
			h.writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	timings, err := h.repo.Get(ctx)
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, cache.KeyMealTimings, timings, cache.TTLMealTimings); err != nil {
			h.logger.Warn("settings cache write failed", "error", err)
		}
	}

	h.writeJSON(w, http.StatusOK, timings)
}

func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var patch domain.MealTimingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current, err := h.repo.Get(ctx)
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	updated := current.Apply(patch)
	if err := h.repo.Save(ctx, updated); err != nil {
		h.logger.Error("failed to save settings", "error", err)
		h.writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.cache != nil {
		if err := h.cache.Delete(ctx, cache.KeyMealTimings); err != nil {
			h.logger.Warn("settings cache invalidation failed", "error", err)
		}
	}

	h.logger.Info("meal timings updated",
		"breakfast", updated.Breakfast, "lunch", updated.Lunch,
		"dinner", updated.Dinner, "snacks", updated.Snacks)
	h.writeJSON(w, http.StatusOK, updated)
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
