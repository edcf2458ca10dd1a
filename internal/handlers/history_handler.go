package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tagvault/mediasearch/internal/models"
	"go.uber.org/zap"
)

// HistoryService is the interface that wraps the view history report
type HistoryService interface {
	// Method History returns at most 30 recent views of a user, newest first.
	History(ctx context.Context, userID int) ([]models.HistoryItem, error)
}

// HistoryHandler handles HTTP requests for view history
type HistoryHandler struct {
	BaseHandler
	service HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(svc HistoryService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all history handler routes
func (h *HistoryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Get("/history", h.GetHistory)
}

// GetHistory handles GET /api/v1/history
// @Summary Get view history
// @Description Get the 30 most recent views of the authenticated user, newest first
// @Tags history
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.HistoryItem "Empty array if nothing was viewed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to fetch history"
// @Router /api/v1/history [get]
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	items, err := h.service.History(r.Context(), userID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to fetch history")
		return
	}

	h.respondJSON(w, http.StatusOK, items)
}
