package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tagvault/mediasearch/internal/models"
	"github.com/tagvault/mediasearch/internal/services"
	"go.uber.org/zap"
)

// SearchService is the interface that wraps the tag search pipeline
type SearchService interface {
	// Method Search matches tags and walks every resolved item through the sink.
	//
	// Please reference services.ResultSink for the order of events and the services errors for failure values.
	Search(ctx context.Context, userID int, tags []string, sink services.ResultSink) (int, error)
}

// RatingService is the interface that wraps average rating lookup
type RatingService interface {
	Average(ctx context.Context, ref models.MediaRef) models.AverageRating
}

// ActivityService is the interface that wraps rating submission
type ActivityService interface {
	// Method SubmitRating validates and upserts a rating.
	//
	// Values outside 1..5 give services.ErrInvalidRating.
	SubmitRating(ctx context.Context, userID int, ref models.MediaRef, value int) error
}

// MediaHandler handles HTTP requests for media search and ratings
type MediaHandler struct {
	BaseHandler
	search   SearchService
	ratings  RatingService
	activity ActivityService
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(search SearchService, ratings RatingService, activity ActivityService, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		BaseHandler: BaseHandler{logger: logger},
		search:      search,
		ratings:     ratings,
		activity:    activity,
	}
}

// SearchResult represents one resolved media item in a search response
type SearchResult struct {
	Item   *models.MediaItem    `json:"item"`
	Rating models.AverageRating `json:"rating"`
}

// SearchResponse represents the response of a tag search
type SearchResponse struct {
	Tags    []string          `json:"tags"`
	Results []SearchResult    `json:"results"`
	Failed  []models.MediaRef `json:"failed,omitempty"`
}

// SearchErrorResponse reports matched items that could not be loaded
type SearchErrorResponse struct {
	Error  string            `json:"error"`
	Failed []models.MediaRef `json:"failed"`
}

// RatingRequest represents a rating submission body
type RatingRequest struct {
	Rating int `json:"rating"`
}

// RegisterRoutes registers all media handler routes
func (h *MediaHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/media", func(r chi.Router) {
		r.Get("/{type}/{id}/rating", h.GetRating)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Get("/search", h.Search)
			r.Put("/{type}/{id}/rating", h.SubmitRating)
		})
	})
}

// collectingSink gathers search events for a JSON response; ratings are never requested over HTTP
type collectingSink struct {
	response *SearchResponse
}

func (s *collectingSink) ItemFailed(ref models.MediaRef, err error) {
	s.response.Failed = append(s.response.Failed, ref)
}

func (s *collectingSink) Display(item *models.MediaItem, rating models.AverageRating) {
	s.response.Results = append(s.response.Results, SearchResult{Item: item, Rating: rating})
}

func (s *collectingSink) RequestRating(item *models.MediaItem) (int, bool) {
	return 0, false
}

func (s *collectingSink) RatingSubmitted(item *models.MediaItem, value int, err error) {}

// Search handles GET /api/v1/media/search
// @Summary Search media by tags
// @Description Find media carrying all comma-separated tags. Every returned item is recorded in the view history.
// @Tags media
// @Produce json
// @Security ApiKeyAuth
// @Param tags query string true "Comma-separated tags"
// @Success 200 {object} SearchResponse
// @Failure 400 {object} map[string]string "No valid tags"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No media matched all tags"
// @Failure 500 {object} SearchErrorResponse "Every matched item failed to load"
// @Router /api/v1/media/search [get]
func (h *MediaHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	tags := services.ParseTagInput(r.URL.Query().Get("tags"))
	if len(tags) == 0 {
		h.respondError(w, http.StatusBadRequest, "no valid tags")
		return
	}

	response := &SearchResponse{Tags: tags, Results: []SearchResult{}}
	_, err := h.search.Search(r.Context(), userID, tags, &collectingSink{response: response})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoTags):
			h.respondError(w, http.StatusBadRequest, "no valid tags")
		case errors.Is(err, services.ErrNoResults) && len(response.Failed) > 0:
			h.logger.Error("every matched item failed", zap.Strings("tags", tags), zap.Int("failed", len(response.Failed)))
			h.respondJSON(w, http.StatusInternalServerError, SearchErrorResponse{
				Error:  "failed to load matched media",
				Failed: response.Failed,
			})
		case errors.Is(err, services.ErrNoResults):
			h.respondError(w, http.StatusNotFound, "no results")
		default:
			h.logger.Error("search failed", zap.Error(err), zap.Strings("tags", tags))
			h.respondError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, response)
}

// GetRating handles GET /api/v1/media/{type}/{id}/rating
// @Summary Get average rating
// @Description Get the average rating of a media item. Status is "none" for unrated items and "unavailable" when it could not be computed.
// @Tags media
// @Produce json
// @Param type path string true "Media type: image, audio or video"
// @Param id path int true "Media ID"
// @Success 200 {object} models.AverageRating
// @Failure 400 {object} map[string]string "Invalid media type or ID"
// @Router /api/v1/media/{type}/{id}/rating [get]
func (h *MediaHandler) GetRating(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.mediaRef(w, r)
	if !ok {
		return
	}

	h.respondJSON(w, http.StatusOK, h.ratings.Average(r.Context(), ref))
}

// SubmitRating handles PUT /api/v1/media/{type}/{id}/rating
// @Summary Rate a media item
// @Description Create or replace the authenticated user's rating of a media item
// @Tags media
// @Accept json
// @Security ApiKeyAuth
// @Param type path string true "Media type: image, audio or video"
// @Param id path int true "Media ID"
// @Param rating body RatingRequest true "Rating between 1 and 5"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid media type, ID, body or rating"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to save rating"
// @Router /api/v1/media/{type}/{id}/rating [put]
func (h *MediaHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	ref, ok := h.mediaRef(w, r)
	if !ok {
		return
	}

	var req RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.activity.SubmitRating(r.Context(), userID, ref, req.Rating); err != nil {
		if errors.Is(err, services.ErrInvalidRating) || errors.Is(err, models.ErrUnknownMediaType) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to submit rating", zap.Error(err), zap.Int("user_id", userID))
		h.respondError(w, http.StatusInternalServerError, "failed to save rating")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// mediaRef parses the {type} and {id} path parameters; it writes a 400 and returns false when invalid
func (h *MediaHandler) mediaRef(w http.ResponseWriter, r *http.Request) (models.MediaRef, bool) {
	mediaType, ok := models.ParseMediaType(chi.URLParam(r, "type"))
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid media type")
		return models.MediaRef{}, false
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		h.respondError(w, http.StatusBadRequest, "invalid media ID")
		return models.MediaRef{}, false
	}

	return models.MediaRef{ID: id, Type: mediaType}, true
}
