package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tagvault/mediasearch/internal/models"
	"github.com/tagvault/mediasearch/internal/services"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps credential verification
type AuthService interface {
	// Method Login returns the user for a valid username and password pair.
	//
	// Invalid credentials give services.ErrInvalidCredentials; other errors are store failures.
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// TokenGenerator issues access tokens for authenticated users
type TokenGenerator interface {
	GenerateAccessToken(userID int) (string, error)
}

// AuthHandler handles HTTP requests for sessions
type AuthHandler struct {
	BaseHandler
	service AuthService
	tokens  TokenGenerator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc AuthService, tokens TokenGenerator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{logger: logger},
		service:     svc,
		tokens:      tokens,
	}
}

// LoginRequest represents a login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	UserID      int    `json:"userId"`
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Description Verify username and password and issue an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid username or password"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.respondError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := h.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		h.logger.Error("failed to generate access token", zap.Error(err), zap.Int("user_id", user.ID))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondJSON(w, http.StatusOK, LoginResponse{AccessToken: token, UserID: user.ID})
}
