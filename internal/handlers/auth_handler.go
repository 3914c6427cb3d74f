package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coursehub/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register validates and creates a user account and returns access and refresh tokens.
	//
	// "req" parameter contains email, password, names and the optional role (STUDENT by default).
	//
	// If the request is invalid or the email is taken, a *models.ValidationError is returned together with empty strings for both tokens.
	Register(ctx context.Context, req *models.RegisterRequest) (string, string, error)
	// Method Login checks user credentials and returns access and refresh tokens.
	//
	// "req" parameter contains email and password.
	//
	// If the credentials do not match, models.ErrInvalidCredentials is returned together with empty strings for both tokens.
	Login(ctx context.Context, req *models.LoginRequest) (string, string, error)
	// Method Refresh validates a refresh token and returns a new token pair.
	//
	// "refreshToken" parameter is used to identify the user.
	//
	// If the refresh token is invalid or expired, an error wrapping models.ErrInvalidCredentials is returned together with empty strings for both tokens.
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

// TokenResponse carries the issued token pair
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService   AuthService
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthHandler creates a new auth handler.
// Token cookies live as long as the tokens they carry.
func NewAuthHandler(authService AuthService, accessExpiry, refreshExpiry time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		authService:   authService,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
	})
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Register a new user. The role defaults to STUDENT. Tokens are returned in the body and as HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} TokenResponse
// @Failure 400 {object} ErrorResponse "Invalid request or email taken"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	accessToken, refreshToken, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "register user")
		return
	}

	h.setTokenCookies(w, accessToken, refreshToken)
	h.RespondJSON(w, http.StatusCreated, TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with email and password. Tokens are returned in the body and as HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	accessToken, refreshToken, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "login user")
		return
	}

	h.setTokenCookies(w, accessToken, refreshToken)
	h.RespondJSON(w, http.StatusOK, TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken})
}

// Refresh handles POST /auth/refresh
// @Summary Refresh tokens
// @Description Issue a new token pair for a valid refresh token. The token can be provided in the request body or as a cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest false "Refresh token request (optional if using cookie)"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} ErrorResponse "Refresh token required"
// @Failure 401 {object} ErrorResponse "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	var req RefreshRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		refreshToken = req.RefreshToken
	} else {
		cookie, err := r.Cookie("refresh_token")
		if err != nil {
			h.RespondError(w, http.StatusBadRequest, "refresh token required")
			return
		}
		refreshToken = cookie.Value
	}

	accessToken, newRefreshToken, err := h.authService.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.Logger.Info("refresh rejected", zap.Error(err))
		h.RespondServiceError(w, err, "refresh tokens")
		return
	}

	h.setTokenCookies(w, accessToken, newRefreshToken)
	h.RespondJSON(w, http.StatusOK, TokenResponse{AccessToken: accessToken, RefreshToken: newRefreshToken})
}

// setTokenCookies sets access and refresh tokens as HTTP-only cookies
func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.accessExpiry.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.refreshExpiry.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
