package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/security/middleware"
	"github.com/aryan0dhankhar/sitebook/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{authService: authService, logger: logger}
}

// UserResponse is the public view of a user; it never carries the password hash
type UserResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	PhoneNumber   string    `json:"phone_number"`
	Email         string    `json:"email,omitempty"`
	CompanyName   string    `json:"company_name"`
	CompanyNumber string    `json:"company_number"`
	Username      string    `json:"username"`
	CreatedAt     time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		FullName:      u.FullName,
		PhoneNumber:   u.PhoneNumber,
		Email:         u.Email,
		CompanyName:   u.CompanyName,
		CompanyNumber: u.CompanyNumber,
		Username:      u.Username,
		CreatedAt:     u.CreatedAt,
	}
}

// SessionResponse is returned by register and login
type SessionResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}

func toSessionResponse(s *service.Session) SessionResponse {
	return SessionResponse{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		ExpiresIn:   s.ExpiresIn,
		User:        toUserResponse(s.User),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	sess, err := h.authService.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	sess, err := h.authService.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeError(w, r, h.logger, domain.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}
