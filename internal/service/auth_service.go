package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/observability/metrics"
	"github.com/aryan0dhankhar/sitebook/internal/security/auth"
	"github.com/aryan0dhankhar/sitebook/pkg/cache"
)

// userCacheTTL bounds how long an authenticated user is served from memory.
// Users are immutable after registration.
const userCacheTTL = 5 * time.Minute

// AuthService handles registration, login and credential checks
type AuthService struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
	logger *slog.Logger
	cost   int
	now    func() time.Time
	cached *cache.Cache[domain.User]
}

// NewAuthService creates a new authentication service
func NewAuthService(users domain.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
		cached: cache.New[domain.User](userCacheTTL, 10000),
	}
}

// RegisterInput is the registration payload
type RegisterInput struct {
	FullName      string `json:"full_name" validate:"required"`
	PhoneNumber   string `json:"phone_number" validate:"required"`
	Email         string `json:"email"`
	CompanyName   string `json:"company_name" validate:"required"`
	CompanyNumber string `json:"company_number" validate:"required"`
	Username      string `json:"username" validate:"required"`
	Password      string `json:"password" validate:"required,max=72"`
}

// LoginInput is the login payload; the identifier may be a username or email
type LoginInput struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// Session is an issued credential
type Session struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"` // seconds
	User        *domain.User `json:"-"`
}

// bcrypt rejects longer inputs.
const maxPasswordBytes = 72

// Register creates a new user account and signs them in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (_ *Session, err error) {
	defer func() { metrics.ObserveAuth("register", err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, domain.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	taken, err := s.users.Exists(ctx, in.Username, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("username or email already exists: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:            uuid.NewString(),
		FullName:      in.FullName,
		PhoneNumber:   in.PhoneNumber,
		Email:         in.Email,
		CompanyName:   in.CompanyName,
		CompanyNumber: in.CompanyNumber,
		Username:      in.Username,
		PasswordHash:  string(hash),
		CreatedAt:     s.now().UTC(),
	}

	// Exists is only a fast path; the store's uniqueness still decides races.
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("username or email already exists: %w", domain.ErrConflict)
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	return s.issue(user)
}

// Login authenticates a user by username or email and password
func (s *AuthService) Login(ctx context.Context, in LoginInput) (_ *Session, err error) {
	defer func() { metrics.ObserveAuth("login", err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByLogin(ctx, in.UsernameOrEmail)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Info("login attempt with unknown identifier")
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("user_id", user.ID))
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	return s.issue(user)
}

// Authenticate resolves a bearer token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrUnauthorized)
	}
	if u, ok := s.cached.Get(claims.UserID); ok {
		return &u, nil
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	s.cached.Set(user.ID, *user)
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
		User:        user,
	}, nil
}
