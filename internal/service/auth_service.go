package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"

	"github.com/trailmark/experiences-api/internal/domain"
	"github.com/trailmark/experiences-api/internal/repository"
	"github.com/trailmark/experiences-api/pkg/auth"
	"github.com/trailmark/experiences-api/pkg/config"
	"github.com/trailmark/experiences-api/pkg/events"
	"github.com/trailmark/experiences-api/pkg/logger"
)

type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	// Authenticate resolves a bearer token to a live caller identity.
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

type authService struct {
	userRepo repository.UserRepository
	eventBus events.Publisher
	cfg      config.AuthConfig
}

func NewAuthService(userRepo repository.UserRepository, eventBus events.Publisher, cfg config.AuthConfig) AuthService {
	// Signup emails are normalized before any comparison; the bootstrap
	// address must be normalized the same way or it never matches.
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	return &authService{
		userRepo: userRepo,
		eventBus: eventBus,
		cfg:      cfg,
	}
}

func (s *authService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	req.Normalize()
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, domain.E(domain.CodeInvalidInput, "email, password and role are required")
	}

	// Bootstrap rule: the configured admin email is always an admin,
	// and it is the only email allowed to ask for the admin role.
	isBootstrap := s.cfg.AdminEmail != "" && req.Email == s.cfg.AdminEmail

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return nil, domain.E(domain.CodeInvalidRole, "role must be user or host")
	}
	if role == domain.RoleAdmin && !isBootstrap {
		return nil, domain.E(domain.CodeInvalidRole, "role must be user or host")
	}
	if isBootstrap {
		role = domain.RoleAdmin
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.E(domain.CodeEmailExists, "email already registered")
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req.Email, passwordHash, role)
	if err == repository.ErrDuplicate {
		// Concurrent signup with the same email slipped past the
		// check; the unique constraint is the backstop.
		return nil, domain.E(domain.CodeEmailExists, "email already registered")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	event := events.UserRegisteredEvent{
		UserID:    user.ID,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.UserRegistered, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish user registered event", "error", err, "user_id", user.ID)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if req.Email == "" || req.Password == "" {
		return nil, domain.E(domain.CodeInvalidInput, "email and password are required")
	}

	// Unknown email and wrong password answer identically so the
	// endpoint cannot be used to enumerate accounts.
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.E(domain.CodeInvalidCredentials, "invalid email or password")
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.E(domain.CodeInvalidCredentials, "invalid email or password")
	}

	token, err := auth.NewToken(user.ID, string(user.Role), s.cfg.JWTSecret, s.cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &domain.LoginResponse{
		Token: token,
		User:  user.ToUserInfo(),
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.E(domain.CodeUnauthenticated, "missing token")
	}

	claims, err := auth.Parse(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, domain.E(domain.CodeUnauthenticated, "invalid token")
	}

	// The token may outlive the account; the encoded id must still
	// resolve to an existing user.
	user, err := s.userRepo.FindByID(ctx, claims.Sub)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token user: %w", err)
	}
	if user == nil {
		return nil, domain.E(domain.CodeUnauthenticated, "invalid token user")
	}

	return &domain.Identity{ID: user.ID, Role: user.Role}, nil
}
