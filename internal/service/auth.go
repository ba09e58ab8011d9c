package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopworks/ecommerce-api/internal/auth"
	"github.com/shopworks/ecommerce-api/internal/domain"
	"github.com/shopworks/ecommerce-api/internal/event"
	"github.com/shopworks/ecommerce-api/internal/repository"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// AuthService implements registration, login, and token verification.
type AuthService struct {
	userRepo         repository.UserRepository
	lockout          repository.LockoutStore
	jwtManager       *auth.JWTManager
	producer         *event.Producer
	logger           *slog.Logger
	lockoutThreshold int
	lockoutWindow    time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo repository.UserRepository,
	lockout repository.LockoutStore,
	jwtManager *auth.JWTManager,
	producer *event.Producer,
	logger *slog.Logger,
	lockoutThreshold int,
	lockoutWindow time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		lockout:          lockout,
		jwtManager:       jwtManager,
		producer:         producer,
		logger:           logger,
		lockoutThreshold: lockoutThreshold,
		lockoutWindow:    lockoutWindow,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new user account with the User role and logs the new
// user in immediately, returning a token alongside the created account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.AuthResult, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.FirstName == "" {
		return nil, apperrors.InvalidInput("first name is required")
	}
	if input.LastName == "" {
		return nil, apperrors.InvalidInput("last name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Roles:        []string{domain.RoleUser},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	token, err := s.jwtManager.Generate(user.ID, user.Email, user.DisplayName(), user.Roles)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &domain.AuthResult{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.jwtManager.Expiry()),
		User:      user,
	}, nil
}

// Login authenticates a user and issues an access token. Failure modes are
// checked in a fixed order so each yields a distinct response: unknown email,
// locked account, deactivated account, two-factor mandated, wrong password.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.AuthResult, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperrors.NotFound("user", input.Email)
	}

	failures, err := s.lockout.Failures(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check login failures: %w", err)
	}
	if failures >= s.lockoutThreshold {
		return nil, apperrors.Locked("account is temporarily locked due to repeated failed logins")
	}

	if !user.IsActive {
		return nil, apperrors.Forbidden("account is deactivated")
	}

	if user.TwoFactorEnabled {
		return nil, apperrors.TwoFactorRequired("two-factor authentication is required for this account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		count, recErr := s.lockout.RecordFailure(ctx, input.Email, s.lockoutWindow)
		if recErr != nil {
			s.logger.ErrorContext(ctx, "failed to record login failure",
				slog.String("email", input.Email),
				slog.String("error", recErr.Error()),
			)
		}
		if count >= s.lockoutThreshold {
			s.logger.WarnContext(ctx, "account locked out",
				slog.String("email", input.Email),
				slog.Int("failures", count),
			)
			return nil, apperrors.Locked("account is temporarily locked due to repeated failed logins")
		}
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	if err := s.lockout.Reset(ctx, input.Email); err != nil {
		s.logger.ErrorContext(ctx, "failed to reset login failures",
			slog.String("email", input.Email),
			slog.String("error", err.Error()),
		)
	}

	token, err := s.jwtManager.Generate(user.ID, user.Email, user.DisplayName(), user.Roles)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return &domain.AuthResult{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.jwtManager.Expiry()),
		User:      user,
	}, nil
}

// GetUser returns the user with the given ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// validatePassword enforces the password complexity policy.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
