package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopworks/ecommerce-api/internal/domain"
	"github.com/shopworks/ecommerce-api/internal/repository"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

// seedBcryptCost matches the cost used for regular registrations.
const seedBcryptCost = 12

// AdminSeed describes the administrator account ensured at startup.
type AdminSeed struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// EnsureAdmin guarantees that the administrator account exists with the Admin
// role. Safe to run on every startup: an existing account is left untouched
// except for granting a missing Admin role.
func EnsureAdmin(ctx context.Context, userRepo repository.UserRepository, seed AdminSeed, logger *slog.Logger) error {
	existing, err := userRepo.GetByEmail(ctx, seed.Email)
	if err == nil {
		if existing.HasRole(domain.RoleAdmin) {
			logger.Info("admin account present", slog.String("email", seed.Email))
			return nil
		}

		existing.Roles = append(existing.Roles, domain.RoleAdmin)
		if err := userRepo.Update(ctx, existing); err != nil {
			return fmt.Errorf("grant admin role to %s: %w", seed.Email, err)
		}
		logger.Info("granted admin role to existing account", slog.String("email", seed.Email))
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("look up admin account: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.Password), seedBcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:           uuid.New().String(),
		Email:        seed.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    seed.FirstName,
		LastName:     seed.LastName,
		Roles:        []string{domain.RoleAdmin, domain.RoleUser},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		// A concurrent replica may have created it between the lookup and
		// the insert; that still satisfies the guarantee.
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			logger.Info("admin account created concurrently", slog.String("email", seed.Email))
			return nil
		}
		return fmt.Errorf("create admin account: %w", err)
	}

	logger.Info("admin account created", slog.String("email", seed.Email))
	return nil
}
