package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopworks/ecommerce-api/internal/domain"
	apperrors "github.com/shopworks/ecommerce-api/pkg/errors"
)

const (
	testLockoutThreshold = 5
	testLockoutWindow    = 15 * time.Minute
)

func newTestAuthService(userRepo *mockUserRepository, lockout *mockLockoutStore) *AuthService {
	return NewAuthService(
		userRepo,
		lockout,
		newTestJWTManager(),
		newTestEventProducer(),
		newTestLogger(),
		testLockoutThreshold,
		testLockoutWindow,
	)
}

func activeUser(password string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:           "11111111-2222-3333-4444-555555555555",
		Email:        "alice@example.com",
		PasswordHash: hashForTest(password),
		FirstName:    "Alice",
		LastName:     "Smith",
		Roles:        []string{domain.RoleUser},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// --- Register ---

func TestAuthService_Register_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	lockout := new(mockLockoutStore)
	svc := newTestAuthService(userRepo, lockout)
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Email:     "alice@example.com",
		Password:  "SecurePass123",
		FirstName: "Alice",
		LastName:  "Smith",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	assert.NotEmpty(t, result.User.ID)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Equal(t, []string{domain.RoleUser}, result.User.Roles)
	assert.True(t, result.User.IsActive)
	assert.False(t, result.User.TwoFactorEnabled)
	assert.NotEqual(t, "SecurePass123", result.User.PasswordHash)

	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	lockout := new(mockLockoutStore)
	svc := newTestAuthService(userRepo, lockout)
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "alice@example.com"))

	result, err := svc.Register(ctx, RegisterInput{
		Email:     "alice@example.com",
		Password:  "SecurePass123",
		FirstName: "Alice",
		LastName:  "Smith",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestAuthService_Register_WeakPasswords(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1"},
		{"no uppercase", "securepass123"},
		{"no lowercase", "SECUREPASS123"},
		{"no digit", "SecurePassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(new(mockUserRepository), new(mockLockoutStore))

			result, err := svc.Register(context.Background(), RegisterInput{
				Email:     "alice@example.com",
				Password:  tt.password,
				FirstName: "Alice",
				LastName:  "Smith",
			})

			assert.Nil(t, result)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepository), new(mockLockoutStore))
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Password: "SecurePass123", FirstName: "Alice", LastName: "Smith"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "SecurePass123", LastName: "Smith"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "alice@example.com", Password: "SecurePass123", FirstName: "Alice"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- Login ---

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	lockout := new(mockLockoutStore)
	svc := newTestAuthService(userRepo, lockout)
	ctx := context.Background()

	user := activeUser("SecurePass123")
	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	lockout.On("Failures", ctx, user.Email).Return(0, nil)
	lockout.On("Reset", ctx, user.Email).Return(nil)

	result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "SecurePass123"})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	assert.Equal(t, user.ID, result.User.ID)

	userRepo.AssertExpectations(t)
	lockout.AssertExpectations(t)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	lockout := new(mockLockoutStore)
	svc := newTestAuthService(userRepo, lockout)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	result, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "Whatever123"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	lockout.AssertNotCalled(t, "RecordFailure", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_Login_AlreadyLocked(t *testing.T) {
	userRepo := new(mockUserRepository)
	lockout := new(mockLockoutStore)
	svc := newTestAuthService(userRepo, lockout)
	ctx := context.Background()

	user := activeUser("SecurePass123")
	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	lockout.On("Failures", ctx, user.Email).Return(testLockoutThreshold, nil)

	result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "SecurePass123"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrLocked)
}

func TestAuthService_Login_DeactivatedAccount(t *testing.T) {
	userRepo := new(mockUserRepository)
	lockout := new(mockLockoutStore)
	svc := newTestAuthService(userRepo, lockout)
	ctx := context.Background()

	user := activeUser("SecurePass123")
	user.IsActive = false
	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	lockout.On("Failures", ctx, user.Email).Return(0, nil)

	result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "SecurePass123"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAuthService_Login_TwoFactorMandated(t *testing.T) {
	userRepo := new(mockUserRepository)
	lockout := new(mockLockoutStore)
	svc := newTestAuthService(userRepo, lockout)
	ctx := context.Background()

	user := activeUser("SecurePass123")
	user.TwoFactorEnabled = true
	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	lockout.On("Failures", ctx, user.Email).Return(0, nil)

	result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "SecurePass123"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrTwoFactorRequired)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	userRepo := new(mockUserRepository)
	lockout := new(mockLockoutStore)
	svc := newTestAuthService(userRepo, lockout)
	ctx := context.Background()

	user := activeUser("SecurePass123")
	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	lockout.On("Failures", ctx, user.Email).Return(1, nil)
	lockout.On("RecordFailure", ctx, user.Email, testLockoutWindow).Return(2, nil)

	result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "WrongPass123"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	lockout.AssertExpectations(t)
}

func TestAuthService_Login_WrongPasswordHitsThreshold(t *testing.T) {
	userRepo := new(mockUserRepository)
	lockout := new(mockLockoutStore)
	svc := newTestAuthService(userRepo, lockout)
	ctx := context.Background()

	user := activeUser("SecurePass123")
	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	lockout.On("Failures", ctx, user.Email).Return(testLockoutThreshold-1, nil)
	lockout.On("RecordFailure", ctx, user.Email, testLockoutWindow).Return(testLockoutThreshold, nil)

	result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "WrongPass123"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrLocked)
}

// Lockout is checked before the password, so even the correct password is
// rejected while the account is locked.
func TestAuthService_Login_LockedRejectsCorrectPassword(t *testing.T) {
	userRepo := new(mockUserRepository)
	lockout := new(mockLockoutStore)
	svc := newTestAuthService(userRepo, lockout)
	ctx := context.Background()

	user := activeUser("SecurePass123")
	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	lockout.On("Failures", ctx, user.Email).Return(testLockoutThreshold+3, nil)

	result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "SecurePass123"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrLocked)
	lockout.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
}

func TestAuthService_Login_TokenCarriesRoles(t *testing.T) {
	userRepo := new(mockUserRepository)
	lockout := new(mockLockoutStore)
	svc := newTestAuthService(userRepo, lockout)
	ctx := context.Background()

	user := activeUser("SecurePass123")
	user.Roles = []string{domain.RoleAdmin, domain.RoleUser}
	userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	lockout.On("Failures", ctx, user.Email).Return(0, nil)
	lockout.On("Reset", ctx, user.Email).Return(nil)

	result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "SecurePass123"})
	require.NoError(t, err)

	claims, err := newTestJWTManager().Validate(result.Token)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{domain.RoleAdmin, domain.RoleUser}, claims.Roles)
}

// --- GetUser ---

func TestAuthService_GetUser_NotFound(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestAuthService(userRepo, new(mockLockoutStore))
	ctx := context.Background()

	userRepo.On("GetByID", ctx, "nope").Return(nil, apperrors.ErrNotFound)

	user, err := svc.GetUser(ctx, "nope")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
