package service

import (
	"testing"
	"time"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/internal/db"
	"github.com/minkwan/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(userRepo, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, tokens, err := authService.Register("new@example.com", "password123", "New User", "")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)
	require.NotNil(t, tokens)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	loggedIn, tokens, err := authService.Login("new@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotNil(t, tokens)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register("dup@example.com", "password123", "First", "")
	require.NoError(t, err)

	_, _, err = authService.Register("dup@example.com", "different", "Second", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_LoginFailures(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register("user@example.com", "password123", "User", "")
	require.NoError(t, err)

	_, _, err = authService.Login("user@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("missing@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, _, err := authService.Register("user@example.com", "password123", "User", "")
	require.NoError(t, err)

	updated, err := authService.UpdateProfile(user.ID, "Renamed", "555-0100")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "555-0100", updated.Phone)

	// Blank fields keep their current values.
	updated, err = authService.UpdateProfile(user.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	_, err = authService.UpdateProfile(9999, "x", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
