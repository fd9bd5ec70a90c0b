package service

import (
	"testing"
	"time"

	"github.com/dsaidov/mebelplaza-backend/internal/app/model"
	"github.com/dsaidov/mebelplaza-backend/internal/app/repository"
	"github.com/dsaidov/mebelplaza-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, tokens, err := authService.Register("ivan@example.com", "password123", "Иван", "+998901234567", model.RegionUZ)
	require.NoError(t, err)

	assert.Equal(t, "ivan@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, model.RegionUZ, user.Region)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register("ivan@example.com", "password123", "Иван", "", model.RegionUZ)
	require.NoError(t, err)

	_, _, err = authService.Register("ivan@example.com", "other-password", "Пётр", "", model.RegionRU)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register("ivan@example.com", "password123", "Иван", "", model.RegionUZ)
	require.NoError(t, err)

	user, tokens, err := authService.Login("ivan@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", user.Email)
	assert.NotEmpty(t, tokens.AccessToken)

	_, _, err = authService.Login("ivan@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService := setupAuthServiceTest(t)

	created, _, err := authService.Register("ivan@example.com", "password123", "Иван", "", model.RegionUZ)
	require.NoError(t, err)

	user, err := authService.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, user.Email)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService := setupAuthServiceTest(t)

	created, _, err := authService.Register("ivan@example.com", "password123", "Иван", "", model.RegionUZ)
	require.NoError(t, err)

	updated, err := authService.UpdateProfile(created.ID, "Иван Иванов", "+79991234567", model.RegionRU)
	require.NoError(t, err)
	assert.Equal(t, "Иван Иванов", updated.Name)
	assert.Equal(t, "+79991234567", updated.Phone)
	assert.Equal(t, model.RegionRU, updated.Region)

	_, err = authService.UpdateProfile(9999, "Кто-то", "", model.RegionUZ)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
