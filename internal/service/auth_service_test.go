package service

import (
	"testing"
	"time"

	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/repository"
	"github.com/hyrostack/marketplace-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := setupTestDB(t)
	manager := jwt.NewManager("test-secret", time.Hour)
	return NewAuthService(repository.NewUserRepository(db), manager)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthService(t)

	registered, err := svc.Register(&domain.RegisterRequest{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice", registered.User.Name)
	assert.NotEqual(t, "correct-horse", registered.User.PasswordHash)

	logged, err := svc.Login(&domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, logged.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Register(&domain.RegisterRequest{
		Name: "alice", Email: "alice@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(&domain.RegisterRequest{
		Name: "also alice", Email: "alice@example.com", Password: "other-pass",
	})
	assert.ErrorIs(t, err, common.ErrUserAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Register(&domain.RegisterRequest{
		Name: "alice", Email: "alice@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(&domain.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := setupAuthService(t)

	_, err := svc.Login(&domain.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}
