package service

import (
	"testing"
	"time"

	"github.com/haruyama/pos-backend/config"
	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/internal/db"
	"github.com/haruyama/pos-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testIP = "10.0.0.7"

func setupAuthServiceTest(t *testing.T) (AuthService, repository.LoginAttemptRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	attemptRepo := repository.NewLoginAttemptRepository(testDB)

	jwtCfg := &config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
	}
	authCfg := &config.AuthConfig{
		AttemptLimit: 5,
		BlockTime:    time.Hour,
	}

	authService := NewAuthService(userRepo, attemptRepo, jwtCfg, authCfg)

	hash, err := util.HashPassword("correct-horse")
	require.NoError(t, err)
	user := &model.User{
		Name:         "cashier01",
		PasswordHash: hash,
		Role:         model.RoleStaff,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(user).Error)

	return authService, attemptRepo, testDB
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	result, err := authService.Login("cashier01", "correct-horse", testIP)
	require.NoError(t, err)
	assert.Equal(t, "cashier01", result.User.Name)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, attemptRepo, _ := setupAuthServiceTest(t)

	_, err := authService.Login("cashier01", "wrong", testIP)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	attempt, err := attemptRepo.FindByAddress(testIP)
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.Attempts)
	assert.NotNil(t, attempt.LastAttemptAt)
}

func TestAuthService_Login_UnknownUserCountsAttempt(t *testing.T) {
	authService, attemptRepo, _ := setupAuthServiceTest(t)

	_, err := authService.Login("nobody", "whatever", testIP)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	attempt, err := attemptRepo.FindByAddress(testIP)
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.Attempts)
}

func TestAuthService_Login_BlocksAfterLimit(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	for i := 0; i < 5; i++ {
		_, err := authService.Login("cashier01", "wrong", testIP)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Sixth attempt is refused even with the correct password
	_, err := authService.Login("cashier01", "correct-horse", testIP)
	assert.ErrorIs(t, err, ErrLoginBlocked)
}

func TestAuthService_Login_BlockIsPerAddress(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	for i := 0; i < 5; i++ {
		_, err := authService.Login("cashier01", "wrong", testIP)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	result, err := authService.Login("cashier01", "correct-horse", "10.0.0.8")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
}

func TestAuthService_Login_CooldownResetsCounter(t *testing.T) {
	authService, attemptRepo, testDB := setupAuthServiceTest(t)

	for i := 0; i < 5; i++ {
		_, err := authService.Login("cashier01", "wrong", testIP)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Age the record past the block time
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, testDB.Model(&model.LoginAttempt{}).
		Where("ip_address = ?", testIP).
		Update("last_attempt_at", past).Error)

	result, err := authService.Login("cashier01", "correct-horse", testIP)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)

	// Success clears the record entirely
	_, err = attemptRepo.FindByAddress(testIP)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuthService_Login_SuccessClearsCounter(t *testing.T) {
	authService, attemptRepo, _ := setupAuthServiceTest(t)

	_, err := authService.Login("cashier01", "wrong", testIP)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authService.Login("cashier01", "correct-horse", testIP)
	require.NoError(t, err)

	_, err = attemptRepo.FindByAddress(testIP)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	authService, attemptRepo, testDB := setupAuthServiceTest(t)

	require.NoError(t, testDB.Model(&model.User{}).
		Where("name = ?", "cashier01").
		Update("is_active", false).Error)

	_, err := authService.Login("cashier01", "correct-horse", testIP)
	assert.ErrorIs(t, err, ErrAccountInactive)

	// Inactive accounts are rejected before the limiter records anything
	_, err = attemptRepo.FindByAddress(testIP)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuthService_RefreshToken(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	result, err := authService.Login("cashier01", "correct-horse", testIP)
	require.NoError(t, err)

	tokens, err := authService.RefreshToken(result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	result, err := authService.Login("cashier01", "correct-horse", testIP)
	require.NoError(t, err)

	_, err = authService.RefreshToken(result.Tokens.AccessToken)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestAuthService_RefreshToken_DeactivatedUser(t *testing.T) {
	authService, _, testDB := setupAuthServiceTest(t)

	result, err := authService.Login("cashier01", "correct-horse", testIP)
	require.NoError(t, err)

	require.NoError(t, testDB.Model(&model.User{}).
		Where("name = ?", "cashier01").
		Update("is_active", false).Error)

	_, err = authService.RefreshToken(result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrAccountInactive)
}
