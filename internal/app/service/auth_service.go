package service

import (
	"errors"
	"time"

	"github.com/haruyama/pos-backend/config"
	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/pkg/logger"
	"github.com/haruyama/pos-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrLoginBlocked       = errors.New("too many failed login attempts")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrUserNotFound       = errors.New("user not found")
)

// LoginResult carries the token pair plus the signed-in user for the
// terminal to display.
type LoginResult struct {
	User   *model.User    `json:"user"`
	Tokens util.TokenPair `json:"tokens"`
}

type AuthService interface {
	Login(name, password, ip string) (*LoginResult, error)
	RefreshToken(refreshToken string) (*util.TokenPair, error)
}

type authService struct {
	userRepo    repository.UserRepository
	attemptRepo repository.LoginAttemptRepository
	jwtConfig   *config.JWTConfig
	authConfig  *config.AuthConfig
}

func NewAuthService(
	userRepo repository.UserRepository,
	attemptRepo repository.LoginAttemptRepository,
	jwtConfig *config.JWTConfig,
	authConfig *config.AuthConfig,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		attemptRepo: attemptRepo,
		jwtConfig:   jwtConfig,
		authConfig:  authConfig,
	}
}

// Login authenticates a terminal user. Failed attempts are counted per
// client address; once the limit is reached the address is refused until
// the block time has elapsed. A successful login clears the counter.
func (s *authService) Login(name, password, ip string) (*LoginResult, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"name": name,
		"ip":   ip,
	})

	blocked, err := s.isBlocked(ip)
	if err != nil {
		return nil, err
	}
	if blocked {
		logger.Warn("Login refused: address blocked", map[string]interface{}{
			"name": name,
			"ip":   ip,
		})
		return nil, ErrLoginBlocked
	}

	user, err := s.userRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.recordFailure(ip); err != nil {
				return nil, err
			}
			return nil, ErrInvalidCredentials
		}
		logger.Error("Failed to fetch user during login", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	// Disabled accounts are rejected before password verification and
	// without counting against the attempt limit.
	if !user.IsActive {
		logger.Warn("Login refused: account inactive", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, ErrAccountInactive
	}

	if err := util.VerifyPassword(user.PasswordHash, password); err != nil {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"user_id": user.ID,
			"ip":      ip,
		})
		if err := s.recordFailure(ip); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if err := s.attemptRepo.DeleteByAddress(ip); err != nil {
		return nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Name,
		string(user.Role),
		s.jwtConfig.Secret,
		s.jwtConfig.AccessTokenExpiry,
		s.jwtConfig.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate token pair", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("Login succeeded", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return &LoginResult{User: user, Tokens: *tokens}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair. The
// user is re-read so a deactivated account cannot keep renewing.
func (s *authService) RefreshToken(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtConfig.Secret)
	if err != nil {
		return nil, err
	}
	if claims.Subject != "refresh" {
		return nil, util.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return util.GenerateTokenPair(
		user.ID,
		user.Name,
		string(user.Role),
		s.jwtConfig.Secret,
		s.jwtConfig.AccessTokenExpiry,
		s.jwtConfig.RefreshTokenExpiry,
	)
}

// isBlocked checks the per-address counter. A counter at the limit whose
// cooldown has elapsed is reset instead of blocking.
func (s *authService) isBlocked(ip string) (bool, error) {
	attempt, err := s.attemptRepo.FindByAddress(ip)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		logger.Error("Failed to fetch login attempt record", err, map[string]interface{}{
			"ip": ip,
		})
		return false, err
	}

	if attempt.Attempts < s.authConfig.AttemptLimit {
		return false, nil
	}

	if attempt.LastAttemptAt != nil && time.Since(*attempt.LastAttemptAt) < s.authConfig.BlockTime {
		return true, nil
	}

	if err := s.attemptRepo.Reset(ip); err != nil {
		return false, err
	}
	return false, nil
}

func (s *authService) recordFailure(ip string) error {
	now := time.Now()
	err := s.attemptRepo.RecordFailure(ip, now)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.attemptRepo.Create(&model.LoginAttempt{
		IPAddress:     ip,
		Attempts:      1,
		LastAttemptAt: &now,
	})
}
