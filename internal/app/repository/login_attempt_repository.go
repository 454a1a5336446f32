package repository

import (
	"time"

	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/pkg/logger"
	"gorm.io/gorm"
)

type LoginAttemptRepository interface {
	FindByAddress(ip string) (*model.LoginAttempt, error)
	Create(attempt *model.LoginAttempt) error
	RecordFailure(ip string, at time.Time) error
	Reset(ip string) error
	DeleteByAddress(ip string) error
	DeleteStale(cutoff time.Time) (int64, error)
}

type loginAttemptRepository struct {
	db *gorm.DB
}

func NewLoginAttemptRepository(db *gorm.DB) LoginAttemptRepository {
	return &loginAttemptRepository{db: db}
}

func (r *loginAttemptRepository) FindByAddress(ip string) (*model.LoginAttempt, error) {
	var attempt model.LoginAttempt
	if err := r.db.Where("ip_address = ?", ip).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *loginAttemptRepository) Create(attempt *model.LoginAttempt) error {
	if err := r.db.Create(attempt).Error; err != nil {
		logger.Error("Failed to create login attempt record", err, map[string]interface{}{
			"ip_address": attempt.IPAddress,
		})
		return err
	}
	return nil
}

// RecordFailure bumps the counter for an existing record in a single
// UPDATE so concurrent failed logins from the same address never lose
// an increment.
func (r *loginAttemptRepository) RecordFailure(ip string, at time.Time) error {
	result := r.db.Model(&model.LoginAttempt{}).
		Where("ip_address = ?", ip).
		Updates(map[string]interface{}{
			"attempts":        gorm.Expr("attempts + 1"),
			"last_attempt_at": at,
		})
	if result.Error != nil {
		logger.Error("Failed to record login failure", result.Error, map[string]interface{}{
			"ip_address": ip,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *loginAttemptRepository) Reset(ip string) error {
	err := r.db.Model(&model.LoginAttempt{}).
		Where("ip_address = ?", ip).
		Updates(map[string]interface{}{
			"attempts":        0,
			"last_attempt_at": nil,
		}).Error
	if err != nil {
		logger.Error("Failed to reset login attempts", err, map[string]interface{}{
			"ip_address": ip,
		})
		return err
	}
	return nil
}

func (r *loginAttemptRepository) DeleteByAddress(ip string) error {
	if err := r.db.Where("ip_address = ?", ip).Delete(&model.LoginAttempt{}).Error; err != nil {
		logger.Error("Failed to delete login attempt record", err, map[string]interface{}{
			"ip_address": ip,
		})
		return err
	}
	return nil
}

// DeleteStale drops records whose last failure predates the cutoff. The
// scheduler calls this so long-gone addresses do not accumulate forever.
func (r *loginAttemptRepository) DeleteStale(cutoff time.Time) (int64, error) {
	result := r.db.Where("last_attempt_at IS NOT NULL AND last_attempt_at < ?", cutoff).
		Delete(&model.LoginAttempt{})
	if result.Error != nil {
		logger.Error("Failed to purge stale login attempts", result.Error, nil)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
