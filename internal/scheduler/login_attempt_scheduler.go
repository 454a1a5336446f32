package scheduler

import (
	"time"

	"github.com/haruyama/pos-backend/internal/app/repository"
	"github.com/haruyama/pos-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// LoginAttemptScheduler periodically purges stale login attempt records.
type LoginAttemptScheduler struct {
	cron        *cron.Cron
	attemptRepo repository.LoginAttemptRepository
	retention   time.Duration
}

// NewLoginAttemptScheduler keeps attempt records around for the given
// retention; anything older than that no longer affects blocking and can go.
func NewLoginAttemptScheduler(attemptRepo repository.LoginAttemptRepository, retention time.Duration) *LoginAttemptScheduler {
	return &LoginAttemptScheduler{
		cron:        cron.New(),
		attemptRepo: attemptRepo,
		retention:   retention,
	}
}

// Start begins the purge cycle, every five minutes.
func (s *LoginAttemptScheduler) Start() error {
	_, err := s.cron.AddFunc("*/5 * * * *", s.purge)
	if err != nil {
		logger.Error("Failed to add cron job for login attempt purge", err)
		return err
	}

	s.cron.Start()
	logger.Info("Login attempt scheduler started (every 5 minutes)", nil)
	return nil
}

// Stop stops the scheduler
func (s *LoginAttemptScheduler) Stop() {
	logger.Info("Stopping login attempt scheduler...", nil)
	s.cron.Stop()
	logger.Info("Login attempt scheduler stopped", nil)
}

func (s *LoginAttemptScheduler) purge() {
	cutoff := time.Now().Add(-s.retention)

	removed, err := s.attemptRepo.DeleteStale(cutoff)
	if err != nil {
		logger.Error("Failed to purge stale login attempts", err)
		return
	}
	if removed > 0 {
		logger.Info("Purged stale login attempts", map[string]interface{}{
			"removed": removed,
		})
	}
}
