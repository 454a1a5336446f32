package repository

import (
	"testing"
	"time"

	"github.com/haruyama/pos-backend/internal/app/model"
	"github.com/haruyama/pos-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLoginAttemptTest(t *testing.T) LoginAttemptRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewLoginAttemptRepository(testDB)
}

func TestLoginAttemptRepository_CreateAndFind(t *testing.T) {
	repo := setupLoginAttemptTest(t)

	now := time.Now()
	require.NoError(t, repo.Create(&model.LoginAttempt{
		IPAddress:     "10.0.0.1",
		Attempts:      1,
		LastAttemptAt: &now,
	}))

	attempt, err := repo.FindByAddress("10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.Attempts)

	_, err = repo.FindByAddress("10.0.0.2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLoginAttemptRepository_RecordFailure(t *testing.T) {
	repo := setupLoginAttemptTest(t)

	now := time.Now()
	require.NoError(t, repo.Create(&model.LoginAttempt{
		IPAddress:     "10.0.0.1",
		Attempts:      1,
		LastAttemptAt: &now,
	}))

	later := now.Add(time.Minute)
	require.NoError(t, repo.RecordFailure("10.0.0.1", later))
	require.NoError(t, repo.RecordFailure("10.0.0.1", later))

	attempt, err := repo.FindByAddress("10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 3, attempt.Attempts)
}

func TestLoginAttemptRepository_RecordFailure_MissingRow(t *testing.T) {
	repo := setupLoginAttemptTest(t)

	err := repo.RecordFailure("10.0.0.9", time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLoginAttemptRepository_Reset(t *testing.T) {
	repo := setupLoginAttemptTest(t)

	now := time.Now()
	require.NoError(t, repo.Create(&model.LoginAttempt{
		IPAddress:     "10.0.0.1",
		Attempts:      5,
		LastAttemptAt: &now,
	}))

	require.NoError(t, repo.Reset("10.0.0.1"))

	attempt, err := repo.FindByAddress("10.0.0.1")
	require.NoError(t, err)
	assert.Zero(t, attempt.Attempts)
	assert.Nil(t, attempt.LastAttemptAt)
}

func TestLoginAttemptRepository_DeleteByAddress(t *testing.T) {
	repo := setupLoginAttemptTest(t)

	now := time.Now()
	require.NoError(t, repo.Create(&model.LoginAttempt{
		IPAddress:     "10.0.0.1",
		Attempts:      2,
		LastAttemptAt: &now,
	}))

	require.NoError(t, repo.DeleteByAddress("10.0.0.1"))

	_, err := repo.FindByAddress("10.0.0.1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLoginAttemptRepository_DeleteStale(t *testing.T) {
	repo := setupLoginAttemptTest(t)

	old := time.Now().Add(-3 * time.Hour)
	fresh := time.Now()
	require.NoError(t, repo.Create(&model.LoginAttempt{
		IPAddress: "10.0.0.1", Attempts: 4, LastAttemptAt: &old,
	}))
	require.NoError(t, repo.Create(&model.LoginAttempt{
		IPAddress: "10.0.0.2", Attempts: 1, LastAttemptAt: &fresh,
	}))

	removed, err := repo.DeleteStale(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = repo.FindByAddress("10.0.0.1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindByAddress("10.0.0.2")
	assert.NoError(t, err)
}
