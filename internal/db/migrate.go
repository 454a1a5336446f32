package db

import (
	"errors"
	"os"

	"github.com/haruyama/pos-backend/internal/app/model"
	appLogger "github.com/haruyama/pos-backend/pkg/logger"
	"github.com/haruyama/pos-backend/pkg/util"
	"gorm.io/gorm"
)

// Migrate runs schema migrations
func Migrate() error {
	appLogger.Info("Running database migrations", nil)

	err := DB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.ProductOption{},
		&model.Order{},
		&model.LoginAttempt{},
	)
	if err != nil {
		appLogger.Error("Database migration failed", err, nil)
		return err
	}

	appLogger.Info("Database migrations completed", nil)
	return nil
}

// SeedAdminUser creates the initial admin account when it does not exist
// yet. Name and password come from ADMIN_NAME / ADMIN_PASSWORD so a fresh
// deployment is never left without a way to sign in.
func SeedAdminUser() error {
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	var existing model.User
	err := DB.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		appLogger.Error("Failed to seed admin user", err, nil)
		return err
	}

	appLogger.Info("Seeded initial admin user", map[string]interface{}{
		"name": name,
	})
	return nil
}
