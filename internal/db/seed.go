package db

import (
	"context"
	"fmt"

	"github.com/diewo77/go-mairie/auth"
	"github.com/diewo77/go-mairie/internal/config"
	"github.com/diewo77/go-mairie/internal/models"
	"gorm.io/gorm"
)

// Seed creates the default administrator when no user exists yet and an
// admin password is configured. It reports whether a user was created.
func Seed(ctx context.Context, d *gorm.DB, cfg config.AuthConfig) (bool, error) {
	if cfg.AdminPassword == "" {
		return false, nil
	}
	var count int64
	if err := d.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: hash,
		Role:     models.RoleAdmin,
	}
	if err := d.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, fmt.Errorf("error creating admin: %w", err)
	}
	return true, nil
}
