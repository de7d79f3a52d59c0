package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/trip-planner-api/internal/models"
	"gorm.io/gorm"
)

// EnsureSuperadmin creates the superadmin account or resets an existing one
// to an active superadmin with the given password. created reports which
// happened.
func EnsureSuperadmin(ctx context.Context, db *gorm.DB, username, email, password string) (user *models.User, created bool, err error) {
	if username == "" {
		return nil, false, errors.New("superadmin username is empty")
	}
	if len(password) < MinPasswordLength {
		return nil, false, fmt.Errorf("superadmin password must have at least %d characters", MinPasswordLength)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	db = db.WithContext(ctx)
	var existing models.User
	err = db.Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		existing.PasswordHash = hash
		existing.Role = models.RoleSuperadmin
		existing.IsActive = true
		if err := db.Save(&existing).Error; err != nil {
			return nil, false, fmt.Errorf("reset superadmin: %w", err)
		}
		return &existing, false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &models.User{
			Username:     username,
			Email:        email,
			Role:         models.RoleSuperadmin,
			IsActive:     true,
			PasswordHash: hash,
		}
		if err := db.Create(user).Error; err != nil {
			return nil, false, fmt.Errorf("create superadmin: %w", err)
		}
		return user, true, nil
	default:
		return nil, false, err
	}
}
