package models

import (
	"time"
)

// RevokedToken blacklists a refresh token by its jti until it would have expired anyway.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;size:36"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
}
