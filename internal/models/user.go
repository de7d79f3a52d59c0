package models

import (
	"time"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

var Roles = []Role{RoleSuperadmin, RoleAdmin, RoleUser}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;size:150;not null"`
	Email          string `gorm:"size:254"`
	FirstName      string `gorm:"size:150"`
	LastName       string `gorm:"size:150"`
	Phone          string `gorm:"size:20"`
	ProfilePicture string
	Role           Role      `gorm:"size:20;not null;default:user;index"`
	IsActive       bool      `gorm:"not null"`
	PasswordHash   string    `json:"-"`
	DiscordID      *string   `gorm:"uniqueIndex"`
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}
