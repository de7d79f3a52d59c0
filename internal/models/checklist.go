package models

import (
	"time"
)

type Checklist struct {
	ID        uint   `gorm:"primaryKey"`
	TripID    uint   `gorm:"not null;index"`
	Item      string `gorm:"size:200;not null"`
	Completed bool   `gorm:"not null;default:false"`
	Category  string `gorm:"size:50;not null;default:general"`
	Priority  int    `gorm:"not null;default:0"`
	CreatedAt time.Time
}

func (Checklist) TableName() string {
	return "checklist_items"
}
