package models

import (
	"time"
)

type TripStatus string

const (
	TripPlanning  TripStatus = "planning"
	TripUpcoming  TripStatus = "upcoming"
	TripOngoing   TripStatus = "ongoing"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

var TripStatuses = []TripStatus{TripPlanning, TripUpcoming, TripOngoing, TripCompleted, TripCancelled}

// ActiveTripStatuses are the statuses counted as "active" by the dashboards.
var ActiveTripStatuses = []TripStatus{TripUpcoming, TripOngoing}

func (s TripStatus) Valid() bool {
	for _, st := range TripStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type Trip struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         *uint  `gorm:"index"`
	Title          string `gorm:"size:200;not null"`
	Destination    string `gorm:"size:200;not null;index"`
	Description    string
	StartDate      time.Time `gorm:"not null"`
	EndDate        time.Time `gorm:"not null"`
	Budget         *float64
	ActualCost     float64    `gorm:"not null;default:0"`
	Status         TripStatus `gorm:"size:20;not null;default:planning;index"`
	Image          string
	IsPublic       bool `gorm:"not null;default:false"`
	TravelersCount int  `gorm:"not null;default:1"`
	Notes          string
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}

// DurationDays counts both the start and the end day.
func (t Trip) DurationDays() int {
	return int(DateOf(t.EndDate).Sub(DateOf(t.StartDate)).Hours()/24) + 1
}

// BudgetRemaining is nil when the trip has no budget.
func (t Trip) BudgetRemaining() *float64 {
	if t.Budget == nil {
		return nil
	}
	remaining := *t.Budget - t.ActualCost
	return &remaining
}
