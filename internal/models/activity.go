package models

import (
	"time"
)

type ActivityCategory string

const (
	ActivitySightseeing   ActivityCategory = "sightseeing"
	ActivityFood          ActivityCategory = "food"
	ActivityAdventure     ActivityCategory = "adventure"
	ActivityRelaxation    ActivityCategory = "relaxation"
	ActivityShopping      ActivityCategory = "shopping"
	ActivityEntertainment ActivityCategory = "entertainment"
	ActivityTransport     ActivityCategory = "transport"
	ActivityAccommodation ActivityCategory = "accommodation"
	ActivityOther         ActivityCategory = "other"
)

var ActivityCategories = []ActivityCategory{
	ActivitySightseeing, ActivityFood, ActivityAdventure, ActivityRelaxation, ActivityShopping,
	ActivityEntertainment, ActivityTransport, ActivityAccommodation, ActivityOther,
}

func (c ActivityCategory) Valid() bool {
	for _, v := range ActivityCategories {
		if c == v {
			return true
		}
	}
	return false
}

type Activity struct {
	ID               uint   `gorm:"primaryKey"`
	TripID           uint   `gorm:"not null;index"`
	Name             string `gorm:"size:200;not null"`
	Description      string
	Category         ActivityCategory `gorm:"size:20;not null;default:other"`
	Date             time.Time        `gorm:"not null"`
	Time             *string          `gorm:"column:start_time;size:5"` // HH:MM
	Location         string           `gorm:"size:300"`
	Cost             *float64
	Completed        bool `gorm:"not null;default:false"`
	Rating           *int
	Notes            string
	BookingReference string `gorm:"size:100"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
