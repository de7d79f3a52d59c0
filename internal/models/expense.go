package models

import (
	"time"
)

type ExpenseCategory string

const (
	ExpenseAccommodation ExpenseCategory = "accommodation"
	ExpenseFood          ExpenseCategory = "food"
	ExpenseTransport     ExpenseCategory = "transport"
	ExpenseActivities    ExpenseCategory = "activities"
	ExpenseShopping      ExpenseCategory = "shopping"
	ExpenseOther         ExpenseCategory = "other"
)

var ExpenseCategories = []ExpenseCategory{
	ExpenseAccommodation, ExpenseFood, ExpenseTransport, ExpenseActivities, ExpenseShopping, ExpenseOther,
}

func (c ExpenseCategory) Valid() bool {
	for _, v := range ExpenseCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Expense keeps its row when the linked activity goes away; ActivityID is
// cleared instead.
type Expense struct {
	ID          uint            `gorm:"primaryKey"`
	TripID      uint            `gorm:"not null;index"`
	ActivityID  *uint           `gorm:"index"`
	Description string          `gorm:"size:200;not null"`
	Amount      float64         `gorm:"not null"`
	Category    ExpenseCategory `gorm:"size:20;not null"`
	Date        time.Time       `gorm:"not null"`
	Currency    string          `gorm:"size:3;not null;default:USD"`
	Notes       string
	CreatedAt   time.Time
}
