package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/trip-planner-api/internal/access"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/gdg-garage/trip-planner-api/internal/query"
	"github.com/gdg-garage/trip-planner-api/internal/stats"
	"gorm.io/gorm"
)

// IDPath addresses a single record.
type IDPath struct {
	ID uint `path:"id" doc:"Record ID"`
}

type ToggleResponse struct {
	Body struct {
		Completed bool `json:"completed"`
	}
}

// tripScope limits plain users to their own trips. Staff see every trip.
func tripScope(user *models.User) stats.Scope {
	if access.Allowed(user.Role, access.ViewAllTrips) {
		return stats.AllTrips
	}
	return stats.OwnedBy(user.ID)
}

// visibleTripIDs is a subquery selecting the ids of the trips user may see.
func visibleTripIDs(db *gorm.DB, user *models.User) *gorm.DB {
	return tripScope(user)(db.Session(&gorm.Session{NewDB: true}).Model(&models.Trip{}).Select("trips.id"))
}

func findTrip(ctx context.Context, db *gorm.DB, user *models.User, id uint) (*models.Trip, error) {
	var trip models.Trip
	err := tripScope(user)(db.WithContext(ctx).Model(&models.Trip{})).Where("trips.id = ?", id).First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Trip not found")
		}
		return nil, huma.Error500InternalServerError("Failed to load trip")
	}
	return &trip, nil
}

// visibleExpenses limits plain users to expenses of their own trips. Staff
// also see expenses left behind by a deleted trip.
func visibleExpenses(db *gorm.DB, user *models.User) *gorm.DB {
	if access.Allowed(user.Role, access.ViewAllTrips) {
		return db
	}
	return db.Where("trip_id IN (?)", visibleTripIDs(db, user))
}

func findExpense(ctx context.Context, db *gorm.DB, user *models.User, id uint) (*models.Expense, error) {
	var expense models.Expense
	err := visibleExpenses(db.WithContext(ctx), user).Where("id = ?", id).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Expense not found")
		}
		return nil, huma.Error500InternalServerError("Failed to load Expense")
	}
	return &expense, nil
}

// findInVisibleTrip loads the record of table with id, provided it hangs off
// a trip user may see.
func findInVisibleTrip(ctx context.Context, db *gorm.DB, user *models.User, dest any, id uint, what string) error {
	err := db.WithContext(ctx).
		Where("id = ? AND trip_id IN (?)", id, visibleTripIDs(db, user)).
		First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return huma.Error404NotFound(what + " not found")
		}
		return huma.Error500InternalServerError("Failed to load " + what)
	}
	return nil
}

// checkTripRef validates a trip id given in a request body.
func checkTripRef(ctx context.Context, db *gorm.DB, user *models.User, id uint, details *[]error) error {
	var count int64
	err := tripScope(user)(db.WithContext(ctx).Model(&models.Trip{})).Where("trips.id = ?", id).Count(&count).Error
	if err != nil {
		return huma.Error500InternalServerError("Failed to load trip")
	}
	if count == 0 {
		*details = append(*details, fieldError("body.trip", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)))
	}
	return nil
}

// completedFilter parses the optional completed query parameter.
func completedFilter(q *gorm.DB, value string) (*gorm.DB, error) {
	completed, err := query.Bool(value)
	if err != nil {
		return nil, validationFailed([]error{fieldError("query.completed", "Must be a boolean.")})
	}
	if completed != nil {
		q = q.Where("completed = ?", *completed)
	}
	return q, nil
}

func fieldError(location, message string) error {
	return &huma.ErrorDetail{Location: location, Message: message}
}

func validationFailed(details []error) error {
	return huma.Error422UnprocessableEntity("validation failed", details...)
}

// parseDate reads a YYYY-MM-DD value, recording a field error on failure.
func parseDate(location, value string, details *[]error) time.Time {
	d, err := models.ParseDate(value)
	if err != nil {
		*details = append(*details, fieldError(location, fmt.Sprintf("Date has wrong format. Use %s.", models.DateLayout)))
	}
	return d
}
