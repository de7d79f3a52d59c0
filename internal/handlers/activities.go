package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/trip-planner-api/internal/auth"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/gdg-garage/trip-planner-api/internal/query"
	"gorm.io/gorm"
)

var activityOrdering = map[string]string{
	"date": "date",
	"time": "start_time",
}

type ActivityHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewActivityHandler(db *gorm.DB, authHandler *auth.AuthHandler) *ActivityHandler {
	return &ActivityHandler{db: db, authHandler: authHandler}
}

type ActivityFields struct {
	Trip             *uint                    `json:"trip,omitempty" doc:"Trip ID"`
	Name             *string                  `json:"name,omitempty" maxLength:"200"`
	Description      *string                  `json:"description,omitempty"`
	Category         *models.ActivityCategory `json:"category,omitempty" enum:"sightseeing,food,adventure,relaxation,shopping,entertainment,transport,accommodation,other"`
	Date             *string                  `json:"date,omitempty" format:"date"`
	Time             Nullable[string]         `json:"time,omitempty" doc:"Local time, HH:MM"`
	Location         *string                  `json:"location,omitempty" maxLength:"300"`
	Cost             Nullable[float64]        `json:"cost,omitempty" minimum:"0"`
	Completed        *bool                    `json:"completed,omitempty"`
	Rating           Nullable[int]            `json:"rating,omitempty" minimum:"1"`
	Notes            *string                  `json:"notes,omitempty"`
	BookingReference *string                  `json:"booking_reference,omitempty" maxLength:"100"`
}

func (f ActivityFields) apply(a *models.Activity, details *[]error) {
	if f.Trip != nil {
		a.TripID = *f.Trip
	}
	if f.Name != nil {
		a.Name = strings.TrimSpace(*f.Name)
	}
	if f.Description != nil {
		a.Description = *f.Description
	}
	if f.Category != nil {
		a.Category = *f.Category
	}
	if f.Date != nil {
		a.Date = parseDate("body.date", *f.Date, details)
	}
	if f.Time.Sent {
		if f.Time.Null || f.Time.Value == "" {
			a.Time = nil
		} else if t, err := time.Parse("15:04", f.Time.Value); err != nil {
			*details = append(*details, fieldError("body.time", "Time has wrong format. Use HH:MM."))
		} else {
			hhmm := t.Format("15:04")
			a.Time = &hhmm
		}
	}
	if f.Location != nil {
		a.Location = *f.Location
	}
	f.Cost.assign(&a.Cost)
	if f.Completed != nil {
		a.Completed = *f.Completed
	}
	f.Rating.assign(&a.Rating)
	if f.Notes != nil {
		a.Notes = *f.Notes
	}
	if f.BookingReference != nil {
		a.BookingReference = *f.BookingReference
	}
}

func validateActivity(a models.Activity, details []error) error {
	if a.Name == "" {
		details = append(details, fieldError("body.name", "This field may not be blank."))
	}
	if !a.Category.Valid() {
		details = append(details, fieldError("body.category", "Not a valid choice."))
	}
	if a.Cost != nil && *a.Cost < 0 {
		details = append(details, fieldError("body.cost", "Ensure this value is greater than or equal to 0."))
	}
	if a.Rating != nil && *a.Rating < 1 {
		details = append(details, fieldError("body.rating", "Ensure this value is greater than or equal to 1."))
	}
	if len(details) > 0 {
		return validationFailed(details)
	}
	return nil
}

type ListActivitiesRequest struct {
	auth.AuthInput
	Trip      uint   `query:"trip" doc:"Filter by trip ID"`
	Category  string `query:"category"`
	Completed string `query:"completed" doc:"true or false"`
	Ordering  string `query:"ordering" doc:"date or time; prefix with - for descending"`
}

type ActivityListResponse struct {
	Body []ActivityOut
}

func (h *ActivityHandler) HandleList(ctx context.Context, input *ListActivitiesRequest) (*ActivityListResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	q := h.db.WithContext(ctx).Model(&models.Activity{}).Where("trip_id IN (?)", visibleTripIDs(h.db, user))
	if input.Trip != 0 {
		q = q.Where("trip_id = ?", input.Trip)
	}
	if input.Category != "" {
		q = q.Where("category = ?", input.Category)
	}
	if q, err = completedFilter(q, input.Completed); err != nil {
		return nil, err
	}
	q = query.Ordering(q, input.Ordering, activityOrdering, "date", "start_time")

	var activities []models.Activity
	if err := q.Find(&activities).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list activities")
	}
	out, err := activitiesOut(ctx, h.db, activities)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list activities")
	}
	return &ActivityListResponse{Body: out}, nil
}

type CreateActivityRequest struct {
	auth.AuthInput
	Body ActivityFields
}

type ActivityResponse struct {
	Body ActivityOut
}

func (h *ActivityHandler) HandleCreate(ctx context.Context, input *CreateActivityRequest) (*ActivityResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var details []error
	in := input.Body
	if in.Trip == nil {
		details = append(details, fieldError("body.trip", "This field is required."))
	}
	if in.Name == nil {
		details = append(details, fieldError("body.name", "This field is required."))
	}
	if in.Date == nil {
		details = append(details, fieldError("body.date", "This field is required."))
	}
	if len(details) > 0 {
		return nil, validationFailed(details)
	}

	activity := models.Activity{Category: models.ActivityOther}
	in.apply(&activity, &details)
	if err := checkTripRef(ctx, h.db, user, activity.TripID, &details); err != nil {
		return nil, err
	}
	if err := validateActivity(activity, details); err != nil {
		return nil, err
	}

	if err := h.db.WithContext(ctx).Create(&activity).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create activity: " + err.Error())
	}
	return h.respond(ctx, activity)
}

type GetActivityRequest struct {
	auth.AuthInput
	IDPath
}

func (h *ActivityHandler) HandleGet(ctx context.Context, input *GetActivityRequest) (*ActivityResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var activity models.Activity
	if err := findInVisibleTrip(ctx, h.db, user, &activity, input.ID, "Activity"); err != nil {
		return nil, err
	}
	return h.respond(ctx, activity)
}

type UpdateActivityRequest struct {
	auth.AuthInput
	IDPath
	Body ActivityFields
}

func (h *ActivityHandler) HandleUpdate(ctx context.Context, input *UpdateActivityRequest) (*ActivityResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var activity models.Activity
	if err := findInVisibleTrip(ctx, h.db, user, &activity, input.ID, "Activity"); err != nil {
		return nil, err
	}

	var details []error
	input.Body.apply(&activity, &details)
	if input.Body.Trip != nil {
		if err := checkTripRef(ctx, h.db, user, activity.TripID, &details); err != nil {
			return nil, err
		}
	}
	if err := validateActivity(activity, details); err != nil {
		return nil, err
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&activity).Error; err != nil {
			return err
		}
		// Expenses follow their activity to another trip.
		return tx.Model(&models.Expense{}).Where("activity_id = ?", activity.ID).Update("trip_id", activity.TripID).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to update activity: " + err.Error())
	}
	return h.respond(ctx, activity)
}

func (h *ActivityHandler) HandleDelete(ctx context.Context, input *DeleteRequest) (*DeleteResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var activity models.Activity
	if err := findInVisibleTrip(ctx, h.db, user, &activity, input.ID, "Activity"); err != nil {
		return nil, err
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Expense{}).Where("activity_id = ?", activity.ID).Update("activity_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&activity).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete activity: " + err.Error())
	}
	return &DeleteResponse{Status: http.StatusNoContent}, nil
}

// HandleToggleComplete flips the completed flag and reports the new value.
func (h *ActivityHandler) HandleToggleComplete(ctx context.Context, input *GetActivityRequest) (*ToggleResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var activity models.Activity
	if err := findInVisibleTrip(ctx, h.db, user, &activity, input.ID, "Activity"); err != nil {
		return nil, err
	}

	activity.Completed = !activity.Completed
	if err := h.db.WithContext(ctx).Model(&activity).Update("completed", activity.Completed).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update activity")
	}

	res := &ToggleResponse{}
	res.Body.Completed = activity.Completed
	return res, nil
}

func (h *ActivityHandler) respond(ctx context.Context, activity models.Activity) (*ActivityResponse, error) {
	out, err := activitiesOut(ctx, h.db, []models.Activity{activity})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load activity")
	}
	return &ActivityResponse{Body: out[0]}, nil
}
