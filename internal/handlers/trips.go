package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/trip-planner-api/internal/auth"
	"github.com/gdg-garage/trip-planner-api/internal/export"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/gdg-garage/trip-planner-api/internal/notifier"
	"github.com/gdg-garage/trip-planner-api/internal/query"
	"github.com/gdg-garage/trip-planner-api/internal/stats"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var tripOrdering = map[string]string{
	"start_date": "start_date",
	"created_at": "created_at",
	"budget":     "budget",
}

type TripHandler struct {
	db          *gorm.DB
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
}

func NewTripHandler(db *gorm.DB, n notifier.Notifier, authHandler *auth.AuthHandler) *TripHandler {
	return &TripHandler{db: db, notifier: n, authHandler: authHandler}
}

// TripFields is shared by create and update. On create, title, destination
// and both dates are required.
type TripFields struct {
	Title          *string            `json:"title,omitempty" maxLength:"200"`
	Destination    *string            `json:"destination,omitempty" maxLength:"200"`
	Description    *string            `json:"description,omitempty"`
	StartDate      *string            `json:"start_date,omitempty" format:"date"`
	EndDate        *string            `json:"end_date,omitempty" format:"date"`
	Budget         Nullable[float64]  `json:"budget,omitempty" minimum:"0"`
	ActualCost     *float64           `json:"actual_cost,omitempty" minimum:"0"`
	Status         *models.TripStatus `json:"status,omitempty" enum:"planning,upcoming,ongoing,completed,cancelled"`
	Image          *string            `json:"image,omitempty" doc:"Image URL"`
	IsPublic       *bool              `json:"is_public,omitempty"`
	TravelersCount *int               `json:"travelers_count,omitempty" minimum:"1"`
	Notes          *string            `json:"notes,omitempty"`
}

func (f TripFields) apply(t *models.Trip, details *[]error) {
	if f.Title != nil {
		t.Title = strings.TrimSpace(*f.Title)
	}
	if f.Destination != nil {
		t.Destination = strings.TrimSpace(*f.Destination)
	}
	if f.Description != nil {
		t.Description = *f.Description
	}
	if f.StartDate != nil {
		t.StartDate = parseDate("body.start_date", *f.StartDate, details)
	}
	if f.EndDate != nil {
		t.EndDate = parseDate("body.end_date", *f.EndDate, details)
	}
	f.Budget.assign(&t.Budget)
	if f.ActualCost != nil {
		t.ActualCost = *f.ActualCost
	}
	if f.Status != nil {
		t.Status = *f.Status
	}
	if f.Image != nil {
		t.Image = *f.Image
	}
	if f.IsPublic != nil {
		t.IsPublic = *f.IsPublic
	}
	if f.TravelersCount != nil {
		t.TravelersCount = *f.TravelersCount
	}
	if f.Notes != nil {
		t.Notes = *f.Notes
	}
}

func validateTrip(t models.Trip, details []error) error {
	if t.Title == "" {
		details = append(details, fieldError("body.title", "This field may not be blank."))
	}
	if t.Destination == "" {
		details = append(details, fieldError("body.destination", "This field may not be blank."))
	}
	if t.Budget != nil && *t.Budget < 0 {
		details = append(details, fieldError("body.budget", "Ensure this value is greater than or equal to 0."))
	}
	if t.ActualCost < 0 {
		details = append(details, fieldError("body.actual_cost", "Ensure this value is greater than or equal to 0."))
	}
	if t.TravelersCount < 1 {
		details = append(details, fieldError("body.travelers_count", "Ensure this value is greater than or equal to 1."))
	}
	if !t.Status.Valid() {
		details = append(details, fieldError("body.status", "Not a valid choice."))
	}
	if len(details) == 0 && t.EndDate.Before(t.StartDate) {
		details = append(details, fieldError("body.end_date", "End date must not be before start date."))
	}
	if len(details) > 0 {
		return validationFailed(details)
	}
	return nil
}

type ListTripsRequest struct {
	auth.AuthInput
	Status      string `query:"status" doc:"Filter by status"`
	Destination string `query:"destination" doc:"Filter by destination"`
	Search      string `query:"search" doc:"Substring of title, destination or description"`
	Ordering    string `query:"ordering" doc:"start_date, created_at or budget; prefix with - for descending"`
}

type ListTripsResponse struct {
	Body []stats.TripBrief
}

func (h *TripHandler) HandleList(ctx context.Context, input *ListTripsRequest) (*ListTripsResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	q := tripScope(user)(h.db.WithContext(ctx).Model(&models.Trip{}))
	if input.Status != "" {
		q = q.Where("status = ?", input.Status)
	}
	if input.Destination != "" {
		q = q.Where("destination = ?", input.Destination)
	}
	q = query.Search(q, input.Search, "title", "destination", "description")
	q = query.Ordering(q, input.Ordering, tripOrdering, "created_at DESC", "id DESC")

	var trips []models.Trip
	if err := q.Find(&trips).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list trips")
	}
	briefs, err := stats.BriefTrips(ctx, h.db, trips)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list trips")
	}
	return &ListTripsResponse{Body: briefs}, nil
}

type CreateTripRequest struct {
	auth.AuthInput
	Body TripFields
}

type TripResponse struct {
	Body *TripDetail
}

func (h *TripHandler) HandleCreate(ctx context.Context, input *CreateTripRequest) (*TripResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var details []error
	in := input.Body
	if in.Title == nil {
		details = append(details, fieldError("body.title", "This field is required."))
	}
	if in.Destination == nil {
		details = append(details, fieldError("body.destination", "This field is required."))
	}
	if in.StartDate == nil {
		details = append(details, fieldError("body.start_date", "This field is required."))
	}
	if in.EndDate == nil {
		details = append(details, fieldError("body.end_date", "This field is required."))
	}
	if len(details) > 0 {
		return nil, validationFailed(details)
	}

	trip := models.Trip{UserID: &user.ID, Status: models.TripPlanning, TravelersCount: 1}
	in.apply(&trip, &details)
	if err := validateTrip(trip, details); err != nil {
		return nil, err
	}

	if err := h.db.WithContext(ctx).Create(&trip).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create trip: " + err.Error())
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyTripCreated(*user, trip); err != nil {
			log.Warn().Err(err).Uint("trip_id", trip.ID).Msg("Failed to send trip notification")
		}
	}

	return h.detail(ctx, trip)
}

type GetTripRequest struct {
	auth.AuthInput
	IDPath
}

func (h *TripHandler) HandleGet(ctx context.Context, input *GetTripRequest) (*TripResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	trip, err := findTrip(ctx, h.db, user, input.ID)
	if err != nil {
		return nil, err
	}
	return h.detail(ctx, *trip)
}

type UpdateTripRequest struct {
	auth.AuthInput
	IDPath
	Body TripFields
}

func (h *TripHandler) HandleUpdate(ctx context.Context, input *UpdateTripRequest) (*TripResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	trip, err := findTrip(ctx, h.db, user, input.ID)
	if err != nil {
		return nil, err
	}

	var details []error
	input.Body.apply(trip, &details)
	if err := validateTrip(*trip, details); err != nil {
		return nil, err
	}
	if err := h.db.WithContext(ctx).Save(trip).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update trip: " + err.Error())
	}
	return h.detail(ctx, *trip)
}

type DeleteRequest struct {
	auth.AuthInput
	IDPath
}

type DeleteResponse struct {
	Status int
}

// HandleDelete removes the trip together with its activities and checklist
// items.
func (h *TripHandler) HandleDelete(ctx context.Context, input *DeleteRequest) (*DeleteResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	trip, err := findTrip(ctx, h.db, user, input.ID)
	if err != nil {
		return nil, err
	}

	if err := deleteTrip(h.db.WithContext(ctx), trip.ID); err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete trip: " + err.Error())
	}
	return &DeleteResponse{Status: http.StatusNoContent}, nil
}

func (h *TripHandler) detail(ctx context.Context, trip models.Trip) (*TripResponse, error) {
	out, err := tripDetail(ctx, h.db, trip)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load trip")
	}
	return &TripResponse{Body: out}, nil
}

type TripActivitiesResponse struct {
	Body []ActivityOut
}

func (h *TripHandler) HandleActivities(ctx context.Context, input *GetTripRequest) (*TripActivitiesResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	trip, err := findTrip(ctx, h.db, user, input.ID)
	if err != nil {
		return nil, err
	}

	var activities []models.Activity
	if err := h.db.WithContext(ctx).Where("trip_id = ?", trip.ID).Order("date").Order("start_time").Find(&activities).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load activities")
	}
	out, err := activitiesOut(ctx, h.db, activities)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load activities")
	}
	return &TripActivitiesResponse{Body: out}, nil
}

type TripStatisticsResponse struct {
	Body *stats.TripStatistics
}

func (h *TripHandler) HandleStatistics(ctx context.Context, input *GetTripRequest) (*TripStatisticsResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	trip, err := findTrip(ctx, h.db, user, input.ID)
	if err != nil {
		return nil, err
	}

	out, err := stats.ForTrip(ctx, h.db, trip.ID)
	if errors.Is(err, stats.ErrTripNotFound) {
		return nil, huma.Error404NotFound("Trip not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute statistics")
	}
	return &TripStatisticsResponse{Body: out}, nil
}

type TripDashboardRequest struct {
	auth.AuthInput
}

type TripDashboardResponse struct {
	Body *stats.TripOverview
}

func (h *TripHandler) HandleDashboard(ctx context.Context, input *TripDashboardRequest) (*TripDashboardResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	out, err := stats.Overview(ctx, h.db, tripScope(user))
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute dashboard")
	}
	return &TripDashboardResponse{Body: out}, nil
}

type ExportResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (h *TripHandler) HandleExport(ctx context.Context, input *GetTripRequest) (*ExportResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	trip, err := findTrip(ctx, h.db, user, input.ID)
	if err != nil {
		return nil, err
	}

	it, err := export.Load(ctx, h.db, trip.ID)
	if errors.Is(err, export.ErrTripNotFound) {
		return nil, huma.Error404NotFound("Trip not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load trip")
	}
	buf, err := export.Workbook(it)
	if err != nil {
		log.Error().Err(err).Uint("trip_id", trip.ID).Msg("Failed to render workbook")
		return nil, huma.Error500InternalServerError("Failed to export trip")
	}

	return &ExportResponse{
		ContentType:        export.ContentType,
		ContentDisposition: `attachment; filename="` + it.Filename() + `"`,
		Body:               buf.Bytes(),
	}, nil
}

// deleteTrip removes a trip with its activities and checklist in one
// transaction. Expenses of the trip stay, unlinked from deleted activities,
// and from then on are reachable by staff only (list with orphaned=true).
func deleteTrip(db *gorm.DB, tripID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		activityIDs := tx.Model(&models.Activity{}).Select("id").Where("trip_id = ?", tripID)
		if err := tx.Model(&models.Expense{}).Where("activity_id IN (?)", activityIDs).Update("activity_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", tripID).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", tripID).Delete(&models.Checklist{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Trip{}, tripID).Error
	})
}
