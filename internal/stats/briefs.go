package stats

import (
	"context"
	"time"

	"github.com/gdg-garage/trip-planner-api/internal/models"
	"gorm.io/gorm"
)

// TripBrief is the list representation of a trip.
type TripBrief struct {
	ID              uint              `json:"id"`
	Title           string            `json:"title"`
	Destination     string            `json:"destination"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	Budget          *float64          `json:"budget"`
	Status          models.TripStatus `json:"status"`
	Image           string            `json:"image"`
	DurationDays    int               `json:"duration_days"`
	ActivitiesCount int64             `json:"activities_count"`
	CreatedAt       time.Time         `json:"created_at"`
}

// UserSummary is the representation of a user account shown to its owner and to staff.
type UserSummary struct {
	ID             uint        `json:"id"`
	Username       string      `json:"username"`
	Email          string      `json:"email"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Role           models.Role `json:"role"`
	Phone          string      `json:"phone"`
	ProfilePicture string      `json:"profile_picture"`
	CreatedAt      time.Time   `json:"created_at"`
	IsActive       bool        `json:"is_active"`
	TripsCount     int64       `json:"trips_count"`
	TotalExpenses  float64     `json:"total_expenses"`
}

func BriefTrips(ctx context.Context, db *gorm.DB, trips []models.Trip) ([]TripBrief, error) {
	briefs := make([]TripBrief, 0, len(trips))
	if len(trips) == 0 {
		return briefs, nil
	}

	ids := make([]uint, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
	}

	var rows []struct {
		TripID uint
		Count  int64
	}
	err := db.WithContext(ctx).Model(&models.Activity{}).
		Select("trip_id, COUNT(*) AS count").
		Where("trip_id IN ?", ids).
		Group("trip_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.TripID] = r.Count
	}

	for _, t := range trips {
		briefs = append(briefs, TripBrief{
			ID:              t.ID,
			Title:           t.Title,
			Destination:     t.Destination,
			StartDate:       models.FormatDate(t.StartDate),
			EndDate:         models.FormatDate(t.EndDate),
			Budget:          t.Budget,
			Status:          t.Status,
			Image:           t.Image,
			DurationDays:    t.DurationDays(),
			ActivitiesCount: counts[t.ID],
			CreatedAt:       t.CreatedAt,
		})
	}
	return briefs, nil
}

func SummarizeUsers(ctx context.Context, db *gorm.DB, users []models.User) ([]UserSummary, error) {
	summaries := make([]UserSummary, 0, len(users))
	if len(users) == 0 {
		return summaries, nil
	}

	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	var rows []struct {
		UserID        uint
		TripsCount    int64
		TotalExpenses float64
	}
	err := db.WithContext(ctx).Model(&models.Trip{}).
		Select("user_id, COUNT(*) AS trips_count, COALESCE(SUM(actual_cost), 0) AS total_expenses").
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byUser := make(map[uint]int, len(rows))
	for i, r := range rows {
		byUser[r.UserID] = i
	}

	for _, u := range users {
		s := UserSummary{
			ID:             u.ID,
			Username:       u.Username,
			Email:          u.Email,
			FirstName:      u.FirstName,
			LastName:       u.LastName,
			Role:           u.Role,
			Phone:          u.Phone,
			ProfilePicture: u.ProfilePicture,
			CreatedAt:      u.CreatedAt,
			IsActive:       u.IsActive,
		}
		if i, ok := byUser[u.ID]; ok {
			s.TripsCount = rows[i].TripsCount
			s.TotalExpenses = rows[i].TotalExpenses
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func SummarizeUser(ctx context.Context, db *gorm.DB, user models.User) (*UserSummary, error) {
	summaries, err := SummarizeUsers(ctx, db, []models.User{user})
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}
