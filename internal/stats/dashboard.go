package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/gdg-garage/trip-planner-api/internal/models"
	"gorm.io/gorm"
)

const (
	adminRecentUsers     = 5
	adminRecentTrips     = 10
	adminTopDestinations = 5
	newAccountsWindow    = 30 * 24 * time.Hour

	userFavoriteDestinations = 3
	userRecentTrips          = 5
	userUpcomingTrips        = 3

	overviewRecentTrips = 5
	activityLogTrips    = 10
)

// Scope narrows a trip query, e.g. to one owner.
type Scope func(*gorm.DB) *gorm.DB

// AllTrips leaves a trip query unrestricted.
func AllTrips(db *gorm.DB) *gorm.DB { return db }

// OwnedBy restricts a trip query to trips of userID.
func OwnedBy(userID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("trips.user_id = ?", userID)
	}
}

type DestinationCount struct {
	Destination string `json:"destination"`
	Count       int64  `json:"count"`
}

type SystemStats struct {
	TotalUsers    int64   `json:"total_users"`
	ActiveUsers   int64   `json:"active_users"`
	TotalTrips    int64   `json:"total_trips"`
	ActiveTrips   int64   `json:"active_trips"`
	TotalBudget   float64 `json:"total_budget"`
	TotalExpenses float64 `json:"total_expenses"`
	NewUsersMonth int64   `json:"new_users_month"`
	NewTripsMonth int64   `json:"new_trips_month"`
}

type AdminDashboard struct {
	SystemStats     SystemStats        `json:"system_stats"`
	UsersByRole     map[string]int64   `json:"users_by_role"`
	TripsByStatus   map[string]int64   `json:"trips_by_status"`
	RecentUsers     []UserSummary      `json:"recent_users"`
	RecentTrips     []TripBrief        `json:"recent_trips"`
	TopDestinations []DestinationCount `json:"top_destinations"`
}

type PersonalStats struct {
	TotalTrips     int64   `json:"total_trips"`
	UpcomingTrips  int64   `json:"upcoming_trips"`
	OngoingTrips   int64   `json:"ongoing_trips"`
	CompletedTrips int64   `json:"completed_trips"`
	TotalExpenses  float64 `json:"total_expenses"`
	TotalBudget    float64 `json:"total_budget"`
}

type UserDashboard struct {
	PersonalStats        PersonalStats      `json:"personal_stats"`
	FavoriteDestinations []DestinationCount `json:"favorite_destinations"`
	RecentTrips          []TripBrief        `json:"recent_trips"`
	UpcomingTrips        []TripBrief        `json:"upcoming_trips"`
}

type TripOverview struct {
	TotalTrips     int64       `json:"total_trips"`
	UpcomingTrips  int64       `json:"upcoming_trips"`
	OngoingTrips   int64       `json:"ongoing_trips"`
	CompletedTrips int64       `json:"completed_trips"`
	RecentTrips    []TripBrief `json:"recent_trips"`
}

type ActivityLog struct {
	RecentTrips []TripBrief `json:"recent_trips"`
	TotalTrips  int64       `json:"total_trips"`
	ActiveTrips int64       `json:"active_trips"`
}

// Admin aggregates system wide figures. New accounts and trips are those
// created at or after now minus 30 days.
func Admin(ctx context.Context, db *gorm.DB, now time.Time) (*AdminDashboard, error) {
	db = db.WithContext(ctx)
	out := &AdminDashboard{}
	since := now.Add(-newAccountsWindow)

	var err error
	if out.UsersByRole, err = groupCount(db.Model(&models.User{}), "role", roleKeys()); err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}
	if out.TripsByStatus, err = countByStatus(db, AllTrips); err != nil {
		return nil, fmt.Errorf("count trips by status: %w", err)
	}
	for _, n := range out.UsersByRole {
		out.SystemStats.TotalUsers += n
	}
	for _, n := range out.TripsByStatus {
		out.SystemStats.TotalTrips += n
	}
	for _, s := range models.ActiveTripStatuses {
		out.SystemStats.ActiveTrips += out.TripsByStatus[string(s)]
	}

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&models.User{}).Where("is_active = ?", true), &out.SystemStats.ActiveUsers},
		{db.Model(&models.User{}).Where("created_at >= ?", since), &out.SystemStats.NewUsersMonth},
		{db.Model(&models.Trip{}).Where("created_at >= ?", since), &out.SystemStats.NewTripsMonth},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count: %w", err)
		}
	}

	if out.SystemStats.TotalBudget, err = sumColumn(db, AllTrips, "budget"); err != nil {
		return nil, err
	}
	if out.SystemStats.TotalExpenses, err = sumColumn(db, AllTrips, "actual_cost"); err != nil {
		return nil, err
	}

	var users []models.User
	if err := db.Order("created_at DESC, id DESC").Limit(adminRecentUsers).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}
	if out.RecentUsers, err = SummarizeUsers(ctx, db, users); err != nil {
		return nil, err
	}

	if out.RecentTrips, err = recentTrips(ctx, db, AllTrips, adminRecentTrips); err != nil {
		return nil, err
	}
	if out.TopDestinations, err = topDestinations(db, AllTrips, adminTopDestinations); err != nil {
		return nil, err
	}

	return out, nil
}

// User aggregates the trips owned by userID.
func User(ctx context.Context, db *gorm.DB, userID uint) (*UserDashboard, error) {
	db = db.WithContext(ctx)
	scope := OwnedBy(userID)
	out := &UserDashboard{}

	byStatus, err := countByStatus(db, scope)
	if err != nil {
		return nil, fmt.Errorf("count trips by status: %w", err)
	}
	for _, n := range byStatus {
		out.PersonalStats.TotalTrips += n
	}
	out.PersonalStats.UpcomingTrips = byStatus[string(models.TripUpcoming)]
	out.PersonalStats.OngoingTrips = byStatus[string(models.TripOngoing)]
	out.PersonalStats.CompletedTrips = byStatus[string(models.TripCompleted)]

	if out.PersonalStats.TotalExpenses, err = sumColumn(db, scope, "actual_cost"); err != nil {
		return nil, err
	}
	if out.PersonalStats.TotalBudget, err = sumColumn(db, scope, "budget"); err != nil {
		return nil, err
	}

	if out.FavoriteDestinations, err = topDestinations(db, scope, userFavoriteDestinations); err != nil {
		return nil, err
	}
	if out.RecentTrips, err = recentTrips(ctx, db, scope, userRecentTrips); err != nil {
		return nil, err
	}

	var upcoming []models.Trip
	err = db.Model(&models.Trip{}).Scopes(scope).
		Where("status = ?", models.TripUpcoming).
		Order("start_date ASC, id ASC").
		Limit(userUpcomingTrips).
		Find(&upcoming).Error
	if err != nil {
		return nil, fmt.Errorf("upcoming trips: %w", err)
	}
	if out.UpcomingTrips, err = BriefTrips(ctx, db, upcoming); err != nil {
		return nil, err
	}

	return out, nil
}

// Overview summarises the trips visible through scope.
func Overview(ctx context.Context, db *gorm.DB, scope Scope) (*TripOverview, error) {
	db = db.WithContext(ctx)
	out := &TripOverview{}

	byStatus, err := countByStatus(db, scope)
	if err != nil {
		return nil, fmt.Errorf("count trips by status: %w", err)
	}
	for _, n := range byStatus {
		out.TotalTrips += n
	}
	out.UpcomingTrips = byStatus[string(models.TripUpcoming)]
	out.OngoingTrips = byStatus[string(models.TripOngoing)]
	out.CompletedTrips = byStatus[string(models.TripCompleted)]

	if out.RecentTrips, err = recentTrips(ctx, db, scope, overviewRecentTrips); err != nil {
		return nil, err
	}
	return out, nil
}

func UserActivity(ctx context.Context, db *gorm.DB, userID uint) (*ActivityLog, error) {
	db = db.WithContext(ctx)
	scope := OwnedBy(userID)
	out := &ActivityLog{}

	byStatus, err := countByStatus(db, scope)
	if err != nil {
		return nil, fmt.Errorf("count trips by status: %w", err)
	}
	for _, n := range byStatus {
		out.TotalTrips += n
	}
	for _, s := range models.ActiveTripStatuses {
		out.ActiveTrips += byStatus[string(s)]
	}

	if out.RecentTrips, err = recentTrips(ctx, db, scope, activityLogTrips); err != nil {
		return nil, err
	}
	return out, nil
}

func roleKeys() []string {
	keys := make([]string, len(models.Roles))
	for i, r := range models.Roles {
		keys[i] = string(r)
	}
	return keys
}

func statusKeys() []string {
	keys := make([]string, len(models.TripStatuses))
	for i, s := range models.TripStatuses {
		keys[i] = string(s)
	}
	return keys
}

// groupCount counts rows of q per value of column. Every key in keys is
// present in the result, zero when no row has that value.
func groupCount(q *gorm.DB, column string, keys []string) (map[string]int64, error) {
	var rows []struct {
		Value string
		Count int64
	}
	err := q.Select(column + " AS value, COUNT(*) AS count").Group(column).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(keys))
	for _, k := range keys {
		out[k] = 0
	}
	for _, r := range rows {
		out[r.Value] += r.Count
	}
	return out, nil
}

func countByStatus(db *gorm.DB, scope Scope) (map[string]int64, error) {
	return groupCount(db.Model(&models.Trip{}).Scopes(scope), "status", statusKeys())
}

func sumColumn(db *gorm.DB, scope Scope, column string) (float64, error) {
	var total float64
	err := db.Model(&models.Trip{}).Scopes(scope).
		Select("COALESCE(SUM(" + column + "), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum %s: %w", column, err)
	}
	return total, nil
}

func recentTrips(ctx context.Context, db *gorm.DB, scope Scope, limit int) ([]TripBrief, error) {
	var trips []models.Trip
	err := db.Model(&models.Trip{}).Scopes(scope).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&trips).Error
	if err != nil {
		return nil, fmt.Errorf("recent trips: %w", err)
	}
	return BriefTrips(ctx, db, trips)
}

func topDestinations(db *gorm.DB, scope Scope, limit int) ([]DestinationCount, error) {
	out := []DestinationCount{}
	err := db.Model(&models.Trip{}).Scopes(scope).
		Select("destination, COUNT(id) AS count").
		Group("destination").
		Order("count DESC, destination ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("top destinations: %w", err)
	}
	return out, nil
}
