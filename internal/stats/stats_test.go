package stats

import (
	"context"
	"testing"
	"time"

	"github.com/gdg-garage/trip-planner-api/internal/database"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func floatPtr(f float64) *float64 { return &f }

func day(offset int) time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func createTrip(t *testing.T, db *gorm.DB, trip models.Trip) models.Trip {
	t.Helper()
	if trip.StartDate.IsZero() {
		trip.StartDate = day(0)
	}
	if trip.EndDate.IsZero() {
		trip.EndDate = trip.StartDate.AddDate(0, 0, 3)
	}
	if trip.TravelersCount == 0 {
		trip.TravelersCount = 1
	}
	if err := db.Create(&trip).Error; err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}
	return trip
}

func createUser(t *testing.T, db *gorm.DB, user models.User) models.User {
	t.Helper()
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestForTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	trip := createTrip(t, db, models.Trip{Title: "Lisbon", Destination: "Lisbon", Budget: floatPtr(1000), ActualCost: 250})

	activities := []models.Activity{
		{TripID: trip.ID, Name: "Tram 28", Date: day(0), Completed: true},
		{TripID: trip.ID, Name: "Belem", Date: day(1)},
		{TripID: trip.ID, Name: "Sintra", Date: day(2), Completed: true},
	}
	db.Create(&activities)

	db.Create(&[]models.Expense{
		{TripID: trip.ID, Description: "Hotel", Amount: 300, Category: models.ExpenseAccommodation, Date: day(0)},
		{TripID: trip.ID, Description: "Dinner", Amount: 40, Category: models.ExpenseFood, Date: day(0)},
		{TripID: trip.ID, Description: "Lunch", Amount: 25.5, Category: models.ExpenseFood, Date: day(1)},
	})
	db.Create(&[]models.Checklist{
		{TripID: trip.ID, Item: "Passport", Completed: true},
		{TripID: trip.ID, Item: "Adapter"},
	})

	other := createTrip(t, db, models.Trip{Title: "Other", Destination: "Rome"})
	db.Create(&models.Expense{TripID: other.ID, Description: "Noise", Amount: 999, Category: models.ExpenseOther, Date: day(0)})

	stats, err := ForTrip(ctx, db, trip.ID)
	if err != nil {
		t.Fatalf("ForTrip returned error: %v", err)
	}

	if stats.TotalActivities != 3 || stats.CompletedActivities != 2 {
		t.Errorf("expected 3/2 activities, got %d/%d", stats.TotalActivities, stats.CompletedActivities)
	}
	if stats.TotalExpenses != 365.5 {
		t.Errorf("expected total expenses 365.5, got %v", stats.TotalExpenses)
	}
	if len(stats.ExpensesByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(stats.ExpensesByCategory))
	}
	if stats.ExpensesByCategory[0].Category != models.ExpenseAccommodation || stats.ExpensesByCategory[0].Total != 300 {
		t.Errorf("expected accommodation first, got %+v", stats.ExpensesByCategory[0])
	}
	if stats.ExpensesByCategory[1].Total != 65.5 {
		t.Errorf("expected food total 65.5, got %v", stats.ExpensesByCategory[1].Total)
	}
	if stats.ChecklistProgress.Total != 2 || stats.ChecklistProgress.Completed != 1 {
		t.Errorf("unexpected checklist progress %+v", stats.ChecklistProgress)
	}

	want := BudgetStatus{Budget: 1000, Spent: 250, Remaining: 750}
	if stats.BudgetStatus != want {
		t.Errorf("expected budget status %+v, got %+v", want, stats.BudgetStatus)
	}
}

func TestForTripEmptyAndMissing(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	trip := createTrip(t, db, models.Trip{Title: "Empty", Destination: "Nowhere", ActualCost: 80})

	stats, err := ForTrip(ctx, db, trip.ID)
	if err != nil {
		t.Fatalf("ForTrip returned error: %v", err)
	}
	if stats.TotalExpenses != 0 {
		t.Errorf("expected zero expenses, got %v", stats.TotalExpenses)
	}
	if stats.ExpensesByCategory == nil || len(stats.ExpensesByCategory) != 0 {
		t.Errorf("expected empty category list, got %v", stats.ExpensesByCategory)
	}
	if stats.BudgetStatus != (BudgetStatus{Budget: 0, Spent: 80, Remaining: 0}) {
		t.Errorf("expected zero remaining without budget, got %+v", stats.BudgetStatus)
	}

	if _, err := ForTrip(ctx, db, 4242); err != ErrTripNotFound {
		t.Errorf("expected ErrTripNotFound, got %v", err)
	}
}

func TestNewBudgetStatus(t *testing.T) {
	cases := []struct {
		budget *float64
		cost   float64
		want   BudgetStatus
	}{
		{floatPtr(1000), 250, BudgetStatus{1000, 250, 750}},
		{floatPtr(100), 180, BudgetStatus{100, 180, -80}},
		{nil, 50, BudgetStatus{0, 50, 0}},
		{floatPtr(0), 0, BudgetStatus{0, 0, 0}},
	}
	for _, c := range cases {
		if got := NewBudgetStatus(models.Trip{Budget: c.budget, ActualCost: c.cost}); got != c.want {
			t.Errorf("budget %v cost %v: expected %+v, got %+v", c.budget, c.cost, c.want, got)
		}
	}
}

func TestAdmin(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC)
	boundary := now.Add(-30 * 24 * time.Hour)

	createUser(t, db, models.User{Username: "root", Role: models.RoleSuperadmin, IsActive: true, CreatedAt: now.AddDate(0, -6, 0)})
	createUser(t, db, models.User{Username: "staff", Role: models.RoleAdmin, IsActive: true, CreatedAt: boundary})
	alice := createUser(t, db, models.User{Username: "alice", Role: models.RoleUser, IsActive: true, CreatedAt: boundary.Add(-time.Second)})
	bob := createUser(t, db, models.User{Username: "bob", Role: models.RoleUser, IsActive: false, CreatedAt: now.Add(-time.Hour)})

	createTrip(t, db, models.Trip{UserID: &alice.ID, Title: "a1", Destination: "Paris", Status: models.TripUpcoming, Budget: floatPtr(500), ActualCost: 100, CreatedAt: now.AddDate(0, -2, 0)})
	createTrip(t, db, models.Trip{UserID: &alice.ID, Title: "a2", Destination: "Paris", Status: models.TripOngoing, Budget: floatPtr(300), ActualCost: 50, CreatedAt: now.Add(-48 * time.Hour)})
	createTrip(t, db, models.Trip{UserID: &bob.ID, Title: "b1", Destination: "Oslo", Status: models.TripCompleted, ActualCost: 20, CreatedAt: boundary})
	createTrip(t, db, models.Trip{Title: "orphan", Destination: "Berlin", CreatedAt: now.AddDate(-1, 0, 0)})

	dash, err := Admin(ctx, db, now)
	if err != nil {
		t.Fatalf("Admin returned error: %v", err)
	}

	s := dash.SystemStats
	if s.TotalUsers != 4 || s.ActiveUsers != 3 {
		t.Errorf("expected 4 users / 3 active, got %d / %d", s.TotalUsers, s.ActiveUsers)
	}
	if s.TotalTrips != 4 || s.ActiveTrips != 2 {
		t.Errorf("expected 4 trips / 2 active, got %d / %d", s.TotalTrips, s.ActiveTrips)
	}
	if s.TotalBudget != 800 || s.TotalExpenses != 170 {
		t.Errorf("expected budget 800 / expenses 170, got %v / %v", s.TotalBudget, s.TotalExpenses)
	}
	if s.NewUsersMonth != 2 {
		t.Errorf("expected 2 new users (boundary inclusive), got %d", s.NewUsersMonth)
	}
	if s.NewTripsMonth != 2 {
		t.Errorf("expected 2 new trips (boundary inclusive), got %d", s.NewTripsMonth)
	}

	var roleSum int64
	for _, n := range dash.UsersByRole {
		roleSum += n
	}
	if roleSum != s.TotalUsers {
		t.Errorf("users_by_role sums to %d, total_users is %d", roleSum, s.TotalUsers)
	}
	if dash.UsersByRole["user"] != 2 || dash.UsersByRole["admin"] != 1 || dash.UsersByRole["superadmin"] != 1 {
		t.Errorf("unexpected users_by_role %v", dash.UsersByRole)
	}
	if dash.TripsByStatus["planning"] != 1 || dash.TripsByStatus["cancelled"] != 0 {
		t.Errorf("unexpected trips_by_status %v", dash.TripsByStatus)
	}
	if len(dash.TripsByStatus) != len(models.TripStatuses) {
		t.Errorf("expected every status key, got %v", dash.TripsByStatus)
	}

	if len(dash.RecentUsers) != 4 || dash.RecentUsers[0].Username != "bob" {
		t.Errorf("expected bob as most recent user, got %+v", dash.RecentUsers)
	}
	for _, u := range dash.RecentUsers {
		if u.Username == "alice" && (u.TripsCount != 2 || u.TotalExpenses != 150) {
			t.Errorf("unexpected alice summary %+v", u)
		}
	}
	if len(dash.RecentTrips) != 4 || dash.RecentTrips[0].Title != "a2" {
		t.Errorf("expected a2 as most recent trip, got %+v", dash.RecentTrips)
	}

	if len(dash.TopDestinations) != 3 {
		t.Fatalf("expected 3 destinations, got %d", len(dash.TopDestinations))
	}
	if dash.TopDestinations[0] != (DestinationCount{"Paris", 2}) {
		t.Errorf("expected Paris first, got %+v", dash.TopDestinations[0])
	}
	if dash.TopDestinations[1].Destination != "Berlin" {
		t.Errorf("expected ties ordered by name, got %+v", dash.TopDestinations)
	}
}

func TestAdminLimits(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()

	for i := 0; i < 7; i++ {
		createUser(t, db, models.User{Username: "u" + string(rune('a'+i)), Role: models.RoleUser, IsActive: true})
	}
	for i := 0; i < 12; i++ {
		createTrip(t, db, models.Trip{Title: "t", Destination: string(rune('A' + i%6))})
	}

	dash, err := Admin(context.Background(), db, now)
	if err != nil {
		t.Fatalf("Admin returned error: %v", err)
	}
	if len(dash.RecentUsers) != 5 {
		t.Errorf("expected 5 recent users, got %d", len(dash.RecentUsers))
	}
	if len(dash.RecentTrips) != 10 {
		t.Errorf("expected 10 recent trips, got %d", len(dash.RecentTrips))
	}
	if len(dash.TopDestinations) != 5 {
		t.Errorf("expected 5 destinations, got %d", len(dash.TopDestinations))
	}
}

func TestUser(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	alice := createUser(t, db, models.User{Username: "alice", Role: models.RoleUser, IsActive: true})
	bob := createUser(t, db, models.User{Username: "bob", Role: models.RoleUser, IsActive: true})
	base := time.Now().Add(-time.Hour)

	mk := func(title, dest string, status models.TripStatus, start int, offset time.Duration) {
		createTrip(t, db, models.Trip{
			UserID: &alice.ID, Title: title, Destination: dest, Status: status,
			StartDate: day(start), Budget: floatPtr(100), ActualCost: 10, CreatedAt: base.Add(offset),
		})
	}
	mk("u1", "Rome", models.TripUpcoming, 30, 1*time.Minute)
	mk("u2", "Rome", models.TripUpcoming, 10, 2*time.Minute)
	mk("u3", "Kyoto", models.TripUpcoming, 20, 3*time.Minute)
	mk("u4", "Kyoto", models.TripUpcoming, 40, 4*time.Minute)
	mk("o1", "Rome", models.TripOngoing, 0, 5*time.Minute)
	mk("c1", "Quito", models.TripCompleted, -30, 6*time.Minute)
	mk("p1", "Lima", models.TripPlanning, 60, 7*time.Minute)
	createTrip(t, db, models.Trip{UserID: &bob.ID, Title: "bob", Destination: "Rome", Status: models.TripUpcoming, StartDate: day(1)})

	dash, err := User(ctx, db, alice.ID)
	if err != nil {
		t.Fatalf("User returned error: %v", err)
	}

	p := dash.PersonalStats
	if p.TotalTrips != 7 || p.UpcomingTrips != 4 || p.OngoingTrips != 1 || p.CompletedTrips != 1 {
		t.Errorf("unexpected personal stats %+v", p)
	}
	if p.TotalBudget != 700 || p.TotalExpenses != 70 {
		t.Errorf("expected budget 700 / expenses 70, got %v / %v", p.TotalBudget, p.TotalExpenses)
	}

	if len(dash.FavoriteDestinations) != 3 || dash.FavoriteDestinations[0] != (DestinationCount{"Rome", 3}) {
		t.Errorf("unexpected favorites %+v", dash.FavoriteDestinations)
	}
	if len(dash.RecentTrips) != 5 || dash.RecentTrips[0].Title != "p1" {
		t.Errorf("unexpected recent trips %+v", dash.RecentTrips)
	}

	if len(dash.UpcomingTrips) != 3 {
		t.Fatalf("expected 3 upcoming trips, got %d", len(dash.UpcomingTrips))
	}
	for i, want := range []string{"u2", "u3", "u1"} {
		if dash.UpcomingTrips[i].Title != want {
			t.Errorf("upcoming[%d]: expected %s, got %s", i, want, dash.UpcomingTrips[i].Title)
		}
	}
}

func TestOverviewAndActivity(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	alice := createUser(t, db, models.User{Username: "alice", Role: models.RoleUser, IsActive: true})
	trip := createTrip(t, db, models.Trip{UserID: &alice.ID, Title: "mine", Destination: "Rome", Status: models.TripOngoing})
	createTrip(t, db, models.Trip{Title: "other", Destination: "Oslo", Status: models.TripCompleted})
	db.Create(&models.Activity{TripID: trip.ID, Name: "Colosseum", Date: day(0)})

	all, err := Overview(ctx, db, AllTrips)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if all.TotalTrips != 2 || all.OngoingTrips != 1 || all.CompletedTrips != 1 {
		t.Errorf("unexpected overview %+v", all)
	}

	mine, err := Overview(ctx, db, OwnedBy(alice.ID))
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if mine.TotalTrips != 1 || len(mine.RecentTrips) != 1 || mine.RecentTrips[0].ActivitiesCount != 1 {
		t.Errorf("unexpected scoped overview %+v", mine)
	}
	if mine.RecentTrips[0].DurationDays != 4 {
		t.Errorf("expected 4 day trip, got %d", mine.RecentTrips[0].DurationDays)
	}

	log, err := UserActivity(ctx, db, alice.ID)
	if err != nil {
		t.Fatalf("UserActivity returned error: %v", err)
	}
	if log.TotalTrips != 1 || log.ActiveTrips != 1 {
		t.Errorf("unexpected activity log %+v", log)
	}
}
