package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdg-garage/trip-planner-api/internal/database"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/xuri/excelize/v2"
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

func TestWorkbook(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	budget := 1500.0
	trip := models.Trip{Title: "Lisbon", Destination: "Lisbon", StartDate: start, EndDate: start.AddDate(0, 0, 4), Budget: &budget, Status: models.TripUpcoming, TravelersCount: 2}
	db.Create(&trip)

	morning := "09:30"
	cost := 25.0
	db.Create(&models.Activity{TripID: trip.ID, Name: "Tram 28", Category: models.ActivityTransport, Date: start.AddDate(0, 0, 1), Time: &morning, Cost: &cost})
	db.Create(&models.Activity{TripID: trip.ID, Name: "Belem", Category: models.ActivitySightseeing, Date: start})
	db.Create(&models.Expense{TripID: trip.ID, Description: "Hotel", Amount: 400, Category: models.ExpenseAccommodation, Date: start, Currency: "EUR"})
	db.Create(&models.Expense{TripID: trip.ID, Description: "Dinner", Amount: 60.5, Category: models.ExpenseFood, Date: start, Currency: "EUR"})
	db.Create(&models.Checklist{TripID: trip.ID, Item: "Passport", Category: "documents", Priority: 5})

	it, err := Load(ctx, db, trip.ID)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if it.Filename() != "trip-1.xlsx" {
		t.Errorf("unexpected filename %s", it.Filename())
	}

	buf, err := Workbook(it)
	if err != nil {
		t.Fatalf("Workbook returned error: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("failed to read workbook back: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SheetTrip, SheetActivities, SheetExpenses, SheetChecklist}
	if len(sheets) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d: expected %s, got %s", i, want[i], sheets[i])
		}
	}

	t.Run("Trip", func(t *testing.T) {
		rows, _ := f.GetRows(SheetTrip)
		if rows[0][1] != "Lisbon" || rows[4][1] != "5" {
			t.Errorf("unexpected trip rows %v", rows)
		}
	})

	t.Run("ActivitiesInDateOrder", func(t *testing.T) {
		rows, _ := f.GetRows(SheetActivities)
		if len(rows) != 3 {
			t.Fatalf("expected header and 2 rows, got %v", rows)
		}
		if rows[1][2] != "Belem" || rows[2][2] != "Tram 28" || rows[2][1] != "09:30" {
			t.Errorf("unexpected activity rows %v", rows)
		}
	})

	t.Run("ExpensesTotal", func(t *testing.T) {
		rows, _ := f.GetRows(SheetExpenses)
		last := rows[len(rows)-1]
		if last[1] != "Total" || last[3] != "460.5" {
			t.Errorf("unexpected total row %v", last)
		}
	})

	t.Run("Checklist", func(t *testing.T) {
		rows, _ := f.GetRows(SheetChecklist)
		if len(rows) != 2 || rows[1][0] != "Passport" || rows[1][3] != "no" {
			t.Errorf("unexpected checklist rows %v", rows)
		}
	})
}

func TestLoadMissingTrip(t *testing.T) {
	db := openTestDB(t)
	if _, err := Load(context.Background(), db, 99); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}
