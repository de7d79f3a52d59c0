package handlers

import (
	"context"
	"time"

	"github.com/gdg-garage/trip-planner-api/internal/models"
	"gorm.io/gorm"
)

type Owner struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ExpenseOut struct {
	ID          uint                   `json:"id"`
	Trip        uint                   `json:"trip"`
	Activity    *uint                  `json:"activity"`
	Description string                 `json:"description"`
	Amount      float64                `json:"amount"`
	Category    models.ExpenseCategory `json:"category"`
	Date        string                 `json:"date"`
	Currency    string                 `json:"currency"`
	Notes       string                 `json:"notes"`
	CreatedAt   time.Time              `json:"created_at"`
}

type ActivityOut struct {
	ID               uint                    `json:"id"`
	Trip             uint                    `json:"trip"`
	Name             string                  `json:"name"`
	Description      string                  `json:"description"`
	Category         models.ActivityCategory `json:"category"`
	Date             string                  `json:"date"`
	Time             *string                 `json:"time"`
	Location         string                  `json:"location"`
	Cost             *float64                `json:"cost"`
	Completed        bool                    `json:"completed"`
	Rating           *int                    `json:"rating"`
	Notes            string                  `json:"notes"`
	BookingReference string                  `json:"booking_reference"`
	Expenses         []ExpenseOut            `json:"expenses"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

type ChecklistOut struct {
	ID        uint      `json:"id"`
	Trip      uint      `json:"trip"`
	Item      string    `json:"item"`
	Completed bool      `json:"completed"`
	Category  string    `json:"category"`
	Priority  int       `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

type TripDetail struct {
	ID                  uint              `json:"id"`
	User                *Owner            `json:"user"`
	Title               string            `json:"title"`
	Destination         string            `json:"destination"`
	Description         string            `json:"description"`
	StartDate           string            `json:"start_date"`
	EndDate             string            `json:"end_date"`
	Budget              *float64          `json:"budget"`
	ActualCost          float64           `json:"actual_cost"`
	Status              models.TripStatus `json:"status"`
	Image               string            `json:"image"`
	IsPublic            bool              `json:"is_public"`
	TravelersCount      int               `json:"travelers_count"`
	Notes               string            `json:"notes"`
	DurationDays        int               `json:"duration_days"`
	BudgetRemaining     *float64          `json:"budget_remaining"`
	ActivitiesCount     int               `json:"activities_count"`
	CompletedActivities int               `json:"completed_activities"`
	Activities          []ActivityOut     `json:"activities"`
	Expenses            []ExpenseOut      `json:"expenses"`
	ChecklistItems      []ChecklistOut    `json:"checklist_items"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

func expenseOut(e models.Expense) ExpenseOut {
	return ExpenseOut{
		ID:          e.ID,
		Trip:        e.TripID,
		Activity:    e.ActivityID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        models.FormatDate(e.Date),
		Currency:    e.Currency,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
	}
}

func checklistOut(c models.Checklist) ChecklistOut {
	return ChecklistOut{
		ID:        c.ID,
		Trip:      c.TripID,
		Item:      c.Item,
		Completed: c.Completed,
		Category:  c.Category,
		Priority:  c.Priority,
		CreatedAt: c.CreatedAt,
	}
}

func activityOut(a models.Activity, expenses []ExpenseOut) ActivityOut {
	if expenses == nil {
		expenses = []ExpenseOut{}
	}
	return ActivityOut{
		ID:               a.ID,
		Trip:             a.TripID,
		Name:             a.Name,
		Description:      a.Description,
		Category:         a.Category,
		Date:             models.FormatDate(a.Date),
		Time:             a.Time,
		Location:         a.Location,
		Cost:             a.Cost,
		Completed:        a.Completed,
		Rating:           a.Rating,
		Notes:            a.Notes,
		BookingReference: a.BookingReference,
		Expenses:         expenses,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// activitiesOut nests every activity's expenses, loaded in one query.
func activitiesOut(ctx context.Context, db *gorm.DB, activities []models.Activity) ([]ActivityOut, error) {
	out := make([]ActivityOut, 0, len(activities))
	if len(activities) == 0 {
		return out, nil
	}

	ids := make([]uint, len(activities))
	for i, a := range activities {
		ids[i] = a.ID
	}
	var expenses []models.Expense
	if err := db.WithContext(ctx).Where("activity_id IN ?", ids).Order("date DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	byActivity := make(map[uint][]ExpenseOut)
	for _, e := range expenses {
		byActivity[*e.ActivityID] = append(byActivity[*e.ActivityID], expenseOut(e))
	}

	for _, a := range activities {
		out = append(out, activityOut(a, byActivity[a.ID]))
	}
	return out, nil
}

func tripDetail(ctx context.Context, db *gorm.DB, trip models.Trip) (*TripDetail, error) {
	db = db.WithContext(ctx)

	var activities []models.Activity
	if err := db.Where("trip_id = ?", trip.ID).Order("date").Order("start_time").Find(&activities).Error; err != nil {
		return nil, err
	}
	var expenses []models.Expense
	if err := db.Where("trip_id = ?", trip.ID).Order("date DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	var items []models.Checklist
	if err := db.Where("trip_id = ?", trip.ID).Order("priority DESC").Order("completed").Order("created_at").Find(&items).Error; err != nil {
		return nil, err
	}

	out := &TripDetail{
		ID:              trip.ID,
		Title:           trip.Title,
		Destination:     trip.Destination,
		Description:     trip.Description,
		StartDate:       models.FormatDate(trip.StartDate),
		EndDate:         models.FormatDate(trip.EndDate),
		Budget:          trip.Budget,
		ActualCost:      trip.ActualCost,
		Status:          trip.Status,
		Image:           trip.Image,
		IsPublic:        trip.IsPublic,
		TravelersCount:  trip.TravelersCount,
		Notes:           trip.Notes,
		DurationDays:    trip.DurationDays(),
		BudgetRemaining: trip.BudgetRemaining(),
		ActivitiesCount: len(activities),
		Expenses:        make([]ExpenseOut, 0, len(expenses)),
		ChecklistItems:  make([]ChecklistOut, 0, len(items)),
		CreatedAt:       trip.CreatedAt,
		UpdatedAt:       trip.UpdatedAt,
	}

	if trip.UserID != nil {
		var owner models.User
		if err := db.First(&owner, *trip.UserID).Error; err == nil {
			out.User = &Owner{ID: owner.ID, Username: owner.Username, Email: owner.Email}
		}
	}

	byActivity := make(map[uint][]ExpenseOut)
	for _, e := range expenses {
		eo := expenseOut(e)
		out.Expenses = append(out.Expenses, eo)
		if e.ActivityID != nil {
			byActivity[*e.ActivityID] = append(byActivity[*e.ActivityID], eo)
		}
	}
	out.Activities = make([]ActivityOut, 0, len(activities))
	for _, a := range activities {
		if a.Completed {
			out.CompletedActivities++
		}
		out.Activities = append(out.Activities, activityOut(a, byActivity[a.ID]))
	}
	for _, c := range items {
		out.ChecklistItems = append(out.ChecklistItems, checklistOut(c))
	}
	return out, nil
}
