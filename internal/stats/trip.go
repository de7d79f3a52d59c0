package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/trip-planner-api/internal/models"
	"gorm.io/gorm"
)

var ErrTripNotFound = errors.New("trip not found")

type CategoryTotal struct {
	Category models.ExpenseCategory `json:"category"`
	Total    float64                `json:"total"`
}

type Progress struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
}

type BudgetStatus struct {
	Budget    float64 `json:"budget"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

type TripStatistics struct {
	TotalActivities     int64           `json:"total_activities"`
	CompletedActivities int64           `json:"completed_activities"`
	TotalExpenses       float64         `json:"total_expenses"`
	ExpensesByCategory  []CategoryTotal `json:"expenses_by_category"`
	ChecklistProgress   Progress        `json:"checklist_progress"`
	BudgetStatus        BudgetStatus    `json:"budget_status"`
}

// NewBudgetStatus reports remaining = budget - spent, or zero when no budget is set.
func NewBudgetStatus(trip models.Trip) BudgetStatus {
	status := BudgetStatus{Spent: trip.ActualCost}
	if trip.Budget != nil {
		status.Budget = *trip.Budget
	}
	if remaining := trip.BudgetRemaining(); remaining != nil {
		status.Remaining = *remaining
	}
	return status
}

func ForTrip(ctx context.Context, db *gorm.DB, tripID uint) (*TripStatistics, error) {
	db = db.WithContext(ctx)

	var trip models.Trip
	if err := db.First(&trip, tripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	out := &TripStatistics{
		ExpensesByCategory: []CategoryTotal{},
		BudgetStatus:       NewBudgetStatus(trip),
	}

	activities, err := progress(db.Model(&models.Activity{}).Where("trip_id = ?", trip.ID))
	if err != nil {
		return nil, fmt.Errorf("count activities: %w", err)
	}
	out.TotalActivities = activities.Total
	out.CompletedActivities = activities.Completed

	if out.ChecklistProgress, err = progress(db.Model(&models.Checklist{}).Where("trip_id = ?", trip.ID)); err != nil {
		return nil, fmt.Errorf("count checklist items: %w", err)
	}

	err = db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("trip_id = ?", trip.ID).
		Scan(&out.TotalExpenses).Error
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}

	err = db.Model(&models.Expense{}).
		Select("category, SUM(amount) AS total").
		Where("trip_id = ?", trip.ID).
		Group("category").
		Order("total DESC, category ASC").
		Scan(&out.ExpensesByCategory).Error
	if err != nil {
		return nil, fmt.Errorf("group expenses: %w", err)
	}

	return out, nil
}

// progress counts all rows of q and the completed ones among them.
func progress(q *gorm.DB) (Progress, error) {
	var p Progress
	err := q.Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed").
		Scan(&p).Error
	return p, err
}
