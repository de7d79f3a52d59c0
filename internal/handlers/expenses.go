package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/trip-planner-api/internal/auth"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/gdg-garage/trip-planner-api/internal/query"
	"gorm.io/gorm"
)

var expenseOrdering = map[string]string{
	"date":   "date",
	"amount": "amount",
}

type ExpenseHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewExpenseHandler(db *gorm.DB, authHandler *auth.AuthHandler) *ExpenseHandler {
	return &ExpenseHandler{db: db, authHandler: authHandler}
}

type ExpenseFields struct {
	Trip        *uint                   `json:"trip,omitempty" doc:"Trip ID"`
	Activity    Nullable[uint]          `json:"activity,omitempty" doc:"Activity ID within the same trip; null unlinks"`
	Description *string                 `json:"description,omitempty" maxLength:"200"`
	Amount      *float64                `json:"amount,omitempty" minimum:"0"`
	Category    *models.ExpenseCategory `json:"category,omitempty" enum:"accommodation,food,transport,activities,shopping,other"`
	Date        *string                 `json:"date,omitempty" format:"date"`
	Currency    *string                 `json:"currency,omitempty" minLength:"3" maxLength:"3"`
	Notes       *string                 `json:"notes,omitempty"`
}

func (f ExpenseFields) apply(e *models.Expense, details *[]error) {
	if f.Trip != nil {
		e.TripID = *f.Trip
	}
	f.Activity.assign(&e.ActivityID)
	if f.Description != nil {
		e.Description = strings.TrimSpace(*f.Description)
	}
	if f.Amount != nil {
		e.Amount = *f.Amount
	}
	if f.Category != nil {
		e.Category = *f.Category
	}
	if f.Date != nil {
		e.Date = parseDate("body.date", *f.Date, details)
	}
	if f.Currency != nil {
		e.Currency = strings.ToUpper(*f.Currency)
	}
	if f.Notes != nil {
		e.Notes = *f.Notes
	}
}

func (h *ExpenseHandler) validate(ctx context.Context, e models.Expense, details []error) error {
	if e.Description == "" {
		details = append(details, fieldError("body.description", "This field may not be blank."))
	}
	if e.Amount < 0 {
		details = append(details, fieldError("body.amount", "Ensure this value is greater than or equal to 0."))
	}
	if !e.Category.Valid() {
		details = append(details, fieldError("body.category", "Not a valid choice."))
	}
	if len(e.Currency) != 3 {
		details = append(details, fieldError("body.currency", "Use a 3 letter currency code."))
	}
	if e.ActivityID != nil {
		var count int64
		err := h.db.WithContext(ctx).Model(&models.Activity{}).
			Where("id = ? AND trip_id = ?", *e.ActivityID, e.TripID).
			Count(&count).Error
		if err != nil {
			return huma.Error500InternalServerError("Failed to load activity")
		}
		if count == 0 {
			details = append(details, fieldError("body.activity", fmt.Sprintf("Activity %d does not belong to trip %d.", *e.ActivityID, e.TripID)))
		}
	}
	if len(details) > 0 {
		return validationFailed(details)
	}
	return nil
}

type ListExpensesRequest struct {
	auth.AuthInput
	Trip     uint   `query:"trip" doc:"Filter by trip ID"`
	Category string `query:"category"`
	Orphaned bool   `query:"orphaned" doc:"Only expenses whose trip was deleted"`
	Ordering string `query:"ordering" doc:"date or amount; prefix with - for descending"`
}

type ExpenseListResponse struct {
	Body []ExpenseOut
}

func (h *ExpenseHandler) HandleList(ctx context.Context, input *ListExpensesRequest) (*ExpenseListResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	q := visibleExpenses(h.db.WithContext(ctx).Model(&models.Expense{}), user)
	if input.Orphaned {
		q = q.Where("trip_id NOT IN (?)", h.db.Model(&models.Trip{}).Select("id"))
	}
	if input.Trip != 0 {
		q = q.Where("trip_id = ?", input.Trip)
	}
	if input.Category != "" {
		q = q.Where("category = ?", input.Category)
	}
	q = query.Ordering(q, input.Ordering, expenseOrdering, "date DESC", "id DESC")

	var expenses []models.Expense
	if err := q.Find(&expenses).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list expenses")
	}

	res := &ExpenseListResponse{Body: make([]ExpenseOut, 0, len(expenses))}
	for _, e := range expenses {
		res.Body = append(res.Body, expenseOut(e))
	}
	return res, nil
}

type CreateExpenseRequest struct {
	auth.AuthInput
	Body ExpenseFields
}

type ExpenseResponse struct {
	Body ExpenseOut
}

func (h *ExpenseHandler) HandleCreate(ctx context.Context, input *CreateExpenseRequest) (*ExpenseResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var details []error
	in := input.Body
	for _, f := range []struct {
		location string
		missing  bool
	}{
		{"body.trip", in.Trip == nil},
		{"body.description", in.Description == nil},
		{"body.amount", in.Amount == nil},
		{"body.category", in.Category == nil},
		{"body.date", in.Date == nil},
	} {
		if f.missing {
			details = append(details, fieldError(f.location, "This field is required."))
		}
	}
	if len(details) > 0 {
		return nil, validationFailed(details)
	}

	expense := models.Expense{Currency: "USD"}
	in.apply(&expense, &details)
	if err := checkTripRef(ctx, h.db, user, expense.TripID, &details); err != nil {
		return nil, err
	}
	if err := h.validate(ctx, expense, details); err != nil {
		return nil, err
	}

	if err := h.db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create expense: " + err.Error())
	}
	return &ExpenseResponse{Body: expenseOut(expense)}, nil
}

type GetExpenseRequest struct {
	auth.AuthInput
	IDPath
}

func (h *ExpenseHandler) HandleGet(ctx context.Context, input *GetExpenseRequest) (*ExpenseResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	expense, err := findExpense(ctx, h.db, user, input.ID)
	if err != nil {
		return nil, err
	}
	return &ExpenseResponse{Body: expenseOut(*expense)}, nil
}

type UpdateExpenseRequest struct {
	auth.AuthInput
	IDPath
	Body ExpenseFields
}

func (h *ExpenseHandler) HandleUpdate(ctx context.Context, input *UpdateExpenseRequest) (*ExpenseResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	expense, err := findExpense(ctx, h.db, user, input.ID)
	if err != nil {
		return nil, err
	}

	var details []error
	input.Body.apply(expense, &details)
	if input.Body.Trip != nil {
		if err := checkTripRef(ctx, h.db, user, expense.TripID, &details); err != nil {
			return nil, err
		}
	}
	if err := h.validate(ctx, *expense, details); err != nil {
		return nil, err
	}

	if err := h.db.WithContext(ctx).Save(expense).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update expense: " + err.Error())
	}
	return &ExpenseResponse{Body: expenseOut(*expense)}, nil
}

func (h *ExpenseHandler) HandleDelete(ctx context.Context, input *DeleteRequest) (*DeleteResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	expense, err := findExpense(ctx, h.db, user, input.ID)
	if err != nil {
		return nil, err
	}
	if err := h.db.WithContext(ctx).Delete(expense).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete expense: " + err.Error())
	}
	return &DeleteResponse{Status: http.StatusNoContent}, nil
}
