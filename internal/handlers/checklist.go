package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/trip-planner-api/internal/auth"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"gorm.io/gorm"
)

type ChecklistHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewChecklistHandler(db *gorm.DB, authHandler *auth.AuthHandler) *ChecklistHandler {
	return &ChecklistHandler{db: db, authHandler: authHandler}
}

type ChecklistFields struct {
	Trip      *uint   `json:"trip,omitempty" doc:"Trip ID"`
	Item      *string `json:"item,omitempty" maxLength:"200"`
	Completed *bool   `json:"completed,omitempty"`
	Category  *string `json:"category,omitempty" maxLength:"50"`
	Priority  *int    `json:"priority,omitempty" doc:"Higher comes first"`
}

func (f ChecklistFields) apply(c *models.Checklist) {
	if f.Trip != nil {
		c.TripID = *f.Trip
	}
	if f.Item != nil {
		c.Item = strings.TrimSpace(*f.Item)
	}
	if f.Completed != nil {
		c.Completed = *f.Completed
	}
	if f.Category != nil {
		c.Category = strings.TrimSpace(*f.Category)
	}
	if f.Priority != nil {
		c.Priority = *f.Priority
	}
}

func validateChecklist(c models.Checklist, details []error) error {
	if c.Item == "" {
		details = append(details, fieldError("body.item", "This field may not be blank."))
	}
	if c.Category == "" {
		details = append(details, fieldError("body.category", "This field may not be blank."))
	}
	if len(details) > 0 {
		return validationFailed(details)
	}
	return nil
}

type ListChecklistRequest struct {
	auth.AuthInput
	Trip      uint   `query:"trip" doc:"Filter by trip ID"`
	Completed string `query:"completed" doc:"true or false"`
}

type ChecklistListResponse struct {
	Body []ChecklistOut
}

func (h *ChecklistHandler) HandleList(ctx context.Context, input *ListChecklistRequest) (*ChecklistListResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	q := h.db.WithContext(ctx).Model(&models.Checklist{}).Where("trip_id IN (?)", visibleTripIDs(h.db, user))
	if input.Trip != 0 {
		q = q.Where("trip_id = ?", input.Trip)
	}
	if q, err = completedFilter(q, input.Completed); err != nil {
		return nil, err
	}

	var items []models.Checklist
	if err := q.Order("priority DESC").Order("completed").Order("created_at").Find(&items).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list checklist items")
	}

	res := &ChecklistListResponse{Body: make([]ChecklistOut, 0, len(items))}
	for _, c := range items {
		res.Body = append(res.Body, checklistOut(c))
	}
	return res, nil
}

type CreateChecklistRequest struct {
	auth.AuthInput
	Body ChecklistFields
}

type ChecklistResponse struct {
	Body ChecklistOut
}

func (h *ChecklistHandler) HandleCreate(ctx context.Context, input *CreateChecklistRequest) (*ChecklistResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var details []error
	if input.Body.Trip == nil {
		details = append(details, fieldError("body.trip", "This field is required."))
	}
	if input.Body.Item == nil {
		details = append(details, fieldError("body.item", "This field is required."))
	}
	if len(details) > 0 {
		return nil, validationFailed(details)
	}

	item := models.Checklist{Category: "general"}
	input.Body.apply(&item)
	if err := checkTripRef(ctx, h.db, user, item.TripID, &details); err != nil {
		return nil, err
	}
	if err := validateChecklist(item, details); err != nil {
		return nil, err
	}

	if err := h.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create checklist item: " + err.Error())
	}
	return &ChecklistResponse{Body: checklistOut(item)}, nil
}

type GetChecklistRequest struct {
	auth.AuthInput
	IDPath
}

func (h *ChecklistHandler) HandleGet(ctx context.Context, input *GetChecklistRequest) (*ChecklistResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var item models.Checklist
	if err := findInVisibleTrip(ctx, h.db, user, &item, input.ID, "Checklist item"); err != nil {
		return nil, err
	}
	return &ChecklistResponse{Body: checklistOut(item)}, nil
}

type UpdateChecklistRequest struct {
	auth.AuthInput
	IDPath
	Body ChecklistFields
}

func (h *ChecklistHandler) HandleUpdate(ctx context.Context, input *UpdateChecklistRequest) (*ChecklistResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var item models.Checklist
	if err := findInVisibleTrip(ctx, h.db, user, &item, input.ID, "Checklist item"); err != nil {
		return nil, err
	}

	var details []error
	input.Body.apply(&item)
	if input.Body.Trip != nil {
		if err := checkTripRef(ctx, h.db, user, item.TripID, &details); err != nil {
			return nil, err
		}
	}
	if err := validateChecklist(item, details); err != nil {
		return nil, err
	}

	if err := h.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update checklist item: " + err.Error())
	}
	return &ChecklistResponse{Body: checklistOut(item)}, nil
}

func (h *ChecklistHandler) HandleDelete(ctx context.Context, input *DeleteRequest) (*DeleteResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var item models.Checklist
	if err := findInVisibleTrip(ctx, h.db, user, &item, input.ID, "Checklist item"); err != nil {
		return nil, err
	}
	if err := h.db.WithContext(ctx).Delete(&item).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete checklist item: " + err.Error())
	}
	return &DeleteResponse{Status: http.StatusNoContent}, nil
}

func (h *ChecklistHandler) HandleToggle(ctx context.Context, input *GetChecklistRequest) (*ToggleResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var item models.Checklist
	if err := findInVisibleTrip(ctx, h.db, user, &item, input.ID, "Checklist item"); err != nil {
		return nil, err
	}

	item.Completed = !item.Completed
	if err := h.db.WithContext(ctx).Model(&item).Update("completed", item.Completed).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update checklist item")
	}

	res := &ToggleResponse{}
	res.Body.Completed = item.Completed
	return res, nil
}
