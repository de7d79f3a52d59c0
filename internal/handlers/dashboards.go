package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/trip-planner-api/internal/access"
	"github.com/gdg-garage/trip-planner-api/internal/auth"
	"github.com/gdg-garage/trip-planner-api/internal/stats"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
	now         func() time.Time
}

func NewDashboardHandler(db *gorm.DB, authHandler *auth.AuthHandler) *DashboardHandler {
	return &DashboardHandler{db: db, authHandler: authHandler, now: time.Now}
}

type DashboardRequest struct {
	auth.AuthInput
}

type AdminDashboardResponse struct {
	Body *stats.AdminDashboard
}

func (h *DashboardHandler) HandleAdmin(ctx context.Context, input *DashboardRequest) (*AdminDashboardResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	if !access.Allowed(user.Role, access.ViewAdminDashboard) {
		return nil, huma.Error403Forbidden("You do not have permission to perform this action.")
	}

	out, err := stats.Admin(ctx, h.db, h.now())
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute dashboard")
	}
	return &AdminDashboardResponse{Body: out}, nil
}

type UserDashboardResponse struct {
	Body *stats.UserDashboard
}

func (h *DashboardHandler) HandleUser(ctx context.Context, input *DashboardRequest) (*UserDashboardResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	if !access.Allowed(user.Role, access.ViewUserDashboard) {
		return nil, huma.Error403Forbidden("Admins should use admin dashboard")
	}

	out, err := stats.User(ctx, h.db, user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute dashboard")
	}
	return &UserDashboardResponse{Body: out}, nil
}
