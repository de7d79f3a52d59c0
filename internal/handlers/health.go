package handlers

import (
	"context"

	"github.com/gdg-garage/trip-planner-api/internal/database"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const serviceName = "trip-planner-backend"

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type HomeResponse struct {
	Body struct {
		Status  string `json:"status"`
		App     string `json:"app"`
		Backend string `json:"backend"`
	}
}

func (h *HealthHandler) HandleHome(ctx context.Context, input *struct{}) (*HomeResponse, error) {
	res := &HomeResponse{}
	res.Body.Status = "ok"
	res.Body.App = "Trip Planner"
	res.Body.Backend = "running"
	return res, nil
}

type HealthResponse struct {
	Body struct {
		Status   string `json:"status"`
		Service  string `json:"service"`
		Database string `json:"database" enum:"healthy,unhealthy"`
	}
}

// HandleHealth always answers; a failing database only shows in the payload.
func (h *HealthHandler) HandleHealth(ctx context.Context, input *struct{}) (*HealthResponse, error) {
	res := &HealthResponse{}
	res.Body.Status = "healthy"
	res.Body.Service = serviceName
	res.Body.Database = "healthy"
	if err := database.Ping(ctx, h.db); err != nil {
		log.Warn().Err(err).Msg("Database health check failed")
		res.Body.Database = "unhealthy"
	}
	return res, nil
}

type VersionedHealthResponse struct {
	Body struct {
		Service    string `json:"service"`
		Status     string `json:"status"`
		APIVersion string `json:"api_version"`
	}
}

func (h *HealthHandler) HandleHealthV1(ctx context.Context, input *struct{}) (*VersionedHealthResponse, error) {
	res := &VersionedHealthResponse{}
	res.Body.Service = "trip-planner"
	res.Body.Status = "healthy"
	res.Body.APIVersion = "v1"
	return res, nil
}
