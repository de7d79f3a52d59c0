package handlers

import (
	stdlog "log"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/trip-planner-api/internal/auth"
	"github.com/gdg-garage/trip-planner-api/internal/config"
	"github.com/gdg-garage/trip-planner-api/internal/notifier"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var security = []map[string][]string{{"bearerAuth": {}}, {"cookieAuth": {}}}

func secured(o *huma.Operation) {
	o.Security = security
}

func created(o *huma.Operation) {
	o.DefaultStatus = http.StatusCreated
}

func tagged(tags ...string) func(o *huma.Operation) {
	return func(o *huma.Operation) {
		o.Tags = tags
	}
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, db *gorm.DB, authHandler *auth.AuthHandler, n notifier.Notifier) huma.API {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  stdlog.New(log.Logger, "", 0),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	if cfg.EnableCORS {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}).Handler)
	}

	// Initialize Huma API
	humaConfig := huma.DefaultConfig("Trip Planner API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.AuthCookieName,
		},
	}
	api := humachi.New(r, humaConfig)

	limiter := auth.NewRateLimiter(cfg.LoginRateLimit)
	limited := func(o *huma.Operation) {
		o.Middlewares = append(o.Middlewares, limiter.Middleware(api))
	}

	// Public routes
	health := NewHealthHandler(db)
	huma.Get(api, "/", health.HandleHome, tagged("health"))
	huma.Get(api, "/health", health.HandleHealth, tagged("health"))
	huma.Get(api, "/api/v1/health", health.HandleHealthV1, tagged("health"))

	// Auth routes
	huma.Post(api, "/auth/register/", authHandler.HandleRegister, tagged("auth"), created, limited)
	huma.Post(api, "/auth/login/", authHandler.HandleLogin, tagged("auth"), limited)
	huma.Post(api, "/auth/token/refresh/", authHandler.HandleRefresh, tagged("auth"))
	huma.Post(api, "/auth/logout/", authHandler.HandleLogout, tagged("auth"), secured)
	huma.Get(api, "/auth/profile/", authHandler.HandleProfile, tagged("auth"), secured)
	huma.Put(api, "/auth/profile/", authHandler.HandleUpdateProfile, tagged("auth"), secured)
	huma.Patch(api, "/auth/profile/", authHandler.HandleUpdateProfile, tagged("auth"), secured)
	huma.Get(api, "/auth/discord/login", authHandler.HandleDiscordLogin, tagged("auth"))
	huma.Get(api, "/auth/discord/callback", authHandler.HandleDiscordCallback, tagged("auth"))

	// Dashboards
	dashboards := NewDashboardHandler(db, authHandler)
	huma.Get(api, "/auth/dashboard/admin/", dashboards.HandleAdmin, tagged("dashboards"), secured)
	huma.Get(api, "/auth/dashboard/user/", dashboards.HandleUser, tagged("dashboards"), secured)

	// User management
	users := NewUserHandler(db, authHandler)
	huma.Get(api, "/auth/manage/", users.HandleList, tagged("users"), secured)
	huma.Post(api, "/auth/manage/", users.HandleCreate, tagged("users"), secured, created)
	huma.Get(api, "/auth/manage/{id}/", users.HandleGet, tagged("users"), secured)
	huma.Put(api, "/auth/manage/{id}/", users.HandleUpdate, tagged("users"), secured)
	huma.Patch(api, "/auth/manage/{id}/", users.HandleUpdate, tagged("users"), secured)
	huma.Delete(api, "/auth/manage/{id}/", users.HandleDelete, tagged("users"), secured)
	huma.Post(api, "/auth/manage/{id}/change_role/", users.HandleChangeRole, tagged("users"), secured)
	huma.Post(api, "/auth/manage/{id}/toggle_active/", users.HandleToggleActive, tagged("users"), secured)
	huma.Get(api, "/auth/manage/{id}/activity_log/", users.HandleActivityLog, tagged("users"), secured)

	// Trips
	trips := NewTripHandler(db, n, authHandler)
	huma.Get(api, "/trips/", trips.HandleList, tagged("trips"), secured)
	huma.Post(api, "/trips/", trips.HandleCreate, tagged("trips"), secured, created)
	huma.Get(api, "/trips/dashboard/", trips.HandleDashboard, tagged("trips"), secured)
	huma.Get(api, "/trips/{id}/", trips.HandleGet, tagged("trips"), secured)
	huma.Put(api, "/trips/{id}/", trips.HandleUpdate, tagged("trips"), secured)
	huma.Patch(api, "/trips/{id}/", trips.HandleUpdate, tagged("trips"), secured)
	huma.Delete(api, "/trips/{id}/", trips.HandleDelete, tagged("trips"), secured)
	huma.Get(api, "/trips/{id}/activities/", trips.HandleActivities, tagged("trips"), secured)
	huma.Get(api, "/trips/{id}/statistics/", trips.HandleStatistics, tagged("trips"), secured)
	huma.Get(api, "/trips/{id}/export/", trips.HandleExport, tagged("trips"), secured)

	// Activities
	activities := NewActivityHandler(db, authHandler)
	huma.Get(api, "/activities/", activities.HandleList, tagged("activities"), secured)
	huma.Post(api, "/activities/", activities.HandleCreate, tagged("activities"), secured, created)
	huma.Get(api, "/activities/{id}/", activities.HandleGet, tagged("activities"), secured)
	huma.Put(api, "/activities/{id}/", activities.HandleUpdate, tagged("activities"), secured)
	huma.Patch(api, "/activities/{id}/", activities.HandleUpdate, tagged("activities"), secured)
	huma.Delete(api, "/activities/{id}/", activities.HandleDelete, tagged("activities"), secured)
	huma.Post(api, "/activities/{id}/toggle_complete/", activities.HandleToggleComplete, tagged("activities"), secured)

	// Expenses
	expenses := NewExpenseHandler(db, authHandler)
	huma.Get(api, "/expenses/", expenses.HandleList, tagged("expenses"), secured)
	huma.Post(api, "/expenses/", expenses.HandleCreate, tagged("expenses"), secured, created)
	huma.Get(api, "/expenses/{id}/", expenses.HandleGet, tagged("expenses"), secured)
	huma.Put(api, "/expenses/{id}/", expenses.HandleUpdate, tagged("expenses"), secured)
	huma.Patch(api, "/expenses/{id}/", expenses.HandleUpdate, tagged("expenses"), secured)
	huma.Delete(api, "/expenses/{id}/", expenses.HandleDelete, tagged("expenses"), secured)

	// Checklist
	checklist := NewChecklistHandler(db, authHandler)
	huma.Get(api, "/checklist/", checklist.HandleList, tagged("checklist"), secured)
	huma.Post(api, "/checklist/", checklist.HandleCreate, tagged("checklist"), secured, created)
	huma.Get(api, "/checklist/{id}/", checklist.HandleGet, tagged("checklist"), secured)
	huma.Put(api, "/checklist/{id}/", checklist.HandleUpdate, tagged("checklist"), secured)
	huma.Patch(api, "/checklist/{id}/", checklist.HandleUpdate, tagged("checklist"), secured)
	huma.Delete(api, "/checklist/{id}/", checklist.HandleDelete, tagged("checklist"), secured)
	huma.Post(api, "/checklist/{id}/toggle/", checklist.HandleToggle, tagged("checklist"), secured)

	return api
}
