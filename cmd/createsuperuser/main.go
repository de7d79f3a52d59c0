// Command createsuperuser creates the configured superadmin account, or
// resets its password, role and active flag when it already exists.
package main

import (
	"context"

	"github.com/gdg-garage/trip-planner-api/internal/auth"
	"github.com/gdg-garage/trip-planner-api/internal/config"
	"github.com/gdg-garage/trip-planner-api/internal/database"
	"github.com/gdg-garage/trip-planner-api/internal/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init("info")
	cfg := config.LoadConfig()
	db := database.Connect(cfg)

	user, created, err := auth.EnsureSuperadmin(context.Background(), db, cfg.SuperadminUsername, cfg.SuperadminEmail, cfg.SuperadminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap superadmin")
	}

	if created {
		log.Info().Str("username", user.Username).Msg("Superadmin created")
	} else {
		log.Info().Str("username", user.Username).Msg("Superadmin exists; password, role and active flag reset")
	}
	log.Info().
		Uint("id", user.ID).
		Str("email", user.Email).
		Str("role", string(user.Role)).
		Bool("active", user.IsActive).
		Msg("Superadmin details")
}
