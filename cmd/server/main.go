package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gdg-garage/trip-planner-api/internal/auth"
	"github.com/gdg-garage/trip-planner-api/internal/config"
	"github.com/gdg-garage/trip-planner-api/internal/database"
	"github.com/gdg-garage/trip-planner-api/internal/handlers"
	"github.com/gdg-garage/trip-planner-api/internal/logger"
	"github.com/gdg-garage/trip-planner-api/internal/notifier"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init("info")

	// Load Configuration
	cfg := config.LoadConfig()
	logger.Init(cfg.LogLevel)

	// Connect to Database
	db := database.Connect(cfg)

	// Optional Discord notifications
	var n notifier.Notifier
	discordNotifier, err := notifier.NewDiscordNotifier(cfg)
	if err != nil {
		log.Info().Err(err).Msg("Discord notifier not initialized")
	} else {
		n = discordNotifier
	}

	authHandler := auth.NewAuthHandler(cfg, db, n)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to redis")
		}
		cancel()
		authHandler.WithTokenStore(auth.NewRedisTokenStore(client))
		log.Info().Str("addr", cfg.RedisAddr).Msg("Revoked tokens are kept in redis")
	}

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, cfg, db, authHandler, n)

	// Start Server
	log.Info().Str("port", cfg.Port).Str("driver", cfg.DatabaseDriver).Msg("Starting server")
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
