package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	DatabaseDriver                string        `mapstructure:"DATABASE_DRIVER"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	DatabaseDSN                   string        `mapstructure:"DATABASE_DSN"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL                time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL               time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	RedisAddr                     string        `mapstructure:"REDIS_ADDR"`
	EnableCORS                    bool          `mapstructure:"ENABLE_CORS"`
	CORSAllowedOrigins            []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL"`
	LoginRateLimit                int           `mapstructure:"LOGIN_RATE_LIMIT"`
	FrontendURL                   string        `mapstructure:"FRONTEND_URL"`
	DiscordClientID               string        `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string        `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string        `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordGuildID                string        `mapstructure:"DISCORD_GUILD_ID"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	SuperadminUsername            string        `mapstructure:"SUPERADMIN_USERNAME"`
	SuperadminEmail               string        `mapstructure:"SUPERADMIN_EMAIL"`
	SuperadminPassword            string        `mapstructure:"SUPERADMIN_PASSWORD"`
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found; using process environment")
	}

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_PATH", "tripplanner.db")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_TTL", "60m")
	v.SetDefault("REFRESH_TOKEN_TTL", "168h")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("ENABLE_CORS", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("DISCORD_CLIENT_ID", "")
	v.SetDefault("DISCORD_CLIENT_SECRET", "")
	v.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")
	v.SetDefault("DISCORD_GUILD_ID", "")
	v.SetDefault("DISCORD_BOT_TOKEN", "")
	v.SetDefault("DISCORD_NOTIFICATIONS_CHANNEL_ID", "")
	v.SetDefault("SUPERADMIN_USERNAME", "superadmin")
	v.SetDefault("SUPERADMIN_EMAIL", "admin@example.com")
	v.SetDefault("SUPERADMIN_PASSWORD", "admin123")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatal().Err(err).Msg("Unable to decode configuration")
	}
	cfg.CORSAllowedOrigins = splitList(cfg.CORSAllowedOrigins)

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; tokens are signed with an insecure development secret")
		cfg.JWTSecret = "insecure-dev-secret"
	}

	return &cfg
}

// splitList flattens comma separated entries, which is how list values
// arrive from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
