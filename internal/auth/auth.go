package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/trip-planner-api/internal/config"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/gdg-garage/trip-planner-api/internal/notifier"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordAPIBase           = "https://discord.com/api"

	AuthCookieName  = "auth_token"
	StateCookieName = "oauth_state"
)

type AuthHandler struct {
	oauthConfig *oauth2.Config
	discordAPI  string
	db          *gorm.DB
	cfg         *config.Config
	tokens      TokenStore
	notifier    notifier.Notifier
	now         func() time.Time
}

// NewAuthHandler keeps revoked refresh tokens in db; use WithTokenStore to
// move them elsewhere.
func NewAuthHandler(cfg *config.Config, db *gorm.DB, n notifier.Notifier) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		discordAPI: DiscordAPIBase,
		db:         db,
		cfg:        cfg,
		tokens:     NewGormTokenStore(db),
		notifier:   n,
		now:        time.Now,
	}
}

func (h *AuthHandler) WithTokenStore(store TokenStore) *AuthHandler {
	h.tokens = store
	return h
}

// AuthInput is embedded by every operation that requires a signed in user.
type AuthInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	Cookie        string `header:"Cookie" doc:"auth_token cookie set by the Discord sign-in"`
}

func (in AuthInput) token() string {
	if bearer, ok := strings.CutPrefix(in.Authorization, "Bearer "); ok {
		return strings.TrimSpace(bearer)
	}
	if in.Cookie == "" {
		return ""
	}
	req := http.Request{Header: http.Header{"Cookie": {in.Cookie}}}
	if c, err := req.Cookie(AuthCookieName); err == nil {
		return c.Value
	}
	return ""
}

// Authorize resolves the caller of an operation from its access token.
func (h *AuthHandler) Authorize(ctx context.Context, input AuthInput) (*models.User, error) {
	tokenString := input.token()
	if tokenString == "" {
		return nil, huma.Error401Unauthorized("Authentication credentials were not provided.")
	}

	claims, err := h.ParseToken(tokenString, AccessToken)
	if err != nil {
		return nil, huma.Error401Unauthorized("Given token not valid for any token type")
	}

	user, err := h.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (h *AuthHandler) activeUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error401Unauthorized("User not found")
		}
		return nil, huma.Error500InternalServerError("Failed to load user")
	}
	if !user.IsActive {
		return nil, huma.Error401Unauthorized("User is inactive")
	}
	return &user, nil
}
