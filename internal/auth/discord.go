package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

type DiscordLoginRequest struct{}

type RedirectResponse struct {
	Status    int
	Location  string      `header:"Location"`
	SetCookie http.Cookie `header:"Set-Cookie"`
}

func (h *AuthHandler) discordEnabled() bool {
	return h.oauthConfig.ClientID != "" && h.oauthConfig.ClientSecret != ""
}

func (h *AuthHandler) HandleDiscordLogin(ctx context.Context, input *DiscordLoginRequest) (*RedirectResponse, error) {
	if !h.discordEnabled() {
		return nil, huma.Error404NotFound("Discord sign-in is not configured")
	}

	state := uuid.NewString()
	return &RedirectResponse{
		Status:   http.StatusTemporaryRedirect,
		Location: h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline),
		SetCookie: http.Cookie{
			Name:     StateCookieName,
			Value:    state,
			Path:     "/",
			Expires:  h.now().Add(10 * time.Minute),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}, nil
}

type DiscordCallbackRequest struct {
	Code   string `query:"code"`
	State  string `query:"state"`
	Cookie string `header:"Cookie"`
}

type discordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

func (h *AuthHandler) HandleDiscordCallback(ctx context.Context, input *DiscordCallbackRequest) (*RedirectResponse, error) {
	if !h.discordEnabled() {
		return nil, huma.Error404NotFound("Discord sign-in is not configured")
	}
	if input.Code == "" {
		return nil, huma.Error400BadRequest("Code not found")
	}

	req := http.Request{Header: http.Header{"Cookie": {input.Cookie}}}
	stateCookie, err := req.Cookie(StateCookieName)
	if err != nil || input.State == "" || stateCookie.Value != input.State {
		return nil, huma.Error400BadRequest("Invalid OAuth state")
	}

	token, err := h.oauthConfig.Exchange(ctx, input.Code)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to exchange token")
	}
	client := h.oauthConfig.Client(ctx, token)

	if h.cfg.DiscordGuildID != "" {
		var guilds []struct {
			ID string `json:"id"`
		}
		if err := getJSON(client, h.discordAPI+"/users/@me/guilds", &guilds); err != nil {
			return nil, huma.Error500InternalServerError("Failed to get user guilds")
		}

		isMember := false
		for _, g := range guilds {
			if g.ID == h.cfg.DiscordGuildID {
				isMember = true
				break
			}
		}
		if !isMember {
			return nil, huma.Error403Forbidden("Access denied: You are not a member of the required guild.")
		}
	}

	var du discordUser
	if err := getJSON(client, h.discordAPI+"/users/@me", &du); err != nil || du.ID == "" {
		return nil, huma.Error500InternalServerError("Failed to get user info")
	}

	user, err := h.discordAccount(ctx, du)
	if err != nil {
		log.Error().Err(err).Str("discord_id", du.ID).Msg("Failed to save discord user")
		return nil, huma.Error500InternalServerError("Failed to save user")
	}
	if !user.IsActive {
		return nil, huma.Error403Forbidden("User account is disabled")
	}

	access, err := h.GenerateToken(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	return &RedirectResponse{
		Status:   http.StatusTemporaryRedirect,
		Location: h.cfg.FrontendURL,
		SetCookie: http.Cookie{
			Name:     AuthCookieName,
			Value:    access,
			Path:     "/",
			Expires:  h.now().Add(h.accessTTL()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}, nil
}

// discordAccount finds the user linked to du or creates one. New accounts
// take the Discord username, suffixed with the Discord id when taken.
func (h *AuthHandler) discordAccount(ctx context.Context, du discordUser) (*models.User, error) {
	db := h.db.WithContext(ctx)

	var user models.User
	err := db.Where("discord_id = ?", du.ID).First(&user).Error
	if err == nil {
		user.Email = du.Email
		user.ProfilePicture = avatarURL(du)
		return &user, db.Save(&user).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	username := du.Username
	taken, err := h.usernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken || username == "" {
		username = fmt.Sprintf("%s-%s", du.Username, du.ID)
	}

	discordID := du.ID
	user = models.User{
		Username:       username,
		Email:          du.Email,
		ProfilePicture: avatarURL(du),
		Role:           models.RoleUser,
		IsActive:       true,
		DiscordID:      &discordID,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyUserRegistered(user); err != nil {
			log.Warn().Err(err).Uint("user_id", user.ID).Msg("Failed to send registration notification")
		}
	}
	return &user, nil
}

func avatarURL(du discordUser) string {
	if du.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", du.ID, du.Avatar)
}

func getJSON(client *http.Client, url string, dest any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
