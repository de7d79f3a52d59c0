package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/gdg-garage/trip-planner-api/internal/stats"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Body struct {
		Username  string `json:"username" maxLength:"150" doc:"Unique login name"`
		Email     string `json:"email,omitempty" maxLength:"254"`
		Password  string `json:"password" minLength:"6"`
		Password2 string `json:"password2" minLength:"6" doc:"Must repeat password"`
		FirstName string `json:"first_name,omitempty" maxLength:"150"`
		LastName  string `json:"last_name,omitempty" maxLength:"150"`
		Phone     string `json:"phone,omitempty" maxLength:"20"`
	}
}

type RegisterResponse struct {
	Body struct {
		User    stats.UserSummary `json:"user"`
		Refresh string            `json:"refresh"`
		Access  string            `json:"access"`
	}
}

func (h *AuthHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*RegisterResponse, error) {
	in := input.Body
	in.Username = strings.TrimSpace(in.Username)

	var details []error
	if in.Username == "" {
		details = append(details, &huma.ErrorDetail{Location: "body.username", Message: "This field may not be blank."})
	}
	if len(in.Password) < MinPasswordLength {
		details = append(details, &huma.ErrorDetail{Location: "body.password", Message: "Ensure this field has at least 6 characters."})
	}
	if in.Password != in.Password2 {
		details = append(details, &huma.ErrorDetail{Location: "body.password", Message: "Passwords don't match"})
	}
	if len(details) > 0 {
		return nil, huma.Error422UnprocessableEntity("validation failed", details...)
	}

	taken, err := h.usernameTaken(ctx, in.Username)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to check username")
	}
	if taken {
		return nil, huma.Error409Conflict("A user with that username already exists.")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         models.RoleUser,
		IsActive:     true,
		PasswordHash: hash,
	}
	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, huma.Error409Conflict("Failed to create user: " + err.Error())
	}

	pair, err := h.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}
	summary, err := stats.SummarizeUser(ctx, h.db, user)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load user")
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyUserRegistered(user); err != nil {
			log.Warn().Err(err).Uint("user_id", user.ID).Msg("Failed to send registration notification")
		}
	}

	res := &RegisterResponse{}
	res.Body.User = *summary
	res.Body.Refresh = pair.Refresh
	res.Body.Access = pair.Access
	return res, nil
}

func (h *AuthHandler) usernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := h.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

type LoginRequest struct {
	Body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
}

type LoginUser struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
}

type LoginResponse struct {
	Body struct {
		Refresh string    `json:"refresh"`
		Access  string    `json:"access"`
		User    LoginUser `json:"user"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	if input.Body.Username == "" || input.Body.Password == "" {
		return nil, huma.Error400BadRequest("Username and password are required")
	}

	var user models.User
	if err := h.db.WithContext(ctx).Where("username = ?", input.Body.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error400BadRequest("Invalid username or password")
		}
		return nil, huma.Error500InternalServerError("Failed to load user")
	}
	if !user.IsActive {
		return nil, huma.Error400BadRequest("User account is disabled")
	}
	if !CheckPassword(user.PasswordHash, input.Body.Password) {
		return nil, huma.Error400BadRequest("Invalid username or password")
	}

	pair, err := h.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &LoginResponse{}
	res.Body.Refresh = pair.Refresh
	res.Body.Access = pair.Access
	res.Body.User = LoginUser{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}
	return res, nil
}

type LogoutRequest struct {
	AuthInput
	Body struct {
		Refresh string `json:"refresh,omitempty" doc:"Refresh token to revoke"`
	} `required:"false"`
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *AuthHandler) HandleLogout(ctx context.Context, input *LogoutRequest) (*MessageResponse, error) {
	if _, err := h.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	if refresh := input.Body.Refresh; refresh != "" {
		if err := h.revoke(ctx, refresh); err != nil {
			log.Debug().Err(err).Msg("Logout with unusable refresh token")
			return nil, huma.Error400BadRequest("Invalid token")
		}
	}

	res := &MessageResponse{}
	res.Body.Message = "Logout successful"
	return res, nil
}

func (h *AuthHandler) revoke(ctx context.Context, refresh string) error {
	claims, err := h.ParseToken(refresh, RefreshToken)
	if err != nil {
		return err
	}
	revoked, err := h.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrInvalidToken
	}
	return h.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

type RefreshRequest struct {
	Body struct {
		Refresh string `json:"refresh"`
	}
}

type RefreshResponse struct {
	Body struct {
		Access string `json:"access"`
	}
}

func (h *AuthHandler) HandleRefresh(ctx context.Context, input *RefreshRequest) (*RefreshResponse, error) {
	claims, err := h.ParseToken(input.Body.Refresh, RefreshToken)
	if err != nil {
		return nil, huma.Error401Unauthorized("Token is invalid or expired")
	}

	revoked, err := h.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to check token")
	}
	if revoked {
		return nil, huma.Error401Unauthorized("Token is blacklisted")
	}

	if _, err := h.activeUser(ctx, claims.UserID); err != nil {
		return nil, err
	}

	access, err := h.GenerateToken(claims.UserID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &RefreshResponse{}
	res.Body.Access = access
	return res, nil
}

type ProfileRequest struct {
	AuthInput
}

type ProfileResponse struct {
	Body stats.UserSummary
}

func (h *AuthHandler) HandleProfile(ctx context.Context, input *ProfileRequest) (*ProfileResponse, error) {
	user, err := h.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}
	return h.profile(ctx, *user)
}

type UpdateProfileRequest struct {
	AuthInput
	Body struct {
		Email          *string `json:"email,omitempty" maxLength:"254"`
		FirstName      *string `json:"first_name,omitempty" maxLength:"150"`
		LastName       *string `json:"last_name,omitempty" maxLength:"150"`
		Phone          *string `json:"phone,omitempty" maxLength:"20"`
		ProfilePicture *string `json:"profile_picture,omitempty"`
	}
}

func (h *AuthHandler) HandleUpdateProfile(ctx context.Context, input *UpdateProfileRequest) (*ProfileResponse, error) {
	user, err := h.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	in := input.Body
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.ProfilePicture != nil {
		updates["profile_picture"] = *in.ProfilePicture
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, huma.Error500InternalServerError("Failed to update profile")
		}
		if err := h.db.WithContext(ctx).First(user, user.ID).Error; err != nil {
			return nil, huma.Error500InternalServerError("Failed to reload profile")
		}
	}
	return h.profile(ctx, *user)
}

func (h *AuthHandler) profile(ctx context.Context, user models.User) (*ProfileResponse, error) {
	summary, err := stats.SummarizeUser(ctx, h.db, user)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load profile")
	}
	return &ProfileResponse{Body: *summary}, nil
}
