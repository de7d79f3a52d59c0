package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/trip-planner-api/internal/access"
	"github.com/gdg-garage/trip-planner-api/internal/auth"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/gdg-garage/trip-planner-api/internal/stats"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UserHandler serves the staff-only account management endpoints.
type UserHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewUserHandler(db *gorm.DB, authHandler *auth.AuthHandler) *UserHandler {
	return &UserHandler{db: db, authHandler: authHandler}
}

func (h *UserHandler) authorize(ctx context.Context, input auth.AuthInput, action access.Action) (*models.User, error) {
	actor, err := h.authHandler.Authorize(ctx, input)
	if err != nil {
		return nil, err
	}
	if !access.Allowed(actor.Role, access.ManageUsers) || !access.Allowed(actor.Role, action) {
		return nil, huma.Error403Forbidden("You do not have permission to perform this action.")
	}
	return actor, nil
}

// manageable restricts a user query to the accounts actor may manage.
func manageable(db *gorm.DB, actor *models.User) *gorm.DB {
	return db.Model(&models.User{}).Where("role IN ?", access.ManageableRoles(actor.Role))
}

func (h *UserHandler) find(ctx context.Context, actor *models.User, id uint) (*models.User, error) {
	var user models.User
	if err := manageable(h.db.WithContext(ctx), actor).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("User not found")
		}
		return nil, huma.Error500InternalServerError("Failed to load user")
	}
	return &user, nil
}

func (h *UserHandler) summary(ctx context.Context, user models.User) (*UserResponse, error) {
	out, err := stats.SummarizeUser(ctx, h.db, user)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load user")
	}
	return &UserResponse{Body: out}, nil
}

type ListUsersRequest struct {
	auth.AuthInput
}

type ListUsersResponse struct {
	Body []stats.UserSummary
}

func (h *UserHandler) HandleList(ctx context.Context, input *ListUsersRequest) (*ListUsersResponse, error) {
	actor, err := h.authorize(ctx, input.AuthInput, access.ManageUsers)
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := manageable(h.db.WithContext(ctx), actor).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list users")
	}
	out, err := stats.SummarizeUsers(ctx, h.db, users)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list users")
	}
	return &ListUsersResponse{Body: out}, nil
}

type GetUserRequest struct {
	auth.AuthInput
	IDPath
}

type UserResponse struct {
	Body *stats.UserSummary
}

func (h *UserHandler) HandleGet(ctx context.Context, input *GetUserRequest) (*UserResponse, error) {
	actor, err := h.authorize(ctx, input.AuthInput, access.ManageUsers)
	if err != nil {
		return nil, err
	}
	user, err := h.find(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}
	return h.summary(ctx, *user)
}

type CreateUserRequest struct {
	auth.AuthInput
	Body struct {
		Username  string      `json:"username" maxLength:"150"`
		Email     string      `json:"email,omitempty" maxLength:"254"`
		Password  string      `json:"password" minLength:"6"`
		FirstName string      `json:"first_name,omitempty" maxLength:"150"`
		LastName  string      `json:"last_name,omitempty" maxLength:"150"`
		Phone     string      `json:"phone,omitempty" maxLength:"20"`
		Role      models.Role `json:"role,omitempty" enum:"user,admin,superadmin"`
	}
}

func (h *UserHandler) HandleCreate(ctx context.Context, input *CreateUserRequest) (*UserResponse, error) {
	actor, err := h.authorize(ctx, input.AuthInput, access.ManageUsers)
	if err != nil {
		return nil, err
	}

	in := input.Body
	in.Username = strings.TrimSpace(in.Username)
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	var details []error
	if in.Username == "" {
		details = append(details, fieldError("body.username", "This field may not be blank."))
	}
	if len(in.Password) < auth.MinPasswordLength {
		details = append(details, fieldError("body.password", "Ensure this field has at least 6 characters."))
	}
	if !in.Role.Valid() {
		details = append(details, fieldError("body.role", "Not a valid choice."))
	}
	if len(details) > 0 {
		return nil, validationFailed(details)
	}
	if !access.CanManage(actor.Role, in.Role) {
		return nil, huma.Error403Forbidden("You may not create accounts with role " + string(in.Role))
	}

	var count int64
	if err := h.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to check username")
	}
	if count > 0 {
		return nil, huma.Error409Conflict("A user with that username already exists.")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}
	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         in.Role,
		IsActive:     true,
		PasswordHash: hash,
	}
	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, huma.Error409Conflict("Failed to create user: " + err.Error())
	}

	log.Info().Uint("actor_id", actor.ID).Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("User created")
	return h.summary(ctx, user)
}

type UpdateUserRequest struct {
	auth.AuthInput
	IDPath
	Body struct {
		Email     *string      `json:"email,omitempty" maxLength:"254"`
		FirstName *string      `json:"first_name,omitempty" maxLength:"150"`
		LastName  *string      `json:"last_name,omitempty" maxLength:"150"`
		Phone     *string      `json:"phone,omitempty" maxLength:"20"`
		Role      *models.Role `json:"role,omitempty" enum:"user,admin,superadmin"`
		IsActive  *bool        `json:"is_active,omitempty"`
	}
}

func (h *UserHandler) HandleUpdate(ctx context.Context, input *UpdateUserRequest) (*UserResponse, error) {
	actor, err := h.authorize(ctx, input.AuthInput, access.ManageUsers)
	if err != nil {
		return nil, err
	}
	user, err := h.find(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}

	in := input.Body
	updates := map[string]any{}
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
	if in.Role != nil && *in.Role != user.Role {
		if !access.Allowed(actor.Role, access.ChangeRole) {
			return nil, huma.Error403Forbidden("Only a superadmin may change roles")
		}
		if !in.Role.Valid() {
			return nil, validationFailed([]error{fieldError("body.role", "Not a valid choice.")})
		}
		updates["role"] = *in.Role
	}
	if in.IsActive != nil && *in.IsActive != user.IsActive {
		if user.ID == actor.ID {
			return nil, huma.Error400BadRequest("You cannot deactivate your own account")
		}
		updates["is_active"] = *in.IsActive
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, huma.Error500InternalServerError("Failed to update user")
		}
		if err := h.db.WithContext(ctx).First(user, user.ID).Error; err != nil {
			return nil, huma.Error500InternalServerError("Failed to reload user")
		}
	}
	return h.summary(ctx, *user)
}

// HandleDelete removes the account. Its trips stay, without an owner.
func (h *UserHandler) HandleDelete(ctx context.Context, input *DeleteRequest) (*DeleteResponse, error) {
	actor, err := h.authorize(ctx, input.AuthInput, access.ManageUsers)
	if err != nil {
		return nil, err
	}
	user, err := h.find(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}
	if user.ID == actor.ID {
		return nil, huma.Error400BadRequest("You cannot delete your own account")
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Trip{}).Where("user_id = ?", user.ID).Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete user: " + err.Error())
	}

	log.Info().Uint("actor_id", actor.ID).Uint("user_id", user.ID).Msg("User deleted")
	return &DeleteResponse{Status: http.StatusNoContent}, nil
}

type ChangeRoleRequest struct {
	auth.AuthInput
	IDPath
	Body struct {
		Role string `json:"role"`
	}
}

func (h *UserHandler) HandleChangeRole(ctx context.Context, input *ChangeRoleRequest) (*UserResponse, error) {
	actor, err := h.authorize(ctx, input.AuthInput, access.ChangeRole)
	if err != nil {
		return nil, err
	}
	user, err := h.find(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}

	role := models.Role(input.Body.Role)
	if !role.Valid() {
		return nil, huma.Error400BadRequest("Invalid role")
	}
	if err := h.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to change role")
	}
	user.Role = role

	log.Info().Uint("actor_id", actor.ID).Uint("user_id", user.ID).Str("role", string(role)).Msg("Role changed")
	return h.summary(ctx, *user)
}

type ToggleActiveResponse struct {
	Body struct {
		IsActive bool `json:"is_active"`
	}
}

func (h *UserHandler) HandleToggleActive(ctx context.Context, input *GetUserRequest) (*ToggleActiveResponse, error) {
	actor, err := h.authorize(ctx, input.AuthInput, access.ToggleActive)
	if err != nil {
		return nil, err
	}
	user, err := h.find(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}
	if user.ID == actor.ID {
		return nil, huma.Error400BadRequest("You cannot deactivate your own account")
	}

	user.IsActive = !user.IsActive
	if err := h.db.WithContext(ctx).Model(user).Update("is_active", user.IsActive).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update user")
	}

	res := &ToggleActiveResponse{}
	res.Body.IsActive = user.IsActive
	return res, nil
}

type ActivityLogResponse struct {
	Body *stats.ActivityLog
}

func (h *UserHandler) HandleActivityLog(ctx context.Context, input *GetUserRequest) (*ActivityLogResponse, error) {
	actor, err := h.authorize(ctx, input.AuthInput, access.ManageUsers)
	if err != nil {
		return nil, err
	}
	user, err := h.find(ctx, actor, input.ID)
	if err != nil {
		return nil, err
	}

	out, err := stats.UserActivity(ctx, h.db, user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load activity log")
	}
	return &ActivityLogResponse{Body: out}, nil
}
