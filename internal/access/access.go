// Package access holds the role policy. Every permission decision the API
// makes goes through Allowed or CanManage.
package access

import (
	"github.com/gdg-garage/trip-planner-api/internal/models"
)

type Action string

const (
	ViewAdminDashboard Action = "view_admin_dashboard"
	ViewUserDashboard  Action = "view_user_dashboard"
	ManageUsers        Action = "manage_users"
	ChangeRole         Action = "change_role"
	ToggleActive       Action = "toggle_active"
	ViewAllTrips       Action = "view_all_trips"
)

var policy = map[Action][]models.Role{
	ViewAdminDashboard: {models.RoleAdmin, models.RoleSuperadmin},
	ViewUserDashboard:  {models.RoleUser},
	ManageUsers:        {models.RoleAdmin, models.RoleSuperadmin},
	ChangeRole:         {models.RoleSuperadmin},
	ToggleActive:       {models.RoleAdmin, models.RoleSuperadmin},
	ViewAllTrips:       {models.RoleAdmin, models.RoleSuperadmin},
}

func Allowed(role models.Role, action Action) bool {
	for _, r := range policy[action] {
		if r == role {
			return true
		}
	}
	return false
}

// ManageableRoles lists the roles whose accounts actor may see and manage.
func ManageableRoles(actor models.Role) []models.Role {
	switch actor {
	case models.RoleSuperadmin:
		return models.Roles
	case models.RoleAdmin:
		return []models.Role{models.RoleUser}
	}
	return nil
}

func CanManage(actor, target models.Role) bool {
	for _, r := range ManageableRoles(actor) {
		if r == target {
			return true
		}
	}
	return false
}
