package models

// Role represents user roles carried in the identity provider's token
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// Actions checked by HasPermission
const (
	ActionViewFleet        = "view_fleet"
	ActionManageFleet      = "manage_fleet"
	ActionViewDispatch     = "view_dispatch"
	ActionManageCouriers   = "manage_couriers"
	ActionManageJourneys   = "manage_journeys"
	ActionUpdateDeliveries = "update_deliveries"
)

// Claims represents verified JWT claims. OwnerID scopes every document the user can see.
type Claims struct {
	OwnerID string `json:"owner_id"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Exp     int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleOperator, RoleViewer:
		return true
	default:
		return false
	}
}

// HasPermission checks if the role allows a specific action
func (c *Claims) HasPermission(action string) bool {
	switch c.Role {
	case RoleAdmin, RoleManager:
		return true
	case RoleOperator:
		return action == ActionViewFleet || action == ActionViewDispatch ||
			action == ActionUpdateDeliveries || action == ActionManageJourneys
	case RoleViewer:
		return action == ActionViewFleet || action == ActionViewDispatch
	default:
		return false
	}
}
