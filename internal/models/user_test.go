package models

import (
	"testing"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"manager role", RoleManager, true},
		{"operator role", RoleOperator, true},
		{"viewer role", RoleViewer, true},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestClaims_HasPermission(t *testing.T) {
	admin := &Claims{Role: RoleAdmin}
	manager := &Claims{Role: RoleManager}
	operator := &Claims{Role: RoleOperator}
	viewer := &Claims{Role: RoleViewer}
	unknown := &Claims{Role: "guest"}

	tests := []struct {
		name     string
		claims   *Claims
		action   string
		expected bool
	}{
		{"admin can manage fleet", admin, ActionManageFleet, true},
		{"admin can manage couriers", admin, ActionManageCouriers, true},
		{"manager can manage journeys", manager, ActionManageJourneys, true},
		{"manager can manage fleet", manager, ActionManageFleet, true},

		{"operator can view fleet", operator, ActionViewFleet, true},
		{"operator can update deliveries", operator, ActionUpdateDeliveries, true},
		{"operator can manage journeys", operator, ActionManageJourneys, true},
		{"operator cannot manage fleet", operator, ActionManageFleet, false},
		{"operator cannot manage couriers", operator, ActionManageCouriers, false},

		{"viewer can view fleet", viewer, ActionViewFleet, true},
		{"viewer can view dispatch", viewer, ActionViewDispatch, true},
		{"viewer cannot update deliveries", viewer, ActionUpdateDeliveries, false},
		{"viewer cannot manage journeys", viewer, ActionManageJourneys, false},

		{"unknown role has nothing", unknown, ActionViewFleet, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.claims.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("Claims with role %s HasPermission(%s) = %v, want %v",
					tt.claims.Role, tt.action, result, tt.expected)
			}
		})
	}
}
