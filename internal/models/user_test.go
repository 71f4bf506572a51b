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
		{"staff role", RoleStaff, true},
		{"customer role", RoleCustomer, true},
		{"invalid role", "manager", false},
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

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	staff := &User{Role: RoleStaff}
	customer := &User{Role: RoleCustomer}
	unknown := &User{Role: "ghost"}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		{"admin can delete booking history", admin, ActionDeleteBookingHistory, true},
		{"admin can manage cars", admin, ActionManageCars, true},
		{"admin can delete review", admin, ActionDeleteReview, true},

		{"staff can manage cars", staff, ActionManageCars, true},
		{"staff can view booking history", staff, ActionViewBookingHistory, true},
		{"staff can manage bookings", staff, ActionManageBookings, true},
		{"staff can view users", staff, ActionViewUsers, true},
		{"staff cannot delete booking history", staff, ActionDeleteBookingHistory, false},
		{"staff cannot delete review", staff, ActionDeleteReview, false},

		{"customer can create booking", customer, ActionCreateBooking, true},
		{"customer can create review", customer, ActionCreateReview, true},
		{"customer cannot manage cars", customer, ActionManageCars, false},
		{"customer cannot view booking history", customer, ActionViewBookingHistory, false},
		{"customer cannot view users", customer, ActionViewUsers, false},

		{"unknown role has no permissions", unknown, ActionCreateBooking, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("User with role %s HasPermission(%s) = %v, want %v",
					tt.user.Role, tt.action, result, tt.expected)
			}
		})
	}
}

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"first and last", User{Username: "jd", FirstName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{"first only", User{Username: "jd", FirstName: "Jane"}, "Jane"},
		{"username fallback", User{Username: "jd"}, "jd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.FullName(); got != tt.expected {
				t.Errorf("FullName() = %q, want %q", got, tt.expected)
			}
		})
	}
}
