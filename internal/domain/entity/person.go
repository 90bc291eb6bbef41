// Package entity contains the core business objects of the project.
package entity

import "time"

// Role represents the type of role a person can have on the platform.
type Role string

const (
	// RoleDriver indicates a delivery driver.
	RoleDriver Role = "driver"
	// RoleCustomer indicates a regular customer.
	RoleCustomer Role = "customer"
	// RoleAdmin indicates a back-office administrator.
	RoleAdmin Role = "admin"
	// RoleUnknown tags records whose role string is missing or unrecognized.
	RoleUnknown Role = "unknown"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// ParseRole maps an upstream role string onto the tagged enumeration.
// Unrecognized values become RoleUnknown rather than failing.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleDriver, RoleCustomer, RoleAdmin:
		return Role(s)
	default:
		return RoleUnknown
	}
}

// Person is an immutable snapshot of a platform account as returned by the
// person collection endpoint. The role is authoritative for classification.
type Person struct {
	ID          string    // Upstream identifier of the account.
	Name        string    // Display name.
	Phone       string    // Contact number.
	Role        Role      // Tagged role; RoleUnknown for unrecognized values.
	Location    *Location // Canonical location, nil when absent or malformed.
	Available   bool      // Driver availability flag; defaults to false when the upstream omits it.
	VehicleType string    // Optional vehicle type for drivers.
	CreatedAt   time.Time // Timestamp of account creation.
	UpdatedAt   time.Time // Timestamp of the last modification.
}
