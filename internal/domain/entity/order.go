// Package entity contains the core business objects of the project.
package entity

import "time"

// OrderStatus represents the lifecycle status of an order.
type OrderStatus string

const (
	// StatusPending indicates an order waiting for a driver.
	StatusPending OrderStatus = "pending"
	// StatusAccepted indicates an order accepted by a driver.
	StatusAccepted OrderStatus = "accepted"
	// StatusOnTheWay indicates an order currently being delivered.
	StatusOnTheWay OrderStatus = "on_the_way"
	// StatusDelivered indicates a completed order.
	StatusDelivered OrderStatus = "delivered"
	// StatusCancelled indicates a cancelled order.
	StatusCancelled OrderStatus = "cancelled"
	// StatusUnknown tags orders whose status string is missing or unrecognized.
	StatusUnknown OrderStatus = "unknown"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus maps an upstream status string onto the tagged
// enumeration. Unrecognized values become StatusUnknown rather than failing.
func ParseOrderStatus(s string) OrderStatus {
	switch OrderStatus(s) {
	case StatusPending, StatusAccepted, StatusOnTheWay, StatusDelivered, StatusCancelled:
		return OrderStatus(s)
	default:
		return StatusUnknown
	}
}

// IsLive reports whether the status belongs to the live subset still
// relevant for map tracking. Unknown statuses are never live.
func (s OrderStatus) IsLive() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusOnTheWay:
		return true
	default:
		return false
	}
}

// Order is an immutable snapshot of an order as returned by the order
// collection endpoint.
type Order struct {
	ID        string      // Upstream identifier of the order.
	Status    OrderStatus // Tagged lifecycle status; StatusUnknown for unrecognized values.
	DriverID  string      // Identifier of the assigned driver, empty when unassigned.
	Dropoff   *Location   // Canonical dropoff location, nil when absent or malformed.
	CreatedAt time.Time   // Timestamp of order creation.
}
