// Package usecase defines the application's use case interfaces and the
// view-model types they expose to the delivery layer.
package usecase

import (
	"context"

	"fleetmap/internal/domain/entity"
)

// Driver is the map layer representation of a classified driver.
type Driver struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Phone       string           `json:"phone,omitempty"`
	Location    *entity.Location `json:"location,omitempty"`
	Available   bool             `json:"available"`
	VehicleType string           `json:"vehicle_type,omitempty"`
}

// Customer is the map layer representation of a classified customer.
type Customer struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Phone    string           `json:"phone,omitempty"`
	Location *entity.Location `json:"location,omitempty"`
}

// LiveOrder is the map layer representation of an order still relevant for
// tracking (status pending, accepted or on the way).
type LiveOrder struct {
	ID       string             `json:"id"`
	Status   entity.OrderStatus `json:"status"`
	DriverID string             `json:"driver_id,omitempty"`
	Dropoff  *entity.Location   `json:"dropoff,omitempty"`
}

// MapView is the merged snapshot consumed by the dashboard's live map.
// Collections are replaced wholesale on every aggregation cycle, never
// patched in place.
type MapView struct {
	Drivers   []Driver                `json:"drivers"`
	Customers []Customer              `json:"customers"`
	Orders    []LiveOrder             `json:"orders"`
	Routes    map[string]entity.Route `json:"routes"`
	Center    entity.Coordinate       `json:"center"`
	Zoom      int                     `json:"zoom"`

	// DataReady and LocationReady report whether the data fetch cycle and
	// the origin resolution cycle have each completed at least once.
	// Ready is their conjunction.
	DataReady     bool `json:"data_ready"`
	LocationReady bool `json:"location_ready"`
	Ready         bool `json:"ready"`

	// Error carries a human-readable message when the latest data cycle
	// failed. Collections are empty in that case.
	Error string `json:"error,omitempty"`
}

// FleetUsecase aggregates the live fleet map view model.
type FleetUsecase interface {
	// Refresh runs one aggregation cycle: it fetches the person and order
	// collections concurrently, classifies and filters them, resolves
	// routes for live orders and publishes the merged snapshot. A fetch
	// failure resets the exposed collections and is reported both in the
	// snapshot and as the returned error.
	Refresh(ctx context.Context) error

	// Snapshot returns the current merged map view.
	Snapshot() MapView

	// Close tears the service down. Results of in-flight cycles are
	// discarded after Close returns.
	Close()
}
