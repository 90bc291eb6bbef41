// Package service defines interfaces for external capabilities the domain
// depends on but does not implement itself.
package service

import (
	"context"

	"fleetmap/internal/domain/entity"
)

// RouteProvider requests a driving path between two coordinates from an
// external routing service. The returned path uses the canonical
// latitude/longitude ordering.
type RouteProvider interface {
	Route(ctx context.Context, origin, destination entity.Coordinate) (entity.Route, error)
}
