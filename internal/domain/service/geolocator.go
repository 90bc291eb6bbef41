// Package service defines interfaces for external capabilities.
package service

import (
	"context"

	"fleetmap/internal/domain/entity"
)

// Geolocator returns a single best-effort device coordinate. The capability
// is always optional: callers must treat failure as a no-op, never as an
// error condition.
type Geolocator interface {
	Locate(ctx context.Context) (entity.Coordinate, error)
}
