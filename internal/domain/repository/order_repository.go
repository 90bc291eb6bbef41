// Package repository defines the interfaces for the upstream collection
// endpoints the aggregation core consumes.
package repository

import (
	"context"

	"fleetmap/internal/domain/entity"
)

// OrderRepository fetches the full order collection from the dashboard
// backend.
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]entity.Order, error)
}
