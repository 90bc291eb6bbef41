// Package repository defines the interfaces for the upstream collection
// endpoints the aggregation core consumes. Implementations live in the
// infra layer.
package repository

import (
	"context"

	"fleetmap/internal/domain/entity"
)

// PersonRepository fetches the full person collection from the dashboard
// backend. The core consumes the whole list; no pagination is required.
type PersonRepository interface {
	ListPersons(ctx context.Context) ([]entity.Person, error)
}
