package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"fleetmap/config"
	"fleetmap/internal/domain/entity"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakePersonRepo struct {
	persons []entity.Person
	err     error
}

func (f *fakePersonRepo) ListPersons(ctx context.Context) ([]entity.Person, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.persons, nil
}

type fakeOrderRepo struct {
	orders []entity.Order
	err    error
}

func (f *fakeOrderRepo) ListOrders(ctx context.Context) ([]entity.Order, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.orders, nil
}

// fakeRouteProvider answers routing requests through routeFn and counts
// concurrent calls.
type fakeRouteProvider struct {
	routeFn func(ctx context.Context, origin, destination entity.Coordinate) (entity.Route, error)

	mu    sync.Mutex
	calls int
}

func (f *fakeRouteProvider) Route(ctx context.Context, origin, destination entity.Coordinate) (entity.Route, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	return f.routeFn(ctx, origin, destination)
}

func (f *fakeRouteProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

type fakeGeolocator struct {
	coord entity.Coordinate
	err   error
}

func (f *fakeGeolocator) Locate(ctx context.Context) (entity.Coordinate, error) {
	if f.err != nil {
		return entity.Coordinate{}, f.err
	}

	return f.coord, nil
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Map: &config.MapConfig{
			DefaultCenter:    &config.LatLng{Lat: 31.95, Lng: 35.91},
			DefaultZoom:      13,
			IncludeCustomers: true,
		},
	}

	return cfg
}

func testDriverPerson(id string, location *entity.Location) entity.Person {
	return entity.Person{
		ID:       id,
		Name:     "Driver " + id,
		Role:     entity.RoleDriver,
		Location: location,
	}
}

func testCustomerPerson(id string, location *entity.Location) entity.Person {
	return entity.Person{
		ID:       id,
		Name:     "Customer " + id,
		Role:     entity.RoleCustomer,
		Location: location,
	}
}
