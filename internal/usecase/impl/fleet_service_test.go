package impl

import (
	"context"
	"testing"

	"fleetmap/internal/domain/entity"
	"fleetmap/internal/errors"
	"fleetmap/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, persons *fakePersonRepo, orders *fakeOrderRepo) usecase.FleetUsecase {
	t.Helper()

	provider := &fakeRouteProvider{
		routeFn: func(ctx context.Context, origin, destination entity.Coordinate) (entity.Route, error) {
			return entity.Route{origin, {Lat: 40.05, Lng: -73.05}, destination}, nil
		},
	}

	return NewFleetService(FleetServiceParams{
		Persons: persons,
		Orders:  orders,
		Routes:  provider,
		Config:  newTestConfig(),
		Logger:  newDiscardLogger(),
	})
}

func TestFleetService_RefreshBuildsMapView(t *testing.T) {
	persons := &fakePersonRepo{persons: []entity.Person{
		testDriverPerson("d1", &entity.Location{Lat: 40.0, Lng: -73.0}),
		testCustomerPerson("c1", &entity.Location{Lat: 40.2, Lng: -73.2}),
	}}
	orders := &fakeOrderRepo{orders: []entity.Order{
		{ID: "o1", Status: entity.StatusAccepted, DriverID: "d1", Dropoff: &entity.Location{Lat: 40.1, Lng: -73.1}},
	}}

	svc := newTestService(t, persons, orders)
	defer svc.Close()

	require.NoError(t, svc.Refresh(context.Background()))

	view := svc.Snapshot()
	require.Len(t, view.Drivers, 1)
	assert.Equal(t, "d1", view.Drivers[0].ID)
	require.NotNil(t, view.Drivers[0].Location)
	require.Len(t, view.Customers, 1)
	require.Len(t, view.Orders, 1)
	assert.Equal(t, "o1", view.Orders[0].ID)
	assert.Contains(t, view.Routes, "o1")

	assert.True(t, view.DataReady)
	assert.True(t, view.LocationReady)
	assert.True(t, view.Ready)
	assert.Empty(t, view.Error)

	assert.Equal(t, entity.Coordinate{Lat: 31.95, Lng: 35.91}, view.Center)
	assert.Equal(t, 13, view.Zoom)
}

func TestFleetService_SettledOrdersExcluded(t *testing.T) {
	persons := &fakePersonRepo{persons: []entity.Person{
		testDriverPerson("d1", &entity.Location{Lat: 40.0, Lng: -73.0}),
	}}
	orders := &fakeOrderRepo{orders: []entity.Order{
		{ID: "o1", Status: entity.StatusDelivered, DriverID: "d1", Dropoff: &entity.Location{Lat: 40.1, Lng: -73.1}},
		{ID: "o2", Status: entity.StatusCancelled, DriverID: "d1", Dropoff: &entity.Location{Lat: 40.1, Lng: -73.1}},
	}}

	svc := newTestService(t, persons, orders)
	defer svc.Close()

	require.NoError(t, svc.Refresh(context.Background()))

	view := svc.Snapshot()
	assert.Empty(t, view.Orders)
	assert.Empty(t, view.Routes)
	assert.Len(t, view.Drivers, 1)
}

func TestFleetService_FetchFailureResetsView(t *testing.T) {
	persons := &fakePersonRepo{persons: []entity.Person{
		testDriverPerson("d1", &entity.Location{Lat: 40.0, Lng: -73.0}),
	}}
	orders := &fakeOrderRepo{orders: []entity.Order{
		{ID: "o1", Status: entity.StatusAccepted, DriverID: "d1", Dropoff: &entity.Location{Lat: 40.1, Lng: -73.1}},
	}}

	svc := newTestService(t, persons, orders)
	defer svc.Close()

	require.NoError(t, svc.Refresh(context.Background()))
	require.Len(t, svc.Snapshot().Drivers, 1)

	// The next cycle fails; earlier data must not linger.
	orders.err = errors.New("upstream returned 503")

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch order collection")

	view := svc.Snapshot()
	assert.Empty(t, view.Drivers)
	assert.Empty(t, view.Customers)
	assert.Empty(t, view.Orders)
	assert.Empty(t, view.Routes)
	assert.Contains(t, view.Error, "failed to load fleet data")

	// A failed cycle is still a completed cycle.
	assert.True(t, view.DataReady)
	assert.True(t, view.Ready)
}

func TestFleetService_RecoversAfterFailure(t *testing.T) {
	persons := &fakePersonRepo{err: errors.New("connection refused")}
	orders := &fakeOrderRepo{}

	svc := newTestService(t, persons, orders)
	defer svc.Close()

	require.Error(t, svc.Refresh(context.Background()))
	assert.NotEmpty(t, svc.Snapshot().Error)

	persons.err = nil
	persons.persons = []entity.Person{testDriverPerson("d1", nil)}

	require.NoError(t, svc.Refresh(context.Background()))

	view := svc.Snapshot()
	assert.Empty(t, view.Error)
	assert.Len(t, view.Drivers, 1)
}

func TestFleetService_StaleCycleDiscarded(t *testing.T) {
	svc := newTestService(t, &fakePersonRepo{}, &fakeOrderRepo{})
	defer svc.Close()

	impl, ok := svc.(*fleetService)
	require.True(t, ok)

	newer := []usecase.Driver{{ID: "newer"}}
	older := []usecase.Driver{{ID: "older"}}

	impl.applyCycle(2, newer, nil, nil, map[string]entity.Route{})
	impl.applyCycle(1, older, nil, nil, map[string]entity.Route{})

	view := svc.Snapshot()
	require.Len(t, view.Drivers, 1)
	assert.Equal(t, "newer", view.Drivers[0].ID)
}

func TestFleetService_StaleFailureDiscarded(t *testing.T) {
	svc := newTestService(t, &fakePersonRepo{}, &fakeOrderRepo{})
	defer svc.Close()

	impl, ok := svc.(*fleetService)
	require.True(t, ok)

	impl.applyCycle(2, []usecase.Driver{{ID: "d1"}}, nil, nil, map[string]entity.Route{})
	impl.applyFailure(1, errors.New("slow failure arriving late"))

	view := svc.Snapshot()
	assert.Len(t, view.Drivers, 1)
	assert.Empty(t, view.Error)
}

func TestFleetService_CloseSuppressesLateCycles(t *testing.T) {
	svc := newTestService(t, &fakePersonRepo{}, &fakeOrderRepo{})

	impl, ok := svc.(*fleetService)
	require.True(t, ok)

	svc.Close()

	impl.applyCycle(5, []usecase.Driver{{ID: "late"}}, nil, nil, map[string]entity.Route{})

	view := svc.Snapshot()
	assert.Empty(t, view.Drivers)
}

func TestFleetService_CustomersCanBeExcluded(t *testing.T) {
	persons := &fakePersonRepo{persons: []entity.Person{
		testDriverPerson("d1", nil),
		testCustomerPerson("c1", &entity.Location{Lat: 40.2, Lng: -73.2}),
	}}

	provider := &fakeRouteProvider{
		routeFn: func(ctx context.Context, origin, destination entity.Coordinate) (entity.Route, error) {
			return entity.StraightLine(origin, destination), nil
		},
	}

	cfg := newTestConfig()
	cfg.Map.IncludeCustomers = false

	svc := NewFleetService(FleetServiceParams{
		Persons: persons,
		Orders:  &fakeOrderRepo{},
		Routes:  provider,
		Config:  cfg,
		Logger:  newDiscardLogger(),
	})
	defer svc.Close()

	require.NoError(t, svc.Refresh(context.Background()))

	view := svc.Snapshot()
	assert.Len(t, view.Drivers, 1)
	assert.Empty(t, view.Customers)
}

func TestFleetService_SnapshotBeforeFirstRefresh(t *testing.T) {
	svc := newTestService(t, &fakePersonRepo{}, &fakeOrderRepo{})
	defer svc.Close()

	view := svc.Snapshot()
	assert.False(t, view.DataReady)
	assert.True(t, view.LocationReady)
	assert.False(t, view.Ready)
	assert.Empty(t, view.Drivers)
	assert.NotNil(t, view.Routes)
}

func TestFleetService_SnapshotIsACopy(t *testing.T) {
	persons := &fakePersonRepo{persons: []entity.Person{
		testDriverPerson("d1", &entity.Location{Lat: 40.0, Lng: -73.0}),
	}}
	orders := &fakeOrderRepo{orders: []entity.Order{
		{ID: "o1", Status: entity.StatusAccepted, DriverID: "d1", Dropoff: &entity.Location{Lat: 40.1, Lng: -73.1}},
	}}

	svc := newTestService(t, persons, orders)
	defer svc.Close()

	require.NoError(t, svc.Refresh(context.Background()))

	view := svc.Snapshot()
	view.Drivers[0].ID = "mutated"
	delete(view.Routes, "o1")

	fresh := svc.Snapshot()
	assert.Equal(t, "d1", fresh.Drivers[0].ID)
	assert.Contains(t, fresh.Routes, "o1")
}
