package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fleetmap/config"
	"fleetmap/internal/domain/entity"
	"fleetmap/internal/domain/repository"
	"fleetmap/internal/domain/service"
	"fleetmap/internal/usecase"
	"fleetmap/internal/util"

	"golang.org/x/sync/errgroup"
)

// FleetServiceParams holds the dependencies for the fleet service.
type FleetServiceParams struct {
	Persons    repository.PersonRepository
	Orders     repository.OrderRepository
	Routes     service.RouteProvider
	Geolocator service.Geolocator // optional; nil disables device refinement
	Config     *config.Config
	Logger     *slog.Logger
}

// fleetService is the aggregation coordinator. It exclusively owns the
// merged map view state; all other components are pure functions or
// isolated request issuers.
type fleetService struct {
	persons          repository.PersonRepository
	orders           repository.OrderRepository
	resolver         *routeResolver
	origin           *originResolver
	includeCustomers bool
	logger           *slog.Logger

	// seq tags each aggregation cycle with a logical clock so overlapping
	// refreshes settle last-writer-wins by sequence, not completion time.
	seq atomic.Uint64

	mu            sync.RWMutex
	drivers       []usecase.Driver
	customers     []usecase.Customer
	liveOrders    []usecase.LiveOrder
	routes        map[string]entity.Route
	dataReady     bool
	locationReady bool
	fetchErr      string
	applied       uint64
	closed        bool
}

// NewFleetService creates the fleet aggregation service. The configured
// default center is adopted immediately (location readiness never waits on
// geolocation); the optional device refinement runs in the background.
func NewFleetService(params FleetServiceParams) usecase.FleetUsecase {
	var mapCfg *config.MapConfig
	var routingCfg *config.RoutingConfig
	if params.Config != nil {
		mapCfg = params.Config.Map
		routingCfg = params.Config.Routing
	}

	var routeTimeout time.Duration
	if routingCfg != nil {
		routeTimeout = routingCfg.RequestTimeout
	}

	includeCustomers := true
	if mapCfg != nil {
		includeCustomers = mapCfg.IncludeCustomers
	}

	s := &fleetService{
		persons:          params.Persons,
		orders:           params.Orders,
		resolver:         newRouteResolver(params.Routes, routeTimeout, params.Logger),
		origin:           newOriginResolver(mapCfg, params.Geolocator, params.Logger),
		includeCustomers: includeCustomers,
		logger:           params.Logger,
		routes:           map[string]entity.Route{},
	}

	// The default center is applied synchronously above, so the origin
	// cycle has already completed once.
	s.locationReady = true
	s.origin.start(mapCfg)

	return s
}

// Refresh runs one aggregation cycle. The person and order collections are
// fetched concurrently and joined; classification, filtering and route
// resolution only run once both fetches settle.
func (s *fleetService) Refresh(ctx context.Context) error {
	cycle := s.seq.Add(1)
	started := time.Now()

	var persons []entity.Person
	var orders []entity.Order

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		persons, err = s.persons.ListPersons(groupCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch person collection: %w", err)
		}

		return nil
	})
	group.Go(func() error {
		var err error
		orders, err = s.orders.ListOrders(groupCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch order collection: %w", err)
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		s.applyFailure(cycle, err)

		return err
	}

	drivers, customers := classifyPersons(persons)
	if !s.includeCustomers {
		customers = nil
	}

	live := filterLiveOrders(orders)
	routes := s.resolver.ResolveAll(ctx, live, drivers)

	s.applyCycle(cycle, drivers, customers, toLiveOrders(live), routes)

	if s.logger != nil {
		s.logger.Debug("fleet aggregation cycle finished",
			slog.Uint64("cycle", cycle),
			slog.Int("drivers", len(drivers)),
			slog.Int("live_orders", len(live)),
			slog.Int("routes", len(routes)),
			slog.String("took", util.FormatDuration(time.Since(started))))
	}

	return nil
}

// applyCycle publishes a successful cycle's result. Stale cycles (a lower
// sequence than one already applied) and cycles finishing after Close are
// dropped so the view state stays consistent.
func (s *fleetService) applyCycle(
	cycle uint64,
	drivers []usecase.Driver,
	customers []usecase.Customer,
	orders []usecase.LiveOrder,
	routes map[string]entity.Route,
) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.admitLocked(cycle) {
		return
	}

	s.drivers = drivers
	s.customers = customers
	s.liveOrders = orders
	s.routes = routes
	s.fetchErr = ""
	s.dataReady = true
}

// applyFailure publishes a failed cycle: the exposed collections reset to
// empty and a human-readable error string is surfaced. The data cycle still
// counts as completed for readiness purposes.
func (s *fleetService) applyFailure(cycle uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.admitLocked(cycle) {
		return
	}

	s.drivers = nil
	s.customers = nil
	s.liveOrders = nil
	s.routes = map[string]entity.Route{}
	s.fetchErr = fmt.Sprintf("failed to load fleet data: %v", err)
	s.dataReady = true
}

// admitLocked decides whether a finished cycle may write the view state.
// Callers must hold mu.
func (s *fleetService) admitLocked(cycle uint64) bool {
	if s.closed {
		return false
	}
	if cycle <= s.applied {
		if s.logger != nil {
			s.logger.Debug("discarding stale aggregation cycle", slog.Uint64("cycle", cycle))
		}

		return false
	}
	s.applied = cycle

	return true
}

// Snapshot returns a copy of the merged map view. Combined readiness is the
// conjunction of the data and origin cycles each having completed once.
func (s *fleetService) Snapshot() usecase.MapView {
	center, zoom := s.origin.Center()

	s.mu.RLock()
	defer s.mu.RUnlock()

	view := usecase.MapView{
		Drivers:       append([]usecase.Driver(nil), s.drivers...),
		Customers:     append([]usecase.Customer(nil), s.customers...),
		Orders:        append([]usecase.LiveOrder(nil), s.liveOrders...),
		Routes:        make(map[string]entity.Route, len(s.routes)),
		Center:        center,
		Zoom:          zoom,
		DataReady:     s.dataReady,
		LocationReady: s.locationReady,
		Ready:         s.dataReady && s.locationReady,
		Error:         s.fetchErr,
	}
	for orderID, route := range s.routes {
		view.Routes[orderID] = route
	}

	return view
}

// Close marks the service as torn down. In-flight cycles and any pending
// device refinement check the flag before mutating state; no network calls
// are cancelled, only their effects suppressed.
func (s *fleetService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.origin.discard()
}
