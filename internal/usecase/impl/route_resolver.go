package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fleetmap/internal/domain/entity"
	"fleetmap/internal/domain/service"
	"fleetmap/internal/usecase"
)

const (
	// defaultRouteTimeout bounds a single provider call so one slow request
	// cannot stall the whole fan-out batch. A timeout is treated exactly
	// like a provider failure and falls back to the straight line.
	defaultRouteTimeout = 5 * time.Second

	maxRouteWorkers = 8
)

// routeResolver computes one road path per eligible live order by fanning
// out concurrent requests to the routing provider and joining the full
// batch before returning.
type routeResolver struct {
	provider service.RouteProvider
	timeout  time.Duration
	logger   *slog.Logger
}

func newRouteResolver(provider service.RouteProvider, timeout time.Duration, logger *slog.Logger) *routeResolver {
	if timeout <= 0 {
		timeout = defaultRouteTimeout
	}

	return &routeResolver{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// routeJob is one eligible order's routing request.
type routeJob struct {
	orderID     string
	origin      entity.Coordinate
	destination entity.Coordinate
}

// ResolveAll produces the order-id to path mapping for the given cycle.
// An order is eligible when its assigned driver is present in the driver
// layer with a valid location and the order carries a valid dropoff.
// Ineligible orders get no entry: a missing key means "no route available",
// not an error. Provider failures degrade per order to the two-point
// straight line and never abort sibling requests.
func (r *routeResolver) ResolveAll(ctx context.Context, orders []entity.Order, drivers []usecase.Driver) map[string]entity.Route {
	driverLocations := make(map[string]entity.Coordinate, len(drivers))
	for _, driver := range drivers {
		if driver.Location != nil {
			driverLocations[driver.ID] = driver.Location.Coordinate()
		}
	}

	jobs := make([]routeJob, 0, len(orders))
	for _, order := range orders {
		if order.DriverID == "" || order.Dropoff == nil {
			continue
		}

		origin, ok := driverLocations[order.DriverID]
		if !ok {
			continue
		}

		jobs = append(jobs, routeJob{
			orderID:     order.ID,
			origin:      origin,
			destination: order.Dropoff.Coordinate(),
		})
	}

	routes := make(map[string]entity.Route, len(jobs))
	if len(jobs) == 0 {
		return routes
	}

	jobCh := make(chan routeJob, len(jobs))
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	var mu sync.Mutex
	var workerGroup sync.WaitGroup

	for i := 0; i < r.workerCount(len(jobs)); i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			for job := range jobCh {
				path := r.resolveOne(ctx, job)

				mu.Lock()
				routes[job.orderID] = path
				mu.Unlock()
			}
		}()
	}

	workerGroup.Wait()

	return routes
}

// resolveOne issues a single bounded provider request. Any failure is
// absorbed by the straight-line fallback; no retries are performed.
func (r *routeResolver) resolveOne(ctx context.Context, job routeJob) entity.Route {
	requestCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	path, err := r.provider.Route(requestCtx, job.origin, job.destination)
	if err != nil || len(path) < 2 {
		if err != nil && r.logger != nil {
			r.logger.Debug("route request failed, using straight line",
				slog.String("order_id", job.orderID),
				slog.Any("error", err))
		}

		return entity.StraightLine(job.origin, job.destination)
	}

	return path
}

func (r *routeResolver) workerCount(jobCount int) int {
	if jobCount < maxRouteWorkers {
		return jobCount
	}

	return maxRouteWorkers
}
