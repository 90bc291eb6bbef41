package main

import (
	"context"
	"log/slog"
	"os"

	"fleetmap/config"
	"fleetmap/internal/delivery"
	"fleetmap/internal/delivery/http"
	"fleetmap/internal/delivery/http/middleware"
	"fleetmap/internal/delivery/http/router/handler"
	"fleetmap/internal/domain/repository"
	"fleetmap/internal/domain/service"
	"fleetmap/internal/infra/geolocate"
	logs "fleetmap/internal/infra/log"
	"fleetmap/internal/infra/routing/osrm"
	"fleetmap/internal/infra/upstream"
	"fleetmap/internal/usecase"
	"fleetmap/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startFleet,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		newUpstreamClient,
		newRouteProvider,
		newGeolocator,
	)
}

func newUpstreamClient(cfg *config.Config) (*upstream.Client, error) {
	return upstream.NewClient(cfg.Upstream)
}

func newRouteProvider(cfg *config.Config) service.RouteProvider {
	return osrm.NewClient(cfg.Routing)
}

// newGeolocator creates the optional device geolocation capability.
// Disabled geolocation yields a nil capability; consumers must treat it as
// always-optional.
func newGeolocator(cfg *config.Config) service.Geolocator {
	if cfg.Map == nil || cfg.Map.Geolocation == nil || !cfg.Map.Geolocation.Enabled {
		return nil
	}

	return geolocate.NewClient(cfg.Map.Geolocation)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			func(c *upstream.Client) repository.PersonRepository { return c },
			func(c *upstream.Client) repository.OrderRepository { return c },
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			newFleetService,
		),
	)
}

func newFleetService(
	persons repository.PersonRepository,
	orders repository.OrderRepository,
	routes service.RouteProvider,
	geolocator service.Geolocator,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.FleetUsecase {
	return impl.NewFleetService(impl.FleetServiceParams{
		Persons:    persons,
		Orders:     orders,
		Routes:     routes,
		Geolocator: geolocator,
		Config:     cfg,
		Logger:     logger,
	})
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewFleetHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startFleet runs the initial aggregation cycle in the background and tears
// the service down on shutdown.
func startFleet(lc fx.Lifecycle, fleetUC usecase.FleetUsecase, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := fleetUC.Refresh(context.Background()); err != nil {
					logger.Warn("initial fleet refresh failed", slog.Any("error", err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			fleetUC.Close()

			return nil
		},
	})
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
