package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fleetmap/config"
	"fleetmap/internal/domain/entity"
	"fleetmap/internal/domain/service"
)

const (
	// Hard fallback center and zoom when no service-area center is
	// configured.
	fallbackCenterLat = 31.9539
	fallbackCenterLng = 35.9106
	fallbackZoom      = 12

	// defaultGeolocateTimeout bounds the single best-effort device
	// location request. The map never blocks on it.
	defaultGeolocateTimeout = 3 * time.Second
)

// originResolver determines the map's default viewing center. Its state is
// monotonic: the configured default is adopted synchronously at
// construction, then optionally refined once by a background device
// location request. It never regresses to an earlier state.
type originResolver struct {
	geolocator service.Geolocator
	timeout    time.Duration
	logger     *slog.Logger

	mu        sync.RWMutex
	center    entity.Coordinate
	zoom      int
	refined   bool
	discarded bool
}

func newOriginResolver(cfg *config.MapConfig, geolocator service.Geolocator, logger *slog.Logger) *originResolver {
	center := entity.Coordinate{Lat: fallbackCenterLat, Lng: fallbackCenterLng}
	zoom := fallbackZoom
	timeout := defaultGeolocateTimeout

	if cfg != nil {
		if cfg.DefaultCenter != nil {
			configured := entity.Coordinate{Lat: cfg.DefaultCenter.Lat, Lng: cfg.DefaultCenter.Lng}
			if configured.IsValid() {
				center = configured
			}
		}
		if cfg.DefaultZoom > 0 {
			zoom = cfg.DefaultZoom
		}
		if cfg.Geolocation != nil && cfg.Geolocation.Timeout > 0 {
			timeout = cfg.Geolocation.Timeout
		}
	}

	return &originResolver{
		geolocator: geolocator,
		timeout:    timeout,
		logger:     logger,
		center:     center,
		zoom:       zoom,
	}
}

// start kicks off the single background refinement request when device
// geolocation is enabled. The default center stays authoritative until the
// request succeeds with valid coordinates.
func (r *originResolver) start(cfg *config.MapConfig) {
	if r.geolocator == nil {
		return
	}
	if cfg == nil || cfg.Geolocation == nil || !cfg.Geolocation.Enabled {
		return
	}

	go r.refine()
}

func (r *originResolver) refine() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	coord, err := r.geolocator.Locate(ctx)
	if err != nil || !coord.IsValid() {
		// Not an error condition: the default center remains authoritative.
		if r.logger != nil {
			r.logger.Info("device geolocation unavailable, keeping default center",
				slog.Any("error", err))
		}

		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.discarded || r.refined {
		return
	}
	r.center = coord
	r.refined = true
}

// Center returns the current best-known viewing center and zoom.
func (r *originResolver) Center() (entity.Coordinate, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.center, r.zoom
}

// discard suppresses any late refinement after teardown.
func (r *originResolver) discard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discarded = true
}
