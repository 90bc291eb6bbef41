// Package geolocate implements the optional best-effort device geolocation
// capability via an IP geolocation endpoint.
package geolocate

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fleetmap/config"
	"fleetmap/internal/domain/entity"
	"fleetmap/internal/domain/service"
	"fleetmap/internal/errors"
)

const (
	defaultEndpoint = "http://ip-api.com/json"

	// The lookup is best-effort and must fail fast; the map never waits
	// on it.
	defaultTimeout = 3 * time.Second
)

// Client performs a single best-effort coordinate lookup.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a geolocator from configuration.
func NewClient(cfg *config.GeolocationConfig) service.Geolocator {
	endpoint := defaultEndpoint
	timeout := defaultTimeout

	if cfg != nil {
		if strings.TrimSpace(cfg.Endpoint) != "" {
			endpoint = cfg.Endpoint
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
	}
}

type lookupResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Locate returns the endpoint's best-effort coordinate, or an error the
// caller is expected to absorb.
func (c *Client) Locate(ctx context.Context) (entity.Coordinate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return entity.Coordinate{}, errors.Wrap(err, "create geolocation request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.Coordinate{}, errors.Wrap(err, "execute geolocation request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return entity.Coordinate{}, errors.Errorf("geolocation endpoint returned %d", resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return entity.Coordinate{}, errors.Wrap(err, "decode geolocation response")
	}

	if decoded.Status != "success" {
		return entity.Coordinate{}, errors.Errorf("geolocation lookup failed: %s", decoded.Status)
	}

	coord := entity.Coordinate{Lat: decoded.Lat, Lng: decoded.Lon}
	if !coord.IsValid() {
		return entity.Coordinate{}, errors.New("geolocation returned invalid coordinates")
	}

	return coord, nil
}
