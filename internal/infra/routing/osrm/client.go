// Package osrm implements the routing provider against an OSRM-compatible
// HTTP routing service.
package osrm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fleetmap/config"
	"fleetmap/internal/domain/entity"
	"fleetmap/internal/domain/service"
	"fleetmap/internal/errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	defaultBaseURL = "https://router.project-osrm.org"
	defaultProfile = "driving"

	// Provider-level default; per-request deadlines are tightened further
	// by the caller's context.
	defaultTimeout = 10 * time.Second
)

// Client requests driving paths from an OSRM route endpoint.
// Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	profile    string
}

// NewClient creates a routing provider from configuration. Missing fields
// fall back to the public OSRM defaults.
func NewClient(cfg *config.RoutingConfig) service.RouteProvider {
	baseURL := defaultBaseURL
	profile := defaultProfile
	timeout := defaultTimeout

	if cfg != nil {
		if strings.TrimSpace(cfg.BaseURL) != "" {
			baseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		if strings.TrimSpace(cfg.Profile) != "" {
			profile = cfg.Profile
		}
		if cfg.RequestTimeout > 0 {
			timeout = cfg.RequestTimeout
		}
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		profile:    profile,
	}
}

// routeResponse mirrors the OSRM route payload. Geometry arrives as a
// GeoJSON LineString with [longitude, latitude] vertex ordering.
type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry geojson.Geometry `json:"geometry"`
	} `json:"routes"`
}

// Route requests one driving path and converts the provider's
// [lng, lat] geometry into the canonical [lat, lng] ordering.
func (c *Client) Route(ctx context.Context, origin, destination entity.Coordinate) (entity.Route, error) {
	url := c.baseURL + "/route/v1/" + c.profile + "/" +
		formatCoordinate(origin) + ";" + formatCoordinate(destination) +
		"?overview=full&geometries=geojson"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create route request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "execute route request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return nil, errors.Errorf("routing provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "decode route response")
	}

	if decoded.Code != "Ok" {
		return nil, errors.Errorf("routing provider rejected request: %s", decoded.Code)
	}
	if len(decoded.Routes) == 0 {
		return nil, errors.New("routing provider returned no routes")
	}

	line, ok := decoded.Routes[0].Geometry.Geometry().(orb.LineString)
	if !ok {
		return nil, errors.New("routing provider returned non-linestring geometry")
	}

	path := make(entity.Route, 0, len(line))
	for _, point := range line {
		path = append(path, entity.Coordinate{Lat: point.Lat(), Lng: point.Lon()})
	}

	return path, nil
}

// formatCoordinate renders the provider's longitude,latitude request order.
func formatCoordinate(c entity.Coordinate) string {
	return strconv.FormatFloat(c.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}
