// Package upstream implements the person and order collection repositories
// against the dashboard's REST backend.
package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"fleetmap/config"
	"fleetmap/internal/domain/entity"
	"fleetmap/internal/errors"
)

const (
	defaultTimeout = 10 * time.Second

	personsPath = "/api/users"
	ordersPath  = "/api/orders"
)

// Client fetches the person and order collections. It implements both
// repository.PersonRepository and repository.OrderRepository.
// Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an upstream client for the configured dashboard backend.
func NewClient(cfg *config.UpstreamConfig) (*Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("upstream base URL is empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// personDTO mirrors the upstream person record. Coordinates are decoded
// loosely: upstream serializers have been observed emitting numbers,
// numeric strings and nulls.
type personDTO struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Phone       string       `json:"phone"`
	Role        string       `json:"role"`
	IsAvailable *bool        `json:"isAvailable"`
	VehicleType string       `json:"vehicleType"`
	Location    *locationDTO `json:"location"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type locationDTO struct {
	Lat     any    `json:"lat"`
	Lng     any    `json:"lng"`
	Address string `json:"address"`
}

type orderDTO struct {
	ID        string       `json:"id"`
	Status    string       `json:"status"`
	DriverID  string       `json:"driverId"`
	Dropoff   *locationDTO `json:"dropoffLocation"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ListPersons fetches the full person collection.
func (c *Client) ListPersons(ctx context.Context) ([]entity.Person, error) {
	var dtos []personDTO
	if err := c.getJSON(ctx, personsPath, &dtos); err != nil {
		return nil, errors.Wrap(err, "list persons")
	}

	persons := make([]entity.Person, 0, len(dtos))
	for _, dto := range dtos {
		persons = append(persons, dto.toEntity())
	}

	return persons, nil
}

// ListOrders fetches the full order collection.
func (c *Client) ListOrders(ctx context.Context) ([]entity.Order, error) {
	var dtos []orderDTO
	if err := c.getJSON(ctx, ordersPath, &dtos); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	orders := make([]entity.Order, 0, len(dtos))
	for _, dto := range dtos {
		orders = append(orders, dto.toEntity())
	}

	return orders, nil
}

func (p personDTO) toEntity() entity.Person {
	person := entity.Person{
		ID:          p.ID,
		Name:        p.Name,
		Phone:       p.Phone,
		Role:        entity.ParseRole(p.Role),
		VehicleType: p.VehicleType,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.IsAvailable != nil {
		person.Available = *p.IsAvailable
	}
	person.Location = p.Location.normalize()

	return person
}

func (o orderDTO) toEntity() entity.Order {
	return entity.Order{
		ID:        o.ID,
		Status:    entity.ParseOrderStatus(o.Status),
		DriverID:  o.DriverID,
		Dropoff:   o.Dropoff.normalize(),
		CreatedAt: o.CreatedAt,
	}
}

// normalize runs the canonical location normalization; malformed or missing
// payloads yield an absent location, never an error.
func (l *locationDTO) normalize() *entity.Location {
	if l == nil {
		return nil
	}

	location, ok := entity.NormalizeLocation(l.Lat, l.Lng, l.Address)
	if !ok {
		return nil
	}

	return location
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return errors.Errorf("upstream returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}

	return nil
}
