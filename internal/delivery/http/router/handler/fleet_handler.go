package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "fleetmap/internal/delivery/context"
	"fleetmap/internal/delivery/http/response"
	"fleetmap/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// FleetHandlerParams holds dependencies for FleetHandler, injected by Fx.
type FleetHandlerParams struct {
	fx.In

	FleetUC usecase.FleetUsecase
	Logger  *slog.Logger
}

// FleetHandler serves the live fleet map view model.
type FleetHandler struct {
	fleetUC usecase.FleetUsecase
	logger  *slog.Logger
}

// NewFleetHandler is the constructor for FleetHandler.
func NewFleetHandler(params FleetHandlerParams) *FleetHandler {
	return &FleetHandler{
		fleetUC: params.FleetUC,
		logger:  params.Logger,
	}
}

// GetMap returns the current merged map view without triggering a cycle.
func (h *FleetHandler) GetMap(c echo.Context) error {
	view := h.fleetUC.Snapshot()

	return response.Success(c, http.StatusOK, view, "Fleet map retrieved successfully")
}

// Refresh triggers one aggregation cycle and returns the fresh view.
// An upstream fetch failure surfaces as a 502 envelope; all other failure
// modes degrade silently inside the cycle.
func (h *FleetHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.fleetUC.Refresh(ctx); err != nil {
		logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)
		logger.Warn("fleet refresh failed", slog.Any("error", err))

		return response.BadGateway(c, "UPSTREAM_FETCH_FAILED", "Failed to refresh fleet data", err.Error())
	}

	return response.Success(c, http.StatusOK, h.fleetUC.Snapshot(), "Fleet map refreshed successfully")
}

// ListDriversRequest represents the driver list query parameters.
type ListDriversRequest struct {
	Available *bool `query:"available"`
}

// ListDrivers returns the driver layer of the current view, optionally
// filtered by availability.
func (h *FleetHandler) ListDrivers(c echo.Context) error {
	var req ListDriversRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid driver query")
	}

	drivers := h.fleetUC.Snapshot().Drivers
	if req.Available != nil {
		filtered := make([]usecase.Driver, 0, len(drivers))
		for _, driver := range drivers {
			if driver.Available == *req.Available {
				filtered = append(filtered, driver)
			}
		}
		drivers = filtered
	}

	return response.Success(c, http.StatusOK, drivers, "Drivers retrieved successfully")
}
