// Package server exposes the route weather engine over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lhildreth66/routecast-app/internal/clients/mapbox"
	"github.com/lhildreth66/routecast-app/internal/lib/trip"
	"github.com/lhildreth66/routecast-app/internal/services"
)

// RouteWeatherService is the single logical operation the server fronts.
type RouteWeatherService interface {
	ComputeRouteWeather(ctx context.Context, req trip.Request) (*trip.Result, error)
}

// GeocodeService backs the location autocomplete endpoint.
type GeocodeService interface {
	Autocomplete(ctx context.Context, query string, limit int) ([]mapbox.GeocodeResult, error)
}

// Server wires the echo router, handlers, and middleware.
type Server struct {
	echo     *echo.Echo
	service  RouteWeatherService
	geocoder GeocodeService
	validate *validator.Validate
	logger   *zap.Logger
}

// New builds the HTTP server. The geocoder may be nil, which disables the
// autocomplete endpoint.
func New(service RouteWeatherService, geocoder GeocodeService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	s := &Server{
		echo:     e,
		service:  service,
		geocoder: geocoder,
		validate: validator.New(),
		logger:   logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")
	api.POST("/route/weather", s.handleRouteWeather)
	api.POST("/geocode", s.handleGeocode)
	api.GET("/health", s.handleHealth)

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Start blocks serving HTTP on addr until Shutdown or a listener error.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

type errorResponse struct {
	Message string `json:"message"`
}

// routeWeatherRequest is the wire shape of the route weather operation.
type routeWeatherRequest struct {
	Origin            string           `json:"origin" validate:"required"`
	Destination       string           `json:"destination" validate:"required"`
	Stops             []trip.StopPoint `json:"stops,omitempty"`
	VehicleType       string           `json:"vehicle_type,omitempty"`
	DepartureTime     string           `json:"departure_time,omitempty"`
	CheckBridges      bool             `json:"check_bridges,omitempty"`
	VehicleHeightFeet float64          `json:"vehicle_height_feet,omitempty"`
}

func (s *Server) handleRouteWeather(c echo.Context) error {
	var req routeWeatherRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
	}
	if err := s.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "origin and destination are required"})
	}

	domainReq := trip.Request{
		Origin:            req.Origin,
		Destination:       req.Destination,
		Stops:             req.Stops,
		VehicleType:       trip.ParseVehicleType(req.VehicleType),
		CheckBridges:      req.CheckBridges,
		VehicleHeightFeet: req.VehicleHeightFeet,
	}
	if req.DepartureTime != "" {
		departure, err := time.Parse(time.RFC3339, req.DepartureTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "departure_time must be RFC 3339"})
		}
		domainReq.DepartureTime = &departure
	}

	result, err := s.service.ComputeRouteWeather(c.Request().Context(), domainReq)
	if err != nil {
		if errors.Is(err, mapbox.ErrNoResults) {
			return c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})
		}
		s.logger.Error("route weather request failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, errorResponse{Message: "failed to compute route weather"})
	}
	return c.JSON(http.StatusOK, result)
}

type geocodeRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit,omitempty"`
}

func (s *Server) handleGeocode(c echo.Context) error {
	if s.geocoder == nil {
		return c.JSON(http.StatusNotImplemented, errorResponse{Message: "geocoding is not configured"})
	}

	var req geocodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
	}
	if err := s.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "query is required"})
	}

	results, err := s.geocoder.Autocomplete(c.Request().Context(), req.Query, req.Limit)
	if err != nil {
		s.logger.Error("geocode request failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, errorResponse{Message: "geocoding failed"})
	}
	if results == nil {
		results = []mapbox.GeocodeResult{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": results})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Compile-time check that the orchestrator satisfies the server interface.
var _ RouteWeatherService = (*services.RouteWeather)(nil)
