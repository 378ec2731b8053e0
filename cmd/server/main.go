// Command server runs the route weather HTTP service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lhildreth66/routecast-app/internal/cache"
	"github.com/lhildreth66/routecast-app/internal/clients/mapbox"
	"github.com/lhildreth66/routecast-app/internal/clients/nws"
	"github.com/lhildreth66/routecast-app/internal/config"
	"github.com/lhildreth66/routecast-app/internal/lib/advise"
	"github.com/lhildreth66/routecast-app/internal/lib/conditions"
	"github.com/lhildreth66/routecast-app/internal/lib/safety"
	"github.com/lhildreth66/routecast-app/internal/lib/summary"
	"github.com/lhildreth66/routecast-app/internal/observability"
	"github.com/lhildreth66/routecast-app/internal/server"
	"github.com/lhildreth66/routecast-app/internal/services"
)

func main() {
	// Environment variables win over .env values; missing .env is fine.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(".")
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics()

	store := cache.NewWithClock(logger, clock)
	store.StartPeriodicCleanup(ctx, cfg.CacheCleanupInterval)

	mapboxClient := mapbox.NewClient(cfg.MapboxToken, logger)
	nwsClient := nws.NewClient(cfg.NWSUserAgent, logger)

	var summarizer services.Summarizer
	if cfg.OpenAIAPIKey != "" {
		summarizer = summary.NewSummarizer(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	} else {
		logger.Info("OPENAI_API_KEY not set, AI summaries disabled")
	}

	engine := services.NewRouteWeather(mapboxClient, mapboxClient, nwsClient, summarizer,
		store, metrics, logger, clock, services.RouteWeatherConfig{
			SamplingIntervalMiles:   cfg.SamplingIntervalMiles,
			StopAttachMaxMiles:      cfg.StopAttachMaxMiles,
			MaxConcurrentLookups:    cfg.MaxConcurrentLookups,
			PerLookupTimeout:        cfg.PerLookupTimeout,
			Thresholds: conditions.Thresholds{
				FreezingF: cfg.FreezingTempF,
				SlushMaxF: cfg.SlushMaxTempF,
				WindyMph:  cfg.WindyMph,
			},
			Weights: safety.Weights{
				Severity1: cfg.Severity1Penalty,
				Severity2: cfg.Severity2Penalty,
				Severity3: cfg.Severity3Penalty,
			},
			RerouteCoverageFraction: cfg.RerouteCoverageFraction,
			Window: advise.WindowConfig{
				MaxShift: cfg.WindowMaxShift,
				Step:     cfg.WindowStep,
			},
			WeatherCacheTTL: cfg.WeatherCacheTTL,
			GeocodeCacheTTL: cfg.GeocodeCacheTTL,
			RouteCacheTTL:   cfg.RouteCacheTTL,
		})

	srv := server.New(engine, mapboxClient, logger)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
