package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Envapa08241978/soynexo-servidor-final/config"
	"github.com/Envapa08241978/soynexo-servidor-final/handlers"
	"github.com/Envapa08241978/soynexo-servidor-final/middleware"
	"github.com/Envapa08241978/soynexo-servidor-final/routes"
	"github.com/Envapa08241978/soynexo-servidor-final/services/audit"
	ai "github.com/Envapa08241978/soynexo-servidor-final/services/intelligence"
	"github.com/Envapa08241978/soynexo-servidor-final/services/leak"
	"github.com/Envapa08241978/soynexo-servidor-final/services/places"
	"github.com/Envapa08241978/soynexo-servidor-final/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("main: failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		logger.Fatal("main: invalid configuration", zap.Error(err))
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// external clients.
	gemini, err := ai.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.ClassifierModel, cfg.NarrativeModel)
	if err != nil {
		logger.Fatal("main: failed to initialize Gemini client", zap.Error(err))
	}
	defer gemini.Close()

	placesClient := places.NewClient(
		cfg.GoogleMapsAPIKey,
		places.WithBaseURL(cfg.PlacesBaseURL),
		places.WithRateLimit(cfg.PlacesRPS, cfg.PlacesBurst),
	)

	// services.
	classifier, err := ai.NewIntentClassifier(gemini, cfg.ClassifyTimeout)
	if err != nil {
		logger.Fatal("main: failed to build intent classifier", zap.Error(err))
	}
	engine, err := leak.NewEngine(cfg.LeakPolicy())
	if err != nil {
		logger.Fatal("main: invalid leak policy", zap.Error(err))
	}
	pipeline := audit.NewPipeline(
		classifier,
		places.NewResolver(placesClient, cfg.PlacesTimeout, logger.Named("places")),
		engine,
		ai.NewNarrativeGenerator(gemini, cfg.NarrativeTimeout),
		audit.NewMetrics(registry),
		logger.Named("audit"),
	)

	// Create the Gin router.
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(utils.ErrorHandler(logger))
	router.Use(routes.CORS(cfg.AllowedOrigins))
	router.Use(middleware.NewRateLimiter(cfg.MaxRequestsPerMin).Middleware())

	handlerBundle := &handlers.HandlerBundle{
		AuditHandler:   handlers.NewAuditHandler(pipeline).AuditHandler,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
