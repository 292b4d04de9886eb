package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/courseware-service/internal/cache"
	"github.com/SAP-F-2025/courseware-service/internal/config"
	"github.com/SAP-F-2025/courseware-service/internal/controllers"
	"github.com/SAP-F-2025/courseware-service/internal/events"
	"github.com/SAP-F-2025/courseware-service/internal/handlers"
	"github.com/SAP-F-2025/courseware-service/internal/repositories/roble"
	robleclient "github.com/SAP-F-2025/courseware-service/internal/roble"
	"github.com/SAP-F-2025/courseware-service/internal/services"
	"github.com/SAP-F-2025/courseware-service/internal/session"
	"github.com/SAP-F-2025/courseware-service/internal/state"
	"github.com/SAP-F-2025/courseware-service/internal/utils"
	"github.com/SAP-F-2025/courseware-service/internal/validator"
	"github.com/SAP-F-2025/courseware-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	cacheService := cache.NewRedisCache(redisClient, slogLogger)
	sessionStore := session.NewStore(cacheService, cfg.SessionTTL, cfg.SessionKeepAliveTTL)

	client := robleclient.NewClient(robleclient.Config{
		BaseURL: cfg.RobleBaseURL,
		Logger:  slogLogger,
	})
	repo := roble.NewRepository(client)

	v := validator.New()
	bus := events.NewBus(slogLogger)
	refresh := state.NewRefreshManager()

	eventCfg := config.LoadEventConfig()
	publisher, err := eventCfg.CreateEventPublisher(slogLogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	bridge := events.NewBridge(bus, publisher, slogLogger)
	defer bridge.Close()

	ctrl := handlers.Controllers{
		Auth:        controllers.NewAuthController(client, sessionStore, bus, slogLogger),
		Courses:     controllers.NewCourseController(repo, refresh, bus, slogLogger, cfg.RefreshTTL),
		Categories:  controllers.NewCategoryController(repo, refresh, v, slogLogger, cfg.RefreshTTL),
		Groups:      controllers.NewGroupController(repo, refresh, bus, slogLogger, cfg.RefreshTTL),
		Enrollments: controllers.NewEnrollmentController(repo, refresh, bus, slogLogger, cfg.RefreshTTL),
		Memberships: controllers.NewMembershipController(repo, bus, slogLogger),
		Activities:  controllers.NewActivityController(repo, refresh, bus, slogLogger, cfg.RefreshTTL),
		Assessments: controllers.NewAssessmentController(repo, refresh, bus, v, slogLogger, cfg.RefreshTTL),
	}

	exporter := services.NewExportService(slogLogger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(ctrl, exporter, v, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("Courseware service listening", "port", cfg.Port, "environment", cfg.Environment)
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
