package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-today/internal/app"
	"github.com/KasumiMercury/primind-today/internal/config"
	"github.com/KasumiMercury/primind-today/internal/infra/handler"
	"github.com/KasumiMercury/primind-today/internal/observability/logging"
	"github.com/KasumiMercury/primind-today/internal/observability/metrics"
	"github.com/KasumiMercury/primind-today/internal/observability/middleware"
	"github.com/KasumiMercury/primind-today/internal/scheduler"
)

func main() {
	os.Exit(run())
}

func run() int {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.Log)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	bus, err := initBus(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		return 1
	}
	defer func() {
		if err := bus.Close(); err != nil {
			slog.Warn("failed to close event bus", "error", err)
		}
	}()

	reminderStore, closeStore, err := initStore(cfg)
	if err != nil {
		slog.Error("failed to initialize reminder store", "error", err, "backend", cfg.Store.Backend)
		return 1
	}
	defer closeStore()

	clock := func() time.Time { return time.Now().In(cfg.Schedule.Location) }

	repo := app.NewReminderRepository(reminderStore, bus, cfg.Store.Timeout)
	list := app.NewReminderList(repo, clock)
	alerts := app.NewAlertUseCase(repo, bus, cfg.Schedule.SnoozeInterval, clock)

	loadCtx := logging.WithModule(ctx, logging.ModuleReminders)
	if out, err := repo.LoadAll(loadCtx); err != nil {
		// the resync job retries; the service starts with an empty list
		slog.Error("initial reminder load failed", "error", err)
	} else {
		slog.Info("initial reminders loaded", "count", len(out.Reminders), "access", out.Access)
	}

	storeEvents, err := bus.SubscribeStoreChanged(ctx)
	if err != nil {
		slog.Error("failed to subscribe to store changes", "error", err)
		return 1
	}

	go func() {
		if err := repo.Watch(loadCtx, storeEvents); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("store watcher stopped", "error", err)
		}
	}()

	sched := scheduler.New(scheduler.Config{
		Location:       cfg.Schedule.Location,
		ResyncSchedule: cfg.Schedule.ResyncSchedule,
	}, bus, alerts, clock)
	if err := sched.Start(ctx); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to create HTTP metrics", "error", err)
		return 1
	}

	router := setupRouter(
		handler.NewReminderHandler(list, alerts),
		handler.NewEventsHandler(bus),
		httpMetrics,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", cfg.Server.Address(), "backend", cfg.Store.Backend)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())

		// closes event streams and stops the watcher and scheduler
		stop()
		sched.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", "error", err)
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", "error", err)
		return 1
	}
}

func setupRouter(reminderHandler *handler.ReminderHandler, eventsHandler *handler.EventsHandler, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.PanicRecoveryGin(),
		middleware.Gin(middleware.GinConfig{
			SkipPaths:   []string{"/ping", "/api/v1/events"},
			Module:      logging.ModuleReminders,
			TracerName:  "primind-today/http",
			HTTPMetrics: httpMetrics,
		}),
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := router.Group("/api/v1")
	reminderHandler.RegisterRoutes(v1)
	eventsHandler.RegisterRoutes(v1)

	return router
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level

	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(logging.NewContextHandler(jsonHandler)))
}
