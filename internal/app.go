package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	"vivafit/internal/controllers"
	"vivafit/internal/persistence/interfaces"
	"vivafit/internal/providers"
	remoteInterfaces "vivafit/internal/remote/interfaces"
	"vivafit/internal/structures"
	"vivafit/internal/workout"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	WebServer *http.Server
}

// NewHandler mounts the API routes behind the metrics middleware next to the
// infrastructure endpoints.
func NewHandler(router providers.RouterProviderInterface, healthController *controllers.HealthController, conf *structures.Config, metrics providers.MetricsProviderInterface) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthController.Health)
	if conf.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(api chi.Router) {
		api.Use(func(next http.Handler) http.Handler {
			return providers.MetricsMiddleware(metrics, next)
		})
		for _, route := range router.GetRoutes() {
			api.Method(route.Method, route.Url, route.Handler)
		}
	})
	return r
}

func NewApp(router providers.RouterProviderInterface, healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, store interfaces.DurableStoreInterface, manager workout.ManagerInterface, mirror remoteInterfaces.MirrorStoreInterface, conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (*App, error) {
	handler := NewHandler(router, healthController, conf, metrics)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	err := scheduler.Restore()
	if err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: conf.ExerciseAPI.Timeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		scheduler.Stop()
		manager.Close()
		mirror.Close()
		_ = store.Close()
		return nil, fmt.Errorf("server error: %w", err)
	}

	scheduler.Stop()
	manager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}
	mirror.Close()

	err = scheduler.Persist()
	if err != nil {
		return nil, err
	}
	if err = store.Close(); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
