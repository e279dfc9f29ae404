// Package server boots the API: configuration, database, cache, storage,
// migrations, queue workers and the HTTP listener.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/idlikadai/backend/app/jobs"
	"github.com/idlikadai/backend/app/listeners"
	"github.com/idlikadai/backend/app/repositories"
	"github.com/idlikadai/backend/app/routes"
	"github.com/idlikadai/backend/config"
	"github.com/idlikadai/backend/pkg/cache"
	"github.com/idlikadai/backend/pkg/database"
	"github.com/idlikadai/backend/pkg/logger"
	"github.com/idlikadai/backend/pkg/mail"
	"github.com/idlikadai/backend/pkg/metrics"
	"github.com/idlikadai/backend/pkg/middleware"
	"github.com/idlikadai/backend/pkg/migration"
	"github.com/idlikadai/backend/pkg/queue"
	"github.com/idlikadai/backend/pkg/reqid"
	"github.com/idlikadai/backend/pkg/router"
	"github.com/idlikadai/backend/pkg/storage"
)

const queueWorkers = 4

// Start boots every subsystem and serves until SIGINT/SIGTERM.
func Start() error {
	if err := Boot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startQueue(ctx)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", config.AppPort(), "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongo disconnect", "error", err)
	}
	return nil
}

// Boot loads configuration and connects every backing service. Shared by
// the serve command and the administrative CLI commands.
func Boot() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := database.Connect(ctx); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, caching disabled", "error", err)
	}

	if config.Get("LOG_TO_MONGO", "") == "true" {
		if _, err := logger.EnableMongo(config.MongoURI(), config.MongoDatabase(), "logs"); err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		}
	}

	storage.Connect()

	if err := migration.New(database.DB()).Run(ctx); err != nil {
		return err
	}

	if mail.Configured() {
		if err := mail.Verify(); err != nil {
			logger.Warn("email transport verification failed", "error", err)
		} else {
			logger.Info("email transport verified")
		}
	} else {
		logger.Warn("email credentials not set, emails will be skipped")
	}

	return nil
}

// startQueue selects the queue driver, registers job types and listeners,
// and launches workers.
func startQueue(ctx context.Context) {
	if config.QueueDriver() == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		logger.Info("queue: redis driver")
	} else {
		logger.Info("queue: memory driver")
	}
	queue.UseDB(database.Collection("failed_jobs"))

	jobs.RegisterAll()

	users := repositories.NewUserRepository()
	listeners.RegisterOrderListeners(users.FindSeller)

	queue.StartWorkers(ctx, queueWorkers)
}

// Handler builds the HTTP handler with the global middleware chain.
//
// Order (outermost → innermost):
//  1. Prometheus metrics — outermost for accurate total latency
//  2. Recovery           — catches panics before they kill the goroutine
//  3. Request ID         — inject unique ID before anything logs
//  4. Logger             — logs request_id from context
//  5. CORS               — set CORS headers
//  6. Client IP          — resolve caller address for the audit trail
func Handler() http.Handler {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins())))
	r.Use(middleware.ClientIP)

	routes.RegisterAPI(r)

	return r.Handler()
}

// Routes returns the mounted route table for the route:list command.
func Routes() []router.RouteInfo {
	r := router.New()
	routes.RegisterAPI(r)
	return r.Routes()
}
