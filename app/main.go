package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"task-tracker/app/config"
	"task-tracker/app/controllers"
	"task-tracker/app/routes"
	"task-tracker/app/services"
	"task-tracker/app/storage"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gorilla/mux"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize the storage backend
	ctx := context.Background()
	store, err := config.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "backend", cfg.Storage, "error", err)
		os.Exit(1)
	}

	// Initialize the service layer and restore any saved session
	sessionService := services.NewSessionService(store)
	taskService := services.NewTaskService(store, services.WithLogger(logger))
	tracker := services.NewTracker(sessionService, taskService, logger)
	if user, ok, err := tracker.Resume(ctx); err != nil {
		logger.Error("Failed to restore session", "error", err)
		os.Exit(1)
	} else if ok {
		logger.Info("Restored session", "user", user)
	}

	// Setup HTTP server
	router := mux.NewRouter()
	routes.RegisterRoutes(router,
		controllers.NewSessionController(tracker, logger),
		controllers.NewTaskController(tracker, logger),
	)
	server := &http.Server{Addr: cfg.Addr, Handler: router}

	go func() {
		logger.Info("Server is running", "addr", cfg.Addr, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"task-tracker": shutdown(server, store),
		},
	)

	exitCode := <-wait
	logger.Info("Application exited", "code", exitCode)
	os.Exit(exitCode)
}

// shutdown drains in-flight requests, then closes storage.
func shutdown(server *http.Server, store storage.Storage) gfshutdown.Operation {
	return func(ctx context.Context) error {
		serverErr := server.Shutdown(ctx)
		if serverErr != nil {
			serverErr = fmt.Errorf("http server shutdown: %w", serverErr)
		}
		return errors.Join(serverErr, store.Close(ctx))
	}
}
