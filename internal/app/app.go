// Package app initializes and runs the exercise tracker service.
// It configures logging, storage and routing, and handles graceful
// shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/patric-chuzhbe/exercisetracker/internal/config"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/memorystorage"
	"github.com/patric-chuzhbe/exercisetracker/internal/db/storage"
	"github.com/patric-chuzhbe/exercisetracker/internal/logger"
	"github.com/patric-chuzhbe/exercisetracker/internal/router"
)

// App encapsulates the configuration, HTTP handler and storage needed to
// run the service.
type App struct {
	cfg         *config.Config
	db          storage.Storage
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - creating the in-memory store
// - setting up the router and middleware
func New(optionsProto ...config.InitOption) (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New(optionsProto...)
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = memorystorage.New()
	if err != nil {
		return nil, err
	}

	app.httpHandler = router.New(
		app.db,
		router.WithExerciseResponse(app.cfg.ExerciseResponse),
		router.WithViewsDir(app.cfg.ViewsDir),
		router.WithStaticDir(app.cfg.StaticDir),
	)

	return app, nil
}

// Run serves HTTP until SIGINT or SIGTERM arrives.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.RunContext(ctx)
}

// RunContext serves HTTP until ctx is done, then shuts the server down
// within the configured timeout and closes the store.
func (a *App) RunContext(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.cfg.RunAddr(),
		Handler: a.httpHandler,
	}

	logger.Log.Infow("server running", "RunAddr", a.cfg.RunAddr())

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Stopping the server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		if errors.Is(err, http.ErrServerClosed) {
			return a.db.Close()
		}
		return fmt.Errorf("server error: %w", err)
	}
}

// Handler exposes the fully wired HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpHandler
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}
