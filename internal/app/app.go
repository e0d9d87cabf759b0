package app

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"projectmap/internal/config"
	"projectmap/internal/repositories"
	"projectmap/internal/scheduler"
	"projectmap/internal/services/dashboard"
)

type App struct {
	Config    *config.Config
	Pool      *pgxpool.Pool
	Repo      repositories.ProjectRepository
	Notifier  dashboard.Notifier
	Sources   []dashboard.Source
	Dashboard *dashboard.Service
	Scheduler *scheduler.Scheduler
	Server    *http.Server

	ownsPool bool
}

// Start loads the initial dataset before the server accepts requests, so
// the first page view never sees an empty store.
func (a *App) Start(ctx context.Context) error {
	a.Dashboard.Load(ctx)

	if err := a.Scheduler.Start(); err != nil {
		return err
	}

	go func() {
		log.Printf("HTTP server listening on %s", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	return nil
}

// notifierCloser is implemented by notifiers that queue work in the
// background, such as the Telegram sender.
type notifierCloser interface {
	Close(ctx context.Context) error
}

// Shutdown stops the server first so no upload can queue a notification
// after the notifier is closed.
func (a *App) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()
	if err := a.Server.Shutdown(ctx); err != nil {
		return err
	}
	if closer, ok := a.Notifier.(notifierCloser); ok {
		if err := closer.Close(ctx); err != nil {
			log.Printf("[shutdown] notifier: %v", err)
		}
	}
	a.closePool()
	return nil
}

func (a *App) closePool() {
	if a.ownsPool && a.Pool != nil {
		a.Pool.Close()
	}
}
