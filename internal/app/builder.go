package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"projectmap/internal/config"
	"projectmap/internal/db"
	"projectmap/internal/httpapi"
	"projectmap/internal/repositories"
	"projectmap/internal/repositories/pg"
	"projectmap/internal/scheduler"
	"projectmap/internal/services/dashboard"
	"projectmap/internal/sources"
	"projectmap/internal/telegram"
)

type Builder struct {
	cfg          *config.Config
	basePath     string
	ensureSchema bool

	pool     *pgxpool.Pool
	repo     repositories.ProjectRepository
	notifier dashboard.Notifier
	sources  []dashboard.Source
	client   *http.Client

	scheduler *scheduler.Scheduler
	server    *http.Server
}

type BuilderOption func(*Builder)

func NewBuilder(cfg *config.Config, options ...BuilderOption) *Builder {
	builder := &Builder{
		cfg:          cfg,
		ensureSchema: true,
	}
	for _, option := range options {
		option(builder)
	}
	return builder
}

func WithBasePath(basePath string) BuilderOption {
	return func(b *Builder) {
		b.basePath = basePath
	}
}

func WithEnsureSchema(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.ensureSchema = enabled
	}
}

func WithDBPool(pool *pgxpool.Pool) BuilderOption {
	return func(b *Builder) {
		b.pool = pool
	}
}

func WithRepository(repo repositories.ProjectRepository) BuilderOption {
	return func(b *Builder) {
		b.repo = repo
	}
}

func WithNotifier(notifier dashboard.Notifier) BuilderOption {
	return func(b *Builder) {
		b.notifier = notifier
	}
}

func WithSources(sources []dashboard.Source) BuilderOption {
	return func(b *Builder) {
		b.sources = sources
	}
}

func WithHTTPClient(client *http.Client) BuilderOption {
	return func(b *Builder) {
		b.client = client
	}
}

func WithScheduler(scheduler *scheduler.Scheduler) BuilderOption {
	return func(b *Builder) {
		b.scheduler = scheduler
	}
}

func WithHTTPServer(server *http.Server) BuilderOption {
	return func(b *Builder) {
		b.server = server
	}
}

// Build wires the application. Postgres is only touched when the seed
// source is enabled or a repository is injected.
func (b *Builder) Build(ctx context.Context) (*App, error) {
	if b.cfg == nil {
		return nil, errors.New("config is required")
	}

	basePath := b.basePath
	if basePath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		basePath = wd
	}

	app := &App{Config: b.cfg}

	if b.cfg.UsePostgres && b.repo == nil {
		if b.pool == nil {
			pool, err := db.NewPool(ctx, b.cfg.PostgresDSN())
			if err != nil {
				return nil, err
			}
			b.pool = pool
			app.ownsPool = true
		}

		if b.ensureSchema {
			path, err := filepath.Abs(basePath)
			if err != nil {
				app.closePool()
				return nil, err
			}
			if err := db.EnsureSchema(ctx, b.pool, path); err != nil {
				app.closePool()
				return nil, err
			}
		}

		b.repo = pg.NewProjectRepository(b.pool)
	}
	app.Pool = b.pool
	app.Repo = b.repo

	if b.notifier == nil && b.cfg.TelegramEnabled() {
		b.notifier = telegram.NewSender(b.cfg.TelegramToken, b.cfg.TelegramChat, b.cfg.TelegramThreadID)
	}
	app.Notifier = b.notifier

	if b.client == nil {
		b.client = &http.Client{Timeout: 15 * time.Second}
	}

	if b.sources == nil {
		b.sources = b.defaultSources(basePath)
	}
	app.Sources = b.sources

	app.Dashboard = dashboard.NewService(app.Sources, app.Notifier)

	if b.scheduler == nil {
		b.scheduler = scheduler.New(b.cfg.ReloadCron, app.Dashboard)
	}
	app.Scheduler = b.scheduler

	if b.server == nil {
		handler := httpapi.NewHandler(app.Dashboard, b.cfg.MaxUploadBytes())
		b.server = &http.Server{
			Addr:              ":" + b.cfg.HTTPPort,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	app.Server = b.server

	return app, nil
}

// defaultSources lists the configured sources in priority order: the seed
// table, then the remote document, then the local file.
func (b *Builder) defaultSources(basePath string) []dashboard.Source {
	list := []dashboard.Source{}
	if b.repo != nil {
		list = append(list, sources.NewRepository(b.repo))
	}
	if b.cfg.DataURL != "" {
		list = append(list, sources.NewURL(b.cfg.DataURL, b.client))
	}
	if b.cfg.DataFile != "" {
		path := b.cfg.DataFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(basePath, path)
		}
		list = append(list, sources.NewFile(path))
	}
	return list
}
