package httpapi

import (
	"embed"
	"io/fs"
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"projectmap/internal/metrics"
	"projectmap/internal/services/dashboard"
)

//go:embed web
var webFS embed.FS

type Handler struct {
	service   *dashboard.Service
	maxUpload int64
}

// NewHandler serves the dashboard API. Upload bodies larger than maxUpload
// bytes are refused.
func NewHandler(service *dashboard.Service, maxUpload int64) *Handler {
	return &Handler{service: service, maxUpload: maxUpload}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", h.handleView)
		r.Get("/projects", h.handleProjects)
		r.Route("/projects/{id}", func(r chi.Router) {
			r.Get("/", h.handleProject)
			r.Get("/chart", h.handleChart)
			r.Get("/chart.png", h.handleChartPNG)
			r.Get("/qr.png", h.handleQR)
		})
		r.Post("/import", h.handleImport)
		r.Get("/export", h.handleExport)
		r.Get("/export.xlsx", h.handleExportXLSX)
		r.Post("/reload", h.handleReload)
	})

	r.Route("/debug/pprof", func(r chi.Router) {
		r.Get("/", pprof.Index)
		r.Get("/cmdline", pprof.Cmdline)
		r.Get("/profile", pprof.Profile)
		r.Get("/symbol", pprof.Symbol)
		r.Post("/symbol", pprof.Symbol)
		r.Get("/trace", pprof.Trace)
		r.Get("/allocs", pprof.Handler("allocs").ServeHTTP)
		r.Get("/block", pprof.Handler("block").ServeHTTP)
		r.Get("/goroutine", pprof.Handler("goroutine").ServeHTTP)
		r.Get("/heap", pprof.Handler("heap").ServeHTTP)
		r.Get("/mutex", pprof.Handler("mutex").ServeHTTP)
		r.Get("/threadcreate", pprof.Handler("threadcreate").ServeHTTP)
	})

	static, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	r.Handle("/*", http.FileServer(http.FS(static)))
	return r
}
