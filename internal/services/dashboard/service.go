// Package dashboard owns the active project dataset. Every replacement is
// wholesale: a startup load, a scheduled reload or an upload swaps the whole
// slice under the write lock, and readers always see one complete dataset.
package dashboard

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"projectmap/internal/derive"
	"projectmap/internal/importer"
	"projectmap/internal/metrics"
	"projectmap/internal/model"
)

//go:embed sample.json
var sampleJSON []byte

const sampleOrigin = "sample"

type Status struct {
	Origin   string    `json:"origin"`
	Projects int       `json:"projects"`
	Plotted  int       `json:"plotted"`
	LoadedAt time.Time `json:"loadedAt"`
}

type Service struct {
	sources  []Source
	notifier Notifier

	mu       sync.RWMutex
	projects []model.Project
	origin   string
	loadedAt time.Time

	runMu   sync.Mutex
	running bool
}

// NewService keeps sources in priority order: the first one that yields a
// non-empty dataset wins.
func NewService(sources []Source, notifier Notifier) *Service {
	return &Service{sources: sources, notifier: notifier, projects: []model.Project{}}
}

// Load fills the store at startup. When no source yields data the bundled
// sample is used, so the dashboard never starts empty.
func (s *Service) Load(ctx context.Context) {
	projects, origin, empty := s.collect(ctx)
	if origin == "" {
		if len(empty) > 0 {
			log.Printf("[startup] sources %s returned empty datasets; an empty dataset counts as no data, using bundled sample", strings.Join(empty, ", "))
		} else {
			log.Printf("[startup] no source yielded projects; using bundled sample")
		}
		projects, origin = Sample(), sampleOrigin
	}
	s.replace(projects, origin)
	log.Printf("[startup] loaded %d projects from %s", len(projects), origin)
}

// Run reloads from the sources. A run in progress makes a new trigger a
// no-op, and a reload that finds nothing keeps the current dataset.
func (s *Service) Run(ctx context.Context) {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		log.Println("[reload] already running; skipping")
		return
	}
	s.running = true
	s.runMu.Unlock()

	defer func() {
		s.runMu.Lock()
		s.running = false
		s.runMu.Unlock()
	}()

	projects, origin, _ := s.collect(ctx)
	if origin == "" {
		log.Printf("[reload] no source yielded projects; keeping current dataset")
		return
	}
	s.replace(projects, origin)
	log.Printf("[reload] loaded %d projects from %s", len(projects), origin)
}

// collect loads every source concurrently and returns the first non-empty
// dataset in priority order with the source's name. empty lists the sources
// that loaded without error but held no projects. origin is "" when nothing
// yielded data.
func (s *Service) collect(ctx context.Context) (projects []model.Project, origin string, empty []string) {
	if len(s.sources) == 0 {
		return nil, "", nil
	}

	results := make([][]model.Project, len(s.sources))
	blank := make([]bool, len(s.sources))
	group, gctx := errgroup.WithContext(ctx)

	for i, source := range s.sources {
		i, source := i, source
		group.Go(func() error {
			projects, err := source.Load(gctx)
			if err != nil {
				log.Printf("[%s] load failed: %v", source.Name(), err)
				metrics.SourceLoadsTotal.WithLabelValues(source.Name(), "error").Inc()
				return nil
			}
			if len(projects) == 0 {
				log.Printf("[%s] no projects", source.Name())
				metrics.SourceLoadsTotal.WithLabelValues(source.Name(), "empty").Inc()
				blank[i] = true
				return nil
			}
			log.Printf("[%s] found %d projects", source.Name(), len(projects))
			metrics.SourceLoadsTotal.WithLabelValues(source.Name(), "ok").Inc()
			results[i] = projects
			return nil
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[startup] source group error: %v", err)
	}

	for i, source := range s.sources {
		if blank[i] {
			empty = append(empty, source.Name())
		}
	}
	for i, found := range results {
		if len(found) > 0 {
			return found, s.sources[i].Name(), empty
		}
	}
	return nil, "", empty
}

// Import replaces the dataset with an uploaded file. The format is decided
// before r is read; any failure leaves the current dataset untouched.
func (s *Service) Import(ctx context.Context, filename, contentType string, r io.Reader) (model.ImportSummary, error) {
	format, err := importer.DetectFormat(filename, contentType)
	if err != nil {
		metrics.ImportsTotal.WithLabelValues("unknown", "rejected").Inc()
		log.Printf("[import] %s rejected: %v", filename, err)
		return model.ImportSummary{}, err
	}

	projects, err := importer.Parse(format, r)
	if err != nil {
		metrics.ImportsTotal.WithLabelValues(string(format), "failed").Inc()
		log.Printf("[import] %s failed: %v", filename, err)
		return model.ImportSummary{}, err
	}
	if err := ctx.Err(); err != nil {
		metrics.ImportsTotal.WithLabelValues(string(format), "failed").Inc()
		return model.ImportSummary{}, err
	}

	s.replace(projects, filename)
	metrics.ImportsTotal.WithLabelValues(string(format), "applied").Inc()

	summary := model.Summarize(filename, string(format), projects)
	log.Printf("[import] %s applied: projects=%d plotted=%d", filename, summary.Projects, summary.Plotted)
	if s.notifier != nil {
		s.notifier.SendImport(summary)
	}
	return summary, nil
}

func (s *Service) replace(projects []model.Project, origin string) {
	s.mu.Lock()
	s.projects = projects
	s.origin = origin
	s.loadedAt = time.Now()
	s.mu.Unlock()

	metrics.DatasetProjects.Set(float64(len(projects)))
}

// snapshot returns the active slice. Slices are never mutated after a swap,
// so callers may read it without holding the lock.
func (s *Service) snapshot() []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects
}

func (s *Service) View(state model.FilterState) derive.View {
	start := time.Now()
	view := derive.Derive(s.snapshot(), state)
	metrics.ViewDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	return view
}

func (s *Service) Projects() []model.Project {
	projects := s.snapshot()
	out := make([]model.Project, len(projects))
	copy(out, projects)
	return out
}

func (s *Service) Project(id string) (model.Project, bool) {
	for _, p := range s.snapshot() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Project{}, false
}

func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plotted := 0
	for _, p := range s.projects {
		if p.Plottable() {
			plotted++
		}
	}
	return Status{Origin: s.origin, Projects: len(s.projects), Plotted: plotted, LoadedAt: s.loadedAt}
}

// Export renders the projects selected by state as JSON.
func (s *Service) Export(state model.FilterState) ([]byte, error) {
	return importer.ExportJSON(s.View(state).Projects)
}

func (s *Service) ExportXLSX(state model.FilterState) ([]byte, error) {
	return importer.ExportXLSX(s.View(state).Projects)
}

// Sample returns a fresh copy of the bundled dataset.
func Sample() []model.Project {
	projects, err := importer.ParseJSON(bytes.NewReader(sampleJSON))
	if err != nil {
		log.Printf("[startup] bundled sample unreadable: %v", err)
		return []model.Project{}
	}
	return projects
}
