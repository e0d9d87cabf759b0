package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"projectmap/internal/config"
	"projectmap/internal/model"
)

type recordingNotifier struct {
	summaries []model.ImportSummary
	closed    bool
}

func (n *recordingNotifier) SendImport(summary model.ImportSummary) {
	n.summaries = append(n.summaries, summary)
}

func (n *recordingNotifier) Close(ctx context.Context) error {
	n.closed = true
	return nil
}

func TestBuildWithoutConfig(t *testing.T) {
	if _, err := NewBuilder(nil).Build(context.Background()); err == nil {
		t.Fatalf("expected an error without config")
	}
}

func TestBuildDefaultSources(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "data", "projects.json"), []byte(`[{"name":"Từ tệp"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Config{
		HTTPPort:    "0",
		DataFile:    "data/projects.json",
		DataURL:     "http://127.0.0.1:1/unreachable.json",
		MaxUploadMB: 1,
	}
	notifier := &recordingNotifier{}
	application, err := NewBuilder(&cfg, WithBasePath(base), WithNotifier(notifier)).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if application.Pool != nil || application.Repo != nil {
		t.Errorf("postgres should stay unused")
	}

	names := []string{}
	for _, s := range application.Sources {
		names = append(names, s.Name())
	}
	if len(names) != 2 || names[0] != "url" || names[1] != "file" {
		t.Errorf("sources = %v, want [url file]", names)
	}
	if application.Scheduler.Enabled() {
		t.Errorf("scheduler should be disabled without a cron spec")
	}

	application.Dashboard.Load(context.Background())
	if status := application.Dashboard.Status(); status.Origin != "file" || status.Projects != 1 {
		t.Errorf("status = %+v", status)
	}
}

func TestBuildServesDashboard(t *testing.T) {
	cfg := config.Config{HTTPPort: "0", MaxUploadMB: 1}
	application, err := NewBuilder(&cfg, WithBasePath(t.TempDir())).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	application.Dashboard.Load(context.Background())

	srv := httptest.NewServer(application.Server.Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz = %d", resp.StatusCode)
	}
	if got := application.Dashboard.Status().Origin; got != "sample" {
		t.Errorf("origin = %q, want the bundled sample", got)
	}
}

func TestShutdownClosesNotifier(t *testing.T) {
	cfg := config.Config{HTTPPort: "0", MaxUploadMB: 1}
	notifier := &recordingNotifier{}
	application, err := NewBuilder(&cfg, WithBasePath(t.TempDir()), WithNotifier(notifier)).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if err := application.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !notifier.closed {
		t.Errorf("notifier was not closed on shutdown")
	}
}
