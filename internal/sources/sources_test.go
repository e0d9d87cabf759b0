package sources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"projectmap/internal/importer"
	"projectmap/internal/normalize"
)

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.json")
	if err := os.WriteFile(path, []byte(`[{"Tên dự án":"Izumi City","Vĩ độ":"10,9","Kinh độ":"106,8"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	projects, err := NewFile(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Izumi City" || !projects[0].Plottable() {
		t.Errorf("projects = %+v", projects)
	}

	if _, err := NewFile(filepath.Join(dir, "missing.json")).Load(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"name":"A"},{"name":"B"}]`))
		case "/page.html":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><head>
<script type="application/json" id="config">{"theme":"light"}</script>
<script type="application/json" id="projects">[{"Tên dự án":"Eco Green","Tỉnh/Thành phố":"Hồ Chí Minh"}]</script>
</head><body></body></html>`))
		case "/bare.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><p>Không có dữ liệu</p></body></html>`))
		case "/object.json":
			_, _ = w.Write([]byte(`{"name":"A"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	projects, err := NewURL(srv.URL+"/projects.json", srv.Client()).Load(context.Background())
	if err != nil || len(projects) != 2 {
		t.Fatalf("Load = %d projects, %v", len(projects), err)
	}
	if _, err := NewURL(srv.URL+"/object.json", srv.Client()).Load(context.Background()); !errors.Is(err, importer.ErrNotArray) {
		t.Errorf("object err = %v", err)
	}
	projects, err = NewURL(srv.URL+"/page.html", srv.Client()).Load(context.Background())
	if err != nil || len(projects) != 1 || projects[0].Province != "Hồ Chí Minh" {
		t.Errorf("embedded page = %+v, %v", projects, err)
	}
	if _, err := NewURL(srv.URL+"/bare.html", srv.Client()).Load(context.Background()); !errors.Is(err, ErrNoEmbeddedData) {
		t.Errorf("bare page err = %v", err)
	}
	if _, err := NewURL(srv.URL+"/missing", srv.Client()).Load(context.Background()); err == nil {
		t.Errorf("404 should fail")
	}
}

type stubRepo struct {
	items []normalize.Item
	err   error
}

func (s stubRepo) List(ctx context.Context) ([]normalize.Item, error) { return s.items, s.err }

func TestRepository(t *testing.T) {
	name, _ := json.Marshal("Seeded")
	projects, err := NewRepository(stubRepo{items: []normalize.Item{{normalize.KeyName: name}}}).Load(context.Background())
	if err != nil || len(projects) != 1 || projects[0].Name != "Seeded" {
		t.Fatalf("Load = %+v, %v", projects, err)
	}

	boom := errors.New("connection refused")
	if _, err := NewRepository(stubRepo{err: boom}).Load(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}
