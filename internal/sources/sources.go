// Package sources loads a whole dataset from somewhere other than an upload:
// a JSON file on disk, a JSON document or dataset page over HTTP, or the
// Postgres seed table.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"projectmap/internal/importer"
	"projectmap/internal/model"
	"projectmap/internal/normalize"
	"projectmap/internal/repositories"
)

var ErrNoEmbeddedData = errors.New("page has no embedded project array")

type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string { return "file" }

func (f *File) Load(ctx context.Context) ([]model.Project, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return importer.ParseJSON(file)
}

type URL struct {
	url    string
	client *http.Client
}

func NewURL(url string, client *http.Client) *URL {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &URL{url: url, client: client}
}

func (u *URL) Name() string { return "url" }

func (u *URL) Load(ctx context.Context) ([]model.Project, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch %s: status %d", u.url, resp.StatusCode)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "text/html" {
		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return nil, err
		}
		return extractEmbedded(doc)
	}
	return importer.ParseJSON(resp.Body)
}

// extractEmbedded reads the first JSON array published in a
// <script type="application/json"> element of a dataset page.
func extractEmbedded(doc *goquery.Document) ([]model.Project, error) {
	var payload string
	doc.Find(`script[type="application/json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if strings.HasPrefix(text, "[") {
			payload = text
			return false
		}
		return true
	})
	if payload == "" {
		return nil, ErrNoEmbeddedData
	}
	return importer.ParseJSON(strings.NewReader(payload))
}

type Repository struct {
	repo repositories.ProjectRepository
}

func NewRepository(repo repositories.ProjectRepository) *Repository {
	return &Repository{repo: repo}
}

func (r *Repository) Name() string { return "postgres" }

func (r *Repository) Load(ctx context.Context) ([]model.Project, error) {
	items, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return normalize.NormalizeAll(items), nil
}
