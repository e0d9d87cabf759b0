package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
	"gonum.org/v1/plot/vg"

	"projectmap/internal/chart"
	"projectmap/internal/importer"
	"projectmap/internal/model"
)

const (
	uploadField = "file"

	defaultPNGWidth  = 480
	defaultPNGHeight = 240
	maxImageSide     = 2048
	qrSize           = 256
)

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Status())
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	state := model.FilterFromQuery(r.URL.Query())
	writeJSON(w, http.StatusOK, h.service.View(state))
}

func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Projects())
}

func (h *Handler) handleProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	project, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if project.PriceHistory == nil {
		writeError(w, http.StatusNotFound, "project has no price history")
		return
	}

	canvas, err := canvasFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	history := *project.PriceHistory
	layout := chart.NewLayout(history, canvas)

	query := r.URL.Query()
	var x float64
	switch {
	case query.Has("x"):
		x, err = strconv.ParseFloat(query.Get("x"), 64)
	case query.Has("fx"):
		var f float64
		f, err = strconv.ParseFloat(query.Get("fx"), 64)
		x = f * canvas.Width
	default:
		writeJSON(w, http.StatusOK, layout)
		return
	}
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		writeError(w, http.StatusBadRequest, "invalid pointer position")
		return
	}
	if hover, ok := chart.HoverAt(history, canvas, x); ok {
		layout.Hover = &hover
	}
	writeJSON(w, http.StatusOK, layout)
}

func (h *Handler) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	project, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if project.PriceHistory == nil {
		writeError(w, http.StatusNotFound, "project has no price history")
		return
	}

	width, err := intParam(r, "width", defaultPNGWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := intParam(r, "height", defaultPNGHeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := chart.RenderPNG(*project.PriceHistory, project.Name, pixels(width), pixels(height))
	if err != nil {
		log.Printf("[chart] render %s failed: %v", project.ID, err)
		writeError(w, http.StatusInternalServerError, "could not render chart")
		return
	}
	writeBytes(w, "image/png", "", data)
}

func (h *Handler) handleQR(w http.ResponseWriter, r *http.Request) {
	project, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if project.URL == model.UnknownURL {
		writeError(w, http.StatusNotFound, "project has no link")
		return
	}

	data, err := qrcode.Encode(project.URL, qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("[qr] encode %s failed: %v", project.ID, err)
		writeError(w, http.StatusInternalServerError, "could not encode link")
		return
	}
	writeBytes(w, "image/png", "", data)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("could not read file: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	summary, err := h.service.Import(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Export(model.FilterFromQuery(r.URL.Query()))
	if h.exportFailed(w, err) {
		return
	}
	writeBytes(w, "application/json", importer.ExportFilename, data)
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportXLSX(model.FilterFromQuery(r.URL.Query()))
	if h.exportFailed(w, err) {
		return
	}
	writeBytes(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", importer.ExportXLSXFilename, data)
}

// exportFailed writes the response for a failed export. An empty selection
// is not an error: it answers 204 and the browser downloads nothing.
func (h *Handler) exportFailed(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, importer.ErrNothingToExport):
		w.WriteHeader(http.StatusNoContent)
	default:
		log.Printf("[export] failed: %v", err)
		writeError(w, http.StatusInternalServerError, "export failed")
	}
	return true
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	go h.service.Run(context.Background())
	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Reload started"})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (model.Project, bool) {
	project, ok := h.service.Project(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
	}
	return project, ok
}

func canvasFromQuery(r *http.Request) (chart.Canvas, error) {
	canvas := chart.DefaultCanvas()
	query := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"width", &canvas.Width},
		{"height", &canvas.Height},
		{"padding", &canvas.Padding},
	} {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return canvas, fmt.Errorf("invalid %s", p.name)
		}
		*p.dst = v
	}
	if canvas.Width <= 2*canvas.Padding || canvas.Height <= 2*canvas.Padding {
		return canvas, errors.New("padding leaves no room to draw")
	}
	return canvas, nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > maxImageSide {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}

// pixels converts a pixel count to a plot length at the renderer's 96 DPI.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / 96
}
