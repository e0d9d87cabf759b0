package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ImportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "projectmap_imports_total",
		Help: "Uploaded files by detected format and outcome",
	}, []string{"format", "outcome"})
	DatasetProjects = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "projectmap_dataset_projects",
		Help: "Number of projects in the active dataset",
	})
	SourceLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "projectmap_source_loads_total",
		Help: "Startup source loads by source and outcome",
	}, []string{"source", "outcome"})
	ViewDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "projectmap_view_duration_ms",
		Help:    "Time to derive one dashboard view in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 20, 50, 100, 200},
	})
)

func init() {
	prometheus.MustRegister(ImportsTotal)
	prometheus.MustRegister(DatasetProjects)
	prometheus.MustRegister(SourceLoadsTotal)
	prometheus.MustRegister(ViewDurationMs)
}

func Handler() http.Handler { return promhttp.Handler() }
