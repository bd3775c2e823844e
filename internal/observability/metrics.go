package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carries the service counters on a private registry so tests can
// build as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	UploadsTotal    *prometheus.CounterVec
	UploadFailures  prometheus.Counter
	AnalyzeRequests prometheus.Counter
	AnalyzeFailures prometheus.Counter
	FramesAnalyzed  prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Successful uploads by media kind.",
		}, []string{"kind"}),
		UploadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "media_upload_failures_total",
			Help: "Uploads rejected by storage or processing errors.",
		}),
		AnalyzeRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "video_analyze_requests_total",
			Help: "Frame-sampling analysis requests received.",
		}),
		AnalyzeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "video_analyze_failures_total",
			Help: "Frame-sampling analysis requests that failed.",
		}),
		FramesAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "video_frames_analyzed_total",
			Help: "Frames submitted to the hosted detection model.",
		}),
	}

	registry.MustRegister(
		m.UploadsTotal,
		m.UploadFailures,
		m.AnalyzeRequests,
		m.AnalyzeFailures,
		m.FramesAnalyzed,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
