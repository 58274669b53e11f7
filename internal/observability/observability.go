// Package observability provides metrics and monitoring capabilities for the
// VoiceScribe audio engine.
package observability

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/voicescribe/voicescribe-go/internal/observability/metrics"
	"github.com/voicescribe/voicescribe-go/internal/sound"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	Sound    *metrics.SoundMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric
// collectors, and wires them into the sound engine.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	soundMetrics, err := metrics.NewSoundMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create sound metrics: %w", err)
	}

	m := &Metrics{
		registry: registry,
		Sound:    soundMetrics,
	}

	// Inject metrics into the sound engine
	sound.SetMetrics(soundMetrics)

	return m, nil
}

// RegisterHandlers registers the metrics endpoint with the provided http.ServeMux.
func (m *Metrics) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/metrics", m.metricsHandler)
}

// metricsHandler is the HTTP handler for the /metrics endpoint.
func (m *Metrics) metricsHandler(w http.ResponseWriter, r *http.Request) {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
	h.ServeHTTP(w, r)
}

// Serve starts an HTTP server exposing /metrics on the given address.
// Blocks until the server exits.
func (m *Metrics) Serve(addr string) error {
	mux := http.NewServeMux()
	m.RegisterHandlers(mux)
	return http.ListenAndServe(addr, mux)
}
