package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SoundMetrics contains Prometheus metrics for audio analysis and processing
type SoundMetrics struct {
	registry *prometheus.Registry

	// Per-buffer analysis metrics
	buffersProcessedTotal   *prometheus.CounterVec
	clippingDetectionsTotal *prometheus.CounterVec
	silenceDetectionsTotal  *prometheus.CounterVec
	bufferQualityScore      *prometheus.HistogramVec

	// Processing pipeline metrics
	processingDuration *prometheus.HistogramVec

	// Session metrics
	sessionsTotal        *prometheus.CounterVec
	sessionFileSizeBytes *prometheus.GaugeVec
	sessionDuration      *prometheus.GaugeVec
}

// NewSoundMetrics creates and registers new sound metrics
func NewSoundMetrics(registry *prometheus.Registry) (*SoundMetrics, error) {
	m := &SoundMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *SoundMetrics) initMetrics() error {
	m.buffersProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sound_buffers_processed_total",
			Help: "Total number of audio buffers analyzed",
		},
		[]string{"source"},
	)

	m.clippingDetectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sound_clipping_detections_total",
			Help: "Total number of buffers classified as clipping",
		},
		[]string{"source"},
	)

	m.silenceDetectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sound_silence_detections_total",
			Help: "Total number of buffers classified as silent",
		},
		[]string{"source"},
	)

	m.bufferQualityScore = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sound_buffer_quality_score",
			Help:    "Distribution of per-buffer composite quality scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11), // 0 to 100
		},
		[]string{"source"},
	)

	m.processingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sound_processing_duration_seconds",
			Help:    "Time taken by analysis and conditioning stages",
			Buckets: prometheus.ExponentialBuckets(BucketStart100us, BucketFactor2, BucketCount12),
		},
		[]string{"stage"}, // stage: analyze, condition
	)

	m.sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sound_sessions_total",
			Help: "Total number of monitoring sessions",
		},
		[]string{"status"}, // status: started, size_capped, reported
	)

	m.sessionFileSizeBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sound_session_file_size_bytes",
			Help: "Accumulated raw PCM bytes of the active session",
		},
		[]string{"source"},
	)

	m.sessionDuration = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sound_session_duration_seconds",
			Help: "Elapsed duration of the active session",
		},
		[]string{"source"},
	)

	return nil
}

// Describe implements the prometheus.Collector interface
func (m *SoundMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.buffersProcessedTotal.Describe(ch)
	m.clippingDetectionsTotal.Describe(ch)
	m.silenceDetectionsTotal.Describe(ch)
	m.bufferQualityScore.Describe(ch)
	m.processingDuration.Describe(ch)
	m.sessionsTotal.Describe(ch)
	m.sessionFileSizeBytes.Describe(ch)
	m.sessionDuration.Describe(ch)
}

// Collect implements the prometheus.Collector interface
func (m *SoundMetrics) Collect(ch chan<- prometheus.Metric) {
	m.buffersProcessedTotal.Collect(ch)
	m.clippingDetectionsTotal.Collect(ch)
	m.silenceDetectionsTotal.Collect(ch)
	m.bufferQualityScore.Collect(ch)
	m.processingDuration.Collect(ch)
	m.sessionsTotal.Collect(ch)
	m.sessionFileSizeBytes.Collect(ch)
	m.sessionDuration.Collect(ch)
}

// RecordBufferProcessed records one analyzed buffer with its classification
func (m *SoundMetrics) RecordBufferProcessed(source string, clipping, silent bool, qualityScore float64) {
	m.buffersProcessedTotal.WithLabelValues(source).Inc()
	if clipping {
		m.clippingDetectionsTotal.WithLabelValues(source).Inc()
	}
	if silent {
		m.silenceDetectionsTotal.WithLabelValues(source).Inc()
	}
	m.bufferQualityScore.WithLabelValues(source).Observe(qualityScore)
}

// RecordProcessingDuration records the duration of a pipeline stage in seconds
func (m *SoundMetrics) RecordProcessingDuration(stage string, seconds float64) {
	m.processingDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordSessionEvent records a session lifecycle event
func (m *SoundMetrics) RecordSessionEvent(status string) {
	m.sessionsTotal.WithLabelValues(status).Inc()
}

// UpdateSessionFileSize sets the accumulated byte count of the active session
func (m *SoundMetrics) UpdateSessionFileSize(source string, bytes int64) {
	m.sessionFileSizeBytes.WithLabelValues(source).Set(float64(bytes))
}

// UpdateSessionDuration sets the elapsed duration of the active session
func (m *SoundMetrics) UpdateSessionDuration(source string, seconds float64) {
	m.sessionDuration.WithLabelValues(source).Set(seconds)
}
