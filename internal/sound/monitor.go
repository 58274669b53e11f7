package sound

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voicescribe/voicescribe-go/internal/conf"
	"github.com/voicescribe/voicescribe-go/internal/logging"
	"github.com/voicescribe/voicescribe-go/internal/observability/metrics"
)

// Package-level metrics, injected via SetMetrics to avoid a dependency on
// the observability wiring.
var (
	metricsMutex sync.RWMutex
	soundMetrics *metrics.SoundMetrics
)

// SetMetrics wires prometheus metrics into the sound engine. Safe to call
// at any time; a nil receiver disables metric recording.
func SetMetrics(m *metrics.SoundMetrics) {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	soundMetrics = m
}

func getMetrics() *metrics.SoundMetrics {
	metricsMutex.RLock()
	defer metricsMutex.RUnlock()
	return soundMetrics
}

// RecordingStatistics is the running aggregate of one monitoring session.
// Snapshots returned by GetRecordingStatistics are plain copies and remain
// valid after the session ends.
type RecordingStatistics struct {
	Duration            time.Duration `json:"duration"`
	FileSize            int64         `json:"file_size_bytes"`
	ClippingOccurrences int64         `json:"clipping_occurrences"`
	SilencePercentage   float64       `json:"silence_percentage"`
}

// QualityMonitor owns one recording session's quality state. A monitor is a
// two-state machine: idle until StartMonitoring, monitoring until the report
// is retrieved. StartMonitoring and ProcessAudioBuffer are serialized by the
// capture caller; statistics and stop checks may be polled concurrently from
// other goroutines.
type QualityMonitor struct {
	mu          sync.RWMutex
	constraints conf.RecordingConstraints
	source      string
	logger      *slog.Logger

	monitoring   bool
	sessionID    string
	sessionStart time.Time
	stats        RecordingStatistics

	// Session aggregates for the final report
	bufferCount   int64
	silentBuffers int64
	scoreSum      float64
	rmsSum        float64
	snrSum        float64
	capReached    bool
}

// NewQualityMonitor creates a monitor in the idle state. The source string
// labels logs and metrics, e.g. the capture device name.
func NewQualityMonitor(constraints conf.RecordingConstraints, source string) *QualityMonitor {
	logger := logging.ForService("sound")
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		"component", "quality_monitor",
		"source", source)

	return &QualityMonitor{
		constraints: constraints.WithDefaults(),
		source:      source,
		logger:      logger,
	}
}

// StartMonitoring begins a new session, discarding any unretrieved history.
// Calling it while monitoring resets all aggregates.
func (qm *QualityMonitor) StartMonitoring() {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	qm.monitoring = true
	qm.sessionID = uuid.New().String()
	qm.sessionStart = time.Now()
	qm.stats = RecordingStatistics{}
	qm.bufferCount = 0
	qm.silentBuffers = 0
	qm.scoreSum = 0
	qm.rmsSum = 0
	qm.snrSum = 0
	qm.capReached = false

	qm.logger.Info("monitoring session started",
		"session_id", qm.sessionID)

	if m := getMetrics(); m != nil {
		m.RecordSessionEvent("started")
	}
}

// SessionID returns the identifier of the current (or last) session, empty
// before the first StartMonitoring.
func (qm *QualityMonitor) SessionID() string {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	return qm.sessionID
}

// ProcessAudioBuffer analyzes one capture window, folds the result into the
// session aggregates and returns the per-buffer metrics for live display.
// Runs in O(len(buf)); an empty buffer is a valid no-op contribution.
func (qm *QualityMonitor) ProcessAudioBuffer(buf SampleBuffer) Metrics {
	start := time.Now()

	// Pure analysis happens outside the lock
	m := CalculateWith(buf, qm.constraints)

	qm.mu.Lock()

	if !qm.monitoring {
		// Contract violation by the caller, tolerated: analysis still runs
		// but nothing is accumulated.
		qm.mu.Unlock()
		return m
	}

	qm.stats.Duration = time.Since(qm.sessionStart)

	if len(buf) > 0 {
		qm.stats.FileSize += buf.ByteLength()
		qm.bufferCount++
		if m.Clipping {
			qm.stats.ClippingOccurrences++
		}
		if m.Silent {
			qm.silentBuffers++
		}
		qm.stats.SilencePercentage = float64(qm.silentBuffers) / float64(qm.bufferCount) * 100

		qm.scoreSum += m.QualityScore
		qm.rmsSum += m.RMSLevel
		qm.snrSum += m.SignalToNoise
	}

	capCrossed := !qm.capReached && qm.stats.FileSize >= qm.constraints.MaxFileSize
	if capCrossed {
		qm.capReached = true
	}

	fileSize := qm.stats.FileSize
	duration := qm.stats.Duration
	qm.mu.Unlock()

	if capCrossed {
		qm.logger.Warn("recording size cap reached",
			"file_size", fileSize,
			"max_file_size", qm.constraints.MaxFileSize)
	}

	if mm := getMetrics(); mm != nil {
		mm.RecordBufferProcessed(qm.source, m.Clipping, m.Silent, m.QualityScore)
		mm.RecordProcessingDuration("analyze", time.Since(start).Seconds())
		mm.UpdateSessionFileSize(qm.source, fileSize)
		mm.UpdateSessionDuration(qm.source, duration.Seconds())
		if capCrossed {
			mm.RecordSessionEvent("size_capped")
		}
	}

	return m
}

// ShouldStopRecording reports whether the session has reached its size
// bound. Monotone once true for the current session; safe to call before
// StartMonitoring, where it returns false.
func (qm *QualityMonitor) ShouldStopRecording() bool {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	return qm.stats.FileSize >= qm.constraints.MaxFileSize
}

// GetRecordingStatistics returns a snapshot copy of the session statistics.
// Callable at any time. While monitoring, the duration reflects elapsed
// wall-clock time, not just the last buffer update.
func (qm *QualityMonitor) GetRecordingStatistics() RecordingStatistics {
	qm.mu.RLock()
	defer qm.mu.RUnlock()

	stats := qm.stats
	if qm.monitoring && !qm.sessionStart.IsZero() {
		stats.Duration = time.Since(qm.sessionStart)
	}
	return stats
}

// GetQualityReport freezes the session into a report and returns the
// monitor to the idle state. The report is derived from the full aggregate
// history of the session, not just the last buffer.
func (qm *QualityMonitor) GetQualityReport() QualityReport {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.monitoring {
		qm.stats.Duration = time.Since(qm.sessionStart)
		qm.monitoring = false
	}

	report := qm.buildReportLocked()

	qm.logger.Info("quality report generated",
		"session_id", qm.sessionID,
		"overall_quality", report.OverallQuality,
		"issues", len(report.Issues))

	if m := getMetrics(); m != nil {
		m.RecordSessionEvent("reported")
	}

	return report
}
