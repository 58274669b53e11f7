package sound

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicescribe/voicescribe-go/internal/conf"
)

func testConstraints() conf.RecordingConstraints {
	return conf.RecordingConstraints{
		MaxFileSize:       32000, // ten 100 ms buffers of raw PCM
		ClippingThreshold: conf.DefaultClippingThreshold,
		SilenceThreshold:  conf.DefaultSilenceThreshold,
	}
}

func TestQualityMonitorBeforeStart(t *testing.T) {
	t.Parallel()

	qm := NewQualityMonitor(testConstraints(), "test")

	assert.False(t, qm.ShouldStopRecording())
	assert.Empty(t, qm.SessionID())
	assert.Equal(t, RecordingStatistics{}, qm.GetRecordingStatistics())

	// Buffers before StartMonitoring are analyzed but not accumulated.
	m := qm.ProcessAudioBuffer(makeSine(1600, 8000))
	assert.False(t, m.Silent)
	assert.Zero(t, qm.GetRecordingStatistics().FileSize)
}

func TestQualityMonitorStopThreshold(t *testing.T) {
	t.Parallel()

	qm := NewQualityMonitor(testConstraints(), "test")
	qm.StartMonitoring()

	buf := makeSine(1600, 8000) // 3200 bytes per buffer

	for i := 0; i < 9; i++ {
		qm.ProcessAudioBuffer(buf)
		assert.False(t, qm.ShouldStopRecording(),
			"must not stop at %d bytes, cap is %d", qm.GetRecordingStatistics().FileSize, testConstraints().MaxFileSize)
	}

	qm.ProcessAudioBuffer(buf) // crosses 32000 bytes exactly
	assert.True(t, qm.ShouldStopRecording())

	// Monotone: further buffers keep the decision.
	qm.ProcessAudioBuffer(buf)
	assert.True(t, qm.ShouldStopRecording())
}

func TestQualityMonitorStatisticsConservation(t *testing.T) {
	t.Parallel()

	qm := NewQualityMonitor(testConstraints(), "test")
	qm.StartMonitoring()

	clipped := makeSine(1600, math.MaxInt16)
	silent := makeSilence(1600)
	speech := makeSine(1600, 8000)

	session := []SampleBuffer{speech, silent, clipped, speech, silent, clipped, clipped}

	var wantBytes int64
	var wantClipping, wantSilent int64
	for _, buf := range session {
		m := qm.ProcessAudioBuffer(buf)
		wantBytes += buf.ByteLength()
		if m.Clipping {
			wantClipping++
		}
		if m.Silent {
			wantSilent++
		}
	}

	stats := qm.GetRecordingStatistics()
	assert.Equal(t, wantBytes, stats.FileSize)
	assert.Equal(t, wantClipping, stats.ClippingOccurrences)
	assert.Equal(t, int64(3), wantClipping)
	assert.InDelta(t, float64(wantSilent)/float64(len(session))*100, stats.SilencePercentage, 0.001)
	assert.GreaterOrEqual(t, stats.Duration.Nanoseconds(), int64(0))
}

func TestQualityMonitorEmptyBufferContribution(t *testing.T) {
	t.Parallel()

	qm := NewQualityMonitor(testConstraints(), "test")
	qm.StartMonitoring()

	qm.ProcessAudioBuffer(makeSine(1600, 8000))
	before := qm.GetRecordingStatistics()

	m := qm.ProcessAudioBuffer(nil)
	assert.True(t, m.Silent)

	after := qm.GetRecordingStatistics()
	assert.Equal(t, before.FileSize, after.FileSize)
	assert.Equal(t, before.SilencePercentage, after.SilencePercentage,
		"an empty buffer must not count toward the silence ratio")
}

func TestQualityMonitorRestartResets(t *testing.T) {
	t.Parallel()

	qm := NewQualityMonitor(testConstraints(), "test")

	qm.StartMonitoring()
	first := qm.SessionID()
	require.NotEmpty(t, first)

	for i := 0; i < 12; i++ {
		qm.ProcessAudioBuffer(makeSine(1600, 8000))
	}
	require.True(t, qm.ShouldStopRecording())

	qm.StartMonitoring()

	assert.NotEqual(t, first, qm.SessionID())
	assert.False(t, qm.ShouldStopRecording())
	assert.Zero(t, qm.GetRecordingStatistics().FileSize)
	assert.Zero(t, qm.GetRecordingStatistics().ClippingOccurrences)
}

func TestQualityMonitorReportCompleteness(t *testing.T) {
	t.Parallel()

	qm := NewQualityMonitor(testConstraints(), "test")
	qm.StartMonitoring()

	// Half the session silent and one clipped burst: both issues must show.
	qm.ProcessAudioBuffer(makeSine(1600, math.MaxInt16))
	qm.ProcessAudioBuffer(makeSilence(1600))
	qm.ProcessAudioBuffer(makeSilence(1600))
	qm.ProcessAudioBuffer(makeSine(1600, 8000))

	report := qm.GetQualityReport()

	assert.Equal(t, qm.SessionID(), report.SessionID)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.GreaterOrEqual(t, report.OverallQuality, 0.0)
	assert.LessOrEqual(t, report.OverallQuality, 100.0)

	assert.True(t, report.HasIssue(IssueClipping))
	assert.True(t, report.HasIssue(IssueExcessiveSilence))
	assert.Len(t, report.Recommendations, len(report.Issues),
		"every issue carries a recommendation")

	assert.Equal(t, int64(4*3200), report.Statistics.FileSize)
	assert.Equal(t, int64(1), report.Statistics.ClippingOccurrences)
	assert.InDelta(t, 50.0, report.Statistics.SilencePercentage, 0.001)
}

func TestQualityMonitorCleanSessionReport(t *testing.T) {
	t.Parallel()

	qm := NewQualityMonitor(testConstraints(), "test")
	qm.StartMonitoring()

	// Healthy speech with quiet gaps, no clipping, little silence.
	for i := 0; i < 5; i++ {
		qm.ProcessAudioBuffer(concat(makeSine(800, 200), makeSine(800, 8000)))
	}

	report := qm.GetQualityReport()

	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Recommendations)
	assert.Greater(t, report.OverallQuality, 80.0)
	assert.Contains(t, report.String(), "No quality issues detected")
}

func TestQualityMonitorEmptySessionReport(t *testing.T) {
	t.Parallel()

	qm := NewQualityMonitor(testConstraints(), "test")
	qm.StartMonitoring()

	report := qm.GetQualityReport()

	assert.Equal(t, qm.SessionID(), report.SessionID)
	assert.Zero(t, report.OverallQuality)
	assert.Empty(t, report.Issues)
}

func TestQualityMonitorReportEndsSession(t *testing.T) {
	t.Parallel()

	qm := NewQualityMonitor(testConstraints(), "test")
	qm.StartMonitoring()
	qm.ProcessAudioBuffer(makeSine(1600, 8000))

	_ = qm.GetQualityReport()

	// The monitor is idle again: buffers no longer accumulate.
	before := qm.GetRecordingStatistics().FileSize
	qm.ProcessAudioBuffer(makeSine(1600, 8000))
	assert.Equal(t, before, qm.GetRecordingStatistics().FileSize)
}

func TestQualityMonitorConcurrentAccess(t *testing.T) {
	t.Parallel()

	qm := NewQualityMonitor(testConstraints(), "test")
	qm.StartMonitoring()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			qm.ProcessAudioBuffer(makeSine(160, 8000))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = qm.ShouldStopRecording()
			_ = qm.GetRecordingStatistics()
		}
	}()

	wg.Wait()

	assert.Equal(t, int64(100*320), qm.GetRecordingStatistics().FileSize)
}
