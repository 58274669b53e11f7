package sound

import (
	"fmt"
	"strings"
	"time"
)

// Issue identifies a quality problem observed at least once during a session.
type Issue string

const (
	IssueClipping         Issue = "clipping"
	IssueExcessiveSilence Issue = "excessive-silence"
	IssueLowLevel         Issue = "low-average-level"
	IssueLowSignalToNoise Issue = "low-signal-to-noise"
)

// Report thresholds
const (
	// excessiveSilencePct is the share of silent buffers above which the
	// session is flagged as mostly silence.
	excessiveSilencePct = 40.0

	// lowLevelRMS is the session-average RMS below which the recording is
	// considered too quiet for reliable transcription.
	lowLevelRMS = 0.02

	// lowSNRDB is the session-average SNR below which background noise is
	// flagged.
	lowSNRDB = 10.0

	// clippingPenaltyPerBuffer and clippingPenaltyMax shape how observed
	// clipping drags the overall score down.
	clippingPenaltyPerBuffer = 2.0
	clippingPenaltyMax       = 20.0
)

// QualityReport is the frozen end-of-session summary handed to the caller.
type QualityReport struct {
	SessionID       string              `json:"session_id"`
	GeneratedAt     time.Time           `json:"generated_at"`
	OverallQuality  float64             `json:"overall_quality"`
	Issues          []Issue             `json:"issues"`
	Recommendations []string            `json:"recommendations"`
	Statistics      RecordingStatistics `json:"statistics"`
}

// buildReportLocked derives the report from the session aggregates.
// Caller must hold qm.mu.
func (qm *QualityMonitor) buildReportLocked() QualityReport {
	report := QualityReport{
		SessionID:   qm.sessionID,
		GeneratedAt: time.Now(),
		Statistics:  qm.stats,
	}

	if qm.bufferCount == 0 {
		return report
	}

	count := float64(qm.bufferCount)
	avgScore := qm.scoreSum / count
	avgRMS := qm.rmsSum / count
	avgSNR := qm.snrSum / count

	penalty := clippingPenaltyPerBuffer * float64(qm.stats.ClippingOccurrences)
	if penalty > clippingPenaltyMax {
		penalty = clippingPenaltyMax
	}

	overall := avgScore - penalty
	if overall < 0 {
		overall = 0
	} else if overall > 100 {
		overall = 100
	}
	report.OverallQuality = overall

	if qm.stats.ClippingOccurrences > 0 {
		report.addIssue(IssueClipping,
			"Reduce input gain or hold the microphone further away to avoid distortion.")
	}
	if qm.stats.SilencePercentage > excessiveSilencePct {
		report.addIssue(IssueExcessiveSilence,
			"Large parts of the recording are silent; consider pausing capture between utterances.")
	}
	if avgRMS < lowLevelRMS {
		report.addIssue(IssueLowLevel,
			"The recording level is very low; speak closer to the microphone or raise input gain.")
	}
	if avgSNR < lowSNRDB {
		report.addIssue(IssueLowSignalToNoise,
			"Background noise is close to the speech level; record in a quieter environment or enable noise reduction.")
	}

	return report
}

func (r *QualityReport) addIssue(issue Issue, recommendation string) {
	r.Issues = append(r.Issues, issue)
	r.Recommendations = append(r.Recommendations, recommendation)
}

// HasIssue reports whether the given issue was observed during the session.
func (r *QualityReport) HasIssue(issue Issue) bool {
	for _, i := range r.Issues {
		if i == issue {
			return true
		}
	}
	return false
}

// String renders a human-readable multi-line summary of the report.
func (r *QualityReport) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session %s\n", r.SessionID)
	fmt.Fprintf(&b, "Overall quality: %.0f/100\n", r.OverallQuality)
	fmt.Fprintf(&b, "Duration: %s, size: %d bytes, clipping buffers: %d, silence: %.1f%%\n",
		r.Statistics.Duration.Round(time.Millisecond),
		r.Statistics.FileSize,
		r.Statistics.ClippingOccurrences,
		r.Statistics.SilencePercentage)

	if len(r.Issues) == 0 {
		b.WriteString("No quality issues detected.\n")
		return b.String()
	}

	b.WriteString("Issues:\n")
	for i, issue := range r.Issues {
		fmt.Fprintf(&b, "  - %s: %s\n", issue, r.Recommendations[i])
	}
	return b.String()
}
