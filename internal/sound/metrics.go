package sound

import (
	"math"
	"sort"

	"github.com/voicescribe/voicescribe-go/internal/conf"
)

// silenceDB is the decibel level reported for true silence, where the
// logarithm is undefined.
const silenceDB = -100.0

// noiseWindowSamples is the sliding window used for the noise floor
// estimate, 10 ms at the configured sample rate.
const noiseWindowSamples = conf.SampleRate / 100

// Metrics is an immutable per-buffer snapshot of signal quality.
type Metrics struct {
	RMSLevel      float64 `json:"rms_level"`          // RMS amplitude normalized by full scale, 0..1
	PeakLevel     float64 `json:"peak_level"`         // Max absolute sample normalized by full scale, 0..1
	DBLevel       float64 `json:"db_level"`           // dBFS of RMSLevel, -100 for true silence
	Clipping      bool    `json:"clipping"`           // true if PeakLevel reaches the clipping threshold
	Silent        bool    `json:"silent"`             // true if RMSLevel is below the silence threshold
	SignalToNoise float64 `json:"signal_to_noise_db"` // DBLevel minus NoiseFloor
	NoiseFloor    float64 `json:"noise_floor_db"`     // Estimated low-energy baseline in dBFS
	QualityScore  float64 `json:"quality_score"`      // Composite score, 0..100
}

// Calculate computes quality metrics for one buffer using the built-in
// recording constraints. Pure and total: an empty buffer yields silent
// zero-level metrics.
func Calculate(buf SampleBuffer) Metrics {
	return CalculateWith(buf, conf.DefaultConstraints())
}

// CalculateWith computes quality metrics for one buffer using the given
// constraints for the clipping and silence classification thresholds.
func CalculateWith(buf SampleBuffer, c conf.RecordingConstraints) Metrics {
	if len(buf) == 0 {
		return Metrics{
			DBLevel:      silenceDB,
			NoiseFloor:   silenceDB,
			Silent:       true,
			QualityScore: qualityScore(0, 0, false),
		}
	}

	// Single pass over the samples
	var sumSquares float64
	var peakAbs float64
	for _, sample := range buf {
		s := math.Abs(float64(sample))
		sumSquares += s * s
		if s > peakAbs {
			peakAbs = s
		}
	}

	rms := math.Sqrt(sumSquares/float64(len(buf))) / conf.FullScale
	peak := peakAbs / conf.FullScale

	db := silenceDB
	if rms > 0 {
		db = 20 * math.Log10(rms)
	}

	floor := noiseFloorDB(buf)
	// The floor estimate can never exceed the buffer's own level
	if floor > db {
		floor = db
	}

	snr := db - floor

	clipping := peak >= c.ClippingThreshold
	silent := rms < c.SilenceThreshold

	return Metrics{
		RMSLevel:      rms,
		PeakLevel:     peak,
		DBLevel:       db,
		Clipping:      clipping,
		Silent:        silent,
		SignalToNoise: snr,
		NoiseFloor:    floor,
		QualityScore:  qualityScore(rms, snr, clipping),
	}
}

// LevelPercent scales the buffer level into 0..100 for simple live meters.
// The range is tuned for speech: -60 dBFS maps to 0 and -10 dBFS to 100.
// Clipping buffers always report at least 95.
func (m Metrics) LevelPercent() int {
	scaled := (m.DBLevel + 60) * (100.0 / 50.0)
	if m.Clipping {
		scaled = math.Max(scaled, 95)
	}
	if scaled < 0 {
		scaled = 0
	} else if scaled > 100 {
		scaled = 100
	}
	return int(scaled)
}

// noiseFloorDB estimates the low-energy baseline of the buffer in dBFS.
// It slices the buffer into 10 ms windows, computes the RMS of each and
// averages the quietest 10% of windows. Buffers shorter than one window
// are treated as a single window, making the floor equal the overall level.
func noiseFloorDB(buf SampleBuffer) float64 {
	if len(buf) == 0 {
		return silenceDB
	}

	windows := windowRMS(buf, noiseWindowSamples)
	sort.Float64s(windows)

	count := len(windows) / 10
	if count < 1 {
		count = 1
	}

	var sum float64
	for _, w := range windows[:count] {
		sum += w
	}
	floor := sum / float64(count)

	if floor <= 0 {
		return silenceDB
	}
	db := 20 * math.Log10(floor)
	if db < silenceDB {
		db = silenceDB
	}
	return db
}

// windowRMS returns the normalized RMS of each fixed-size window of the
// buffer. The final window may be shorter than windowSize.
func windowRMS(buf SampleBuffer, windowSize int) []float64 {
	if windowSize <= 0 || windowSize > len(buf) {
		windowSize = len(buf)
	}

	out := make([]float64, 0, (len(buf)+windowSize-1)/windowSize)
	for start := 0; start < len(buf); start += windowSize {
		end := start + windowSize
		if end > len(buf) {
			end = len(buf)
		}

		var sumSquares float64
		for _, sample := range buf[start:end] {
			s := float64(sample)
			sumSquares += s * s
		}
		out = append(out, math.Sqrt(sumSquares/float64(end-start))/conf.FullScale)
	}
	return out
}

// qualityScore combines level, signal-to-noise ratio and clipping into a
// 0..100 composite. The weighting starts from a neutral 50, credits up to
// 25 points for SNR (linear to 40 dB) and up to 25 for a healthy RMS band,
// and halves-then-penalizes clipped buffers so any clipping buffer scores
// below 50. Pure silence stays at the neutral base.
func qualityScore(rms, snr float64, clipping bool) float64 {
	score := 50.0

	s := math.Min(math.Max(snr, 0), 40)
	score += s / 40 * 25

	// Level credit peaks inside the 0.05..0.7 RMS band and tapers outside it
	switch {
	case rms >= 0.05 && rms <= 0.7:
		score += 25
	case rms > 0 && rms < 0.05:
		score += rms / 0.05 * 25
	case rms > 0.7:
		taper := 25 - (rms-0.7)/0.3*25
		if taper > 0 {
			score += taper
		}
	}

	if clipping {
		score = score*0.5 - 10
	}

	return math.Min(math.Max(score, 0), 100)
}
