package sound

import (
	"context"
	"log/slog"
	"math"

	"github.com/voicescribe/voicescribe-go/internal/conf"
	"github.com/voicescribe/voicescribe-go/internal/logging"
)

const (
	// trimWindowSamples is the window used for silence trimming, 25 ms.
	trimWindowSamples = conf.SampleRate / 40

	// normalizationTarget is the normalized peak level normalization aims
	// for. Kept under the clipping threshold so normalized output is never
	// classified as clipping.
	normalizationTarget = 0.9

	// gateResidualGain is the attenuation applied below the gate's close
	// threshold. A small residual instead of full muting avoids audible
	// pumping at segment boundaries.
	gateResidualGain = 0.1

	// gateCloseDB and gateOpenDB are offsets above the estimated noise
	// floor. Window levels below close are attenuated to the residual,
	// levels above open pass unchanged, and the gain ramps linearly in
	// between.
	gateCloseDB = 6.0
	gateOpenDB  = 12.0
)

// Processor applies the preset-gated conditioning pipeline to a finished
// recording: silence trimming, adaptive noise gate, peak normalization,
// in that order. Stateless; one Processor may be shared by any number of
// goroutines.
type Processor struct {
	constraints conf.RecordingConstraints
	logger      *slog.Logger
}

// NewProcessor creates a processor using the given recording constraints
// for its silence classification.
func NewProcessor(constraints conf.RecordingConstraints) *Processor {
	logger := logging.ForService("sound")
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "processor")

	return &Processor{
		constraints: constraints.WithDefaults(),
		logger:      logger,
	}
}

// Process runs the buffer through the stages enabled by the preset and
// returns the conditioned buffer. The input is never mutated and the output
// is never longer than the input. At most one new buffer is allocated.
func (p *Processor) Process(buf SampleBuffer, preset conf.Preset) SampleBuffer {
	caps := preset.Capabilities()

	work := buf
	copied := false

	if caps.SilenceTrimming {
		trimmed := p.trimSilence(work)
		if len(trimmed) != len(work) && p.logger.Enabled(context.TODO(), slog.LevelDebug) {
			p.logger.Debug("trimmed edge silence",
				"input_samples", len(work),
				"output_samples", len(trimmed))
		}
		work = trimmed
	}

	if caps.NoiseReduction && len(work) > 0 {
		if !copied {
			work = work.Clone()
			copied = true
		}
		p.noiseGate(work)
	}

	if caps.Normalization && len(work) > 0 {
		if !copied {
			work = work.Clone()
			copied = true
		}
		p.normalize(work)
	}

	return work
}

// trimSilence removes contiguous silent windows from both ends of the
// buffer, preserving interior content including interior silence. Returns
// a subslice of the input; nothing is copied.
func (p *Processor) trimSilence(buf SampleBuffer) SampleBuffer {
	if len(buf) == 0 {
		return buf
	}

	threshold := p.constraints.SilenceThreshold

	start := 0
	for start < len(buf) {
		end := start + trimWindowSamples
		if end > len(buf) {
			end = len(buf)
		}
		if rmsOf(buf[start:end]) >= threshold {
			break
		}
		start = end
	}

	end := len(buf)
	for end > start {
		s := end - trimWindowSamples
		if s < start {
			s = start
		}
		if rmsOf(buf[s:end]) >= threshold {
			break
		}
		end = s
	}

	return buf[start:end]
}

// noiseGate attenuates windows whose level falls toward the buffer's own
// noise floor. The gain ramps from 1.0 above the open threshold down to a
// small residual below the close threshold. Mutates buf in place.
func (p *Processor) noiseGate(buf SampleBuffer) {
	floor := noiseFloorDB(buf)

	// When the overall level sits within the gate's open offset of the
	// floor there is no separable noise to gate; attenuating would just
	// dent the signal itself.
	overall := rmsOf(buf)
	overallDB := silenceDB
	if overall > 0 {
		overallDB = 20 * math.Log10(overall)
	}
	if overallDB-floor < gateOpenDB {
		return
	}

	closeDB := floor + gateCloseDB
	openDB := floor + gateOpenDB

	for start := 0; start < len(buf); start += noiseWindowSamples {
		end := start + noiseWindowSamples
		if end > len(buf) {
			end = len(buf)
		}

		rms := rmsOf(buf[start:end])
		db := silenceDB
		if rms > 0 {
			db = 20 * math.Log10(rms)
		}

		var gain float64
		switch {
		case db >= openDB:
			continue // gate fully open, nothing to do
		case db <= closeDB:
			gain = gateResidualGain
		default:
			gain = gateResidualGain + (1-gateResidualGain)*(db-closeDB)/(openDB-closeDB)
		}

		applyGain(buf[start:end], gain)
	}
}

// normalize rescales the buffer so its peak reaches the normalization
// target. No-op on silent input so a noise-only recording is never blown
// up to full scale. Mutates buf in place.
func (p *Processor) normalize(buf SampleBuffer) {
	var sumSquares float64
	var peakAbs float64
	for _, sample := range buf {
		s := math.Abs(float64(sample))
		sumSquares += s * s
		if s > peakAbs {
			peakAbs = s
		}
	}

	if peakAbs == 0 {
		return
	}
	rms := math.Sqrt(sumSquares/float64(len(buf))) / conf.FullScale
	if rms < p.constraints.SilenceThreshold {
		return
	}

	gain := normalizationTarget * conf.FullScale / peakAbs
	if gain == 1.0 {
		return
	}

	applyGain(buf, gain)
}

// applyGain multiplies every sample by gain, clamping to the 16-bit range.
func applyGain(buf SampleBuffer, gain float64) {
	for i, sample := range buf {
		amplified := float64(sample) * gain
		if amplified > math.MaxInt16 {
			amplified = math.MaxInt16
		} else if amplified < math.MinInt16 {
			amplified = math.MinInt16
		}
		buf[i] = int16(amplified)
	}
}

// rmsOf returns the normalized RMS of the given samples.
func rmsOf(buf SampleBuffer) float64 {
	if len(buf) == 0 {
		return 0
	}
	var sumSquares float64
	for _, sample := range buf {
		s := float64(sample)
		sumSquares += s * s
	}
	return math.Sqrt(sumSquares/float64(len(buf))) / conf.FullScale
}
