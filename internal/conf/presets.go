package conf

import (
	"strings"

	"github.com/voicescribe/voicescribe-go/internal/errors"
)

// Preset is a named bundle of processing-stage toggles applied uniformly to a
// recording session. It is chosen once before the session starts and is
// immutable thereafter.
type Preset string

const (
	PresetLow    Preset = "low"
	PresetMedium Preset = "medium"
	PresetHigh   Preset = "high"
)

// PresetCapabilities describes which processing stages a preset enables.
// A flat struct keyed by preset keeps the processing pipeline a simple
// ordered conditional.
type PresetCapabilities struct {
	NoiseReduction  bool `json:"noise_reduction"`
	Normalization   bool `json:"normalization"`
	SilenceTrimming bool `json:"silence_trimming"`
}

// presetCapabilities maps each preset to its enabled stages. The medium
// preset omits the noise gate, the stage most likely to introduce audible
// artifacts on marginal recordings.
var presetCapabilities = map[Preset]PresetCapabilities{
	PresetLow:    {},
	PresetMedium: {Normalization: true, SilenceTrimming: true},
	PresetHigh:   {NoiseReduction: true, Normalization: true, SilenceTrimming: true},
}

// Capabilities returns the processing stages enabled by this preset.
// Unknown presets enable nothing.
func (p Preset) Capabilities() PresetCapabilities {
	return presetCapabilities[p]
}

// Valid reports whether the preset is one of the known variants.
func (p Preset) Valid() bool {
	_, ok := presetCapabilities[p]
	return ok
}

// String returns the preset name.
func (p Preset) String() string {
	return string(p)
}

// ParsePreset converts a user supplied preset name into a Preset.
func ParsePreset(name string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(name)))
	if !p.Valid() {
		return "", errors.Newf("unknown quality preset: %q", name).
			Component("configuration").
			Category(errors.CategoryValidation).
			Context("preset", name).
			Build()
	}
	return p, nil
}
