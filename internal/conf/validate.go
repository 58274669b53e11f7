package conf

import (
	"github.com/voicescribe/voicescribe-go/internal/errors"
)

// ValidateSettings rejects invalid configuration at load time so the audio
// engine never has to revalidate at call time.
func ValidateSettings(settings *Settings) error {
	if err := ValidateConstraints(&settings.Recording); err != nil {
		return err
	}

	if _, err := ParsePreset(settings.Preset); err != nil {
		return err
	}

	if settings.Realtime.Metrics.Enabled && settings.Realtime.Metrics.Listen == "" {
		return errors.Newf("metrics endpoint enabled but no listen address configured").
			Component("configuration").
			Category(errors.CategoryValidation).
			Build()
	}

	return nil
}

// ValidateConstraints checks recording constraints for contradictory or
// out-of-range values.
func ValidateConstraints(c *RecordingConstraints) error {
	if c.MaxFileSize <= 0 {
		return errors.Newf("recording max file size must be positive, got %d", c.MaxFileSize).
			Component("configuration").
			Category(errors.CategoryValidation).
			Context("max_file_size", c.MaxFileSize).
			Build()
	}

	if c.ClippingThreshold <= 0 || c.ClippingThreshold > 1 {
		return errors.Newf("clipping threshold must be in (0, 1], got %g", c.ClippingThreshold).
			Component("configuration").
			Category(errors.CategoryValidation).
			Context("clipping_threshold", c.ClippingThreshold).
			Build()
	}

	if c.SilenceThreshold < 0 || c.SilenceThreshold >= 1 {
		return errors.Newf("silence threshold must be in [0, 1), got %g", c.SilenceThreshold).
			Component("configuration").
			Category(errors.CategoryValidation).
			Context("silence_threshold", c.SilenceThreshold).
			Build()
	}

	// A silence threshold at or above the clipping threshold would classify
	// every non-clipping buffer as silent.
	if c.SilenceThreshold >= c.ClippingThreshold {
		return errors.Newf("silence threshold %g must be below clipping threshold %g",
			c.SilenceThreshold, c.ClippingThreshold).
			Component("configuration").
			Category(errors.CategoryValidation).
			Build()
	}

	return nil
}
