package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConstraints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		constraints RecordingConstraints
		wantErr     bool
	}{
		{"defaults", DefaultConstraints(), false},
		{"custom valid", RecordingConstraints{MaxFileSize: 1024, ClippingThreshold: 0.9, SilenceThreshold: 0.05}, false},
		{"clipping threshold at one", RecordingConstraints{MaxFileSize: 1024, ClippingThreshold: 1.0, SilenceThreshold: 0.01}, false},
		{"zero max file size", RecordingConstraints{MaxFileSize: 0, ClippingThreshold: 0.95, SilenceThreshold: 0.01}, true},
		{"negative max file size", RecordingConstraints{MaxFileSize: -1, ClippingThreshold: 0.95, SilenceThreshold: 0.01}, true},
		{"zero clipping threshold", RecordingConstraints{MaxFileSize: 1024, ClippingThreshold: 0, SilenceThreshold: 0.01}, true},
		{"clipping threshold above one", RecordingConstraints{MaxFileSize: 1024, ClippingThreshold: 1.5, SilenceThreshold: 0.01}, true},
		{"negative silence threshold", RecordingConstraints{MaxFileSize: 1024, ClippingThreshold: 0.95, SilenceThreshold: -0.1}, true},
		{"silence threshold at one", RecordingConstraints{MaxFileSize: 1024, ClippingThreshold: 1.0, SilenceThreshold: 1.0}, true},
		{"silence above clipping", RecordingConstraints{MaxFileSize: 1024, ClippingThreshold: 0.5, SilenceThreshold: 0.6}, true},
		{"silence equals clipping", RecordingConstraints{MaxFileSize: 1024, ClippingThreshold: 0.5, SilenceThreshold: 0.5}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateConstraints(&tt.constraints)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	valid := func() *Settings {
		return &Settings{
			Recording: DefaultConstraints(),
			Preset:    "medium",
		}
	}

	t.Run("valid settings", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateSettings(valid()))
	})

	t.Run("bad preset", func(t *testing.T) {
		t.Parallel()

		s := valid()
		s.Preset = "extreme"
		assert.Error(t, ValidateSettings(s))
	})

	t.Run("bad constraints", func(t *testing.T) {
		t.Parallel()

		s := valid()
		s.Recording.MaxFileSize = 0
		assert.Error(t, ValidateSettings(s))
	})

	t.Run("metrics enabled without listen address", func(t *testing.T) {
		t.Parallel()

		s := valid()
		s.Realtime.Metrics.Enabled = true
		s.Realtime.Metrics.Listen = ""
		assert.Error(t, ValidateSettings(s))
	})

	t.Run("metrics enabled with listen address", func(t *testing.T) {
		t.Parallel()

		s := valid()
		s.Realtime.Metrics.Enabled = true
		s.Realtime.Metrics.Listen = ":8090"
		assert.NoError(t, ValidateSettings(s))
	})
}

func TestConstraintsWithDefaults(t *testing.T) {
	t.Parallel()

	t.Run("zero value gets defaults", func(t *testing.T) {
		t.Parallel()

		c := RecordingConstraints{}.WithDefaults()
		assert.Equal(t, DefaultConstraints(), c)
		require.NoError(t, ValidateConstraints(&c))
	})

	t.Run("set fields are preserved", func(t *testing.T) {
		t.Parallel()

		c := RecordingConstraints{MaxFileSize: 2048, ClippingThreshold: 0.8}.WithDefaults()
		assert.Equal(t, int64(2048), c.MaxFileSize)
		assert.InDelta(t, 0.8, c.ClippingThreshold, 0.001)
		assert.InDelta(t, DefaultSilenceThreshold, c.SilenceThreshold, 0.001)
	})
}

func TestSettingsQualityPreset(t *testing.T) {
	t.Parallel()

	s := &Settings{Preset: "High"}
	p, err := s.QualityPreset()
	require.NoError(t, err)
	assert.Equal(t, PresetHigh, p)

	s.Preset = "nope"
	_, err = s.QualityPreset()
	assert.Error(t, err)
}
