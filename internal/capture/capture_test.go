package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicescribe/voicescribe-go/internal/conf"
)

func TestHexToASCII(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain device id", "73797364656661756c74", "sysdefault", false},
		{"trailing nulls stripped", "6877000000", "hw", false},
		{"empty", "", "", false},
		{"not hex", "zz", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := hexToASCII(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSourceDefaults(t *testing.T) {
	t.Parallel()

	s := NewSource(Config{Device: "sysdefault"})

	assert.Equal(t, conf.SampleRate, s.cfg.SampleRate)
	assert.Equal(t, conf.NumChannels, s.cfg.Channels)
	assert.Equal(t, conf.BufferSamples, s.cfg.BufferSamples)
	assert.Zero(t, s.Dropped())
	assert.NotNil(t, s.Buffers())
}

func TestSourceStopBeforeStart(t *testing.T) {
	t.Parallel()

	s := NewSource(Config{})
	s.Stop() // must be a no-op, not a panic
	s.Stop()
}
