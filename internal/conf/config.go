// Package conf handles loading and validation of application settings.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"github.com/voicescribe/voicescribe-go/internal/errors"
)

// RecordingConstraints holds the process-wide recording session bounds.
// Immutable for the lifetime of a session.
type RecordingConstraints struct {
	MaxFileSize       int64   `mapstructure:"maxfilesize"`       // Session size cap in bytes of raw PCM
	ClippingThreshold float64 `mapstructure:"clippingthreshold"` // Normalized peak level treated as clipping
	SilenceThreshold  float64 `mapstructure:"silencethreshold"`  // Normalized RMS level treated as silence
}

// DefaultConstraints returns the built-in recording constraints.
func DefaultConstraints() RecordingConstraints {
	return RecordingConstraints{
		MaxFileSize:       DefaultMaxFileSize,
		ClippingThreshold: DefaultClippingThreshold,
		SilenceThreshold:  DefaultSilenceThreshold,
	}
}

// WithDefaults fills unset fields with the built-in values so zero-value
// constraints behave sanely.
func (c RecordingConstraints) WithDefaults() RecordingConstraints {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.ClippingThreshold <= 0 {
		c.ClippingThreshold = DefaultClippingThreshold
	}
	if c.SilenceThreshold <= 0 {
		c.SilenceThreshold = DefaultSilenceThreshold
	}
	return c
}

// LogConfig defines logging configuration
type LogConfig struct {
	Enabled bool   `mapstructure:"enabled"` // true to enable file logging
	Path    string `mapstructure:"path"`    // path to log file
}

// MainSettings contains main application settings
type MainSettings struct {
	Name string    `mapstructure:"name"` // name of this node, used in log records
	Log  LogConfig `mapstructure:"log"`  // file logging settings
}

// AudioSettings contains audio capture and export settings
type AudioSettings struct {
	Source string `mapstructure:"source"` // audio capture device name or "sysdefault"
	Export struct {
		Enabled bool   `mapstructure:"enabled"` // true to export processed audio
		Path    string `mapstructure:"path"`    // directory for exported clips
	} `mapstructure:"export"`
}

// MetricsSettings contains the optional prometheus endpoint settings
type MetricsSettings struct {
	Enabled bool   `mapstructure:"enabled"` // true to expose prometheus metrics
	Listen  string `mapstructure:"listen"`  // listen address, e.g. ":8090"
}

// RealtimeSettings contains settings for realtime monitoring
type RealtimeSettings struct {
	Audio   AudioSettings   `mapstructure:"audio"`   // Audio capture settings
	Metrics MetricsSettings `mapstructure:"metrics"` // Prometheus metrics settings
}

// Settings is the root configuration structure
type Settings struct {
	Debug bool `mapstructure:"debug"` // true to enable debug logging

	Main      MainSettings         `mapstructure:"main"`
	Recording RecordingConstraints `mapstructure:"recording"`
	Preset    string               `mapstructure:"preset"` // quality preset: low, medium, high
	Realtime  RealtimeSettings     `mapstructure:"realtime"`
}

// QualityPreset returns the parsed quality preset from settings.
func (s *Settings) QualityPreset() (Preset, error) {
	return ParsePreset(s.Preset)
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	// Set default values for each configuration parameter,
	// function defined in defaults.go
	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config file present, defaults apply
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// Setting returns the current settings instance, loading it if needed.
func Setting() *Settings {
	settingsMutex.RLock()
	if settingsInstance != nil {
		defer settingsMutex.RUnlock()
		return settingsInstance
	}
	settingsMutex.RUnlock()

	settings, err := Load()
	if err != nil {
		return nil
	}
	return settings
}

// GetDefaultConfigPaths returns the default config paths for the application.
func GetDefaultConfigPaths() ([]string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("error resolving user config dir: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error resolving home dir: %w", err)
	}

	return []string{
		filepath.Join(configDir, "voicescribe"),
		filepath.Join(homeDir, ".config", "voicescribe"),
		".",
	}, nil
}
