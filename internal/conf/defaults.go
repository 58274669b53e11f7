// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "VoiceScribe")
	viper.SetDefault("main.log.enabled", false)
	viper.SetDefault("main.log.path", "voicescribe.log")

	viper.SetDefault("preset", string(PresetMedium))

	viper.SetDefault("recording.maxfilesize", DefaultMaxFileSize)
	viper.SetDefault("recording.clippingthreshold", DefaultClippingThreshold)
	viper.SetDefault("recording.silencethreshold", DefaultSilenceThreshold)

	viper.SetDefault("realtime.audio.source", "sysdefault")
	viper.SetDefault("realtime.audio.export.enabled", true)
	viper.SetDefault("realtime.audio.export.path", "clips/")

	viper.SetDefault("realtime.metrics.enabled", false)
	viper.SetDefault("realtime.metrics.listen", ":8090")
}
