// Package cmd assembles the voicescribe command tree.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/voicescribe/voicescribe-go/cmd/devices"
	"github.com/voicescribe/voicescribe-go/cmd/file"
	"github.com/voicescribe/voicescribe-go/cmd/realtime"
	"github.com/voicescribe/voicescribe-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "voicescribe",
		Short: "VoiceScribe audio quality engine CLI",
		Long: `Analyze and condition dictation recordings: per-buffer quality metrics,
recording size bounds, silence trimming, noise gating and normalization.`,
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		file.Command(settings),
		realtime.Command(settings),
		devices.Command(),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Re-validate after flag overrides
		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags configures the global flags for the root command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.PersistentFlags().BoolVar(&settings.Debug, "debug",
		viper.GetBool("debug"), "Enable debug output")
	cmd.PersistentFlags().StringVar(&settings.Preset, "preset",
		viper.GetString("preset"), "Quality preset: low, medium, high")
	cmd.PersistentFlags().Int64Var(&settings.Recording.MaxFileSize, "maxfilesize",
		viper.GetInt64("recording.maxfilesize"), "Recording session size cap in bytes")

	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
	}
}
