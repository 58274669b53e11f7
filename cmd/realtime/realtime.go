package realtime

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/voicescribe/voicescribe-go/internal/analysis"
	"github.com/voicescribe/voicescribe-go/internal/conf"
)

// Command creates the realtime command for live capture and monitoring.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "realtime",
		Short: "Capture and monitor audio in realtime",
		Long: `Capture audio from the configured soundcard, show a live quality meter,
stop at the recording size cap and write the conditioned recording to the
export directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.RealtimeAnalysis(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the realtime command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.Realtime.Audio.Source, "source",
		viper.GetString("realtime.audio.source"),
		"Audio capture source (\"sysdefault\", \"USB Audio\", etc.)")
	cmd.Flags().StringVar(&settings.Realtime.Audio.Export.Path, "clippath",
		viper.GetString("realtime.audio.export.path"),
		"Directory to save processed recordings")
	cmd.Flags().BoolVar(&settings.Realtime.Audio.Export.Enabled, "export",
		viper.GetBool("realtime.audio.export.enabled"),
		"Write the processed recording to the clip directory")
	cmd.Flags().BoolVar(&settings.Realtime.Metrics.Enabled, "metrics",
		viper.GetBool("realtime.metrics.enabled"),
		"Enable Prometheus metrics endpoint")
	cmd.Flags().StringVar(&settings.Realtime.Metrics.Listen, "listen",
		viper.GetString("realtime.metrics.listen"),
		"Listen address and port of metrics endpoint")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
