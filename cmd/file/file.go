package file

import (
	"github.com/spf13/cobra"
	"github.com/voicescribe/voicescribe-go/internal/analysis"
	"github.com/voicescribe/voicescribe-go/internal/conf"
)

// Command creates the file command for analyzing and conditioning one WAV file.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file [input.wav]",
		Short: "Analyze and condition an audio file",
		Long: `Stream a 16-bit mono WAV file through the quality monitor, apply the
configured preset and write the processed file next to the input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.FileAnalysis(settings, args[0])
		},
	}

	return cmd
}
