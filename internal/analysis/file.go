// Package analysis orchestrates the audio engine for the CLI commands:
// it connects capture or file input to the quality monitor, runs the
// conditioning pipeline and hands the result to the WAV writer.
package analysis

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/voicescribe/voicescribe-go/internal/conf"
	"github.com/voicescribe/voicescribe-go/internal/errors"
	"github.com/voicescribe/voicescribe-go/internal/logging"
	"github.com/voicescribe/voicescribe-go/internal/sound"
	"github.com/voicescribe/voicescribe-go/internal/wave"
)

// errSizeCapReached aborts file streaming once the session size bound is hit.
var errSizeCapReached = errors.Newf("recording size cap reached").
	Category(errors.CategoryLimit).
	Build()

// FileAnalysis streams a WAV file through the quality monitor, conditions it
// with the configured preset and writes the processed file next to the input.
func FileAnalysis(settings *conf.Settings, inputFile string) error {
	logger := logging.ForService("analysis")

	preset, err := settings.QualityPreset()
	if err != nil {
		return err
	}

	info, err := wave.ReadInfo(inputFile)
	if err != nil {
		return err
	}

	monitor := sound.NewQualityMonitor(settings.Recording, filepath.Base(inputFile))
	monitor.StartMonitoring()

	var samples sound.SampleBuffer
	err = wave.ReadBuffers(inputFile, conf.BufferSamples, func(buf sound.SampleBuffer) error {
		monitor.ProcessAudioBuffer(buf)
		samples = append(samples, buf...)
		if monitor.ShouldStopRecording() {
			return errSizeCapReached
		}
		return nil
	})
	if err != nil && !errors.Is(err, errSizeCapReached) {
		return err
	}

	start := time.Now()
	processor := sound.NewProcessor(settings.Recording)
	processed := processor.Process(samples, preset)

	if logger != nil {
		logger.Info("file conditioned",
			"input", inputFile,
			"preset", preset.String(),
			"input_samples", len(samples),
			"output_samples", len(processed),
			"elapsed", time.Since(start))
	}

	outputFile := processedPath(inputFile)
	if err := wave.Write(outputFile, processed, info.SampleRate); err != nil {
		return err
	}

	report := monitor.GetQualityReport()
	fmt.Print(report.String())
	fmt.Printf("Processed audio written to %s\n", outputFile)

	return nil
}

// processedPath derives the output path for a conditioned file, e.g.
// memo.wav becomes memo.processed.wav.
func processedPath(inputFile string) string {
	ext := filepath.Ext(inputFile)
	base := strings.TrimSuffix(inputFile, ext)
	if ext == "" {
		ext = ".wav"
	}
	return base + ".processed" + ext
}
