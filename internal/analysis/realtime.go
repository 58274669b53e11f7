package analysis

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/voicescribe/voicescribe-go/internal/capture"
	"github.com/voicescribe/voicescribe-go/internal/conf"
	"github.com/voicescribe/voicescribe-go/internal/logging"
	"github.com/voicescribe/voicescribe-go/internal/observability"
	"github.com/voicescribe/voicescribe-go/internal/sound"
	"github.com/voicescribe/voicescribe-go/internal/wave"
)

// RealtimeAnalysis captures audio from the configured soundcard, monitors
// quality live and, when capture ends (size cap or interrupt), conditions
// the recording and writes it to the export directory.
func RealtimeAnalysis(settings *conf.Settings) error {
	logger := logging.ForService("analysis")

	preset, err := settings.QualityPreset()
	if err != nil {
		return err
	}

	if settings.Realtime.Metrics.Enabled {
		metrics, err := observability.NewMetrics()
		if err != nil {
			return err
		}
		go func() {
			if err := metrics.Serve(settings.Realtime.Metrics.Listen); err != nil {
				logging.Error("metrics endpoint failed", "error", err)
			}
		}()
		if logger != nil {
			logger.Info("metrics endpoint started",
				"listen", settings.Realtime.Metrics.Listen)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source := capture.NewSource(capture.Config{Device: settings.Realtime.Audio.Source})
	if err := source.Start(ctx); err != nil {
		return err
	}
	defer source.Stop()

	monitor := sound.NewQualityMonitor(settings.Recording, settings.Realtime.Audio.Source)
	monitor.StartMonitoring()

	fmt.Println("Recording... press Ctrl-C to stop.")

	var samples sound.SampleBuffer

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case buf, ok := <-source.Buffers():
			if !ok {
				break loop
			}

			m := monitor.ProcessAudioBuffer(buf)
			samples = append(samples, buf...)

			printMeter(m, monitor.GetRecordingStatistics())

			if monitor.ShouldStopRecording() {
				fmt.Println("\nRecording size cap reached, stopping capture.")
				break loop
			}
		}
	}
	fmt.Println()

	if len(samples) == 0 {
		fmt.Println("No audio captured.")
		return nil
	}

	processor := sound.NewProcessor(settings.Recording)
	processed := processor.Process(samples, preset)

	report := monitor.GetQualityReport()
	fmt.Print(report.String())

	if settings.Realtime.Audio.Export.Enabled {
		outputFile := filepath.Join(settings.Realtime.Audio.Export.Path,
			fmt.Sprintf("voicescribe_%s.wav", time.Now().Format("20060102_150405")))
		if err := wave.Write(outputFile, processed, conf.SampleRate); err != nil {
			return err
		}
		fmt.Printf("Processed audio written to %s\n", outputFile)
	}

	if logger != nil {
		logger.Info("realtime session finished",
			"session_id", monitor.SessionID(),
			"preset", preset.String(),
			"captured_samples", len(samples),
			"processed_samples", len(processed),
			"dropped_windows", source.Dropped())
	}

	return nil
}

// printMeter renders a one-line live level meter on stdout.
func printMeter(m sound.Metrics, stats sound.RecordingStatistics) {
	level := m.LevelPercent()
	bar := strings.Repeat("#", level/5) + strings.Repeat("-", 20-level/5)

	flag := " "
	switch {
	case m.Clipping:
		flag = "!"
	case m.Silent:
		flag = "."
	}

	fmt.Printf("\r[%s]%s %5.1f dB  %6.1fs  %8d bytes",
		bar, flag, m.DBLevel, stats.Duration.Seconds(), stats.FileSize)
}
