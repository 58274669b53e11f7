package main

import (
	"log/slog"
	"os"

	"github.com/voicescribe/voicescribe-go/cmd"
	"github.com/voicescribe/voicescribe-go/internal/conf"
	"github.com/voicescribe/voicescribe-go/internal/logging"
)

func main() {
	logging.Init()

	settings, err := conf.Load()
	if err != nil {
		logging.Fatal("failed to load configuration", "error", err)
	}

	if settings.Debug {
		logging.SetLevel(slog.LevelDebug)
	} else {
		logging.SetLevel(slog.LevelInfo)
	}

	if settings.Main.Log.Enabled {
		fileLogger, closeLogger, err := logging.NewFileLogger(
			settings.Main.Log.Path, settings.Main.Name, slog.LevelInfo)
		if err != nil {
			logging.Warn("file logging disabled", "error", err)
		} else {
			defer func() { _ = closeLogger() }()
			slog.SetDefault(fileLogger)
		}
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
