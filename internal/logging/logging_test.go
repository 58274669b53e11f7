package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutputProducesJSONAndText(t *testing.T) {
	var structured, human bytes.Buffer
	SetOutput(&structured, &human)
	defer Init()

	Structured().Info("structured message", "key", "value")
	HumanReadable().Info("human message")

	var record map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &record))
	assert.Equal(t, "structured message", record["msg"])
	assert.Equal(t, "value", record["key"])

	assert.Contains(t, human.String(), "human message")
}

func TestForServiceAddsAttribute(t *testing.T) {
	var structured, human bytes.Buffer
	SetOutput(&structured, &human)
	defer Init()

	ForService("sound").Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &record))
	assert.Equal(t, "sound", record["service"])
}

func TestCustomLevelNames(t *testing.T) {
	var structured, human bytes.Buffer
	SetOutput(&structured, &human)
	defer Init()

	Structured().Log(context.Background(), LevelTrace, "trace message")

	// The JSON handler is configured down to debug; trace sits below it and
	// must not appear.
	assert.Empty(t, structured.String())

	structured.Reset()
	Structured().Log(context.Background(), LevelFatal, "fatal message")

	var record map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &record))
	assert.Equal(t, "FATAL", record["level"])
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closeLogger, err := NewFileLogger(path, "test", slog.LevelInfo)
	require.NoError(t, err)
	defer func() { _ = closeLogger() }()

	logger.Info("to file")
	require.NoError(t, closeLogger())

	assert.FileExists(t, path)
}
