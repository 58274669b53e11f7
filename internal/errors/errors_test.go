package errors

import (
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilderBasic(t *testing.T) {
	base := stderrors.New("disk full")

	err := New(base).
		Component("wave").
		Category(CategoryFileIO).
		Context("path", "/tmp/memo.wav").
		Build()

	assert.Equal(t, "disk full", err.Error())
	assert.Equal(t, "wave", err.GetComponent())
	assert.Equal(t, string(CategoryFileIO), err.GetCategory())
	assert.Equal(t, "/tmp/memo.wav", err.GetContext()["path"])
	assert.WithinDuration(t, time.Now(), err.GetTimestamp(), time.Second)
	assert.ErrorIs(t, err, base)
}

func TestNewf(t *testing.T) {
	err := Newf("unsupported bit depth: %d", 24).
		Category(CategoryValidation).
		Build()

	assert.Equal(t, "unsupported bit depth: 24", err.Error())
	assert.Equal(t, string(CategoryValidation), err.GetCategory())
}

func TestBuildWithNilError(t *testing.T) {
	t.Run("message from error context", func(t *testing.T) {
		err := New(nil).
			Category(CategoryNotFound).
			Context("error", "no matching audio device found").
			Build()

		assert.Equal(t, "no matching audio device found", err.Error())
	})

	t.Run("no context at all", func(t *testing.T) {
		err := New(nil).Build()
		assert.Equal(t, "unknown error", err.Error())
	})
}

func TestBuildDefaults(t *testing.T) {
	err := New(stderrors.New("boom")).Build()

	assert.Equal(t, CategoryGeneric, err.Category)
	assert.Equal(t, ComponentUnknown, err.GetComponent())
	assert.Nil(t, err.GetContext())
}

func TestEnhancedErrorIsMatchesCategory(t *testing.T) {
	a := Newf("first").Category(CategoryLimit).Build()
	b := Newf("second").Category(CategoryLimit).Build()
	c := Newf("third").Category(CategoryValidation).Build()

	assert.ErrorIs(t, a, b, "errors of the same category must match")
	assert.NotErrorIs(t, a, c)
}

func TestUnwrapAndAs(t *testing.T) {
	base := stderrors.New("source gone")
	err := New(base).Category(CategoryAudioSource).Build()

	assert.Equal(t, base, Unwrap(err))

	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, CategoryAudioSource, ee.Category)
}

func TestTimingContext(t *testing.T) {
	err := Newf("slow analysis").
		Timing("analyze", 1500*time.Millisecond).
		Build()

	ctx := err.GetContext()
	assert.Equal(t, "analyze", ctx["operation"])
	assert.Equal(t, int64(1500), ctx["duration_ms"])
}

func TestGetContextReturnsCopy(t *testing.T) {
	err := Newf("boom").Context("key", "value").Build()

	ctx := err.GetContext()
	ctx["key"] = "mutated"

	assert.Equal(t, "value", err.GetContext()["key"])
}

func TestErrorHooks(t *testing.T) {
	var mu sync.Mutex
	var seen []*EnhancedError

	AddErrorHook(func(ee *EnhancedError) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, ee)
	})

	built := Newf("observed failure").Category(CategoryProcessing).Build()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	assert.Same(t, built, seen[len(seen)-1])
}

func TestComponentRegistry(t *testing.T) {
	RegisterComponent("widget", "widget-component")

	assert.Equal(t, "widget-component",
		lookupComponent("github.com/voicescribe/voicescribe-go/internal/widget.Frobnicate"))
	assert.Empty(t, lookupComponent("github.com/somewhere/else/pkg/thing.Do"))
}
