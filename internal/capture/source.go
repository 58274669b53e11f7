// Package capture provides soundcard audio capture for realtime monitoring.
// A Source owns the malgo device lifecycle and delivers fixed-size capture
// windows over a channel; the device data callback never blocks.
package capture

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/smallnest/ringbuffer"
	"github.com/voicescribe/voicescribe-go/internal/conf"
	"github.com/voicescribe/voicescribe-go/internal/errors"
	"github.com/voicescribe/voicescribe-go/internal/logging"
	"github.com/voicescribe/voicescribe-go/internal/sound"
)

const (
	// ringWindows is how many capture windows the ring buffer can hold
	// before the device callback starts dropping data.
	ringWindows = 8

	// channelWindows is the delivery channel capacity.
	channelWindows = 16

	// pollInterval is how often the assembler checks the ring buffer for a
	// complete window. A window is 100 ms, so 10 ms keeps latency low
	// without busy spinning.
	pollInterval = 10 * time.Millisecond
)

// Config holds capture source configuration
type Config struct {
	Device        string // device name, ID or "sysdefault"
	SampleRate    int    // defaults to conf.SampleRate
	Channels      int    // defaults to conf.NumChannels
	BufferSamples int    // samples per delivered window, defaults to conf.BufferSamples
}

// Source captures audio from a soundcard device. The malgo data callback
// writes raw PCM into a ring buffer; an assembler goroutine drains the ring
// into fixed-size SampleBuffers and delivers them on the Buffers channel.
type Source struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running atomic.Bool
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	ring    *ringbuffer.RingBuffer
	buffers chan sound.SampleBuffer
	dropped atomic.Int64
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewSource creates a capture source with the given configuration.
func NewSource(cfg Config) *Source {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = conf.SampleRate
	}
	if cfg.Channels <= 0 {
		cfg.Channels = conf.NumChannels
	}
	if cfg.BufferSamples <= 0 {
		cfg.BufferSamples = conf.BufferSamples
	}

	logger := logging.ForService("capture")
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "source", "device", cfg.Device)

	windowBytes := cfg.BufferSamples * 2
	return &Source{
		cfg:     cfg,
		logger:  logger,
		ring:    ringbuffer.New(windowBytes * ringWindows),
		buffers: make(chan sound.SampleBuffer, channelWindows),
	}
}

// Buffers returns the channel delivering capture windows. The channel is
// closed when the source stops.
func (s *Source) Buffers() <-chan sound.SampleBuffer {
	return s.buffers
}

// Dropped returns the number of windows or callback writes discarded because
// a downstream consumer could not keep up.
func (s *Source) Dropped() int64 {
	return s.dropped.Load()
}

// Start initializes the capture device and begins delivering buffers.
// Capture runs until Stop is called or the context is cancelled.
func (s *Source) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return errors.New(nil).
			Component("capture").
			Category(errors.CategoryState).
			Context("error", "source already running").
			Build()
	}

	backend, err := backendForPlatform()
	if err != nil {
		return err
	}

	malgoCtx, err := malgo.InitContext([]malgo.Backend{backend}, malgo.ContextConfig{}, nil)
	if err != nil {
		return errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("operation", "init_context").
			Build()
	}
	s.ctx = malgoCtx

	infos, err := malgoCtx.Devices(malgo.Capture)
	if err != nil {
		_ = malgoCtx.Uninit()
		return errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("operation", "enumerate_devices").
			Build()
	}

	deviceInfo, err := selectDevice(infos, s.cfg.Device)
	if err != nil {
		_ = malgoCtx.Uninit()
		return err
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(s.cfg.Channels)
	deviceConfig.Capture.DeviceID = deviceInfo.ID.Pointer()
	deviceConfig.SampleRate = uint32(s.cfg.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	captureCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: s.onReceiveFrames,
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		s.cancel()
		_ = malgoCtx.Uninit()
		return errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("device_name", s.cfg.Device).
			Context("operation", "init_device").
			Build()
	}
	s.device = device

	if err := device.Start(); err != nil {
		device.Uninit()
		s.cancel()
		_ = malgoCtx.Uninit()
		return errors.New(err).
			Component("capture").
			Category(errors.CategoryAudioSource).
			Context("operation", "start_device").
			Build()
	}

	s.running.Store(true)
	s.logger.Info("capture started",
		"device_name", deviceInfo.Name(),
		"sample_rate", s.cfg.SampleRate)

	s.wg.Add(1)
	go s.assemble(captureCtx)

	return nil
}

// onReceiveFrames is the malgo data callback. It must not block: writes that
// do not fit in the ring buffer are dropped and counted.
func (s *Source) onReceiveFrames(pOutput, pInput []byte, framecount uint32) {
	if _, err := s.ring.Write(pInput); err != nil {
		if errors.Is(err, ringbuffer.ErrIsFull) {
			s.dropped.Add(1)
		}
	}
}

// assemble drains the ring buffer into fixed-size windows and delivers them
// on the buffers channel. Runs until the context is cancelled.
func (s *Source) assemble(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.buffers)

	windowBytes := s.cfg.BufferSamples * 2
	scratch := make([]byte, windowBytes)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		for s.ring.Length() >= windowBytes {
			n, err := s.ring.Read(scratch)
			if err != nil || n == 0 {
				break
			}

			buf := sound.BufferFromBytes(scratch[:n])

			// Non-blocking delivery, drop when the consumer lags
			select {
			case s.buffers <- buf:
			default:
				s.dropped.Add(1)
			}
		}
	}
}

// Stop stops the capture device and closes the buffers channel. Safe to call
// more than once.
func (s *Source) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return
	}
	s.running.Store(false)

	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	if s.device != nil {
		_ = s.device.Stop()
		s.device.Uninit()
		s.device = nil
	}
	if s.ctx != nil {
		_ = s.ctx.Uninit()
		s.ctx = nil
	}

	s.logger.Info("capture stopped",
		"dropped_windows", s.dropped.Load())
}
