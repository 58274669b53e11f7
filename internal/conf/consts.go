// conf/consts.go hard coded constants
package conf

const (
	SampleRate  = 16000 // Sample rate of audio delivered by the capture source
	BitDepth    = 16    // Bit depth of captured audio
	NumChannels = 1     // Number of channels of captured audio

	// FullScale is the maximum representable magnitude of a 16-bit signed sample.
	FullScale = 32768.0

	// BufferSamples is the number of samples in one capture window (100 ms).
	BufferSamples = SampleRate / 10

	// DefaultClippingThreshold is the normalized peak level at or above which
	// a buffer is considered clipping.
	DefaultClippingThreshold = 0.95

	// DefaultSilenceThreshold is the normalized RMS level below which a buffer
	// is considered silent.
	DefaultSilenceThreshold = 0.01

	// DefaultMaxFileSize caps one recording session at 10 MB of raw PCM,
	// about five and a half minutes at 16 kHz mono 16-bit.
	DefaultMaxFileSize = 10 * 1024 * 1024
)
