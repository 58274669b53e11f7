package sound

import (
	"encoding/binary"
	"time"

	"github.com/voicescribe/voicescribe-go/internal/conf"
)

// SampleBuffer is one capture window of 16-bit signed mono PCM samples.
// At the default 16 kHz rate a window holds 1600 samples, about 100 ms.
type SampleBuffer []int16

// ByteLength returns the size of the buffer in bytes (2 bytes per sample).
func (b SampleBuffer) ByteLength() int64 {
	return int64(len(b)) * 2
}

// Duration returns the playback duration of the buffer at the given sample rate.
func (b SampleBuffer) Duration(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b)) * time.Second / time.Duration(sampleRate)
}

// Clone returns a copy of the buffer that shares no storage with the original.
func (b SampleBuffer) Clone() SampleBuffer {
	if b == nil {
		return nil
	}
	out := make(SampleBuffer, len(b))
	copy(out, b)
	return out
}

// BufferFromBytes converts little-endian 16-bit PCM bytes into a SampleBuffer.
// A trailing odd byte is truncated.
func BufferFromBytes(data []byte) SampleBuffer {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}

	buf := make(SampleBuffer, len(data)/2)
	for i := 0; i < len(data); i += 2 {
		buf[i/2] = int16(binary.LittleEndian.Uint16(data[i : i+2]))
	}
	return buf
}

// Bytes converts the buffer into little-endian 16-bit PCM bytes.
func (b SampleBuffer) Bytes() []byte {
	data := make([]byte, len(b)*2)
	for i, sample := range b {
		binary.LittleEndian.PutUint16(data[i*2:i*2+2], uint16(sample))
	}
	return data
}

// DefaultBufferSamples is the number of samples in one capture window.
const DefaultBufferSamples = conf.BufferSamples
