package sound

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBufferBytesRoundTrip(t *testing.T) {
	t.Parallel()

	buf := SampleBuffer{0, 1, -1, 32767, -32768, 12345}
	assert.Equal(t, buf, BufferFromBytes(buf.Bytes()))
}

func TestBufferFromBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want SampleBuffer
	}{
		{"empty", nil, SampleBuffer{}},
		{"one sample little endian", []byte{0x01, 0x00}, SampleBuffer{1}},
		{"negative sample", []byte{0xff, 0xff}, SampleBuffer{-1}},
		{"trailing odd byte dropped", []byte{0x01, 0x00, 0x7f}, SampleBuffer{1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, BufferFromBytes(tt.data))
		})
	}
}

func TestBufferByteLength(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(0), SampleBuffer{}.ByteLength())
	assert.Equal(t, int64(3200), make(SampleBuffer, 1600).ByteLength())
}

func TestBufferDuration(t *testing.T) {
	t.Parallel()

	buf := make(SampleBuffer, 1600)
	assert.Equal(t, 100*time.Millisecond, buf.Duration(16000))
	assert.Equal(t, time.Duration(0), buf.Duration(0))
}

func TestBufferClone(t *testing.T) {
	t.Parallel()

	orig := SampleBuffer{1, 2, 3}
	clone := orig.Clone()
	clone[0] = 99

	assert.Equal(t, SampleBuffer{1, 2, 3}, orig)
	assert.Nil(t, SampleBuffer(nil).Clone())
}
