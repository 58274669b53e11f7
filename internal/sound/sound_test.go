package sound

import "math"

// Test signal generators. Amplitudes are raw 16-bit sample values.

func makeSilence(n int) SampleBuffer {
	return make(SampleBuffer, n)
}

// makeSine generates a 440 Hz sine at 16 kHz with the given peak amplitude.
func makeSine(n int, amplitude float64) SampleBuffer {
	buf := make(SampleBuffer, n)
	for i := range buf {
		buf[i] = int16(amplitude * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	return buf
}

// makeSquare generates a full-period square wave at the given amplitude.
// With amplitude at full scale every sample sits on the clipping threshold.
func makeSquare(n int, amplitude int16) SampleBuffer {
	buf := make(SampleBuffer, n)
	for i := range buf {
		if i%32 < 16 {
			buf[i] = amplitude
		} else {
			buf[i] = -amplitude
		}
	}
	return buf
}

// concat joins buffers into one without mutating the inputs.
func concat(bufs ...SampleBuffer) SampleBuffer {
	var out SampleBuffer
	for _, b := range bufs {
		out = append(out, b...)
	}
	return out
}
