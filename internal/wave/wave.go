// Package wave reads and writes WAV files for the audio engine. It plays the
// file-writer collaborator role: the engine itself never touches disk.
package wave

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/voicescribe/voicescribe-go/internal/conf"
	"github.com/voicescribe/voicescribe-go/internal/errors"
	"github.com/voicescribe/voicescribe-go/internal/sound"
)

// Info describes the format of a WAV file.
type Info struct {
	SampleRate   int
	NumChannels  int
	BitDepth     int
	TotalSamples int
}

// BufferCallback receives successive sample buffers while streaming a file.
// Returning an error aborts the read.
type BufferCallback func(buf sound.SampleBuffer) error

// ReadInfo opens a WAV file and returns its format information.
func ReadInfo(filePath string) (Info, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Info{}, errors.New(err).
			Component("wave").
			Category(errors.CategoryFileIO).
			Context("path", filePath).
			Build()
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		return Info{}, errors.Newf("invalid WAV file format").
			Component("wave").
			Category(errors.CategoryValidation).
			Context("path", filePath).
			Build()
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return Info{}, err
	}

	bytesPerSample := int(decoder.BitDepth / 8)
	totalSamples := 0
	if bytesPerSample > 0 && decoder.NumChans > 0 {
		totalSamples = int(fileInfo.Size()) / bytesPerSample / int(decoder.NumChans)
	}

	return Info{
		SampleRate:   int(decoder.SampleRate),
		NumChannels:  int(decoder.NumChans),
		BitDepth:     int(decoder.BitDepth),
		TotalSamples: totalSamples,
	}, nil
}

// ReadBuffers streams a 16-bit mono WAV file through the callback in windows
// of bufferSamples samples. The final window may be shorter.
func ReadBuffers(filePath string, bufferSamples int, callback BufferCallback) error {
	if bufferSamples <= 0 {
		bufferSamples = conf.BufferSamples
	}

	file, err := os.Open(filePath)
	if err != nil {
		return errors.New(err).
			Component("wave").
			Category(errors.CategoryFileIO).
			Context("path", filePath).
			Build()
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return errors.Newf("input is not a valid WAV audio file").
			Component("wave").
			Category(errors.CategoryValidation).
			Context("path", filePath).
			Build()
	}

	if decoder.BitDepth != conf.BitDepth {
		return errors.Newf("unsupported bit depth: %d", decoder.BitDepth).
			Component("wave").
			Category(errors.CategoryValidation).
			Context("bit_depth", int(decoder.BitDepth)).
			Build()
	}
	if decoder.NumChans != conf.NumChannels {
		return errors.Newf("unsupported number of channels: %d", decoder.NumChans).
			Component("wave").
			Category(errors.CategoryValidation).
			Context("channels", int(decoder.NumChans)).
			Build()
	}

	intBuf := &audio.IntBuffer{
		Data:   make([]int, bufferSamples),
		Format: &audio.Format{SampleRate: int(decoder.SampleRate), NumChannels: conf.NumChannels},
	}

	for {
		n, err := decoder.PCMBuffer(intBuf)
		if err != nil {
			return errors.New(err).
				Component("wave").
				Category(errors.CategoryFileIO).
				Context("operation", "read_pcm").
				Build()
		}
		if n == 0 {
			return nil
		}

		buf := make(sound.SampleBuffer, n)
		for i := 0; i < n; i++ {
			buf[i] = int16(intBuf.Data[i])
		}

		if err := callback(buf); err != nil {
			return err
		}

		if n < bufferSamples {
			return nil
		}
	}
}

// Write saves the buffer as a 16-bit mono WAV file, creating directories as
// needed.
func Write(filePath string, buf sound.SampleBuffer, sampleRate int) error {
	if sampleRate <= 0 {
		sampleRate = conf.SampleRate
	}

	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	outFile, err := os.Create(filePath)
	if err != nil {
		return errors.New(err).
			Component("wave").
			Category(errors.CategoryFileIO).
			Context("path", filePath).
			Build()
	}
	defer outFile.Close()

	enc := wav.NewEncoder(outFile, sampleRate, conf.BitDepth, conf.NumChannels, 1)

	intSamples := make([]int, len(buf))
	for i, sample := range buf {
		intSamples[i] = int(sample)
	}

	if err := enc.Write(&audio.IntBuffer{
		Data:   intSamples,
		Format: &audio.Format{SampleRate: sampleRate, NumChannels: conf.NumChannels},
	}); err != nil {
		return fmt.Errorf("failed to write to WAV encoder: %w", err)
	}

	return enc.Close()
}
