package audio

import (
	"bytes"
	"errors"
	"fmt"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcmFormat = 1 // WAV audio format tag for uncompressed PCM

// DecodeWAV parses a RIFF/WAVE container and returns its payload as a
// Buffer. Only 16-bit signed PCM is accepted; any other encoding fails
// with ErrUnsupportedFormat.
func DecodeWAV(data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, errors.New("empty WAV input")
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: audio format tag %d (want PCM)", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("%w: %d-bit (want 16-bit signed PCM)", ErrUnsupportedFormat, dec.BitDepth)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading PCM data: %w", err)
	}

	samples := make([]int16, len(pcm.Data))
	for i, s := range pcm.Data {
		samples[i] = int16(s)
	}

	return &Buffer{
		Format: Format{
			Channels:   int(dec.NumChans),
			SampleRate: int(dec.SampleRate),
			BitDepth:   int(dec.BitDepth),
		},
		samples: samples,
	}, nil
}

// EncodeWAV writes the buffer into a standards-compliant WAV container.
// DecodeWAV(EncodeWAV(b)) reproduces b's samples and format exactly.
func EncodeWAV(b *Buffer) ([]byte, error) {
	if err := b.Format.Validate(); err != nil {
		return nil, err
	}

	var out bytes.Buffer

	// wav.NewEncoder requires an io.WriteSeeker; bytes.Buffer is not one.
	// Use a seekable wrapper.
	sw := &seekBuffer{buf: &out}

	enc := wav.NewEncoder(sw, b.Format.SampleRate, b.Format.BitDepth, b.Format.Channels, pcmFormat)

	data := make([]int, len(b.samples))
	for i, s := range b.samples {
		data[i] = int(s)
	}
	pcm := &goaudio.IntBuffer{
		Data: data,
		Format: &goaudio.Format{
			NumChannels: b.Format.Channels,
			SampleRate:  b.Format.SampleRate,
		},
		SourceBitDepth: b.Format.BitDepth,
	}

	if err := enc.Write(pcm); err != nil {
		return nil, fmt.Errorf("writing PCM: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing encoder: %w", err)
	}

	return out.Bytes(), nil
}

// seekBuffer wraps a bytes.Buffer to satisfy io.WriteSeeker.
type seekBuffer struct {
	buf *bytes.Buffer
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	// If writing at the end, just append.
	if s.pos == s.buf.Len() {
		n, err := s.buf.Write(p)
		s.pos += n
		return n, err
	}
	// Writing in the middle: overwrite existing bytes.
	data := s.buf.Bytes()
	n := copy(data[s.pos:], p)
	if n < len(p) {
		// Extend the buffer for the remainder.
		data = append(data, p[n:]...)
		// Reset buffer with extended data.
		s.buf.Reset()
		s.buf.Write(data)
		n = len(p)
	}
	s.pos += n
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int
	switch whence {
	case 0: // io.SeekStart
		newPos = int(offset)
	case 1: // io.SeekCurrent
		newPos = s.pos + int(offset)
	case 2: // io.SeekEnd
		newPos = s.buf.Len() + int(offset)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("seek before start")
	}
	s.pos = newPos
	return int64(newPos), nil
}
