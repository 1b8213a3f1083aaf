// Package audio provides the in-memory sample buffer used throughout
// synthesis, plus WAV serialization and device stream I/O.
package audio

import (
	"errors"
	"fmt"
	"math"
)

// MaxAmplitude is the largest magnitude a 16-bit signed sample can carry
// after rescaling.
const MaxAmplitude = 32767

var (
	// ErrOutOfRange is returned when a slice or chunk read extends past the
	// end of the buffer. During chunked playback it is the normal
	// end-of-buffer signal and is handled locally by the playback loop.
	ErrOutOfRange = errors.New("read past end of buffer")

	// ErrFormatMismatch is returned when buffers with incompatible formats
	// are concatenated.
	ErrFormatMismatch = errors.New("audio format mismatch")

	// ErrInvalidFactor is returned when a rescale factor falls outside [0, 1].
	ErrInvalidFactor = errors.New("rescale factor out of range [0, 1]")

	// ErrUnsupportedFormat is returned for any sample format other than
	// 16-bit signed PCM.
	ErrUnsupportedFormat = errors.New("unsupported sample format")
)

// Format describes the PCM layout of a buffer or device stream.
type Format struct {
	Channels   int
	SampleRate int
	BitDepth   int
}

// Validate rejects formats this system cannot produce or consume.
// Only 16-bit signed PCM is supported.
func (f Format) Validate() error {
	if f.BitDepth != 16 {
		return fmt.Errorf("%w: %d-bit (want 16-bit signed PCM)", ErrUnsupportedFormat, f.BitDepth)
	}
	if f.Channels < 1 {
		return fmt.Errorf("invalid channel count %d", f.Channels)
	}
	if f.SampleRate < 1 {
		return fmt.Errorf("invalid sample rate %d", f.SampleRate)
	}
	return nil
}

// Buffer holds a growable sequence of 16-bit signed samples together with
// the format they were captured or decoded in. A zero-length buffer is
// valid and represents silence.
type Buffer struct {
	Format  Format
	samples []int16
	cursor  int
}

// NewBuffer returns an empty buffer in the given format.
func NewBuffer(f Format) *Buffer {
	return &Buffer{Format: f}
}

// Len returns the number of samples in the buffer.
func (b *Buffer) Len() int { return len(b.samples) }

// Samples returns the underlying sample slice. Callers must not grow it.
func (b *Buffer) Samples() []int16 { return b.samples }

// Append extends the buffer with the given samples.
func (b *Buffer) Append(samples []int16) {
	b.samples = append(b.samples, samples...)
}

// Slice returns a copy of n samples starting at start. It fails with
// ErrOutOfRange when start+n extends past the end of the buffer.
func (b *Buffer) Slice(start, n int) ([]int16, error) {
	if start < 0 || n < 0 || start+n > len(b.samples) {
		return nil, fmt.Errorf("%w: [%d, %d) of %d", ErrOutOfRange, start, start+n, len(b.samples))
	}
	out := make([]int16, n)
	copy(out, b.samples[start:start+n])
	return out, nil
}

// NextChunk returns up to n samples at the playback cursor and advances it.
// A final partial chunk is truncated rather than zero-padded. Once the
// cursor reaches the end, NextChunk reports ErrOutOfRange; the playback
// loop treats that as its termination signal.
func (b *Buffer) NextChunk(n int) ([]int16, error) {
	if n < 1 {
		return nil, fmt.Errorf("invalid chunk size %d", n)
	}
	remaining := len(b.samples) - b.cursor
	if remaining <= 0 {
		return nil, fmt.Errorf("%w: cursor at %d of %d", ErrOutOfRange, b.cursor, len(b.samples))
	}
	if n > remaining {
		n = remaining
	}
	chunk, err := b.Slice(b.cursor, n)
	if err != nil {
		return nil, err
	}
	b.cursor += n
	return chunk, nil
}

// Rewind resets the playback cursor to the start of the buffer.
func (b *Buffer) Rewind() { b.cursor = 0 }

// Rescale normalizes the buffer in place so its peak amplitude becomes
// factor*MaxAmplitude. The peak is taken over all samples. An all-zero
// buffer is left unchanged. It fails with ErrInvalidFactor when factor is
// outside [0, 1].
func (b *Buffer) Rescale(factor float64) error {
	if factor < 0 || factor > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidFactor, factor)
	}

	peak := 0
	for _, s := range b.samples {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		// Silence: nothing to scale, and no division by zero.
		return nil
	}

	scale := factor * MaxAmplitude / float64(peak)
	for i, s := range b.samples {
		v := math.Round(float64(s) * scale)
		// scale*peak <= MaxAmplitude holds, but clamp against rounding.
		if v > MaxAmplitude {
			v = MaxAmplitude
		} else if v < -MaxAmplitude-1 {
			v = -MaxAmplitude - 1
		}
		b.samples[i] = int16(v)
	}
	return nil
}

// Concat returns a new buffer containing the samples of each input in
// order. The result adopts the channel count and sample rate of the first
// non-empty input. It fails with ErrFormatMismatch when inputs disagree on
// channel count or bit depth.
func Concat(buffers ...*Buffer) (*Buffer, error) {
	out := &Buffer{}
	total := 0
	for _, in := range buffers {
		if in.Len() == 0 {
			continue
		}
		if out.Format == (Format{}) {
			out.Format = in.Format
		} else if in.Format.Channels != out.Format.Channels || in.Format.BitDepth != out.Format.BitDepth {
			return nil, fmt.Errorf("%w: %d ch/%d-bit vs %d ch/%d-bit",
				ErrFormatMismatch,
				in.Format.Channels, in.Format.BitDepth,
				out.Format.Channels, out.Format.BitDepth)
		}
		total += in.Len()
	}

	out.samples = make([]int16, 0, total)
	for _, in := range buffers {
		out.samples = append(out.samples, in.samples...)
	}
	return out, nil
}
