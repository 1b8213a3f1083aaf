package audio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

// DefaultChunkFrames is the chunk size used for device reads and writes
// when the caller does not configure one.
const DefaultChunkFrames = 256

const queuedChunks = 4 // chunks buffered ahead of the device before WriteChunk blocks

// Device is an acquired handle on the host audio backend. It must be
// released with Close. Streams opened from it are exclusively owned by the
// operation that opened them; at most one stream per direction should be
// open at a time.
type Device struct {
	ctx *malgo.AllocatedContext
}

// OpenDevice initializes the host audio backend and returns a handle.
func OpenDevice() (*Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("initialize audio backend: %w", err)
	}
	return &Device{ctx: ctx}, nil
}

// Close releases the device handle.
func (d *Device) Close() error {
	if d.ctx == nil {
		return nil
	}
	err := d.ctx.Uninit()
	d.ctx.Free()
	d.ctx = nil
	return err
}

// deviceFormat maps a buffer format onto the device sample format. The
// mapping is closed: only 16-bit signed PCM exists in this system.
func deviceFormat(f Format) (malgo.FormatType, error) {
	switch f.BitDepth {
	case 16:
		return malgo.FormatS16, nil
	default:
		return malgo.FormatUnknown, fmt.Errorf("%w: %d-bit device stream", ErrUnsupportedFormat, f.BitDepth)
	}
}

// PlaybackStream writes sample chunks to the default output device.
type PlaybackStream struct {
	dev       *malgo.Device
	mu        sync.Mutex
	cond      *sync.Cond
	queue     []byte
	highWater int
	closed    bool
}

// OpenPlayback opens a playback stream on the device in the given format.
// The stream must be released with Close on every exit path.
func OpenPlayback(d *Device, f Format, chunkFrames int) (*PlaybackStream, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	format, err := deviceFormat(f)
	if err != nil {
		return nil, err
	}
	if chunkFrames < 1 {
		chunkFrames = DefaultChunkFrames
	}

	s := &PlaybackStream{
		highWater: chunkFrames * f.Channels * 2 * queuedChunks,
	}
	s.cond = sync.NewCond(&s.mu)

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = format
	cfg.Playback.Channels = uint32(f.Channels)
	cfg.SampleRate = uint32(f.SampleRate)
	cfg.PeriodSizeInFrames = uint32(chunkFrames)
	cfg.Periods = 2

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frameCount uint32) {
			s.mu.Lock()
			n := copy(out, s.queue)
			s.queue = s.queue[n:]
			s.cond.Broadcast()
			s.mu.Unlock()
			// Anything the queue could not fill stays silent.
			for i := n; i < len(out); i++ {
				out[i] = 0
			}
		},
	}

	dev, err := malgo.InitDevice(d.ctx.Context, cfg, callbacks)
	if err != nil {
		return nil, fmt.Errorf("initialize playback device: %w", err)
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		return nil, fmt.Errorf("start playback device: %w", err)
	}

	s.dev = dev
	return s, nil
}

// WriteChunk queues a chunk of samples for playback. It blocks while the
// device is more than a few chunks behind.
func (s *PlaybackStream) WriteChunk(samples []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) >= s.highWater && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return errors.New("playback stream is closed")
	}
	s.queue = append(s.queue, Int16ToBytes(samples)...)
	return nil
}

// Drain blocks until the device has consumed every queued sample.
func (s *PlaybackStream) Drain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.queue) > 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return errors.New("playback stream is closed")
	}
	return nil
}

// Close stops the device and releases the stream.
func (s *PlaybackStream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()

	_ = s.dev.Stop()
	s.dev.Uninit()
}

// CaptureStream reads sample chunks from the default input device.
type CaptureStream struct {
	dev    *malgo.Device
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []byte
	closed bool
}

// OpenCapture opens a capture stream on the device in the given format.
// The stream must be released with Close on every exit path.
func OpenCapture(d *Device, f Format, chunkFrames int) (*CaptureStream, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	format, err := deviceFormat(f)
	if err != nil {
		return nil, err
	}
	if chunkFrames < 1 {
		chunkFrames = DefaultChunkFrames
	}

	s := &CaptureStream{}
	s.cond = sync.NewCond(&s.mu)

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = format
	cfg.Capture.Channels = uint32(f.Channels)
	cfg.SampleRate = uint32(f.SampleRate)
	cfg.PeriodSizeInFrames = uint32(chunkFrames)
	cfg.Periods = 2

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, in []byte, frameCount uint32) {
			if len(in) == 0 {
				return
			}
			s.mu.Lock()
			s.queue = append(s.queue, in...)
			s.cond.Broadcast()
			s.mu.Unlock()
		},
	}

	dev, err := malgo.InitDevice(d.ctx.Context, cfg, callbacks)
	if err != nil {
		return nil, fmt.Errorf("initialize capture device: %w", err)
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		return nil, fmt.Errorf("start capture device: %w", err)
	}

	s.dev = dev
	return s, nil
}

// ReadChunk blocks until exactly n samples have been captured and returns
// them. The caller appends them to its own buffer.
func (s *CaptureStream) ReadChunk(n int) ([]int16, error) {
	if n < 1 {
		return nil, fmt.Errorf("invalid chunk size %d", n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	want := n * 2
	for len(s.queue) < want && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return nil, errors.New("capture stream is closed")
	}
	chunk := BytesToInt16(s.queue[:want])
	s.queue = s.queue[want:]
	return chunk, nil
}

// Close stops the device and releases the stream.
func (s *CaptureStream) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()

	_ = s.dev.Stop()
	s.dev.Uninit()
}

// Play writes the whole buffer to the device in fixed-size chunks, then
// blocks until playback drains. The ErrOutOfRange reported by the chunk
// cursor at the end of the buffer is the loop's normal termination signal,
// not a failure.
func Play(d *Device, b *Buffer, chunkFrames int) error {
	if chunkFrames < 1 {
		chunkFrames = DefaultChunkFrames
	}

	stream, err := OpenPlayback(d, b.Format, chunkFrames)
	if err != nil {
		return err
	}
	defer stream.Close()

	b.Rewind()
	for {
		chunk, err := b.NextChunk(chunkFrames * b.Format.Channels)
		if err != nil {
			if errors.Is(err, ErrOutOfRange) {
				break // buffer exhausted
			}
			return err
		}
		if err := stream.WriteChunk(chunk); err != nil {
			return err
		}
	}

	return stream.Drain()
}

// Record captures numChunks fixed-size chunks from the device into a new
// buffer in the given format.
func Record(d *Device, f Format, chunkFrames, numChunks int) (*Buffer, error) {
	if chunkFrames < 1 {
		chunkFrames = DefaultChunkFrames
	}

	stream, err := OpenCapture(d, f, chunkFrames)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	buf := NewBuffer(f)
	for i := 0; i < numChunks; i++ {
		chunk, err := stream.ReadChunk(chunkFrames * f.Channels)
		if err != nil {
			return nil, err
		}
		buf.Append(chunk)
	}
	return buf, nil
}
