// Package testutil provides fixture builders and skip helpers shared by
// tests across the repository.
//
// The fixture builders write temporary diphone asset directories and
// lexicon files; the skip helpers call t.Skip with a clear human-readable
// reason when a prerequisite (such as a host audio device) is absent, so
// tests remain runnable in partial environments without failing noisily.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/go-diphone-tts/internal/audio"
)

// RequireAudioDevice skips the test when the host audio backend cannot be
// initialized (headless CI, no sound hardware).
func RequireAudioDevice(tb testing.TB) *audio.Device {
	tb.Helper()

	dev, err := audio.OpenDevice()
	if err != nil {
		tb.Skipf("audio device not available: %v", err)
	}
	tb.Cleanup(func() { _ = dev.Close() })
	return dev
}

// WriteDiphoneDir writes one mono 16-bit WAV per asset into a temp
// directory and returns the directory path. Keys are asset file names
// (e.g. "pau-k.wav"), values the sample payloads.
func WriteDiphoneDir(tb testing.TB, rate int, assets map[string][]int16) string {
	tb.Helper()

	dir := tb.TempDir()
	for id, samples := range assets {
		buf := audio.NewBuffer(audio.Format{Channels: 1, SampleRate: rate, BitDepth: 16})
		buf.Append(samples)

		data, err := audio.EncodeWAV(buf)
		if err != nil {
			tb.Fatalf("encode fixture %s: %v", id, err)
		}
		if err := os.WriteFile(filepath.Join(dir, id), data, 0o644); err != nil {
			tb.Fatalf("write fixture %s: %v", id, err)
		}
	}
	return dir
}

// WriteLexiconFile writes dictionary content to a temp file and returns
// its path.
func WriteLexiconFile(tb testing.TB, content string) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "cmudict.dict")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatalf("write lexicon fixture: %v", err)
	}
	return path
}
