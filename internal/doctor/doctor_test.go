package doctor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		dir := t.TempDir()
		asset := filepath.Join(dir, "pau-pau.wav")
		if err := os.WriteFile(asset, []byte("RIFF"), 0o644); err != nil {
			t.Fatalf("write asset: %v", err)
		}

		var out strings.Builder
		res := Run(Config{
			Lexicon:         func() (string, error) { return "3 entries", nil },
			DiphoneDir:      dir,
			RequiredAssets:  []string{asset},
			DecodeAsset:     func(string) error { return nil },
			SkipAudioDevice: true,
		}, &out)

		if res.Failed() {
			t.Fatalf("unexpected failures: %v", res.Failures())
		}
		if !strings.Contains(out.String(), PassMark+" lexicon: 3 entries") {
			t.Errorf("missing lexicon pass line in output:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "audio device: skipped") {
			t.Errorf("missing skipped device line in output:\n%s", out.String())
		}
	})

	t.Run("reports missing lexicon", func(t *testing.T) {
		var out strings.Builder
		res := Run(Config{
			Lexicon:         func() (string, error) { return "", errors.New("open lexicon: no such file") },
			SkipAudioDevice: true,
		}, &out)

		if !res.Failed() {
			t.Fatal("expected failure")
		}
		if !strings.Contains(out.String(), FailMark+" lexicon") {
			t.Errorf("missing lexicon fail line in output:\n%s", out.String())
		}
	})

	t.Run("reports missing silence asset", func(t *testing.T) {
		dir := t.TempDir()

		var out strings.Builder
		res := Run(Config{
			DiphoneDir:      dir,
			RequiredAssets:  []string{filepath.Join(dir, "pau-pau.wav")},
			SkipAudioDevice: true,
		}, &out)

		if !res.Failed() {
			t.Fatal("expected failure")
		}
		if len(res.Failures()) != 1 {
			t.Errorf("got %d failures, want 1: %v", len(res.Failures()), res.Failures())
		}
	})

	t.Run("reports undecodable asset", func(t *testing.T) {
		dir := t.TempDir()
		asset := filepath.Join(dir, "pau-pau.wav")
		if err := os.WriteFile(asset, []byte("junk"), 0o644); err != nil {
			t.Fatalf("write asset: %v", err)
		}

		var out strings.Builder
		res := Run(Config{
			DiphoneDir:      dir,
			RequiredAssets:  []string{asset},
			DecodeAsset:     func(string) error { return errors.New("invalid WAV file") },
			SkipAudioDevice: true,
		}, &out)

		if !res.Failed() {
			t.Fatal("expected failure")
		}
	})

	t.Run("device probe failure is reported", func(t *testing.T) {
		var out strings.Builder
		res := Run(Config{
			AudioDevice: func() (string, error) { return "", errors.New("no backend") },
		}, &out)

		if !res.Failed() {
			t.Fatal("expected failure")
		}
		if !strings.Contains(out.String(), FailMark+" audio device") {
			t.Errorf("missing device fail line in output:\n%s", out.String())
		}
	})
}
