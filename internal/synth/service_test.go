package synth

import (
	"context"
	"errors"
	"testing"

	"github.com/example/go-diphone-tts/internal/config"
	"github.com/example/go-diphone-tts/internal/lexicon"
	"github.com/example/go-diphone-tts/internal/testutil"
	"github.com/example/go-diphone-tts/internal/text"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Paths.LexiconPath = testutil.WriteLexiconFile(t, "CAT  K AE1 T\n")
	cfg.Paths.DiphoneDir = testutil.WriteDiphoneDir(t, 16000, catAssets())

	svc, err := NewService(cfg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestServiceSynthesize(t *testing.T) {
	svc := newTestService(t)

	t.Run("cat end to end", func(t *testing.T) {
		out, err := svc.Synthesize("cat")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Len() != 10 {
			t.Errorf("output length %d, want sum of four assets (10)", out.Len())
		}
		if out.Format.SampleRate != 16000 {
			t.Errorf("output rate %d, want 16000", out.Format.SampleRate)
		}
	})

	t.Run("punctuation is tolerated", func(t *testing.T) {
		if _, err := svc.Synthesize("Cat!"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non-alphabetic input aborts before asset work", func(t *testing.T) {
		fresh := newTestService(t)
		_, err := fresh.Synthesize("xyz123")
		if !errors.Is(err, text.ErrNonAlphabetic) {
			t.Fatalf("expected ErrNonAlphabetic, got %v", err)
		}
		if fresh.cache.Len() != 0 {
			t.Errorf("cache has %d entries, want 0 (no asset work should have started)", fresh.cache.Len())
		}
	})

	t.Run("unknown word aborts", func(t *testing.T) {
		_, err := svc.Synthesize("dog")
		if !errors.Is(err, lexicon.ErrUnknownWord) {
			t.Fatalf("expected ErrUnknownWord, got %v", err)
		}
	})

	t.Run("empty input aborts", func(t *testing.T) {
		_, err := svc.Synthesize("   ")
		if !errors.Is(err, text.ErrEmptyText) {
			t.Fatalf("expected ErrEmptyText, got %v", err)
		}
	})
}

func TestServiceSynthesizeWAV(t *testing.T) {
	svc := newTestService(t)

	t.Run("returns a valid WAV at the output rate", func(t *testing.T) {
		data, err := svc.SynthesizeWAV(context.Background(), "cat")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertValidWAV(t, data, 16000)
		if got := testutil.WAVSampleCount(t, data); got != 10 {
			t.Errorf("WAV sample count %d, want 10", got)
		}
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.SynthesizeWAV(ctx, "cat")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestNewServiceMissingLexicon(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Paths.LexiconPath = "/does/not/exist.dict"

	if _, err := NewService(cfg); err == nil {
		t.Fatal("expected error for missing lexicon file")
	}
}
