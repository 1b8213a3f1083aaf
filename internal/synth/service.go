package synth

import (
	"context"
	"fmt"

	"github.com/example/go-diphone-tts/internal/audio"
	"github.com/example/go-diphone-tts/internal/config"
	"github.com/example/go-diphone-tts/internal/diphone"
	"github.com/example/go-diphone-tts/internal/lexicon"
	"github.com/example/go-diphone-tts/internal/text"
)

// Service is the text-to-buffer pipeline: tokenize, transcribe via the
// lexicon, window into diphones, and concatenate from the asset directory.
// One Service owns one asset cache; the serving path may call Synthesize
// from concurrent requests.
type Service struct {
	lex        *lexicon.Lexicon
	cache      *Cache
	load       Loader
	outputRate int
}

func NewService(cfg config.Config) (*Service, error) {
	lex, err := lexicon.Load(cfg.Paths.LexiconPath)
	if err != nil {
		return nil, err
	}
	return &Service{
		lex:        lex,
		cache:      NewCache(),
		load:       DirLoader(cfg.Paths.DiphoneDir),
		outputRate: cfg.Audio.OutputRate,
	}, nil
}

// Synthesize converts input text into one normalized output buffer.
func (s *Service) Synthesize(input string) (*audio.Buffer, error) {
	normalized, err := text.Normalize(input)
	if err != nil {
		return nil, err
	}
	words, err := text.Tokenize(normalized)
	if err != nil {
		return nil, err
	}
	phonemes, err := s.lex.Phonemes(words)
	if err != nil {
		return nil, err
	}
	return Synthesize(diphone.Window(phonemes), s.cache, s.load, s.outputRate)
}

// SynthesizeWAV runs the pipeline and encodes the result as WAV bytes.
// The context is consulted between the pipeline stages; the stages
// themselves are blocking.
func (s *Service) SynthesizeWAV(ctx context.Context, input string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := s.Synthesize(input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := audio.EncodeWAV(buf)
	if err != nil {
		return nil, fmt.Errorf("encode output WAV: %w", err)
	}
	return data, nil
}
