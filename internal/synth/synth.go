package synth

import (
	"fmt"

	"github.com/example/go-diphone-tts/internal/audio"
	"github.com/example/go-diphone-tts/internal/diphone"
)

// Synthesize resolves each diphone in order, concatenates the recordings,
// stamps the result with outputRate, and normalizes it to full dynamic
// range. It either returns one complete output buffer or fails on the
// first unresolvable diphone; there is no partial output.
func Synthesize(diphones []diphone.Diphone, cache *Cache, load Loader, outputRate int) (*audio.Buffer, error) {
	segments := make([]*audio.Buffer, 0, len(diphones))
	for _, d := range diphones {
		buf, err := cache.Resolve(d, load)
		if err != nil {
			return nil, fmt.Errorf("resolve diphone %s: %w", d, err)
		}
		segments = append(segments, buf)
	}

	out, err := audio.Concat(segments...)
	if err != nil {
		return nil, fmt.Errorf("concatenate segments: %w", err)
	}

	out.Format.SampleRate = outputRate
	if err := out.Rescale(1.0); err != nil {
		return nil, fmt.Errorf("normalize output: %w", err)
	}
	return out, nil
}
