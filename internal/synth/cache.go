// Package synth turns a diphone sequence into one concatenated,
// peak-normalized output buffer.
package synth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/example/go-diphone-tts/internal/audio"
	"github.com/example/go-diphone-tts/internal/diphone"
)

// ErrAssetNotFound is returned when a diphone recording is missing from
// storage. One missing asset aborts the whole utterance.
var ErrAssetNotFound = errors.New("diphone asset not found")

// Loader fetches and decodes the recording for an asset identifier.
type Loader func(id string) (*audio.Buffer, error)

// Cache memoizes loaded diphone recordings by asset identifier so each
// distinct file is read and decoded at most once. The mutex makes
// get-or-load safe when the serving path runs requests concurrently.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*audio.Buffer
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*audio.Buffer)}
}

// Resolve returns the buffer for the diphone, invoking load on a miss and
// storing the result for later hits.
func (c *Cache) Resolve(d diphone.Diphone, load Loader) (*audio.Buffer, error) {
	id := d.AssetID()

	c.mu.Lock()
	defer c.mu.Unlock()

	if buf, ok := c.entries[id]; ok {
		return buf, nil
	}

	buf, err := load(id)
	if err != nil {
		return nil, err
	}
	c.entries[id] = buf
	return buf, nil
}

// Len returns the number of cached assets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// DirLoader returns a Loader reading assets from a flat directory of WAV
// files. A missing file maps to ErrAssetNotFound.
func DirLoader(dir string) Loader {
	return func(id string) (*audio.Buffer, error) {
		path := filepath.Join(dir, id)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %q in %s", ErrAssetNotFound, id, dir)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read asset %q: %w", id, err)
		}
		buf, err := audio.DecodeWAV(data)
		if err != nil {
			return nil, fmt.Errorf("decode asset %q: %w", id, err)
		}
		return buf, nil
	}
}
