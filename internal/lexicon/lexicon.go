// Package lexicon looks up phonemic transcriptions for words from a
// CMU-dictionary-format pronouncing lexicon.
package lexicon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrUnknownWord is returned when a word has no entry in the lexicon.
// An unknown word is fatal for the whole synthesis request.
var ErrUnknownWord = errors.New("word not in lexicon")

// Lexicon maps words to one or more phoneme sequences. Phonemes are stored
// normalized: lowercase with trailing stress digits stripped.
type Lexicon struct {
	entries map[string][][]string
}

// Load reads a pronouncing dictionary from path.
func Load(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()

	lex, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	return lex, nil
}

// Parse reads CMU dictionary lines from r. Each line is a headword followed
// by its phonemes; variant pronunciations carry a "(n)" suffix on the
// headword. Lines starting with ";;;" are comments.
func Parse(r io.Reader) (*Lexicon, error) {
	lex := &Lexicon{entries: make(map[string][][]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		word := strings.ToLower(fields[0])
		// Variant headwords look like "word(1)"; they share the base key.
		if i := strings.IndexByte(word, '('); i > 0 && strings.HasSuffix(word, ")") {
			word = word[:i]
		}

		phones := make([]string, 0, len(fields)-1)
		for _, p := range fields[1:] {
			phones = append(phones, normalizePhone(p))
		}
		lex.entries[word] = append(lex.entries[word], phones)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	if len(lex.entries) == 0 {
		return nil, errors.New("lexicon contains no entries")
	}
	return lex, nil
}

// normalizePhone lowercases a phoneme label and strips its stress digit.
func normalizePhone(p string) string {
	return strings.TrimRight(strings.ToLower(p), "012")
}

// Len returns the number of distinct headwords.
func (l *Lexicon) Len() int { return len(l.entries) }

// Lookup returns the first pronunciation of word. It fails with
// ErrUnknownWord when the word has no entry.
func (l *Lexicon) Lookup(word string) ([]string, error) {
	return l.LookupVariant(word, 0)
}

// LookupVariant returns the variant-th pronunciation of word, falling back
// to the first when that variant does not exist.
func (l *Lexicon) LookupVariant(word string, variant int) ([]string, error) {
	prons, ok := l.entries[strings.ToLower(word)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWord, word)
	}
	if variant < 0 || variant >= len(prons) {
		variant = 0
	}
	return prons[variant], nil
}

// Phonemes transcribes a word sequence into one flat phoneme sequence.
// The first unknown word aborts the whole transcription.
func (l *Lexicon) Phonemes(words []string) ([]string, error) {
	var phones []string
	for _, word := range words {
		p, err := l.Lookup(word)
		if err != nil {
			return nil, err
		}
		phones = append(phones, p...)
	}
	return phones, nil
}
