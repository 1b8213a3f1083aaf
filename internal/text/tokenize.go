// Package text prepares raw input text for phonemic transcription.
package text

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

// ErrNonAlphabetic is returned when a token contains characters the lexicon
// cannot transcribe (digits, symbols, mixed scripts).
var ErrNonAlphabetic = errors.New("text must only contain alphabetic characters")

// Normalize trims surrounding whitespace and normalizes line endings to \n.
// It rejects empty or whitespace-only input with ErrEmptyText.
func Normalize(s string) (string, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSpace(s)

	if s == "" {
		return "", ErrEmptyText
	}
	return s, nil
}

// Tokenize splits normalized text into lowercase words. Surrounding
// punctuation is stripped and tokens that are punctuation-only are dropped.
// A token that still contains a non-alphabetic character after stripping
// fails with ErrNonAlphabetic: the whole request aborts before any
// transcription or asset work begins.
func Tokenize(s string) ([]string, error) {
	var words []string
	for _, field := range strings.Fields(s) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if word == "" {
			continue
		}
		for _, r := range word {
			if !unicode.IsLetter(r) {
				return nil, fmt.Errorf("%w: token %q", ErrNonAlphabetic, field)
			}
		}
		words = append(words, strings.ToLower(word))
	}
	return words, nil
}
