package text

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Run("trims and normalizes line endings", func(t *testing.T) {
		got, err := Normalize("  hello\r\nworld\r ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "hello\nworld" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("rejects whitespace-only input", func(t *testing.T) {
		_, err := Normalize("   \n\t")
		if !errors.Is(err, ErrEmptyText) {
			t.Fatalf("expected ErrEmptyText, got %v", err)
		}
	})
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		wantErr error
	}{
		{name: "lowercases words", in: "Hello World", want: []string{"hello", "world"}},
		{name: "strips surrounding punctuation", in: "wait, stop!", want: []string{"wait", "stop"}},
		{name: "drops punctuation-only tokens", in: "yes - no", want: []string{"yes", "no"}},
		{name: "empty input yields no words", in: "", want: nil},
		{name: "rejects digits", in: "xyz123", wantErr: ErrNonAlphabetic},
		{name: "rejects mixed symbol tokens", in: "a+b", wantErr: ErrNonAlphabetic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
