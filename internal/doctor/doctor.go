// Package doctor provides environment preflight checks for diphonetts.
package doctor

import (
	"fmt"
	"io"
	"os"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// ProbeFunc performs one check and returns a short status string or an
// error if the component is unavailable.
type ProbeFunc func() (string, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// Lexicon loads the pronouncing dictionary and reports its size.
	Lexicon ProbeFunc
	// DiphoneDir is the diphone asset directory to verify on disk.
	DiphoneDir string
	// RequiredAssets are asset file paths that must exist and decode,
	// e.g. the silence recording every utterance needs.
	RequiredAssets []string
	// DecodeAsset validates that an asset file decodes as 16-bit PCM WAV.
	DecodeAsset func(path string) error
	// AudioDevice probes the host playback backend.
	AudioDevice ProbeFunc
	// SkipAudioDevice skips the device probe (save-only environments).
	SkipAudioDevice bool
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- lexicon ----------------------------------------------------------
	if cfg.Lexicon != nil {
		info, err := cfg.Lexicon()
		if err != nil {
			res.fail(fmt.Sprintf("lexicon: %v", err))
			fmt.Fprintf(w, "%s lexicon: %v\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s lexicon: %s\n", PassMark, info)
		}
	}

	// ---- diphone directory ------------------------------------------------
	if cfg.DiphoneDir != "" {
		info, err := os.Stat(cfg.DiphoneDir)
		switch {
		case err != nil:
			res.fail(fmt.Sprintf("diphone dir %q: %v", cfg.DiphoneDir, err))
			fmt.Fprintf(w, "%s diphone dir %s: not found\n", FailMark, cfg.DiphoneDir)
		case !info.IsDir():
			res.fail(fmt.Sprintf("diphone dir %q: not a directory", cfg.DiphoneDir))
			fmt.Fprintf(w, "%s diphone dir %s: not a directory\n", FailMark, cfg.DiphoneDir)
		default:
			fmt.Fprintf(w, "%s diphone dir: %s\n", PassMark, cfg.DiphoneDir)
		}
	}

	// ---- required assets --------------------------------------------------
	for _, path := range cfg.RequiredAssets {
		if _, err := os.Stat(path); err != nil {
			res.fail(fmt.Sprintf("diphone asset %q: %v", path, err))
			fmt.Fprintf(w, "%s diphone asset %s: not found\n", FailMark, path)
			continue
		}
		if cfg.DecodeAsset != nil {
			if err := cfg.DecodeAsset(path); err != nil {
				res.fail(fmt.Sprintf("diphone asset %q: %v", path, err))
				fmt.Fprintf(w, "%s diphone asset %s: %v\n", FailMark, path, err)
				continue
			}
		}
		fmt.Fprintf(w, "%s diphone asset: %s\n", PassMark, path)
	}

	// ---- audio device -----------------------------------------------------
	if cfg.SkipAudioDevice {
		fmt.Fprintf(w, "%s audio device: skipped\n", PassMark)
	} else if cfg.AudioDevice != nil {
		info, err := cfg.AudioDevice()
		if err != nil {
			res.fail(fmt.Sprintf("audio device: %v", err))
			fmt.Fprintf(w, "%s audio device: %v\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s audio device: %s\n", PassMark, info)
		}
	}

	return res
}
