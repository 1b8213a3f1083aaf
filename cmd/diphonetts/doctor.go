package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/go-diphone-tts/internal/audio"
	"github.com/example/go-diphone-tts/internal/diphone"
	"github.com/example/go-diphone-tts/internal/doctor"
	"github.com/example/go-diphone-tts/internal/lexicon"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var noAudio bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local lexicon, asset, and device checks",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			// Every utterance needs the silence recording, so its absence is
			// always worth flagging up front.
			silenceAsset := filepath.Join(cfg.Paths.DiphoneDir, diphone.Diphone{}.AssetID())

			dcfg := doctor.Config{
				Lexicon: func() (string, error) {
					lex, err := lexicon.Load(cfg.Paths.LexiconPath)
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%d entries (%s)", lex.Len(), cfg.Paths.LexiconPath), nil
				},
				DiphoneDir:      cfg.Paths.DiphoneDir,
				RequiredAssets:  []string{silenceAsset},
				DecodeAsset:     probeAssetDecodes,
				AudioDevice:     probeAudioDevice,
				SkipAudioDevice: noAudio,
			}

			result := doctor.Run(dcfg, os.Stdout)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().BoolVar(&noAudio, "no-audio", false, "Skip the audio device probe")

	return cmd
}

// probeAssetDecodes checks that an asset file parses as 16-bit PCM WAV.
func probeAssetDecodes(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = audio.DecodeWAV(data)
	return err
}

// probeAudioDevice initializes and releases the host playback backend.
func probeAudioDevice() (string, error) {
	dev, err := audio.OpenDevice()
	if err != nil {
		return "", err
	}
	if err := dev.Close(); err != nil {
		return "", err
	}
	return "ok", nil
}
