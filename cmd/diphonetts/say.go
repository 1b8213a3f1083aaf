package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/go-diphone-tts/internal/audio"
	"github.com/example/go-diphone-tts/internal/config"
	"github.com/example/go-diphone-tts/internal/synth"
	"github.com/spf13/cobra"
)

func newSayCmd() *cobra.Command {
	var textFlag string
	var out string
	var play bool

	cmd := &cobra.Command{
		Use:   "say",
		Short: "Synthesize text and play or save it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			input, err := readSayText(textFlag, os.Stdin)
			if err != nil {
				return err
			}

			svc, err := synth.NewService(cfg)
			if err != nil {
				return err
			}

			buf, err := svc.Synthesize(input)
			if err != nil {
				return fmt.Errorf("synthesis failed: %w", err)
			}

			if out != "" {
				data, err := audio.EncodeWAV(buf)
				if err != nil {
					return fmt.Errorf("encode output WAV: %w", err)
				}
				if err := writeWAVOutput(out, data, os.Stdout); err != nil {
					return err
				}
			}

			if play {
				if err := playBuffer(buf, cfg.Audio.ChunkFrames); err != nil {
					return fmt.Errorf("playback failed: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&textFlag, "text", "", "Text to synthesize (if empty, read from stdin)")
	cmd.Flags().StringVar(&out, "out", "", "Save the output WAV to this path ('-' for stdout)")
	cmd.Flags().BoolVar(&play, "play", true, "Play the output audio")
	config.RegisterFlags(cmd.Flags(), config.DefaultConfig())

	return cmd
}

// playBuffer acquires the output device for the duration of one playback.
func playBuffer(buf *audio.Buffer, chunkFrames int) error {
	dev, err := audio.OpenDevice()
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()

	return audio.Play(dev, buf, chunkFrames)
}

func writeWAVOutput(outPath string, wavData []byte, stdout io.Writer) error {
	if outPath == "-" {
		if stdout == nil {
			return fmt.Errorf("stdout writer is nil")
		}
		_, err := stdout.Write(wavData)
		return err
	}
	return os.WriteFile(outPath, wavData, 0o644)
}

func readSayText(text string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	input := strings.TrimSpace(string(b))
	if input == "" {
		return "", fmt.Errorf("either provide --text or pipe text on stdin")
	}
	return input, nil
}
