// Package diphone expands phoneme sequences into diphones and resolves
// each diphone to its recorded asset name.
package diphone

// SilenceToken is the label used for a silence endpoint in asset names.
const SilenceToken = "pau"

// Diphone is a pair of adjacent phonemes. An empty field marks silence at
// an utterance boundary. Both fields are empty only for the degenerate
// silence-only utterance.
type Diphone struct {
	Left  string
	Right string
}

// Window expands a phoneme sequence of length n into its n+1 diphones:
// a leading (silence, first), every adjacent pair in order, and a trailing
// (last, silence). An empty sequence yields the single silence-silence
// diphone. Repeats are preserved; deduplication happens at the asset cache.
func Window(phonemes []string) []Diphone {
	if len(phonemes) == 0 {
		return []Diphone{{}}
	}

	out := make([]Diphone, 0, len(phonemes)+1)
	out = append(out, Diphone{Right: phonemes[0]})
	for i := 0; i+1 < len(phonemes); i++ {
		out = append(out, Diphone{Left: phonemes[i], Right: phonemes[i+1]})
	}
	out = append(out, Diphone{Left: phonemes[len(phonemes)-1]})
	return out
}

// AssetID returns the file name of the recording for this diphone,
// e.g. "k-ae.wav" or "pau-k.wav".
func (d Diphone) AssetID() string {
	return orSilence(d.Left) + "-" + orSilence(d.Right) + ".wav"
}

// String renders the diphone as "left-right" with silence spelled out.
func (d Diphone) String() string {
	return orSilence(d.Left) + "-" + orSilence(d.Right)
}

func orSilence(p string) string {
	if p == "" {
		return SilenceToken
	}
	return p
}
