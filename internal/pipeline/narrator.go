package pipeline

import (
	"context"
	"fmt"
	"strings"

	"pdfnarrator/internal/model"
	"pdfnarrator/internal/speech"
)

// Synthesizer converts text to MP3 audio.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string, lang model.Language, slow bool) ([]byte, error)
}

// Narrator produces speech for a finished transcript. It is only ever invoked
// on explicit request; extraction never calls it.
type Narrator struct {
	synth Synthesizer
}

// NewNarrator returns a Narrator backed by s.
func NewNarrator(s Synthesizer) *Narrator {
	return &Narrator{synth: s}
}

// Provider returns the name of the speech capability in use.
func (n *Narrator) Provider() string { return n.synth.Name() }

// Narrate synthesizes text in lang and returns the MP3 clip.
func (n *Narrator) Narrate(ctx context.Context, text string, lang model.Language, slow bool) (*model.AudioClip, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTranscript
	}
	if !lang.Supported() {
		return nil, fmt.Errorf("%w: %w: %q", ErrSynthesis, ErrUnsupportedLanguage, lang)
	}

	data, err := n.synth.Synthesize(ctx, text, lang, slow)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSynthesis, n.synth.Name(), err)
	}
	if !speech.LooksLikeMP3(data) {
		return nil, fmt.Errorf("%w: %s returned %d bytes that are not MP3", ErrSynthesis, n.synth.Name(), len(data))
	}
	return model.NewAudioClip(data, lang, n.synth.Name()), nil
}
