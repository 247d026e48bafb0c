// Package googletts synthesizes speech with Google Cloud Text-to-Speech.
package googletts

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"pdfnarrator/internal/model"
	"pdfnarrator/internal/speech"
)

// maxInputBytes stays under the 5000-byte request limit of the API.
const maxInputBytes = 4500

const slowRate = 0.75

var voices = map[model.Language]string{
	model.English: "en-US",
	model.Spanish: "es-ES",
	model.French:  "fr-FR",
	model.German:  "de-DE",
	model.Hindi:   "hi-IN",
}

type speechClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

// Synthesizer produces MP3 audio via the Cloud Text-to-Speech API.
type Synthesizer struct {
	client speechClient
}

// New creates a client using Application Default Credentials, or apiKey when set.
func New(ctx context.Context, apiKey string) (*Synthesizer, error) {
	var opts []option.ClientOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("texttospeech.NewClient: %w", err)
	}
	return &Synthesizer{client: client}, nil
}

func (s *Synthesizer) Name() string { return "google" }

// Synthesize converts text to MP3. Long text is sent in several requests and
// the resulting MP3 streams are concatenated.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, lang model.Language, slow bool) ([]byte, error) {
	code, ok := voices[lang]
	if !ok {
		return nil, fmt.Errorf("no voice for language %q", lang)
	}
	rate := 1.0
	if slow {
		rate = slowRate
	}

	chunks := speech.Chunk(text, maxInputBytes)
	if len(chunks) == 0 {
		return nil, errors.New("nothing to synthesize")
	}

	var out bytes.Buffer
	for i, chunk := range chunks {
		resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: code,
				SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
			},
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding: texttospeechpb.AudioEncoding_MP3,
				SpeakingRate:  rate,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		out.Write(resp.GetAudioContent())
	}
	return out.Bytes(), nil
}

// Close releases the client connection.
func (s *Synthesizer) Close() error {
	return s.client.Close()
}
