package openaitts

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfnarrator/internal/model"
)

type fakeCreator struct {
	reqs []openai.CreateSpeechRequest
	err  error
}

func (f *fakeCreator) CreateSpeech(_ context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return openai.RawResponse{}, f.err
	}
	return openai.RawResponse{ReadCloser: io.NopCloser(strings.NewReader("ID3-mp3"))}, nil
}

func TestNew(t *testing.T) {
	_, err := New("", "", "", "")
	assert.Error(t, err)

	s, err := New("sk-test", "http://localhost:9999/v1", "", "")
	require.NoError(t, err)
	assert.Equal(t, openai.TTSModel1, s.model)
	assert.Equal(t, openai.VoiceAlloy, s.voice)
	assert.Equal(t, "openai", s.Name())

	s, err = New("sk-test", "", "tts-1-hd", "nova")
	require.NoError(t, err)
	assert.Equal(t, openai.SpeechModel("tts-1-hd"), s.model)
	assert.Equal(t, openai.SpeechVoice("nova"), s.voice)
}

func TestSynthesize(t *testing.T) {
	fc := &fakeCreator{}
	s := &Synthesizer{client: fc, model: openai.TTSModel1, voice: openai.VoiceAlloy}

	out, err := s.Synthesize(context.Background(), "hola mundo", model.Spanish, true)
	require.NoError(t, err)
	assert.Equal(t, "ID3-mp3", string(out))

	require.Len(t, fc.reqs, 1)
	assert.Equal(t, "hola mundo", fc.reqs[0].Input)
	assert.Equal(t, openai.SpeechResponseFormatMp3, fc.reqs[0].ResponseFormat)
	assert.Equal(t, slowSpeed, fc.reqs[0].Speed)
}

func TestSynthesize_Chunks(t *testing.T) {
	fc := &fakeCreator{}
	s := &Synthesizer{client: fc, model: openai.TTSModel1, voice: openai.VoiceAlloy}

	_, err := s.Synthesize(context.Background(), strings.Repeat("word ", 2000), model.English, false)
	require.NoError(t, err)
	assert.Len(t, fc.reqs, 3)
	for _, r := range fc.reqs {
		assert.LessOrEqual(t, len(r.Input), maxInputChars)
		assert.Equal(t, 1.0, r.Speed)
	}
}

func TestSynthesize_Errors(t *testing.T) {
	s := &Synthesizer{client: &fakeCreator{err: errors.New("429 rate limited")}}
	_, err := s.Synthesize(context.Background(), "hello", model.English, false)
	assert.ErrorContains(t, err, "429 rate limited")

	_, err = s.Synthesize(context.Background(), "hello", model.Language("xx"), false)
	assert.ErrorContains(t, err, "not supported")
}
