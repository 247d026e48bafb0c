package googletts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfnarrator/internal/model"
)

type fakeClient struct {
	reqs   []*texttospeechpb.SynthesizeSpeechRequest
	err    error
	closed bool
}

func (f *fakeClient) SynthesizeSpeech(_ context.Context, req *texttospeechpb.SynthesizeSpeechRequest, _ ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &texttospeechpb.SynthesizeSpeechResponse{AudioContent: []byte("ID3-part")}, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestSynthesize_Request(t *testing.T) {
	fc := &fakeClient{}
	s := &Synthesizer{client: fc}

	out, err := s.Synthesize(context.Background(), "bonjour", model.French, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-part"), out)

	require.Len(t, fc.reqs, 1)
	req := fc.reqs[0]
	assert.Equal(t, "bonjour", req.GetInput().GetText())
	assert.Equal(t, "fr-FR", req.GetVoice().GetLanguageCode())
	assert.Equal(t, texttospeechpb.AudioEncoding_MP3, req.GetAudioConfig().GetAudioEncoding())
	assert.Equal(t, slowRate, req.GetAudioConfig().GetSpeakingRate())
}

func TestSynthesize_VoicesForEveryLanguage(t *testing.T) {
	for _, lang := range model.Languages() {
		_, ok := voices[lang]
		assert.True(t, ok, "missing voice for %s", lang)
	}
}

func TestSynthesize_LongTextIsChunked(t *testing.T) {
	fc := &fakeClient{}
	s := &Synthesizer{client: fc}

	text := strings.Repeat("This is a sentence. ", 600) // ~12000 bytes
	out, err := s.Synthesize(context.Background(), text, model.English, false)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(fc.reqs), 3)
	for _, req := range fc.reqs {
		assert.LessOrEqual(t, len(req.GetInput().GetText()), maxInputBytes)
		assert.Equal(t, 1.0, req.GetAudioConfig().GetSpeakingRate())
	}
	assert.Equal(t, strings.Repeat("ID3-part", len(fc.reqs)), string(out))
}

func TestSynthesize_Errors(t *testing.T) {
	s := &Synthesizer{client: &fakeClient{err: errors.New("permission denied")}}
	_, err := s.Synthesize(context.Background(), "hallo", model.German, false)
	assert.ErrorContains(t, err, "chunk 1/1")
	assert.ErrorContains(t, err, "permission denied")

	_, err = s.Synthesize(context.Background(), "ciao", model.Language("it"), false)
	assert.ErrorContains(t, err, "no voice")

	_, err = s.Synthesize(context.Background(), "   ", model.English, false)
	assert.Error(t, err)
}

func TestNameAndClose(t *testing.T) {
	fc := &fakeClient{}
	s := &Synthesizer{client: fc}
	assert.Equal(t, "google", s.Name())
	require.NoError(t, s.Close())
	assert.True(t, fc.closed)
}
