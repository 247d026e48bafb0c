package mocks

import (
	"context"
	"io"

	"pdfnarrator/internal/model"
	"pdfnarrator/internal/pipeline"
	"pdfnarrator/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockTranscriptService struct {
	mock.Mock
}

func (m *MockTranscriptService) Extract(ctx context.Context, r io.Reader, filename string, progress pipeline.ProgressFunc) (*model.TranscriptResult, error) {
	args := m.Called(ctx, r, filename, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranscriptResult), args.Error(1)
}

func (m *MockTranscriptService) ExtractObject(ctx context.Context, key string, progress pipeline.ProgressFunc) (*model.TranscriptResult, error) {
	args := m.Called(ctx, key, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranscriptResult), args.Error(1)
}

func (m *MockTranscriptService) Narrate(ctx context.Context, text string, language string, slow bool) (*model.AudioClip, error) {
	args := m.Called(ctx, text, language, slow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AudioClip), args.Error(1)
}

func (m *MockTranscriptService) Capabilities() service.Capabilities {
	args := m.Called()
	return args.Get(0).(service.Capabilities)
}
