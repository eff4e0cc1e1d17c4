package service

import (
	"context"

	"github.com/floorsight/floorsight/internal/domain"
	"github.com/floorsight/floorsight/internal/llm"
	"github.com/stretchr/testify/mock"
)

// MockProvider mocks llm.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockProvider) AnalyzeImage(ctx context.Context, image llm.ImagePayload) (*domain.FloorPlanAnalysis, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FloorPlanAnalysis), args.Error(1)
}

func (m *MockProvider) Reply(ctx context.Context, message string, conv domain.ConversationContext) (string, error) {
	args := m.Called(ctx, message, conv)
	return args.String(0), args.Error(1)
}

// MockSynthesizer mocks speech.Synthesizer
type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSynthesizer) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockAnalysisCache mocks AnalysisCache
type MockAnalysisCache struct {
	mock.Mock
}

func (m *MockAnalysisCache) Get(ctx context.Context, digest string) (*domain.FloorPlanAnalysis, error) {
	args := m.Called(ctx, digest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FloorPlanAnalysis), args.Error(1)
}

func (m *MockAnalysisCache) Set(ctx context.Context, digest string, analysis *domain.FloorPlanAnalysis) error {
	args := m.Called(ctx, digest, analysis)
	return args.Error(0)
}
