package llm

import (
	"context"
	"testing"

	"github.com/floorsight/floorsight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name       string
	configured bool
}

func (s *stubProvider) Name() string       { return s.name }
func (s *stubProvider) IsConfigured() bool { return s.configured }

func (s *stubProvider) AnalyzeImage(ctx context.Context, image ImagePayload) (*domain.FloorPlanAnalysis, error) {
	return nil, nil
}

func (s *stubProvider) Reply(ctx context.Context, message string, conv domain.ConversationContext) (string, error) {
	return "", nil
}

func TestGetProviderFallsBackToDefault(t *testing.T) {
	r := NewRouter("openai")
	r.RegisterProvider(&stubProvider{name: "openai", configured: true})
	r.RegisterProvider(&stubProvider{name: "gemini", configured: true})

	p, err := r.GetProvider("")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	p, err = r.GetProvider("gemini")
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
}

func TestGetProviderRejectsUnknown(t *testing.T) {
	r := NewRouter("openai")

	_, err := r.GetProvider("mistral")
	assert.Error(t, err)
}

func TestGetProviderRejectsUnconfigured(t *testing.T) {
	r := NewRouter("openai")
	r.RegisterProvider(&stubProvider{name: "openai", configured: false})

	_, err := r.GetProvider("openai")
	assert.Error(t, err)
}

func TestGetProvidersInfoMarksDefault(t *testing.T) {
	r := NewRouter("gemini")
	r.RegisterProvider(&stubProvider{name: "openai", configured: true})
	r.RegisterProvider(&stubProvider{name: "gemini", configured: true})

	infos := r.GetProvidersInfo()
	require.Len(t, infos, 2)

	for _, info := range infos {
		assert.Equal(t, info.Name == "gemini", info.Default)
		assert.True(t, info.Configured)
	}
}
