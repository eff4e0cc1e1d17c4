package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/floorsight/floorsight/internal/domain"
	"github.com/floorsight/floorsight/internal/llm"
	"github.com/floorsight/floorsight/internal/transport"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Provider implements llm.Provider on the Gemini SDK. The SDK owns its HTTP
// transport, so retries run through transport.Retry with the same policies
// the HTTP providers use.
type Provider struct {
	apiKey string
	model  string
	sleep  transport.SleepFunc
}

// NewProvider creates a new Gemini provider
func NewProvider(apiKey, model string) *Provider {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Provider{apiKey: apiKey, model: model}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "gemini"
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// AnalyzeImage issues one vision completion with the fixed critique instruction
func (p *Provider) AnalyzeImage(ctx context.Context, image llm.ImagePayload) (*domain.FloorPlanAnalysis, error) {
	subtype := strings.TrimPrefix(image.MIMEType, "image/")

	content, err := p.generate(ctx, llm.AnalysisRetry, 0,
		genai.Text(llm.AnalysisPrompt),
		genai.ImageData(subtype, image.Data),
	)
	if err != nil {
		return nil, err
	}

	return llm.ParseAnalysis(content)
}

// Reply issues one text completion grounded in the conversation context
func (p *Provider) Reply(ctx context.Context, message string, conv domain.ConversationContext) (string, error) {
	system, err := llm.BuildChatPrompt(conv.Analysis)
	if err != nil {
		return "", err
	}

	// Gemini takes one flat prompt; fold the window into labelled turns.
	var sb strings.Builder
	sb.WriteString(system)
	sb.WriteString("\n\nConversation so far:\n")
	for _, prev := range domain.Window(conv.PreviousMessages, domain.HistoryWindow) {
		sb.WriteString(string(prev.Sender))
		sb.WriteString(": ")
		sb.WriteString(prev.Text)
		sb.WriteString("\n")
	}
	sb.WriteString("user: ")
	sb.WriteString(message)

	return p.generate(ctx, llm.ChatRetry, 0.7, genai.Text(sb.String()))
}

func (p *Provider) generate(ctx context.Context, policy transport.Policy, temperature float32, parts ...genai.Part) (string, error) {
	if !p.IsConfigured() {
		return "", fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.Temperature = &temperature

	var content string
	err = transport.Retry(ctx, policy, p.sleep, statusOf, func(ctx context.Context) error {
		resp, genErr := model.GenerateContent(ctx, parts...)
		if genErr != nil {
			return genErr
		}

		content, genErr = extractText(resp)
		return genErr
	})
	if err != nil {
		return "", err
	}

	return content, nil
}

// statusOf maps an SDK error to its HTTP status for retry classification
func statusOf(err error) int {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", llm.ErrContentFiltered
		}
		return "", llm.ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety:
		return "", llm.ErrContentFiltered
	case genai.FinishReasonMaxTokens:
		return "", llm.ErrTruncated
	}

	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", llm.ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if sb.Len() == 0 {
		return "", llm.ErrEmptyResponse
	}

	return sb.String(), nil
}
