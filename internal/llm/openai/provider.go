package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/floorsight/floorsight/internal/domain"
	"github.com/floorsight/floorsight/internal/llm"
	"github.com/floorsight/floorsight/internal/transport"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Provider implements llm.Provider against the OpenAI chat completion API.
// All calls go through the shared transport client; the vision and chat
// operations carry their own retry policies.
type Provider struct {
	apiKey  string
	model   string
	baseURL string
	client  *transport.Client
}

// NewProvider creates a new OpenAI provider
func NewProvider(apiKey, model, baseURL string, client *transport.Client) *Provider {
	if model == "" {
		model = "gpt-4o"
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  client,
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "openai"
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// AnalyzeImage issues one vision completion carrying the fixed critique
// instruction and the image as a base64 data URL
func (p *Provider) AnalyzeImage(ctx context.Context, image llm.ImagePayload) (*domain.FloorPlanAnalysis, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", image.MIMEType, base64.StdEncoding.EncodeToString(image.Data))

	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: llm.AnalysisPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: "Analyze this image."},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			}},
		},
		Temperature: 0,
		MaxTokens:   2048,
	}

	content, err := p.complete(ctx, req, &llm.AnalysisRetry)
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

	messages := []chatMessage{{Role: "system", Content: system}}
	for _, prev := range domain.Window(conv.PreviousMessages, domain.HistoryWindow) {
		role := "user"
		if prev.Sender == domain.SenderAssistant {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: prev.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: message})

	req := chatRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1024,
	}

	return p.complete(ctx, req, &llm.ChatRetry)
}

func (p *Provider) complete(ctx context.Context, req chatRequest, policy *transport.Policy) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.apiKey)

	respBody, err := p.client.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		URL:         p.baseURL + "/chat/completions",
		Header:      header,
		Body:        body,
		ContentType: "application/json",
		Policy:      policy,
	})
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", llm.ErrEmptyResponse
	}

	choice := resp.Choices[0]
	switch choice.FinishReason {
	case "length":
		return "", llm.ErrTruncated
	case "content_filter":
		return "", llm.ErrContentFiltered
	}

	if choice.Message.Content == "" {
		return "", llm.ErrEmptyResponse
	}

	return choice.Message.Content, nil
}
