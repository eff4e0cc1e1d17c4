package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/floorsight/floorsight/internal/speech"
	"github.com/rs/zerolog/log"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	// The provider streams raw PCM-16 at 24kHz mono when asked for "pcm";
	// the client wraps it in a WAV container itself so the output format
	// never depends on provider-side encoding.
	pcmSampleRate = 24000
	pcmChannels   = 1
)

// Client synthesizes speech through the OpenAI audio API. Each call is a
// single unretried request; the full response stream is drained into one
// buffer before returning.
type Client struct {
	apiKey     string
	model      string
	voice      string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a new speech synthesis client
func NewClient(apiKey, model, voice, baseURL string, timeout time.Duration) *Client {
	if model == "" {
		model = "gpt-4o-mini-tts"
	}
	if voice == "" {
		voice = "alloy"
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		voice:      voice,
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "openai"
}

// IsConfigured checks if provider has valid credentials
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize requests audio for the text and returns it as WAV bytes.
// Absent stream, non-success status, and timeout all resolve to a single
// synthesis-failure error.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("speech synthesis failed: empty text")
	}

	body, err := json.Marshal(speechRequest{
		Model:          c.model,
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: "pcm",
	})
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("speech provider returned non-success status")
		return nil, fmt.Errorf("speech synthesis failed: provider returned status %d", resp.StatusCode)
	}

	pcm, err := speech.ReadStream(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("speech synthesis failed: provider returned no audio")
	}

	return speech.WrapPCM(pcm, pcmSampleRate, pcmChannels), nil
}
