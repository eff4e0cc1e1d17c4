package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/floorsight/floorsight/internal/domain"
	"github.com/floorsight/floorsight/internal/transport"
)

// ImagePayload is one uploaded image handed to a vision-capable model
type ImagePayload struct {
	Data     []byte
	MIMEType string
}

// Provider defines the interface for AI completion providers. A provider
// backs both operations of the product: the one-shot floor-plan critique
// (vision completion) and the grounded conversational reply (text completion).
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// AnalyzeImage classifies the image and, for floor plans, produces the
	// structured critique. Non-floor-plan inputs yield the sentinel analysis.
	AnalyzeImage(ctx context.Context, image ImagePayload) (*domain.FloorPlanAnalysis, error)

	// Reply produces one assistant message grounded in the conversation
	// context's analysis and trailing message window.
	Reply(ctx context.Context, message string, conv domain.ConversationContext) (string, error)
}

// AnalysisRetry is the retry policy for vision completion calls: provider
// rate limits and server errors only, two extra attempts, linear backoff
// from 500ms.
var AnalysisRetry = transport.Policy{
	MaxRetries: 2,
	Backoff:    500 * time.Millisecond,
	RetryOn: func(status int) bool {
		return status == http.StatusTooManyRequests || status == http.StatusInternalServerError
	},
}

// ChatRetry is the retry policy for text completion calls: rate limits and
// any server error, three extra attempts, linear backoff from 1s.
var ChatRetry = transport.Policy{
	MaxRetries: 3,
	Backoff:    1 * time.Second,
	RetryOn: func(status int) bool {
		return status == http.StatusTooManyRequests || status >= 500
	},
}
