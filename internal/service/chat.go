package service

import (
	"context"
	"strings"
	"time"

	"github.com/floorsight/floorsight/internal/domain"
	"github.com/floorsight/floorsight/internal/llm"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChatService produces assistant replies grounded in a fixed analysis and a
// short trailing conversation window. Unlike the analysis service it never
// degrades: provider failures propagate so the caller can render an apology.
type ChatService struct {
	provider llm.Provider
}

// NewChatService creates a new chat service
func NewChatService(provider llm.Provider) *ChatService {
	return &ChatService{provider: provider}
}

// Reply answers one user message in scope of the conversation context. The
// history window is truncated to the trailing messages before the provider
// call regardless of what the caller sent.
func (s *ChatService) Reply(ctx context.Context, message string, conv domain.ConversationContext) (*domain.ChatMessage, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	conv.PreviousMessages = domain.Window(conv.PreviousMessages, domain.HistoryWindow)

	start := time.Now()
	text, err := s.provider.Reply(ctx, message, conv)
	if err != nil {
		log.Error().Err(err).Str("provider", s.provider.Name()).Msg("chat completion failed")
		return nil, err
	}

	log.Debug().
		Dur("latency", time.Since(start)).
		Int("history", len(conv.PreviousMessages)).
		Msg("chat completion succeeded")

	return &domain.ChatMessage{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    domain.SenderAssistant,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}
