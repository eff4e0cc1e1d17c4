package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/floorsight/floorsight/internal/api/response"
	"github.com/floorsight/floorsight/internal/domain"
	"github.com/floorsight/floorsight/internal/llm"
	"github.com/floorsight/floorsight/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// ChatHandler handles conversation endpoints
type ChatHandler struct {
	chatService *service.ChatService
	verbose     bool
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, verbose bool) *ChatHandler {
	return &ChatHandler{chatService: chatService, verbose: verbose}
}

// Chat answers one user message grounded in the supplied analysis and history
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	msg, err := h.chatService.Reply(r.Context(), req.Message, *req.Context)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			response.BadRequest(w, "message must not be empty")
		case llm.IsTimeout(err):
			// The chat contract is 400 or 500; timeouts are not surfaced as a
			// gateway status the way analysis surfaces them.
			response.InternalError(w, h.message("chat provider timed out", err))
		default:
			log.Error().Err(err).Msg("chat request failed")
			response.InternalError(w, h.message("chat completion failed", err))
		}
		return
	}

	response.OK(w, map[string]any{
		"message": msg,
	})
}

func (h *ChatHandler) message(public string, err error) string {
	if h.verbose {
		return err.Error()
	}
	return public
}
