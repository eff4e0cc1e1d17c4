package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/floorsight/floorsight/internal/api/response"
	"github.com/floorsight/floorsight/internal/domain"
	"github.com/floorsight/floorsight/internal/service"
	"github.com/rs/zerolog/log"
)

// SpeakHandler handles speech synthesis endpoints
type SpeakHandler struct {
	speechService *service.SpeechService
	verbose       bool
}

// NewSpeakHandler creates a new speak handler. speechService may be nil when
// no synthesis credentials are configured.
func NewSpeakHandler(speechService *service.SpeechService, verbose bool) *SpeakHandler {
	return &SpeakHandler{speechService: speechService, verbose: verbose}
}

// Speak converts text to a playable WAV clip
func (h *SpeakHandler) Speak(w http.ResponseWriter, r *http.Request) {
	if h.speechService == nil {
		response.ServiceUnavailable(w, "speech synthesis is not configured")
		return
	}

	var req domain.SpeakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	audio, err := h.speechService.Speak(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, service.ErrEmptyText) {
			response.BadRequest(w, "text must not be empty")
			return
		}
		log.Error().Err(err).Msg("speech request failed")
		response.InternalError(w, h.message("speech synthesis failed", err))
		return
	}

	response.Audio(w, "audio/wav", audio)
}

func (h *SpeakHandler) message(public string, err error) string {
	if h.verbose {
		return err.Error()
	}
	return public
}
