package service

import (
	"context"
	"strings"

	"github.com/floorsight/floorsight/internal/speech"
	"github.com/rs/zerolog/log"
)

// SpeechService synthesizes an audio waveform for a text string
type SpeechService struct {
	synthesizer speech.Synthesizer
}

// NewSpeechService creates a new speech service
func NewSpeechService(synthesizer speech.Synthesizer) *SpeechService {
	return &SpeechService{synthesizer: synthesizer}
}

// Speak returns WAV audio for the text. One provider call, no retry; any
// failure propagates as a single synthesis error.
func (s *SpeechService) Speak(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	audio, err := s.synthesizer.Synthesize(ctx, text)
	if err != nil {
		log.Error().Err(err).Str("provider", s.synthesizer.Name()).Msg("speech synthesis failed")
		return nil, err
	}

	return audio, nil
}
