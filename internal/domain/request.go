package domain

// ChatRequest is the body of a chat turn. The caller resends the analysis and
// recent history on every turn; the server holds no conversation state.
type ChatRequest struct {
	Message string               `json:"message" validate:"required"`
	Context *ConversationContext `json:"context" validate:"required"`
}

// SpeakRequest is the body of a speech synthesis call
type SpeakRequest struct {
	Text string `json:"text" validate:"required"`
}
