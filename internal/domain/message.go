package domain

// Sender identifies which side of the conversation produced a message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ChatMessage is one turn of the floor-plan conversation. Messages live in
// memory for the duration of a session and are resent by the caller on every
// turn; nothing is persisted server-side.
type ChatMessage struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sender    Sender `json:"sender"`
	Timestamp int64  `json:"timestamp"` // epoch millis
}

// ConversationContext pairs the immutable analysis with the trailing window
// of recent messages. The assistant is stateless between calls, so the full
// relevant history travels with every request.
type ConversationContext struct {
	Analysis         FloorPlanAnalysis `json:"analysis"`
	PreviousMessages []ChatMessage     `json:"previousMessages"`
}

// HistoryWindow is the number of trailing messages forwarded to the model
const HistoryWindow = 5

// Window returns the trailing n messages, preserving order
func Window(messages []ChatMessage, n int) []ChatMessage {
	if n <= 0 || len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
