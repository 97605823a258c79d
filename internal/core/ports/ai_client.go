package ports

import "context"

// ChatMessage is a single turn in an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatChunk is one piece of a streamed completion. Final marks the last
// chunk; Err, when set, terminates the stream with a failure.
type ChatChunk struct {
	Content string
	Final   bool
	Err     error
}

// AIClient is the single capability the platform needs from a generative-AI
// backend: stream a completion for a system prompt plus conversation.
// The returned channel is closed after the final chunk.
type AIClient interface {
	StreamCompletion(ctx context.Context, systemPrompt string, messages []ChatMessage) (<-chan ChatChunk, error)
}
