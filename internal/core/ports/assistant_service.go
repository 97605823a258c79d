package ports

import (
	"context"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
)

// ChatInput is one assistant request: the target domain selects the system
// prompt, Context optionally carries record details the question refers to.
type ChatInput struct {
	Domain  string
	Message string
	Context string
	History []ChatMessage
}

// AssistantService streams domain-scoped AI completions.
type AssistantService interface {
	Chat(ctx context.Context, actor *domain.User, input ChatInput) (<-chan ChatChunk, error)
}
