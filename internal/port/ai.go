package port

import (
	"context"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
)

// AIProvider abstracts the hosted chat-completion gateway.
type AIProvider interface {
	// ModelName returns the identifier of the model being used.
	ModelName() string

	// Complete submits the conversation and returns the first choice's text.
	Complete(ctx context.Context, messages []domain.ChatMessage) (string, error)
}
