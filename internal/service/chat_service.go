package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
	"github.com/arturoeanton/jal-rakshak/internal/metrics"
	"github.com/arturoeanton/jal-rakshak/internal/port"
)

// SystemPrompt is sent ahead of every user message.
const SystemPrompt = `You are 'Jal-Rakshak AI', a compassionate, reliable, and knowledgeable public health assistant focused on water-borne diseases.
Help users understand symptoms, prevention, safe drinking water practices, sanitation, and when to seek medical care.
Answer in clear, simple language. Keep answers short and practical.
You are not a doctor: for severe symptoms such as persistent diarrhoea, dehydration, high fever, or blood in stool, tell the user to contact a health professional or the nearest health centre immediately.
If a question is unrelated to health, water, or sanitation, politely steer the conversation back.`

// ChatService forwards single questions to the completion gateway.
type ChatService struct {
	ai      port.AIProvider
	metrics metrics.Recorder
}

// NewChatService creates a new chat service.
func NewChatService(ai port.AIProvider, rec metrics.Recorder) *ChatService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &ChatService{ai: ai, metrics: rec}
}

// Reply sends the system prompt and message as a two-turn conversation and
// returns the model's answer. The message is forwarded as-is, even when
// empty. A blank answer is reported as port.ErrEmptyCompletion.
func (s *ChatService) Reply(ctx context.Context, message string) (string, error) {
	reply, err := s.ai.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: SystemPrompt},
		{Role: domain.RoleUser, Content: message},
	})
	if err != nil {
		s.metrics.UpstreamFailure(metrics.UpstreamCompletion)
		return "", fmt.Errorf("chat with %s: %w", s.ai.ModelName(), err)
	}
	if strings.TrimSpace(reply) == "" {
		s.metrics.UpstreamFailure(metrics.UpstreamCompletion)
		return "", fmt.Errorf("chat with %s: %w", s.ai.ModelName(), port.ErrEmptyCompletion)
	}
	return reply, nil
}
