package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/arturoeanton/jal-rakshak/internal/domain"
	"github.com/arturoeanton/jal-rakshak/internal/port"
)

// OpenRouterConfig holds the configuration for an OpenAI-compatible gateway.
type OpenRouterConfig struct {
	BaseURL   string // e.g. https://openrouter.ai/api/v1
	Model     string // e.g. meta-llama/llama-3.2-3b-instruct:free
	APIKey    string
	SiteURL   string // HTTP-Referer, used by OpenRouter for attribution
	SiteTitle string // X-Title
}

// OpenRouterProvider implements port.AIProvider using the chat/completions API.
type OpenRouterProvider struct {
	cfg        OpenRouterConfig
	httpClient *http.Client
}

// NewOpenRouterProvider creates a completion client. A nil httpClient uses
// a default client with no timeout of its own.
func NewOpenRouterProvider(cfg OpenRouterConfig, httpClient *http.Client) *OpenRouterProvider {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenRouterProvider{cfg: cfg, httpClient: httpClient}
}

// ModelName returns the chat model identifier.
func (o *OpenRouterProvider) ModelName() string {
	return o.cfg.Model
}

type chatCompletionRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation and returns the first choice's content.
func (o *OpenRouterProvider) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	payload := chatCompletionRequest{
		Model:    o.cfg.Model,
		Messages: messages,
	}

	body, err := o.post(ctx, "/chat/completions", payload)
	if err != nil {
		return "", fmt.Errorf("openrouter chat: %w", err)
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("openrouter chat decode: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter chat: %w", port.ErrEmptyCompletion)
	}

	return resp.Choices[0].Message.Content, nil
}

// post is a helper for authenticated JSON POST requests to the gateway.
func (o *OpenRouterProvider) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+path, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	if o.cfg.SiteURL != "" {
		req.Header.Set("HTTP-Referer", o.cfg.SiteURL)
	}
	if o.cfg.SiteTitle != "" {
		req.Header.Set("X-Title", o.cfg.SiteTitle)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openrouter API error (%d): %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
