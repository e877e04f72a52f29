package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// BackendError is a non-success answer from the Jal-Rakshak API. Message is
// the server's own wording.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return e.Message
}

// Backend calls the Jal-Rakshak API.
type Backend struct {
	baseURL    string
	httpClient *http.Client
}

// NewBackend creates a client for the API at baseURL. A nil httpClient uses
// http.DefaultClient.
func NewBackend(baseURL string, httpClient *http.Client) *Backend {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Backend{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Register creates an email/password account and returns its uid.
func (b *Backend) Register(ctx context.Context, email, password, name string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	if err != nil {
		return "", fmt.Errorf("backend: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/register", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		UID string `json:"uid"`
	}
	if err := b.do(req, http.StatusCreated, &out); err != nil {
		return "", err
	}
	return out.UID, nil
}

// NotifySocialLogin tells the API about a federated sign-in so the user's
// profile exists.
func (b *Backend) NotifySocialLogin(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/handle-social-login", nil)
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return b.do(req, http.StatusOK, nil)
}

func (b *Backend) do(req *http.Request, want int, out interface{}) error {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read response: %w", err)
	}

	if resp.StatusCode != want {
		return &BackendError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

// errorMessage reads {"message"} or {"error"} bodies and falls back to the
// raw text, which is what the token gate sends.
func errorMessage(body []byte) string {
	var m struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &m) == nil {
		if m.Message != "" {
			return m.Message
		}
		if m.Error != "" {
			return m.Error
		}
	}
	return strings.TrimSpace(string(body))
}
