package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Default Firebase Authentication REST endpoints.
const (
	DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	DefaultSecureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// IdentityToolkitConfig configures the identity provider's REST API.
type IdentityToolkitConfig struct {
	APIKey   string // public web API key
	BaseURL  string // defaults to DefaultIdentityToolkitURL
	TokenURL string // defaults to DefaultSecureTokenURL
}

// IdentityToolkit signs users in directly against the identity provider.
type IdentityToolkit struct {
	cfg        IdentityToolkitConfig
	httpClient *http.Client
}

// NewIdentityToolkit creates a client. A nil httpClient uses http.DefaultClient.
func NewIdentityToolkit(cfg IdentityToolkitConfig, httpClient *http.Client) *IdentityToolkit {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultIdentityToolkitURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultSecureTokenURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.TokenURL = strings.TrimRight(cfg.TokenURL, "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &IdentityToolkit{cfg: cfg, httpClient: httpClient}
}

// APIError is an error answer from the identity provider, e.g. INVALID_PASSWORD.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity toolkit (%d): %s", e.Status, e.Message)
}

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
}

// SignInWithPassword signs in with email and password.
func (t *IdentityToolkit) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var resp signInResponse
	err := t.postJSON(ctx, "/accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.session()
}

// SignInWithGoogleIDToken exchanges a Google ID token for a provider session.
func (t *IdentityToolkit) SignInWithGoogleIDToken(ctx context.Context, googleIDToken string) (*Session, error) {
	postBody := url.Values{
		"id_token":   {googleIDToken},
		"providerId": {"google.com"},
	}
	var resp signInResponse
	err := t.postJSON(ctx, "/accounts:signInWithIdp", map[string]interface{}{
		"postBody":            postBody.Encode(),
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.session()
}

// Refresh trades a refresh token for a new session.
func (t *IdentityToolkit) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	endpoint := t.cfg.TokenURL + "/token?key=" + url.QueryEscape(t.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("identity toolkit: create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := t.do(req, &resp); err != nil {
		return nil, err
	}
	return NewSession(resp.IDToken, resp.RefreshToken)
}

func (r *signInResponse) session() (*Session, error) {
	s, err := NewSession(r.IDToken, r.RefreshToken)
	if err != nil {
		return nil, err
	}
	if s.UID == "" {
		s.UID = r.LocalID
	}
	if s.Email == "" {
		s.Email = r.Email
	}
	if s.Name == "" {
		s.Name = r.DisplayName
	}
	return s, nil
}

func (t *IdentityToolkit) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("identity toolkit: marshal: %w", err)
	}

	endpoint := t.cfg.BaseURL + path + "?key=" + url.QueryEscape(t.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("identity toolkit: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return t.do(req, out)
}

func (t *IdentityToolkit) do(req *http.Request, out interface{}) error {
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity toolkit: request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("identity toolkit: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("identity toolkit: decode response: %w", err)
	}
	return nil
}
