package client

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleTokenSource yields a Google ID token for the current user.
type GoogleTokenSource interface {
	GoogleIDToken(ctx context.Context) (string, error)
}

// CodePrompt shows authURL to the user and returns the code and state query
// parameters Google redirected back with.
type CodePrompt func(ctx context.Context, authURL string) (code, state string, err error)

// ErrStateMismatch means the redirect did not answer this consent request.
var ErrStateMismatch = errors.New("google: oauth state mismatch")

// GoogleCodeExchanger implements GoogleTokenSource with the OAuth2
// authorization code flow.
type GoogleCodeExchanger struct {
	config *oauth2.Config
	prompt CodePrompt
}

// NewGoogleCodeExchanger creates an exchanger for a Google OAuth client.
func NewGoogleCodeExchanger(clientID, clientSecret, redirectURL string, prompt CodePrompt) *GoogleCodeExchanger {
	return &GoogleCodeExchanger{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		prompt: prompt,
	}
}

// GoogleIDToken runs one consent round-trip and returns the id_token.
func (g *GoogleCodeExchanger) GoogleIDToken(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", err
	}
	authURL := g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)

	code, gotState, err := g.prompt(ctx, authURL)
	if err != nil {
		return "", fmt.Errorf("google: consent: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(gotState), []byte(state)) != 1 {
		return "", ErrStateMismatch
	}
	if code == "" {
		return "", errors.New("google: missing authorization code")
	}

	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("google: token exchange: %w", err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", errors.New("google: token response has no id_token")
	}
	return idToken, nil
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("google: generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
