package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityToolkit_SignInWithPassword(t *testing.T) {
	idToken := makeIDToken(t, "uid-1", "asha@example.com", time.Now().Add(time.Hour))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "web-key", r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asha@example.com", body["email"])
		assert.Equal(t, "secret1", body["password"])
		assert.Equal(t, true, body["returnSecureToken"])

		json.NewEncoder(w).Encode(map[string]string{
			"idToken":      idToken,
			"refreshToken": "refresh-1",
			"localId":      "uid-1",
		})
	}))
	defer srv.Close()

	tk := NewIdentityToolkit(IdentityToolkitConfig{APIKey: "web-key", BaseURL: srv.URL}, srv.Client())
	s, err := tk.SignInWithPassword(context.Background(), "asha@example.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, idToken, s.Token)
	assert.Equal(t, "refresh-1", s.RefreshToken)
	assert.Equal(t, "uid-1", s.UID)
}

func TestIdentityToolkit_SignInError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`))
	}))
	defer srv.Close()

	tk := NewIdentityToolkit(IdentityToolkitConfig{APIKey: "k", BaseURL: srv.URL}, srv.Client())
	_, err := tk.SignInWithPassword(context.Background(), "a@example.com", "wrong")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "INVALID_LOGIN_CREDENTIALS", apiErr.Message)
}

func TestIdentityToolkit_SignInWithGoogleIDToken(t *testing.T) {
	idToken := makeIDToken(t, "g-7", "meera@example.com", time.Now().Add(time.Hour))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithIdp", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "id_token=google-jwt&providerId=google.com", body["postBody"])

		json.NewEncoder(w).Encode(map[string]string{"idToken": idToken, "refreshToken": "r"})
	}))
	defer srv.Close()

	tk := NewIdentityToolkit(IdentityToolkitConfig{APIKey: "k", BaseURL: srv.URL}, srv.Client())
	s, err := tk.SignInWithGoogleIDToken(context.Background(), "google-jwt")

	require.NoError(t, err)
	assert.Equal(t, "g-7", s.UID)
	assert.Equal(t, "meera@example.com", s.Email)
}

func TestIdentityToolkit_Refresh(t *testing.T) {
	idToken := makeIDToken(t, "uid-1", "asha@example.com", time.Now().Add(time.Hour))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))

		json.NewEncoder(w).Encode(map[string]string{
			"id_token":      idToken,
			"refresh_token": "new-refresh",
		})
	}))
	defer srv.Close()

	tk := NewIdentityToolkit(IdentityToolkitConfig{APIKey: "k", TokenURL: srv.URL}, srv.Client())
	s, err := tk.Refresh(context.Background(), "old-refresh")

	require.NoError(t, err)
	assert.Equal(t, "new-refresh", s.RefreshToken)
	assert.Equal(t, "uid-1", s.UID)
}
