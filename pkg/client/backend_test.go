package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_Register(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/register", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "asha@example.com", "password": "secret1", "name": "Asha"}, body)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"User registered successfully!","uid":"uid-1"}`))
	}))
	defer srv.Close()

	uid, err := NewBackend(srv.URL+"/", srv.Client()).Register(context.Background(), "asha@example.com", "secret1", "Asha")

	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
}

func TestBackend_RegisterErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"The email address is already in use by another account."}`))
	}))
	defer srv.Close()

	_, err := NewBackend(srv.URL, srv.Client()).Register(context.Background(), "a@example.com", "secret1", "A")

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, http.StatusBadRequest, be.Status)
	assert.Equal(t, "The email address is already in use by another account.", err.Error())
}

func TestBackend_NotifySocialLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/handle-social-login", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized: Invalid token"))
			return
		}
		w.Write([]byte(`{"message":"Social login handled."}`))
	}))
	defer srv.Close()
	b := NewBackend(srv.URL, srv.Client())

	require.NoError(t, b.NotifySocialLogin(context.Background(), "good"))

	err := b.NotifySocialLogin(context.Background(), "bad")
	assert.EqualError(t, err, "Unauthorized: Invalid token")
}
