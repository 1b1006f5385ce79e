package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshSourceRotatesToken(t *testing.T) {
	var grants []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/oauth/token", r.URL.Path)
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		grants = append(grants, r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token": "a%d", "refresh_token": "r%d"}`, len(grants), len(grants))
	}))
	defer srv.Close()

	src := &RefreshSource{Endpoint: srv.URL, Token: "r0"}

	creds, err := src.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Credentials{AccessToken: "a1", RefreshToken: "r1"}, creds)

	creds, err = src.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Credentials{AccessToken: "a2", RefreshToken: "r2"}, creds)

	assert.Equal(t, []string{"r0", "r1"}, grants)
}

func TestRefreshSourceWithoutToken(t *testing.T) {
	src := &RefreshSource{Endpoint: "https://example.test"}
	_, err := src.Refresh(context.Background())
	assert.ErrorContains(t, err, "no refresh token")
}

func TestPasswordTokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(401)
		fmt.Fprint(w, `{"error": "invalid_grant", "error_description": "wrong email or password"}`)
	}))
	defer srv.Close()

	_, err := PasswordToken(context.Background(), srv.URL, "me@example.test", "nope")
	assert.ErrorContains(t, err, "wrong email or password")
}

func TestPasswordTokenSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.Form.Get("grant_type"))
		assert.Equal(t, "me@example.test", r.Form.Get("email"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "a", "refresh_token": "r"}`)
	}))
	defer srv.Close()

	tok, err := PasswordToken(context.Background(), srv.URL, "me@example.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a", tok.AccessToken)
	assert.Equal(t, "r", tok.RefreshToken)
}
