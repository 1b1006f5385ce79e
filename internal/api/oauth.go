package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// TokenResponse is the body of a successful /oauth/token grant.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type tokenError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// PasswordToken performs the password grant against an endpoint. It runs
// before any authorized session exists, so it takes the endpoint directly.
func PasswordToken(ctx context.Context, endpoint, email, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("email", email)
	form.Set("password", password)
	return requestToken(ctx, http.DefaultClient, endpoint, form)
}

// RefreshSource exchanges a refresh token for a new credential pair. It
// implements TokenSource; the held refresh token rotates on every success.
type RefreshSource struct {
	Endpoint string
	Token    string

	// HTTPClient defaults to http.DefaultClient when nil.
	HTTPClient *http.Client
}

// Refresh obtains a new access/refresh token pair from the endpoint.
func (s *RefreshSource) Refresh(ctx context.Context) (Credentials, error) {
	if s.Token == "" {
		return Credentials{}, fmt.Errorf("no refresh token held")
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.Token)

	httpc := s.HTTPClient
	if httpc == nil {
		httpc = http.DefaultClient
	}

	tok, err := requestToken(ctx, httpc, s.Endpoint, form)
	if err != nil {
		return Credentials{}, err
	}

	s.Token = tok.RefreshToken
	return Credentials{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}, nil
}

func requestToken(ctx context.Context, httpc *http.Client, endpoint string, form url.Values) (*TokenResponse, error) {
	target := strings.TrimRight(endpoint, "/") + "/oauth/token"

	req, err := http.NewRequestWithContext(ctx, "POST", target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var te tokenError
		if json.Unmarshal(data, &te) == nil && te.Error != "" {
			msg := te.Error
			if te.ErrorDescription != "" {
				msg = te.ErrorDescription
			}
			return nil, fmt.Errorf("token request rejected: %s", msg)
		}
		return nil, fmt.Errorf("token request rejected: HTTP %d", resp.StatusCode)
	}

	var tok TokenResponse
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access token")
	}

	return &tok, nil
}
