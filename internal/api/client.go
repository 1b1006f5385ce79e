// Package api implements the HTTP client for the Pagecraft service: an
// authenticating transport, a normalized Response wrapper, and one thin
// gateway per remote resource type.
package api

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

// Credentials is an OAuth access/refresh token pair.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// TokenSource obtains fresh credentials when the current access token is
// missing or rejected.
type TokenSource interface {
	Refresh(ctx context.Context) (Credentials, error)
}

// RefreshError wraps a failure to refresh OAuth credentials. It is the only
// API-level failure surfaced as a Go error rather than as Response data, and
// is fatal for the whole push.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh OAuth credentials: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// Client issues authenticated requests against one Pagecraft endpoint. It
// holds the session's current credentials; a refresh performed mid-request
// is visible to every subsequent call on the same Client.
type Client struct {
	baseURL    string
	creds      Credentials
	tokens     TokenSource
	httpClient *http.Client

	// OnRefresh, when set, is invoked with the new credential pair after
	// every successful token refresh so the caller can persist it.
	OnRefresh func(Credentials)
}

// NewClient creates a client for the given endpoint.
func NewClient(endpoint string, creds Credentials, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(endpoint, "/"),
		creds:      creds,
		tokens:     tokens,
		httpClient: &http.Client{},
	}
}

// Credentials returns the session's current token pair.
func (c *Client) Credentials() Credentials {
	return c.creds
}

func (c *Client) apiURL(path string) string {
	return c.baseURL + "/api/v1" + path
}

// RequestOptions shape one call. The zero value sends an authorized,
// body-less JSON:API request.
type RequestOptions struct {
	Payload any        // marshaled to JSON when non-nil
	Form    url.Values // form-encoded body; mutually exclusive with Payload
	NoAuth  bool       // skip the Authorization header and refresh logic
	Plain   bool       // plain JSON call, no JSON:API media type headers
}

// Send issues one HTTP call against the service and wraps the outcome in a
// Response. Error statuses are returned as Response data, not as Go errors;
// the returned error is reserved for request construction, network failures
// and the fatal RefreshError.
//
// When an authorized call comes back 401 and the token was not refreshed for
// this same call already, the token is refreshed exactly once and the request
// retried; a second 401 is returned as-is.
func (c *Client) Send(ctx context.Context, method, path string, opts RequestOptions) (*Response, error) {
	authorize := !opts.NoAuth

	refreshed := false
	if authorize && c.creds.AccessToken == "" {
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}
		refreshed = true
	}

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return nil, err
	}

	target := c.apiURL(path)

	resp, err := c.issue(ctx, method, target, body, contentType, authorize, opts.Plain)
	if err != nil {
		return nil, err
	}

	if resp.Unauthorized() && authorize && !refreshed {
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}
		resp, err = c.issue(ctx, method, target, body, contentType, authorize, opts.Plain)
		if err != nil {
			return nil, err
		}
		refreshed = true
	}

	resp.RefreshedOAuth = refreshed
	return resp, nil
}

func (c *Client) issue(ctx context.Context, method, target string, body []byte, contentType string, authorize, plain bool) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if authorize {
		req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !plain {
		req.Header.Set("Accept", MediaType)
	}

	return c.execute(req)
}

func (c *Client) execute(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return NewResponse(resp.StatusCode, resp.Header.Get("Content-Type"), data), nil
}

func (c *Client) refresh(ctx context.Context) error {
	creds, err := c.tokens.Refresh(ctx)
	if err != nil {
		return &RefreshError{Err: err}
	}
	c.creds = creds
	if c.OnRefresh != nil {
		c.OnRefresh(creds)
	}
	return nil
}

func encodeBody(opts RequestOptions) ([]byte, string, error) {
	switch {
	case opts.Form != nil:
		return []byte(opts.Form.Encode()), "application/x-www-form-urlencoded", nil
	case opts.Payload != nil:
		data, err := json.Marshal(opts.Payload)
		if err != nil {
			return nil, "", fmt.Errorf("marshal payload: %w", err)
		}
		ct := MediaType
		if opts.Plain {
			ct = "application/json"
		}
		return data, ct, nil
	}
	return nil, "", nil
}
