package api

import (
	"encoding/json"
	"strings"
)

// BodyKind classifies a response body after one parse attempt.
type BodyKind int

const (
	// KindUnparsable marks a body that is empty or not valid JSON.
	KindUnparsable BodyKind = iota
	// KindPlainJSON marks a valid JSON body outside the JSON:API media type.
	KindPlainJSON
	// KindJSONAPI marks a JSON:API document (application/vnd.api+json).
	KindJSONAPI
)

// Response wraps the outcome of one HTTP call. It is constructed once by the
// transport and never mutated afterwards; the body is parsed lazily, at most
// once, into a tagged variant inspected through Kind, Document, PlainJSON and
// Errors.
type Response struct {
	StatusCode  int
	ContentType string

	// RefreshedOAuth is set when the access token was refreshed while
	// serving this call. Persisting the new credentials is the caller's
	// responsibility.
	RefreshedOAuth bool

	body []byte

	parsed bool
	kind   BodyKind
	doc    *Document
	plain  map[string]any
}

// NewResponse builds a Response from raw call results. Exposed so tests can
// fabricate server outcomes without a live transport.
func NewResponse(status int, contentType string, body []byte) *Response {
	return &Response{StatusCode: status, ContentType: contentType, body: body}
}

// Success reports whether the status code is in the 2xx or 3xx family.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// IsError reports whether the status code is in the 4xx or 5xx family.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 600
}

// Unauthorized reports whether the call was rejected with 401.
func (r *Response) Unauthorized() bool {
	return r.StatusCode == 401
}

// Body returns the raw response body.
func (r *Response) Body() []byte {
	return r.body
}

// Kind parses the body if needed and returns its classification.
func (r *Response) Kind() BodyKind {
	r.parse()
	return r.kind
}

// Document returns the parsed JSON:API document. The second return is false
// for plain-JSON and unparsable bodies; callers must check it before use.
func (r *Response) Document() (*Document, bool) {
	r.parse()
	if r.kind != KindJSONAPI {
		return nil, false
	}
	return r.doc, true
}

// PlainJSON returns the body parsed as a generic JSON object.
func (r *Response) PlainJSON() (map[string]any, bool) {
	r.parse()
	if r.kind != KindPlainJSON {
		return nil, false
	}
	return r.plain, true
}

// FieldError is one normalized server-side error: a field (empty for general
// errors) and its messages.
type FieldError struct {
	Field    string
	Messages []string
}

// Errors normalizes the two error shapes the service produces into one list.
// JSON:API bodies key each error by the last segment of its source pointer;
// bodies with an "error" key become a single unkeyed entry, regardless of the
// media type they were served under. Any other body yields an empty list.
func (r *Response) Errors() []FieldError {
	r.parse()

	switch r.kind {
	case KindJSONAPI:
		if errs := r.doc.fieldErrors(); len(errs) > 0 {
			return errs
		}
		return plainError(r.body)
	case KindPlainJSON:
		if msg, ok := r.plain["error"].(string); ok && msg != "" {
			return []FieldError{{Messages: []string{msg}}}
		}
	}
	return nil
}

// plainError probes a body for the {"error": "..."} shape. Some endpoints
// send it under the JSON:API media type without an errors array.
func plainError(body []byte) []FieldError {
	var plain struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &plain) == nil && plain.Error != "" {
		return []FieldError{{Messages: []string{plain.Error}}}
	}
	return nil
}

func (r *Response) parse() {
	if r.parsed {
		return
	}
	r.parsed = true

	if len(r.body) == 0 {
		r.kind = KindUnparsable
		return
	}

	if strings.HasPrefix(r.ContentType, MediaType) {
		var doc Document
		if err := json.Unmarshal(r.body, &doc); err != nil {
			r.kind = KindUnparsable
			return
		}
		r.kind = KindJSONAPI
		r.doc = &doc
		return
	}

	var plain map[string]any
	if err := json.Unmarshal(r.body, &plain); err != nil {
		r.kind = KindUnparsable
		return
	}
	r.kind = KindPlainJSON
	r.plain = plain
}
