package push

import (
	"fmt"
	"strings"

	"github.com/pagecraft/pagecraft-cli/internal/api"
)

// Severity grades a report message.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Message is one user-facing report line.
type Message struct {
	Severity Severity
	Text     string
}

// Report accumulates structured messages from API error payloads and local
// validation for line-oriented user-facing output. It never aborts anything
// itself; the orchestrator decides when to stop.
type Report struct {
	messages []Message
}

// Errorf appends an error message.
func (r *Report) Errorf(format string, args ...any) {
	r.messages = append(r.messages, Message{SeverityError, fmt.Sprintf(format, args...)})
}

// Warnf appends a warning message.
func (r *Report) Warnf(format string, args ...any) {
	r.messages = append(r.messages, Message{SeverityWarning, fmt.Sprintf(format, args...)})
}

// FromResponse appends one error line per normalized server message, each
// carrying the given stage prefix.
func (r *Report) FromResponse(prefix string, resp *api.Response) {
	lines := responseMessages(resp)
	if len(lines) == 0 {
		lines = []string{fmt.Sprintf("request failed (HTTP %d)", resp.StatusCode)}
	}
	for _, line := range lines {
		r.Errorf("%s%s", prefix, line)
	}
}

// Messages returns the accumulated report lines in order.
func (r *Report) Messages() []Message {
	return r.messages
}

// HasErrors reports whether any error-severity message was recorded.
func (r *Report) HasErrors() bool {
	for _, m := range r.messages {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}

func responseMessages(resp *api.Response) []string {
	var lines []string
	for _, fe := range resp.Errors() {
		for _, msg := range fe.Messages {
			if fe.Field == "" {
				lines = append(lines, msg)
				continue
			}
			lines = append(lines, strings.TrimSpace(fe.Field+" "+msg))
		}
	}
	return lines
}
