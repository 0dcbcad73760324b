// Package llm talks to an OpenAI-compatible chat-completion endpoint and
// layers bounded retry on top of it.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn of a completion request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Params tunes one completion call. MaxRetries is the number of additional
// attempts allowed after the first, not the total attempt count.
type Params struct {
	Temperature float64
	MaxTokens   int
	MaxRetries  int
}

// Client is the completion contract the rest of the bot depends on.
type Client interface {
	Complete(ctx context.Context, messages []Message, params Params) (string, error)
}

// StatusError is a completion request rejected with a non-2xx HTTP status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (statusErr *StatusError) Error() string {
	return fmt.Sprintf("completion request failed with status %d: %s", statusErr.StatusCode, statusErr.Body)
}

// Retryable reports whether err is worth another attempt: rate limiting and
// server-side failures are; everything else (auth, validation, transport
// setup) is fatal.
func Retryable(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError
}
