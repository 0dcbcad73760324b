package llm

import (
	"context"
	"time"
)

const (
	baseRetryDelay = 500 * time.Millisecond
	maxRetryDelay  = 2500 * time.Millisecond
)

// Retrying wraps a Client with capped exponential backoff. Only rate-limit
// and server-side failures are retried; fatal errors and retry exhaustion
// propagate the last error immediately. No jitter, no cross-call state.
type Retrying struct {
	client Client
	sleep  func(ctx context.Context, delay time.Duration) error
}

func NewRetrying(client Client) *Retrying {
	return &Retrying{client: client, sleep: sleepContext}
}

func (retrying *Retrying) Complete(ctx context.Context, messages []Message, params Params) (string, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		text, err := retrying.client.Complete(ctx, messages, params)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !Retryable(err) || attempt >= params.MaxRetries {
			return "", lastErr
		}
		if err := retrying.sleep(ctx, retryDelay(attempt)); err != nil {
			return "", err
		}
	}
}

// retryDelay is attempt-indexed: 500ms, 1s, 2s, then capped at 2.5s.
func retryDelay(attempt int) time.Duration {
	delay := baseRetryDelay << attempt
	if delay > maxRetryDelay || delay <= 0 {
		return maxRetryDelay
	}
	return delay
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
