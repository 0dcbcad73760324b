package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// deliveryTimeout bounds every reply/push attempt. Delivery is best-effort:
// a timed-out or failed attempt is logged by the caller and never retried.
const deliveryTimeout = 8 * time.Second

const defaultMessagingBaseURL = "https://api.line.me"

// Client delivers text messages back to the chat platform.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

type ClientConfig struct {
	AccessToken string
	BaseURL     string
}

func NewClient(config ClientConfig) *Client {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultMessagingBaseURL
	}
	return &Client{
		accessToken: config.AccessToken,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: deliveryTimeout},
	}
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Reply answers one inbound event through its reply token.
func (client *Client) Reply(ctx context.Context, replyToken string, text string) error {
	return client.send(ctx, "/v2/bot/message/reply", map[string]any{
		"replyToken": replyToken,
		"messages":   []textMessage{{Type: "text", Text: text}},
	})
}

// Push sends an unsolicited message to a user, used by reminders.
func (client *Client) Push(ctx context.Context, userID string, text string) error {
	return client.send(ctx, "/v2/bot/message/push", map[string]any{
		"to":       userID,
		"messages": []textMessage{{Type: "text", Text: text}},
	})
}

func (client *Client) send(ctx context.Context, path string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build delivery request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+client.accessToken)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("deliver message: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		return fmt.Errorf("delivery rejected with status %d: %s", response.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
