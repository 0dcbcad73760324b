// Package messaging handles the chat platform boundary: decoding webhook
// envelopes into typed events and delivering replies and pushes.
package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

type Kind int

const (
	// KindOther covers every delivery that is not a text message; the
	// dispatcher skips these silently.
	KindOther Kind = iota
	KindTextMessage
)

// Event is the typed form of one inbound webhook event. Nothing past the
// boundary sees the platform's loosely-typed payload.
type Event struct {
	Kind       Kind
	UserID     string
	ReplyToken string
	Text       string
	ReceivedAt time.Time
}

// envelope mirrors the platform's webhook JSON.
type envelope struct {
	Events []struct {
		Type       string `json:"type"`
		ReplyToken string `json:"replyToken"`
		Timestamp  int64  `json:"timestamp"`
		Source     struct {
			UserID string `json:"userId"`
		} `json:"source"`
		Message struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"message"`
	} `json:"events"`
}

// DecodeEnvelope converts a raw webhook body into typed events. A body that
// is not a valid envelope is a boundary-fatal error; unknown event or
// message types are kept as KindOther so the caller can skip them without
// failing the delivery.
func DecodeEnvelope(body []byte) ([]Event, error) {
	var decoded envelope
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode webhook envelope: %w", err)
	}

	events := make([]Event, 0, len(decoded.Events))
	for _, raw := range decoded.Events {
		event := Event{
			Kind:       KindOther,
			UserID:     raw.Source.UserID,
			ReplyToken: raw.ReplyToken,
			ReceivedAt: time.UnixMilli(raw.Timestamp),
		}
		if raw.Type == "message" && raw.Message.Type == "text" {
			event.Kind = KindTextMessage
			event.Text = raw.Message.Text
		}
		events = append(events, event)
	}
	return events, nil
}
