package messaging

import (
	"testing"
	"time"
)

func TestDecodeEnvelopeTextMessage(t *testing.T) {
	body := []byte(`{
		"destination": "bot-id",
		"events": [{
			"type": "message",
			"replyToken": "token-1",
			"timestamp": 1750222200000,
			"source": {"type": "user", "userId": "user-1"},
			"message": {"id": "m1", "type": "text", "text": "昨日の昼食はサラダ"}
		}]
	}`)

	events, err := DecodeEnvelope(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	event := events[0]
	if event.Kind != KindTextMessage {
		t.Fatalf("expected a text message event, got %v", event.Kind)
	}
	if event.UserID != "user-1" || event.ReplyToken != "token-1" {
		t.Fatalf("identity fields not carried over: %+v", event)
	}
	if event.Text != "昨日の昼食はサラダ" {
		t.Fatalf("text not carried over: %q", event.Text)
	}
	if !event.ReceivedAt.Equal(time.UnixMilli(1750222200000)) {
		t.Fatalf("timestamp not converted: %v", event.ReceivedAt)
	}
}

func TestDecodeEnvelopeNonTextEventsBecomeOther(t *testing.T) {
	body := []byte(`{"events": [
		{"type": "follow", "replyToken": "token-2", "source": {"userId": "user-2"}},
		{"type": "message", "replyToken": "token-3", "source": {"userId": "user-3"}, "message": {"type": "sticker"}}
	]}`)

	events, err := DecodeEnvelope(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	for index, event := range events {
		if event.Kind != KindOther {
			t.Fatalf("event %d: expected KindOther, got %v", index, event.Kind)
		}
		if event.Text != "" {
			t.Fatalf("event %d: non-text events must carry no text, got %q", index, event.Text)
		}
	}
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	if _, err := DecodeEnvelope([]byte(`{"events": "nope"`)); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestDecodeEnvelopeEmpty(t *testing.T) {
	events, err := DecodeEnvelope([]byte(`{"events": []}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}
