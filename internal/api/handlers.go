// Package api exposes the webhook boundary: signature-checked event intake,
// a health probe and the reminder trigger.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shunonion-sudo/health-habits/internal/messaging"
)

// signatureHeader carries the channel signature on webhook deliveries.
const signatureHeader = "X-Line-Signature"

// Dispatcher fans inbound events out to their per-event tasks and returns
// once all of them have settled.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []messaging.Event)
}

// Pusher delivers an unsolicited message to one recipient.
type Pusher interface {
	Push(ctx context.Context, userID string, text string) error
}

type Handler struct {
	channelSecret       string
	dispatcher          Dispatcher
	pusher              Pusher
	reminderRecipientID string
	logger              *zap.Logger
}

func NewHandler(channelSecret string, dispatcher Dispatcher, pusher Pusher, reminderRecipientID string, logger *zap.Logger) *Handler {
	return &Handler{
		channelSecret:       channelSecret,
		dispatcher:          dispatcher,
		pusher:              pusher,
		reminderRecipientID: reminderRecipientID,
		logger:              logger,
	}
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok": true,
		"at": time.Now().Format(time.RFC3339),
	})
}

// Webhook authenticates the delivery, decodes the envelope and dispatches
// every event. Individual event failures never reach this response; only an
// invalid signature or a malformed envelope fails the request.
func (handler *Handler) Webhook(c *fiber.Ctx) error {
	body := c.Body()
	if !ValidSignature(body, c.Get(signatureHeader), handler.channelSecret) {
		handler.logger.Warn("webhook signature mismatch")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
	}

	events, err := messaging.DecodeEnvelope(body)
	if err != nil {
		handler.logger.Error("webhook envelope malformed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "malformed envelope"})
	}

	handler.dispatcher.Dispatch(c.UserContext(), events)
	return c.JSON(fiber.Map{"status": "ok"})
}

// Reminder pushes one of the fixed reminder templates to the configured
// recipient. Delivery is best-effort; only a missing recipient is an error.
func (handler *Handler) Reminder(c *fiber.Ctx) error {
	if handler.reminderRecipientID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no reminder recipient configured"})
	}

	kind := c.Query("type")
	if err := handler.pusher.Push(c.UserContext(), handler.reminderRecipientID, reminderText(kind)); err != nil {
		handler.logger.Warn("reminder push failed",
			zap.Error(err),
			zap.String("type", kind))
	}
	return c.JSON(fiber.Map{"ok": true, "type": kind})
}
