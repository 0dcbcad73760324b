package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Post("/webhook", handler.Webhook)
	app.Get("/reminder", handler.Reminder)
}
