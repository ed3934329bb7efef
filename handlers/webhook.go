package handlers

import (
	"lexiguard-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupWebhookRoutes(app *fiber.App, reconciler *services.Reconciler) {
	// Signature is verified over the raw body inside the handler.
	app.Post("/api/webhooks/stripe", reconciler.HandleStripeWebhook)
}
