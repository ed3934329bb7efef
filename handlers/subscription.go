package handlers

import (
	"lexiguard-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSubscriptionRoutes(app *fiber.App, subscriptionService *services.SubscriptionService) {
	app.Get("/api/subscriptions", subscriptionService.GetSubscription)
	app.Post("/api/subscriptions", subscriptionService.CreateSubscription)
	app.Delete("/api/subscriptions", subscriptionService.CancelSubscription)
}
