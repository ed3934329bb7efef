package handlers

import (
	"lexiguard-backend/middleware"
	"lexiguard-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContentRoutes(app *fiber.App, contentService *services.ContentService) {
	// Public reads with static fallback
	app.Get("/api/guides", contentService.GetGuides)
	app.Get("/api/scripts", contentService.GetScripts)

	// Authoring requires the admin service token
	authoring := app.Group("/api", middleware.AdminAuthMiddleware())
	authoring.Post("/guides", contentService.CreateGuide)
	authoring.Post("/scripts", contentService.CreateScript)
}
