package handlers

import (
	"lexiguard-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupIncidentRoutes(app *fiber.App, incidentService *services.IncidentService) {
	app.Get("/api/incidents", incidentService.GetIncidents)
	app.Post("/api/incidents", incidentService.CreateIncident)
	app.Put("/api/incidents", incidentService.UpdateIncident)
	app.Post("/api/incidents/:id/recording", incidentService.UploadRecording)
}
