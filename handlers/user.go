package handlers

import (
	"lexiguard-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService) {
	// Wallet identity — no ownership proof, the address alone is the login.
	app.Post("/api/auth/wallet", userService.WalletAuth)
	app.Get("/api/auth/wallet", userService.GetUser)
}
