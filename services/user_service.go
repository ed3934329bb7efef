package services

import (
	"errors"
	"log"
	"strings"

	"lexiguard-backend/models"
	"lexiguard-backend/store"
	"lexiguard-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UserService handles wallet-address identity. The address is trusted as a
// bare identifier: signature and message are accepted in the payload but
// never verified against the address.
type UserService struct {
	users store.UserStore
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

type walletAuthRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

// WalletAuth upserts a user by wallet address: first login creates the
// record, repeat logins bump updated_at.
func (s *UserService) WalletAuth(c *fiber.Ctx) error {
	var req walletAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request data"})
	}
	if details := utils.ValidateStruct(req); details != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request data",
			"details": details,
		})
	}

	address := strings.ToLower(req.WalletAddress)

	user, err := s.users.UserByWallet(c.Context(), address)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("❌ [USERS] wallet lookup %s: %v", address, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	if user == nil {
		user = &models.User{
			UserID:             uuid.NewString(),
			WalletAddress:      address,
			SubscriptionStatus: models.UserStatusFree,
			PreferredLanguage:  "en",
			TrustedContacts:    models.TrustedContacts{},
		}
		if err := s.users.CreateUser(c.Context(), user); err != nil {
			log.Printf("❌ [USERS] create user for wallet %s: %v", address, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
		}
		log.Printf("✅ [USERS] new user %s for wallet %s", user.UserID, address)
	} else {
		if err := s.users.TouchUser(c.Context(), user.UserID); err != nil {
			log.Printf("⚠️ [USERS] login touch for user %s: %v", user.UserID, err)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userPayload(user),
	})
}

func (s *UserService) GetUser(c *fiber.Ctx) error {
	walletAddress := c.Query("walletAddress")
	if walletAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Wallet address is required"})
	}

	user, err := s.users.UserByWallet(c.Context(), strings.ToLower(walletAddress))
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	if err != nil {
		log.Printf("❌ [USERS] wallet lookup %s: %v", walletAddress, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userPayload(user),
	})
}

func userPayload(u *models.User) fiber.Map {
	return fiber.Map{
		"userId":             u.UserID,
		"walletAddress":      u.WalletAddress,
		"subscriptionStatus": u.SubscriptionStatus,
		"preferredLanguage":  u.PreferredLanguage,
		"trustedContacts":    u.TrustedContacts,
		"selectedState":      u.SelectedState,
	}
}
