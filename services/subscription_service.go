package services

import (
	"errors"
	"log"

	"lexiguard-backend/models"
	"lexiguard-backend/store"
	"lexiguard-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SubscriptionService exposes the synchronous subscription commands. Create
// is only the first half of a two-phase flow: the Subscription row is
// written by the Reconciler once the provider reports payment success.
type SubscriptionService struct {
	subs    store.SubscriptionStore
	users   store.UserStore
	audit   store.AuditStore
	billing BillingClient
}

func NewSubscriptionService(subs store.SubscriptionStore, users store.UserStore, audit store.AuditStore, billing BillingClient) *SubscriptionService {
	return &SubscriptionService{
		subs:    subs,
		users:   users,
		audit:   audit,
		billing: billing,
	}
}

type createSubscriptionRequest struct {
	UserID        string `json:"userId" validate:"required"`
	PlanType      string `json:"planType" validate:"required,oneof=monthly lifetime"`
	WalletAddress string `json:"walletAddress" validate:"required"`
}

func (s *SubscriptionService) CreateSubscription(c *fiber.Ctx) error {
	var req createSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid subscription data"})
	}
	if details := utils.ValidateStruct(req); details != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid subscription data",
			"details": details,
		})
	}

	existing, err := s.subs.SubscriptionByUser(c.Context(), req.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("❌ [SUBSCRIPTIONS] lookup for user %s: %v", req.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if existing != nil && existing.Status == models.SubscriptionActive {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "User already has an active subscription"})
	}

	customer, err := s.billing.ResolveCustomer(c.Context(), req.UserID, req.WalletAddress)
	if err != nil {
		log.Printf("❌ [SUBSCRIPTIONS] customer resolution for user %s: %v", req.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create customer"})
	}

	if req.PlanType == models.PlanLifetime {
		pi, err := s.billing.CreateLifetimePayment(c.Context(), customer.ID, req.UserID, req.WalletAddress)
		if err != nil {
			log.Printf("❌ [SUBSCRIPTIONS] payment intent for user %s: %v", req.UserID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create payment intent"})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"clientSecret":    pi.ClientSecret,
				"paymentIntentId": pi.ID,
			},
		})
	}

	sub, err := s.billing.CreateMonthlySubscription(c.Context(), customer.ID, req.UserID, req.WalletAddress)
	if err != nil {
		log.Printf("❌ [SUBSCRIPTIONS] subscription creation for user %s: %v", req.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create subscription"})
	}

	var clientSecret, paymentIntentID string
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		clientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
		paymentIntentID = sub.LatestInvoice.PaymentIntent.ID
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"subscriptionId":  sub.ID,
			"clientSecret":    clientSecret,
			"paymentIntentId": paymentIntentID,
		},
	})
}

func (s *SubscriptionService) GetSubscription(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User ID is required"})
	}

	sub, err := s.subs.SubscriptionByUser(c.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    nil,
			"message": "No subscription found",
		})
	}
	if err != nil {
		log.Printf("❌ [SUBSCRIPTIONS] lookup for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch subscription"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":                 sub.ID,
			"userId":             sub.UserID,
			"status":             sub.Status,
			"planType":           sub.PlanType,
			"currentPeriodStart": sub.CurrentPeriodStart,
			"currentPeriodEnd":   sub.CurrentPeriodEnd,
		},
	})
}

// CancelSubscription favors user-visible consistency over provider-side
// truth: a failed provider cancel is logged, but local state goes to
// canceled/free regardless.
func (s *SubscriptionService) CancelSubscription(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "User ID is required"})
	}

	sub, err := s.subs.SubscriptionByUser(c.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Subscription not found"})
	}
	if err != nil {
		log.Printf("❌ [SUBSCRIPTIONS] lookup for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if sub.StripeSubscriptionID != "" {
		if err := s.billing.CancelSubscription(c.Context(), sub.StripeSubscriptionID); err != nil {
			log.Printf("⚠️ [SUBSCRIPTIONS] provider cancellation failed for %s, continuing with local cancel: %v", sub.StripeSubscriptionID, err)
		}
	}

	if err := s.subs.SetSubscriptionStatusByUser(c.Context(), userID, models.SubscriptionCanceled); err != nil {
		log.Printf("❌ [SUBSCRIPTIONS] local cancel for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel subscription"})
	}
	if err := s.users.SetUserSubscriptionStatus(c.Context(), userID, models.UserStatusFree); err != nil {
		log.Printf("❌ [SUBSCRIPTIONS] partial write: subscription canceled but user %s status not updated: %v", userID, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Subscription canceled successfully",
	})
}
