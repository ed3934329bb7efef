package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"lexiguard-backend/models"
	"lexiguard-backend/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Reconciler consumes billing-provider webhook events and drives the
// User/Subscription pair into a consistent state. Events may arrive out of
// order or more than once; every write below is an upsert or a keyed update
// so redelivery is a no-op.
type Reconciler struct {
	users         store.UserStore
	subs          store.SubscriptionStore
	billing       BillingClient
	webhookSecret string
}

func NewReconciler(users store.UserStore, subs store.SubscriptionStore, billing BillingClient, webhookSecret string) *Reconciler {
	return &Reconciler{
		users:         users,
		subs:          subs,
		billing:       billing,
		webhookSecret: webhookSecret,
	}
}

// HandleStripeWebhook verifies the signature over the raw body bytes and
// applies the event. Re-serialized bodies are not guaranteed to reproduce
// the signed bytes, so c.Body() is passed through untouched.
func (r *Reconciler) HandleStripeWebhook(c *fiber.Ctx) error {
	// IgnoreAPIVersionMismatch: accounts pin their own API version, so the
	// event's api_version rarely matches the SDK's. The signature check is
	// unaffected.
	event, err := webhook.ConstructEventWithOptions(c.Body(), c.Get("Stripe-Signature"), r.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.Printf("❌ [RECONCILER] webhook signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}

	if err := r.Apply(c.Context(), event); err != nil {
		log.Printf("❌ [RECONCILER] webhook handler error for %s: %v", event.Type, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook handler failed"})
	}

	return c.JSON(fiber.Map{"received": true})
}

// Apply dispatches a verified event to its transition. Unknown event types
// succeed so the provider does not retry them forever.
func (r *Reconciler) Apply(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return fmt.Errorf("parsing payment intent: %w", err)
		}
		return r.applyPaymentIntentSucceeded(ctx, &pi)

	case stripe.EventTypeCustomerSubscriptionCreated:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("parsing subscription: %w", err)
		}
		return r.applySubscriptionCreated(ctx, &sub)

	case stripe.EventTypeCustomerSubscriptionUpdated:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("parsing subscription: %w", err)
		}
		return r.applySubscriptionUpdated(ctx, &sub)

	case stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("parsing subscription: %w", err)
		}
		return r.applySubscriptionDeleted(ctx, &sub)

	case stripe.EventTypeInvoicePaymentSucceeded:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return fmt.Errorf("parsing invoice: %w", err)
		}
		return r.applyInvoicePaymentSucceeded(ctx, &inv)

	case stripe.EventTypeInvoicePaymentFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return fmt.Errorf("parsing invoice: %w", err)
		}
		return r.applyInvoicePaymentFailed(ctx, &inv)

	default:
		log.Printf("ℹ️ [RECONCILER] unhandled event type: %s", event.Type)
		return nil
	}
}

func (r *Reconciler) applyPaymentIntentSucceeded(ctx context.Context, pi *stripe.PaymentIntent) error {
	userID := pi.Metadata["userId"]
	planType := pi.Metadata["planType"]
	if userID == "" || planType == "" {
		log.Printf("⚠️ [RECONCILER] missing metadata on payment intent %s, skipping", pi.ID)
		return nil
	}
	if planType != models.PlanLifetime {
		return nil
	}

	var customerID string
	if pi.Customer != nil {
		customerID = pi.Customer.ID
	}

	sub := &models.Subscription{
		ID:               uuid.NewString(),
		UserID:           userID,
		StripeCustomerID: customerID,
		Status:           models.SubscriptionActive,
		PlanType:         models.PlanLifetime,
	}
	if err := r.subs.UpsertSubscription(ctx, sub); err != nil {
		log.Printf("❌ [RECONCILER] upsert lifetime subscription for user %s: %v", userID, err)
		return nil
	}
	if err := r.users.SetUserSubscriptionStatus(ctx, userID, models.UserStatusLifetime); err != nil {
		// Subscription row is already written; the records are now drifted.
		log.Printf("❌ [RECONCILER] partial write: subscription active but user %s status not updated: %v", userID, err)
		return nil
	}

	log.Printf("✅ [RECONCILER] lifetime access activated for user %s", userID)
	return nil
}

func (r *Reconciler) applySubscriptionCreated(ctx context.Context, sub *stripe.Subscription) error {
	userID := sub.Metadata["userId"]
	if userID == "" {
		log.Printf("⚠️ [RECONCILER] missing userId in subscription metadata: %s", sub.ID)
		return nil
	}

	var customerID string
	if sub.Customer != nil {
		customerID = sub.Customer.ID
	}

	rec := &models.Subscription{
		ID:                   uuid.NewString(),
		UserID:               userID,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: sub.ID,
		Status:               string(sub.Status),
		PlanType:             models.PlanMonthly,
		CurrentPeriodStart:   unixTime(sub.CurrentPeriodStart),
		CurrentPeriodEnd:     unixTime(sub.CurrentPeriodEnd),
	}
	if err := r.subs.UpsertSubscription(ctx, rec); err != nil {
		log.Printf("❌ [RECONCILER] upsert subscription for user %s: %v", userID, err)
		return nil
	}

	r.setUserStatusFromProvider(ctx, userID, sub.Status)
	log.Printf("✅ [RECONCILER] subscription created for user %s, status: %s", userID, sub.Status)
	return nil
}

func (r *Reconciler) applySubscriptionUpdated(ctx context.Context, sub *stripe.Subscription) error {
	userID := sub.Metadata["userId"]
	if userID == "" {
		log.Printf("⚠️ [RECONCILER] missing userId in subscription metadata: %s", sub.ID)
		return nil
	}

	ch := store.SubscriptionChanges{
		Status:             string(sub.Status),
		CurrentPeriodStart: unixTime(sub.CurrentPeriodStart),
		CurrentPeriodEnd:   unixTime(sub.CurrentPeriodEnd),
	}
	if err := r.subs.UpdateSubscriptionByProviderID(ctx, sub.ID, ch); err != nil {
		log.Printf("❌ [RECONCILER] update subscription %s: %v", sub.ID, err)
		return nil
	}

	r.setUserStatusFromProvider(ctx, userID, sub.Status)
	log.Printf("✅ [RECONCILER] subscription updated for user %s, status: %s", userID, sub.Status)
	return nil
}

func (r *Reconciler) applySubscriptionDeleted(ctx context.Context, sub *stripe.Subscription) error {
	userID := sub.Metadata["userId"]
	if userID == "" {
		log.Printf("⚠️ [RECONCILER] missing userId in subscription metadata: %s", sub.ID)
		return nil
	}

	ch := store.SubscriptionChanges{Status: models.SubscriptionCanceled}
	if err := r.subs.UpdateSubscriptionByProviderID(ctx, sub.ID, ch); err != nil {
		log.Printf("❌ [RECONCILER] cancel subscription %s: %v", sub.ID, err)
		return nil
	}
	if err := r.users.SetUserSubscriptionStatus(ctx, userID, models.UserStatusFree); err != nil {
		log.Printf("❌ [RECONCILER] partial write: subscription canceled but user %s status not updated: %v", userID, err)
		return nil
	}

	log.Printf("✅ [RECONCILER] subscription canceled for user %s", userID)
	return nil
}

// applyInvoicePaymentSucceeded re-fetches the subscription from the provider
// because the invoice payload does not embed the current period dates.
func (r *Reconciler) applyInvoicePaymentSucceeded(ctx context.Context, inv *stripe.Invoice) error {
	if inv.Subscription == nil || inv.Subscription.ID == "" {
		return nil
	}

	sub, err := r.billing.Subscription(ctx, inv.Subscription.ID)
	if err != nil {
		return fmt.Errorf("refreshing subscription %s: %w", inv.Subscription.ID, err)
	}
	userID := sub.Metadata["userId"]
	if userID == "" {
		log.Printf("⚠️ [RECONCILER] missing userId in subscription metadata: %s", sub.ID)
		return nil
	}

	ch := store.SubscriptionChanges{
		Status:             models.SubscriptionActive,
		CurrentPeriodStart: unixTime(sub.CurrentPeriodStart),
		CurrentPeriodEnd:   unixTime(sub.CurrentPeriodEnd),
	}
	if err := r.subs.UpdateSubscriptionByProviderID(ctx, sub.ID, ch); err != nil {
		log.Printf("❌ [RECONCILER] update subscription %s after payment: %v", sub.ID, err)
		return nil
	}
	if err := r.users.SetUserSubscriptionStatus(ctx, userID, models.UserStatusPremium); err != nil {
		log.Printf("❌ [RECONCILER] partial write: payment recorded but user %s status not updated: %v", userID, err)
		return nil
	}

	log.Printf("✅ [RECONCILER] payment succeeded for user %s", userID)
	return nil
}

// applyInvoicePaymentFailed marks the subscription past_due but leaves the
// user's status untouched: the grace-period policy keeps premium access
// until the subscription is actually deleted.
func (r *Reconciler) applyInvoicePaymentFailed(ctx context.Context, inv *stripe.Invoice) error {
	if inv.Subscription == nil || inv.Subscription.ID == "" {
		return nil
	}

	sub, err := r.billing.Subscription(ctx, inv.Subscription.ID)
	if err != nil {
		return fmt.Errorf("refreshing subscription %s: %w", inv.Subscription.ID, err)
	}
	userID := sub.Metadata["userId"]
	if userID == "" {
		log.Printf("⚠️ [RECONCILER] missing userId in subscription metadata: %s", sub.ID)
		return nil
	}

	ch := store.SubscriptionChanges{Status: models.SubscriptionPastDue}
	if err := r.subs.UpdateSubscriptionByProviderID(ctx, sub.ID, ch); err != nil {
		log.Printf("❌ [RECONCILER] mark subscription %s past_due: %v", sub.ID, err)
		return nil
	}

	log.Printf("⚠️ [RECONCILER] payment failed for user %s, keeping access during grace period", userID)
	return nil
}

func (r *Reconciler) setUserStatusFromProvider(ctx context.Context, userID string, providerStatus stripe.SubscriptionStatus) {
	status := models.UserStatusFree
	if providerStatus == stripe.SubscriptionStatusActive {
		status = models.UserStatusPremium
	}
	if err := r.users.SetUserSubscriptionStatus(ctx, userID, status); err != nil {
		log.Printf("❌ [RECONCILER] partial write: user %s status not set to %s: %v", userID, status, err)
	}
}

func unixTime(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
