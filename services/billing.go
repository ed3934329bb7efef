package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"lexiguard-backend/utils"

	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// BillingClient is the synchronous surface of the billing provider. It is an
// interface so tests can substitute a fake without process-wide state.
type BillingClient interface {
	// ResolveCustomer finds or creates the provider customer derived from
	// the wallet address.
	ResolveCustomer(ctx context.Context, userID, walletAddress string) (*stripe.Customer, error)
	CreateLifetimePayment(ctx context.Context, customerID, userID, walletAddress string) (*stripe.PaymentIntent, error)
	CreateMonthlySubscription(ctx context.Context, customerID, userID, walletAddress string) (*stripe.Subscription, error)
	Subscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

// StripeBilling implements BillingClient against the Stripe API.
type StripeBilling struct {
	api                 *client.API
	monthlyPriceID      string
	lifetimeAmountCents int64
}

func NewStripeBilling() *StripeBilling {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		log.Fatal("❌ STRIPE_SECRET_KEY is not set")
	}
	priceID := os.Getenv("STRIPE_MONTHLY_PRICE_ID")
	if priceID == "" {
		log.Fatal("❌ STRIPE_MONTHLY_PRICE_ID is not set")
	}

	amount := int64(2999) // $29.99 lifetime
	if v := os.Getenv("LIFETIME_PRICE_CENTS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("❌ invalid LIFETIME_PRICE_CENTS %q: %v", v, err)
		}
		amount = n
	}

	api := &client.API{}
	api.Init(key, stripe.NewBackends(utils.HTTPClient))

	return &StripeBilling{
		api:                 api,
		monthlyPriceID:      priceID,
		lifetimeAmountCents: amount,
	}
}

// customerEmail derives the deterministic lookup identifier Stripe customers
// are keyed by. There is no real mailbox behind it.
func customerEmail(walletAddress string) string {
	return walletAddress + "@lexiguard.app"
}

func (b *StripeBilling) ResolveCustomer(ctx context.Context, userID, walletAddress string) (*stripe.Customer, error) {
	listParams := &stripe.CustomerListParams{
		Email: stripe.String(customerEmail(walletAddress)),
	}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)

	iter := b.api.Customers.List(listParams)
	if iter.Next() {
		return iter.Customer(), nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(customerEmail(walletAddress)),
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)
	params.AddMetadata("walletAddress", walletAddress)

	customer, err := b.api.Customers.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}
	return customer, nil
}

func (b *StripeBilling) CreateLifetimePayment(ctx context.Context, customerID, userID, walletAddress string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(b.lifetimeAmountCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerID),
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)
	params.AddMetadata("planType", "lifetime")
	params.AddMetadata("walletAddress", walletAddress)

	pi, err := b.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}
	return pi, nil
}

func (b *StripeBilling) CreateMonthlySubscription(ctx context.Context, customerID, userID, walletAddress string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(b.monthlyPriceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
		PaymentSettings: &stripe.SubscriptionPaymentSettingsParams{
			SaveDefaultPaymentMethod: stripe.String("on_subscription"),
		},
	}
	params.Context = ctx
	params.AddExpand("latest_invoice.payment_intent")
	params.AddMetadata("userId", userID)
	params.AddMetadata("walletAddress", walletAddress)

	sub, err := b.api.Subscriptions.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}
	return sub, nil
}

func (b *StripeBilling) Subscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	sub, err := b.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieving subscription %s: %w", subscriptionID, err)
	}
	return sub, nil
}

func (b *StripeBilling) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx
	if _, err := b.api.Subscriptions.Cancel(subscriptionID, params); err != nil {
		return fmt.Errorf("canceling subscription %s: %w", subscriptionID, err)
	}
	return nil
}
