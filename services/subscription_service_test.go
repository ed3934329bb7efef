package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lexiguard-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubscriptionApp(users *fakeUserStore, subs *fakeSubscriptionStore, billing *fakeBilling) *fiber.App {
	svc := NewSubscriptionService(subs, users, nil, billing)
	app := fiber.New()
	app.Get("/api/subscriptions", svc.GetSubscription)
	app.Post("/api/subscriptions", svc.CreateSubscription)
	app.Delete("/api/subscriptions", svc.CancelSubscription)
	return app
}

func postJSON(t *testing.T, path string, payload any) *http.Request {
	return postJSONMethod(t, http.MethodPost, path, payload)
}

func postJSONMethod(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateSubscriptionConflictSkipsBilling(t *testing.T) {
	users := newFakeUserStore()
	subs := newFakeSubscriptionStore()
	billing := newFakeBilling()
	subs.add(&models.Subscription{
		ID: "local-1", UserID: "user-1",
		Status: models.SubscriptionActive, PlanType: models.PlanMonthly,
	})
	app := newSubscriptionApp(users, subs, billing)

	resp, err := app.Test(postJSON(t, "/api/subscriptions", fiber.Map{
		"userId":        "user-1",
		"planType":      "monthly",
		"walletAddress": "0xabc",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// The provider must not be touched when the conflict check fails.
	assert.Zero(t, billing.resolveCalls)
	assert.Zero(t, billing.createCalls)
}

func TestCreateSubscriptionAfterCancelIsAllowed(t *testing.T) {
	users := newFakeUserStore()
	subs := newFakeSubscriptionStore()
	billing := newFakeBilling()
	subs.add(&models.Subscription{
		ID: "local-1", UserID: "user-1",
		Status: models.SubscriptionCanceled, PlanType: models.PlanMonthly,
	})
	app := newSubscriptionApp(users, subs, billing)

	resp, err := app.Test(postJSON(t, "/api/subscriptions", fiber.Map{
		"userId":        "user-1",
		"planType":      "monthly",
		"walletAddress": "0xabc",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, billing.createCalls)
}

func TestCreateMonthlySubscriptionReturnsClientSecret(t *testing.T) {
	app := newSubscriptionApp(newFakeUserStore(), newFakeSubscriptionStore(), newFakeBilling())

	resp, err := app.Test(postJSON(t, "/api/subscriptions", fiber.Map{
		"userId":        "user-1",
		"planType":      "monthly",
		"walletAddress": "0xabc",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "sub_fake", data["subscriptionId"])
	assert.Equal(t, "pi_fake_secret", data["clientSecret"])
	assert.Equal(t, "pi_fake", data["paymentIntentId"])
}

func TestCreateLifetimeSubscriptionReturnsPaymentIntent(t *testing.T) {
	app := newSubscriptionApp(newFakeUserStore(), newFakeSubscriptionStore(), newFakeBilling())

	resp, err := app.Test(postJSON(t, "/api/subscriptions", fiber.Map{
		"userId":        "user-1",
		"planType":      "lifetime",
		"walletAddress": "0xabc",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "pi_fake_secret", data["clientSecret"])
	assert.Equal(t, "pi_fake", data["paymentIntentId"])
	_, hasSubID := data["subscriptionId"]
	assert.False(t, hasSubID)
}

func TestCreateSubscriptionRejectsUnknownPlan(t *testing.T) {
	billing := newFakeBilling()
	app := newSubscriptionApp(newFakeUserStore(), newFakeSubscriptionStore(), billing)

	resp, err := app.Test(postJSON(t, "/api/subscriptions", fiber.Map{
		"userId":        "user-1",
		"planType":      "yearly",
		"walletAddress": "0xabc",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, billing.resolveCalls)
}

func TestGetSubscriptionWithoutRowReturnsNullData(t *testing.T) {
	app := newSubscriptionApp(newFakeUserStore(), newFakeSubscriptionStore(), newFakeBilling())

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions?userId=user-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Nil(t, body["data"])
	assert.Equal(t, "No subscription found", body["message"])
}

func TestGetSubscriptionReturnsRow(t *testing.T) {
	subs := newFakeSubscriptionStore()
	subs.add(&models.Subscription{
		ID: "local-1", UserID: "user-1",
		Status: models.SubscriptionActive, PlanType: models.PlanLifetime,
	})
	app := newSubscriptionApp(newFakeUserStore(), subs, newFakeBilling())

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions?userId=user-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "local-1", data["id"])
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, "lifetime", data["planType"])
}

func TestCancelSubscriptionSurvivesProviderFailure(t *testing.T) {
	users := newFakeUserStore()
	subs := newFakeSubscriptionStore()
	billing := newFakeBilling()
	billing.cancelErr = assert.AnError
	users.add(&models.User{UserID: "user-1", WalletAddress: "0xabc", SubscriptionStatus: models.UserStatusPremium})
	subs.add(&models.Subscription{
		ID: "local-1", UserID: "user-1", StripeSubscriptionID: "sub_1",
		Status: models.SubscriptionActive, PlanType: models.PlanMonthly,
	})
	app := newSubscriptionApp(users, subs, billing)

	req := httptest.NewRequest(http.MethodDelete, "/api/subscriptions?userId=user-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Local state is canonical even when the provider call failed.
	assert.Equal(t, []string{"sub_1"}, billing.canceled)
	assert.Equal(t, models.SubscriptionCanceled, subs.byUser["user-1"].Status)
	assert.Equal(t, models.UserStatusFree, users.users["user-1"].SubscriptionStatus)
}

func TestCancelLifetimeSubscriptionSkipsProvider(t *testing.T) {
	users := newFakeUserStore()
	subs := newFakeSubscriptionStore()
	billing := newFakeBilling()
	users.add(&models.User{UserID: "user-1", WalletAddress: "0xabc", SubscriptionStatus: models.UserStatusLifetime})
	subs.add(&models.Subscription{
		ID: "local-1", UserID: "user-1",
		Status: models.SubscriptionActive, PlanType: models.PlanLifetime,
	})
	app := newSubscriptionApp(users, subs, billing)

	req := httptest.NewRequest(http.MethodDelete, "/api/subscriptions?userId=user-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, billing.canceled)
	assert.Equal(t, models.SubscriptionCanceled, subs.byUser["user-1"].Status)
}

func TestCancelSubscriptionNotFound(t *testing.T) {
	app := newSubscriptionApp(newFakeUserStore(), newFakeSubscriptionStore(), newFakeBilling())

	req := httptest.NewRequest(http.MethodDelete, "/api/subscriptions?userId=user-unknown", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
