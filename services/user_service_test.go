package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lexiguard-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserApp(users *fakeUserStore) *fiber.App {
	svc := NewUserService(users)
	app := fiber.New()
	app.Post("/api/users/wallet-auth", svc.WalletAuth)
	app.Get("/api/users", svc.GetUser)
	return app
}

func TestWalletAuthCreatesUserOnFirstLogin(t *testing.T) {
	users := newFakeUserStore()
	app := newUserApp(users)

	resp, err := app.Test(postJSON(t, "/api/users/wallet-auth", fiber.Map{
		"walletAddress": "0xABCdef123",
		"signature":     "sig",
		"message":       "login",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	user := decodeBody(t, resp)["user"].(map[string]any)
	assert.Equal(t, "0xabcdef123", user["walletAddress"])
	assert.Equal(t, models.UserStatusFree, user["subscriptionStatus"])
	assert.Equal(t, "en", user["preferredLanguage"])
	assert.NotEmpty(t, user["userId"])
	assert.Len(t, users.users, 1)
}

func TestWalletAuthRepeatLoginReturnsSameUser(t *testing.T) {
	users := newFakeUserStore()
	app := newUserApp(users)

	first, err := app.Test(postJSON(t, "/api/users/wallet-auth", fiber.Map{"walletAddress": "0xAbc"}))
	require.NoError(t, err)
	firstID := decodeBody(t, first)["user"].(map[string]any)["userId"]

	// Same address in a different casing must resolve to the same record.
	second, err := app.Test(postJSON(t, "/api/users/wallet-auth", fiber.Map{"walletAddress": "0xABC"}))
	require.NoError(t, err)
	secondID := decodeBody(t, second)["user"].(map[string]any)["userId"]

	assert.Equal(t, firstID, secondID)
	assert.Len(t, users.users, 1)
}

func TestWalletAuthRequiresAddress(t *testing.T) {
	app := newUserApp(newFakeUserStore())

	resp, err := app.Test(postJSON(t, "/api/users/wallet-auth", fiber.Map{"signature": "sig"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUserByWallet(t *testing.T) {
	users := newFakeUserStore()
	users.add(&models.User{
		UserID:             "user-1",
		WalletAddress:      "0xabc",
		SubscriptionStatus: models.UserStatusPremium,
		PreferredLanguage:  "es",
	})
	app := newUserApp(users)

	req := httptest.NewRequest(http.MethodGet, "/api/users?walletAddress=0xABC", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	user := decodeBody(t, resp)["user"].(map[string]any)
	assert.Equal(t, "user-1", user["userId"])
	assert.Equal(t, models.UserStatusPremium, user["subscriptionStatus"])
}

func TestGetUserNotFound(t *testing.T) {
	app := newUserApp(newFakeUserStore())

	req := httptest.NewRequest(http.MethodGet, "/api/users?walletAddress=0xmissing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
