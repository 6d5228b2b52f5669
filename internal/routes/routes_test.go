package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/internal/handlers"
	"marketplace/internal/models"
	"marketplace/internal/repositories/memory"
	"marketplace/internal/services/auth"
	"marketplace/internal/services/checkout"
	"marketplace/internal/services/copyright"
	"marketplace/internal/services/payment"
	"marketplace/internal/services/settings"
	keys "marketplace/internal/utils/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse"

// stubGateway accepts every request and only verifies webhooks signed "ok".
type stubGateway struct{}

func (stubGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	return &payment.CheckoutSession{ID: "cs_test", URL: "https://pay.example/cs_test"}, nil
}

func (stubGateway) ParseWebhook(_ []byte, signature string) (*payment.WebhookEvent, error) {
	if signature != "ok" {
		return nil, payment.ErrInvalidSignature
	}
	return &payment.WebhookEvent{ID: "evt", Kind: payment.EventIgnored}, nil
}

func (stubGateway) CreateTransfer(context.Context, payment.TransferRequest) (string, error) {
	return "tr_test", nil
}

func (stubGateway) CreateRefund(context.Context, payment.RefundRequest) (string, error) {
	return "re_test", nil
}

// fakeCache counts flushes instead of talking to Redis.
type fakeCache struct {
	flushes int
}

func (c *fakeCache) Stats() map[string]interface{} {
	return map[string]interface{}{"hits": int64(0)}
}

func (c *fakeCache) Flush(context.Context) (map[keys.EntityType]int64, error) {
	c.flushes++
	return map[keys.EntityType]int64{keys.EntitySettings: 1}, nil
}

type testServer struct {
	app     *fiber.App
	store   *memory.Store
	cache   *fakeCache
	tokens  map[string]string
	listing *models.Listing
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	words, err := copyright.DefaultWords()
	require.NoError(t, err)
	settingsSvc := settings.NewService(store, nil)
	authSvc := auth.NewService(store.Users(), "test-secret", time.Hour)

	cache := &fakeCache{}
	app := fiber.New()
	SetupRoutes(app, Services{
		Health:    handlers.NewHealthHandler(nil, cache),
		Auth:      authSvc,
		Checkout:  checkout.NewService(store, settingsSvc, stubGateway{}, checkout.Config{}),
		Settings:  settingsSvc,
		Copyright: copyright.NewService(store, copyright.NewStaticSource(words), copyright.Config{AdminEmail: "legal@example.com"}),
	})

	hashed, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	srv := &testServer{app: app, store: store, cache: cache, tokens: map[string]string{}}
	for _, role := range []string{models.RoleAdmin, models.RoleSeller, models.RoleBuyer} {
		u := &models.User{Email: role + "@example.com", Name: role, Password: hashed, Role: role}
		require.NoError(t, store.Users().Create(ctx, u))
		if role == models.RoleSeller {
			srv.listing = &models.Listing{SellerID: u.ID, Title: "Nike inspired sneakers", PriceCents: 5000, IsActive: true}
			require.NoError(t, store.Listings().Create(ctx, srv.listing))
		}
	}
	for _, role := range []string{models.RoleAdmin, models.RoleSeller, models.RoleBuyer} {
		srv.tokens[role] = srv.login(t, role+"@example.com")
	}
	return srv
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/api/login", "", fiber.Map{"email": email, "password": testPassword})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return body["access_token"].(string)
}

func (s *testServer) do(t *testing.T, method, path, role string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+s.tokens[role])
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	body := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	resp, body := s.do(t, http.MethodPost, "/api/login", "", fiber.Map{"email": "buyer@example.com", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])

	resp, _ = s.do(t, http.MethodPost, "/api/login", "", fiber.Map{"email": "buyer@example.com"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQuoteAndCheckout(t *testing.T) {
	s := newTestServer(t)
	cart := fiber.Map{"country": "US", "items": []fiber.Map{{"listing_id": s.listing.ID, "quantity": 2}}}

	resp, body := s.do(t, http.MethodPost, "/api/fees/quote", "", cart)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	order := body["data"].(map[string]interface{})["order"].(map[string]interface{})
	assert.EqualValues(t, 10000, order["order_total_cents"])
	assert.EqualValues(t, 700, order["fees_total_cents"])

	resp, _ = s.do(t, http.MethodPost, "/api/checkout", "", cart)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body = s.do(t, http.MethodPost, "/api/checkout", models.RoleBuyer, cart)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "https://pay.example/cs_test", data["checkout_url"])

	resp, body = s.do(t, http.MethodPost, "/api/fees/quote", "", fiber.Map{"items": []fiber.Map{{"listing_id": 999, "quantity": 1}}})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "LISTING_NOT_FOUND", body["code"])
}

func TestWebhookSignature(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewBufferString(`{}`))
	req.Header.Set("Stripe-Signature", "forged")
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewBufferString(`{}`))
	req.Header.Set("Stripe-Signature", "ok")
	resp, err = s.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDMCAFlow(t *testing.T) {
	s := newTestServer(t)

	complaint := fiber.Map{
		"listing_id":           s.listing.ID,
		"complainant_name":     "Brand Legal",
		"complainant_email":    "legal@brand.example",
		"copyrighted_work":     "Registered trademark artwork",
		"description":          "Listing copies our logo",
		"good_faith_statement": true,
		"signature":            "B. Legal",
	}
	resp, _ := s.do(t, http.MethodPost, "/api/dmca/complaints", "", fiber.Map{"listing_id": s.listing.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := s.do(t, http.MethodPost, "/api/dmca/complaints", "", complaint)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	filed := body["data"].(map[string]interface{})
	assert.Equal(t, models.ComplaintValid, filed["Status"], "the listing title matches an auto-flag term")

	listing, err := s.store.Listings().FindByID(context.Background(), s.listing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CopyrightDisabled, listing.CopyrightStatus)
	assert.False(t, listing.IsActive)

	complaintPath := "/api/dmca/complaints/" + jsonID(filed["ID"])
	notice := fiber.Map{"statement": "My own design", "signature": "Seller", "consent_to_jurisdiction": true}

	resp, _ = s.do(t, http.MethodPost, complaintPath+"/counter-notice", models.RoleBuyer, notice)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, complaintPath+"/counter-notice", models.RoleSeller, notice)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = s.do(t, http.MethodPost, complaintPath+"/counter-notice", models.RoleSeller, notice)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "COUNTER_NOTICE_EXISTS", body["code"])

	resp, _ = s.do(t, http.MethodGet, "/api/admin/complaints", models.RoleSeller, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/api/admin/complaints?limit=10", models.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	meta := body["meta"].(map[string]interface{})
	assert.EqualValues(t, 1, meta["total_items"])
}

func TestSellerStrikes(t *testing.T) {
	s := newTestServer(t)
	sellerID := s.listing.SellerID

	resp, _ := s.do(t, http.MethodPost, "/api/admin/strikes", models.RoleAdmin, fiber.Map{"seller_id": sellerID, "reason": "Repeat infringement"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := s.do(t, http.MethodGet, "/api/seller/strikes", models.RoleSeller, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["active"])

	resp, _ = s.do(t, http.MethodGet, "/api/seller/strikes", models.RoleBuyer, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminFeeSettings(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodPut, "/api/admin/settings/fees", models.RoleAdmin, fiber.Map{"platform_fee_rate": "0.9"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body := s.do(t, http.MethodPut, "/api/admin/settings/fees", models.RoleAdmin, fiber.Map{"platform_fee_rate": "0.06"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "0.06", data["platform_fee_rate"])

	resp, _ = s.do(t, http.MethodGet, "/api/admin/settings/fees", models.RoleBuyer, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminCache(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodDelete, "/api/admin/cache", models.RoleSeller, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Zero(t, s.cache.flushes)

	resp, body := s.do(t, http.MethodDelete, "/api/admin/cache", models.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, s.cache.flushes)
	deleted := body["data"].(map[string]interface{})["deleted"].(map[string]interface{})
	assert.Equal(t, float64(1), deleted["settings"])

	resp, body = s.do(t, http.MethodGet, "/api/admin/cache/stats", models.RoleAdmin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body["cache_stats"], "hits")
}

func TestSellerCreatesListing(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, http.MethodPost, "/api/seller/listings", models.RoleBuyer, fiber.Map{"title": "Mug", "price_cents": 1000})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body := s.do(t, http.MethodPost, "/api/seller/listings", models.RoleSeller, fiber.Map{"title": "Glazed mug", "price_cents": 1000})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	listing := body["data"].(map[string]interface{})["listing"].(map[string]interface{})
	assert.Equal(t, models.CopyrightClear, listing["CopyrightStatus"])
	assert.Equal(t, true, listing["IsActive"])

	resp, _ = s.do(t, http.MethodPost, "/api/seller/listings", models.RoleSeller, fiber.Map{"title": "Mug", "price_cents": -5})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func jsonID(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
