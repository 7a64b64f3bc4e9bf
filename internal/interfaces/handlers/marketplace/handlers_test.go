package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mktsvc "quantum-energy-backend/internal/application/marketplace"
	"quantum-energy-backend/internal/domain"
	"quantum-energy-backend/internal/infrastructure/database"
	"quantum-energy-backend/internal/middleware"
	"quantum-energy-backend/internal/pkg/clock"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMarketplaceTest(t *testing.T) (*fiber.App, *mktsvc.Service, *clock.Manual) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	clk := clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := &mktsvc.Service{DB: db, Clock: clk}
	h := &Handlers{Service: svc}

	app := fiber.New()
	g := app.Group("/", middleware.RequirePrincipal())
	g.Post("/create-listing", h.CreateListing)
	g.Post("/purchase-energy", h.PurchaseEnergy)
	g.Post("/cancel-listing", h.CancelListing)
	g.Get("/get-listing/:listing_id", h.GetListing)
	g.Get("/get-active-listings", h.GetActiveListings)
	g.Get("/get-my-listings", h.GetMyListings)
	return app, svc, clk
}

func do(t *testing.T, app *fiber.App, method, path, principal string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if principal != "" {
		req.Header.Set(middleware.PrincipalHeader, principal)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func errMessage(out map[string]interface{}) string {
	e, _ := out["error"].(map[string]interface{})
	s, _ := e["message"].(string)
	return s
}

func seed(t *testing.T, svc *mktsvc.Service, principal string, asset domain.Asset, qty int64) {
	t.Helper()
	require.NoError(t, svc.SetBalance(context.Background(), principal, asset, qty))
}

func TestCreateListing_RequiresPrincipal(t *testing.T) {
	app, _, _ := setupMarketplaceTest(t)
	resp, out := do(t, app, "POST", "/create-listing", "", map[string]interface{}{"amount": 1, "price": 1, "duration_seconds": 60})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "error", out["status"])
}

func TestCreateListing_MissingFields(t *testing.T) {
	app, _, _ := setupMarketplaceTest(t)
	resp, out := do(t, app, "POST", "/create-listing", "alice", map[string]interface{}{"amount": 10})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "amount, price and duration_seconds are required", errMessage(out))
}

func TestCreateListing_InsufficientBalance(t *testing.T) {
	app, _, _ := setupMarketplaceTest(t)
	resp, out := do(t, app, "POST", "/create-listing", "alice", map[string]interface{}{"amount": 10, "price": 5, "duration_seconds": 60})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, mktsvc.ErrInsufficientBalance.Error(), errMessage(out))
}

func TestCreateAndPurchaseFlow(t *testing.T) {
	app, svc, _ := setupMarketplaceTest(t)
	seed(t, svc, "alice", domain.AssetResource, 1000)
	seed(t, svc, "bob", domain.AssetCredit, 5000)

	resp, out := do(t, app, "POST", "/create-listing", "alice", map[string]interface{}{"amount": 500, "price": 1000, "duration_seconds": 3600})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["listing_id"])

	resp, out = do(t, app, "GET", "/get-active-listings", "bob", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, out["data"], 1)

	resp, out = do(t, app, "POST", "/purchase-energy", "bob", map[string]interface{}{"listing_id": 1})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["data"].(map[string]interface{})["success"])

	b, err := svc.Balances(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(4000), b.Credit)
	assert.Equal(t, int64(500), b.Resource)

	resp, out = do(t, app, "GET", "/get-listing/1", "bob", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, mktsvc.ErrInvalidListing.Error(), errMessage(out))
}

func TestPurchase_Expired(t *testing.T) {
	app, svc, clk := setupMarketplaceTest(t)
	seed(t, svc, "alice", domain.AssetResource, 10)
	seed(t, svc, "bob", domain.AssetCredit, 10)
	resp, _ := do(t, app, "POST", "/create-listing", "alice", map[string]interface{}{"amount": 10, "price": 1, "duration_seconds": 60})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	clk.Advance(61 * time.Second)
	resp, out := do(t, app, "POST", "/purchase-energy", "bob", map[string]interface{}{"listing_id": 1})
	assert.Equal(t, fiber.StatusGone, resp.StatusCode)
	assert.Equal(t, mktsvc.ErrExpiredListing.Error(), errMessage(out))
}

func TestPurchase_MissingListingID(t *testing.T) {
	app, _, _ := setupMarketplaceTest(t)
	resp, out := do(t, app, "POST", "/purchase-energy", "bob", map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "listing_id is required", errMessage(out))
}

func TestCancel_NotSeller(t *testing.T) {
	app, svc, _ := setupMarketplaceTest(t)
	seed(t, svc, "alice", domain.AssetResource, 10)
	resp, _ := do(t, app, "POST", "/create-listing", "alice", map[string]interface{}{"amount": 10, "price": 1, "duration_seconds": 60})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, out := do(t, app, "POST", "/cancel-listing", "mallory", map[string]interface{}{"listing_id": 1})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, mktsvc.ErrNotAuthorized.Error(), errMessage(out))

	resp, _ = do(t, app, "POST", "/cancel-listing", "alice", map[string]interface{}{"listing_id": 1})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	b, err := svc.Balances(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), b.Resource)
}

func TestGetMyListings(t *testing.T) {
	app, svc, _ := setupMarketplaceTest(t)
	seed(t, svc, "alice", domain.AssetResource, 10)
	for i := 0; i < 2; i++ {
		resp, _ := do(t, app, "POST", "/create-listing", "alice", map[string]interface{}{"amount": 5, "price": 1, "duration_seconds": 60})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp, out := do(t, app, "GET", "/get-my-listings", "alice", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, out["data"], 2)
	assert.Equal(t, float64(2), out["metadata"].(map[string]interface{})["count"])

	_, out = do(t, app, "GET", "/get-my-listings", "bob", nil)
	assert.Len(t, out["data"], 0)
}

func TestGetListing_InvalidID(t *testing.T) {
	app, _, _ := setupMarketplaceTest(t)
	for _, p := range []string{"/get-listing/abc", "/get-listing/0", "/get-listing/-1"} {
		resp, _ := do(t, app, "GET", p, "bob", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, p)
	}
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, errorStatus(mktsvc.ErrInvalidListing))
	assert.Equal(t, fiber.StatusGone, errorStatus(mktsvc.ErrExpiredListing))
	assert.Equal(t, fiber.StatusForbidden, errorStatus(mktsvc.ErrNotAuthorized))
	assert.Equal(t, fiber.StatusBadRequest, errorStatus(mktsvc.ErrInsufficientBalance))
	assert.Equal(t, fiber.StatusBadRequest, errorStatus(mktsvc.ErrInvalidDuration))
	assert.Equal(t, fiber.StatusInternalServerError, errorStatus(context.DeadlineExceeded))
}
