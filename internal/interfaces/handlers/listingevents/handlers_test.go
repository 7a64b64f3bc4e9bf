package listingevents

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	levsvc "quantum-energy-backend/internal/application/listingevents"
	mktsvc "quantum-energy-backend/internal/application/marketplace"
	"quantum-energy-backend/internal/domain"
	"quantum-energy-backend/internal/infrastructure/database"
	"quantum-energy-backend/internal/pkg/clock"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetListingEvents(t *testing.T) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	ctx := context.Background()
	mkt := &mktsvc.Service{DB: db, Clock: clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))}
	require.NoError(t, mkt.SetBalance(ctx, "alice", domain.AssetResource, 10))
	id, err := mkt.CreateListing(ctx, 10, 3, 60, "alice")
	require.NoError(t, err)
	_, err = mkt.CancelListing(ctx, id, "alice")
	require.NoError(t, err)

	h := &Handlers{Service: &levsvc.Service{DB: db}}
	app := fiber.New()
	app.Get("/get-listing-events/:listing_id", h.GetListingEvents)

	resp, err := app.Test(httptest.NewRequest("GET", "/get-listing-events/1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out struct {
		Data []domain.ListingEvent `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Data, 2)
	assert.Equal(t, domain.ListingEventCreated, out.Data[0].EventType)
	assert.Equal(t, domain.ListingEventCancelled, out.Data[1].EventType)
}

func TestGetListingEvents_InvalidID(t *testing.T) {
	h := &Handlers{}
	app := fiber.New()
	app.Get("/get-listing-events/:listing_id", h.GetListingEvents)

	resp, err := app.Test(httptest.NewRequest("GET", "/get-listing-events/xyz", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
