package marketplace

import (
	"errors"
	"strconv"

	mktsvc "quantum-energy-backend/internal/application/marketplace"
	"quantum-energy-backend/internal/middleware"
	"quantum-energy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles marketplace handlers.
type Handlers struct {
	Service *mktsvc.Service
}

// errorStatus maps engine errors to HTTP status codes. Unknown errors are 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, mktsvc.ErrInvalidListing):
		return fiber.StatusNotFound
	case errors.Is(err, mktsvc.ErrExpiredListing):
		return fiber.StatusGone
	case errors.Is(err, mktsvc.ErrNotAuthorized):
		return fiber.StatusForbidden
	case mktsvc.IsRejection(err):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// Fail writes err in the standard error format, hiding infrastructure errors.
func Fail(c *fiber.Ctx, err error) error {
	code := errorStatus(err)
	if code == fiber.StatusInternalServerError {
		return response.Error(c, "Internal Server Error", code, nil)
	}
	return response.Error(c, err.Error(), code, nil)
}

// POST /api/v1/marketplace/create-listing
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	var body struct {
		Amount          *int64 `json:"amount"`
		Price           *int64 `json:"price"`
		DurationSeconds *int64 `json:"duration_seconds"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Amount == nil || body.Price == nil || body.DurationSeconds == nil {
		return response.BadRequest(c, "amount, price and duration_seconds are required")
	}

	id, err := h.Service.CreateListing(c.Context(), *body.Amount, *body.Price, *body.DurationSeconds, middleware.GetPrincipal(c))
	if err != nil {
		return Fail(c, err)
	}
	return response.SuccessCreated(c, "Listing created successfully", fiber.Map{"listing_id": id}, nil)
}

// POST /api/v1/marketplace/purchase-energy
func (h *Handlers) PurchaseEnergy(c *fiber.Ctx) error {
	id, ok := listingIDFromBody(c)
	if !ok {
		return response.BadRequest(c, "listing_id is required")
	}
	done, err := h.Service.PurchaseEnergy(c.Context(), id, middleware.GetPrincipal(c))
	if err != nil {
		return Fail(c, err)
	}
	return response.Success(c, "Purchase completed", fiber.Map{"success": done, "listing_id": id}, nil)
}

// POST /api/v1/marketplace/cancel-listing
func (h *Handlers) CancelListing(c *fiber.Ctx) error {
	id, ok := listingIDFromBody(c)
	if !ok {
		return response.BadRequest(c, "listing_id is required")
	}
	done, err := h.Service.CancelListing(c.Context(), id, middleware.GetPrincipal(c))
	if err != nil {
		return Fail(c, err)
	}
	return response.Success(c, "Listing cancelled successfully", fiber.Map{"success": done, "listing_id": id}, nil)
}

// GET /api/v1/marketplace/get-listing/:listing_id
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	id, err := ParseID(c.Params("listing_id"))
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id")
	}
	l, err := h.Service.GetListing(c.Context(), id)
	if err != nil {
		return Fail(c, err)
	}
	return response.Success(c, "Listing fetched successfully", l, nil)
}

// GET /api/v1/marketplace/get-active-listings
func (h *Handlers) GetActiveListings(c *fiber.Ctx) error {
	ls, err := h.Service.ActiveListings(c.Context())
	if err != nil {
		return Fail(c, err)
	}
	return response.Success(c, "Active listings fetched", ls, fiber.Map{"count": len(ls)})
}

// GET /api/v1/marketplace/get-my-listings
func (h *Handlers) GetMyListings(c *fiber.Ctx) error {
	ls, err := h.Service.SellerListings(c.Context(), middleware.GetPrincipal(c))
	if err != nil {
		return Fail(c, err)
	}
	return response.Success(c, "Seller listings fetched", ls, fiber.Map{"count": len(ls)})
}

// ParseID parses a positive decimal id from a path parameter.
func ParseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}

func listingIDFromBody(c *fiber.Ctx) (uint64, bool) {
	var body struct {
		ListingID *uint64 `json:"listing_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.ListingID == nil {
		return 0, false
	}
	return *body.ListingID, true
}
