package listingevents

import (
	levsvc "quantum-energy-backend/internal/application/listingevents"
	mkthandlers "quantum-energy-backend/internal/interfaces/handlers/marketplace"
	"quantum-energy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *levsvc.Service
}

// GET /api/v1/listing-events/get-listing-events/:listing_id
func (h *Handlers) GetListingEvents(c *fiber.Ctx) error {
	id, err := mkthandlers.ParseID(c.Params("listing_id"))
	if err != nil {
		return response.BadRequest(c, "Invalid listing_id")
	}
	events, err := h.Service.GetListingEvents(c.Context(), id)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Listing events fetched", events, fiber.Map{"count": len(events)})
}
