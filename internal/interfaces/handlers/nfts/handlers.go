package nfts

import (
	"errors"

	nftsvc "quantum-energy-backend/internal/application/nfts"
	"quantum-energy-backend/internal/domain"
	mkthandlers "quantum-energy-backend/internal/interfaces/handlers/marketplace"
	"quantum-energy-backend/internal/middleware"
	"quantum-energy-backend/internal/pkg/response"
	"quantum-energy-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *nftsvc.Service
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, nftsvc.ErrTokenNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, nftsvc.ErrNotAuthorized):
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	case errors.Is(err, nftsvc.ErrInvalidStability), errors.Is(err, nftsvc.ErrMissingOwner):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}

// POST /api/v1/nfts/mint-hotspot
func (h *Handlers) MintHotspot(c *fiber.Ctx) error {
	var body domain.HotspotMetadata
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	id, err := h.Service.MintHotspot(c.Context(), body.Location, body.EnergyDensity, body.Stability, middleware.GetPrincipal(c))
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Hotspot minted", fiber.Map{"collection": domain.CollectionHotspot, "token_id": id}, nil)
}

// POST /api/v1/nfts/mint-vacuum-energy
func (h *Handlers) MintVacuumEnergy(c *fiber.Ctx) error {
	var body domain.VacuumEnergyMetadata
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	id, err := h.Service.MintVacuumEnergy(c.Context(), body, middleware.GetPrincipal(c))
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Vacuum energy token minted", fiber.Map{"collection": domain.CollectionVacuumEnergy, "token_id": id}, nil)
}

// POST /api/v1/nfts/transfer
func (h *Handlers) Transfer(c *fiber.Ctx) error {
	var body struct {
		Collection string  `json:"collection"`
		TokenID    *uint64 `json:"token_id"`
		Recipient  string  `json:"recipient"`
	}
	if err := c.BodyParser(&body); err != nil || body.TokenID == nil {
		return response.BadRequest(c, "collection, token_id and recipient are required")
	}
	coll, err := domain.ParseCollection(body.Collection)
	if err != nil {
		return response.BadRequest(c, "Invalid collection")
	}
	if !validation.IsValidPrincipal(body.Recipient) {
		return response.BadRequest(c, "Invalid recipient")
	}
	ok, err := h.Service.Transfer(c.Context(), coll, *body.TokenID, middleware.GetPrincipal(c), body.Recipient)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Token transferred", fiber.Map{"success": ok}, nil)
}

// GET /api/v1/nfts/get-my-tokens
func (h *Handlers) GetMyTokens(c *fiber.Ctx) error {
	toks, err := h.Service.OwnedBy(c.Context(), middleware.GetPrincipal(c))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Tokens fetched successfully", toks, fiber.Map{"count": len(toks)})
}

// GET /api/v1/nfts/:collection/:token_id
func (h *Handlers) GetToken(c *fiber.Ctx) error {
	coll, err := domain.ParseCollection(c.Params("collection"))
	if err != nil {
		return response.BadRequest(c, "Invalid collection")
	}
	id, err := mkthandlers.ParseID(c.Params("token_id"))
	if err != nil {
		return response.BadRequest(c, "Invalid token_id")
	}
	tok, err := h.Service.GetToken(c.Context(), coll, id)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Token fetched successfully", tok, nil)
}
