package admin

import (
	mktsvc "quantum-energy-backend/internal/application/marketplace"
	"quantum-energy-backend/internal/domain"
	mkthandlers "quantum-energy-backend/internal/interfaces/handlers/marketplace"
	"quantum-energy-backend/internal/pkg/response"
	"quantum-energy-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *mktsvc.Service
}

// PUT /api/v1/admin/set-balance
func (h *Handlers) SetBalance(c *fiber.Ctx) error {
	var body struct {
		Principal string `json:"principal"`
		Asset     string `json:"asset"`
		Quantity  *int64 `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if body.Principal == "" || body.Asset == "" || body.Quantity == nil {
		return response.BadRequest(c, "principal, asset and quantity are required")
	}
	if !validation.IsValidPrincipal(body.Principal) {
		return response.BadRequest(c, "Invalid principal")
	}
	if err := h.Service.SetBalance(c.Context(), body.Principal, domain.Asset(body.Asset), *body.Quantity); err != nil {
		return mkthandlers.Fail(c, err)
	}
	b, err := h.Service.Balances(c.Context(), body.Principal)
	if err != nil {
		return mkthandlers.Fail(c, err)
	}
	return response.Success(c, "Balance updated successfully", b, nil)
}
