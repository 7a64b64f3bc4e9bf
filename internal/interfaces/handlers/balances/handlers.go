package balances

import (
	mktsvc "quantum-energy-backend/internal/application/marketplace"
	mkthandlers "quantum-energy-backend/internal/interfaces/handlers/marketplace"
	"quantum-energy-backend/internal/middleware"
	"quantum-energy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *mktsvc.Service
}

// GET /api/v1/balances/view-balances
func (h *Handlers) ViewBalances(c *fiber.Ctx) error {
	b, err := h.Service.Balances(c.Context(), middleware.GetPrincipal(c))
	if err != nil {
		return mkthandlers.Fail(c, err)
	}
	return response.Success(c, "Balances fetched successfully", b, nil)
}
