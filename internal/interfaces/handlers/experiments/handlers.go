package experiments

import (
	"errors"

	expsvc "quantum-energy-backend/internal/application/experiments"
	"quantum-energy-backend/internal/domain"
	mkthandlers "quantum-energy-backend/internal/interfaces/handlers/marketplace"
	"quantum-energy-backend/internal/middleware"
	"quantum-energy-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *expsvc.Service
}

func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, expsvc.ErrInvalidExperiment):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, expsvc.ErrNotAuthorized):
		return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
	case errors.Is(err, expsvc.ErrMissingType), errors.Is(err, expsvc.ErrMissingResearcher), errors.Is(err, expsvc.ErrNegativeEnergy):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
}

// POST /api/v1/experiments/start-experiment
func (h *Handlers) StartExperiment(c *fiber.Ctx) error {
	var body struct {
		ExperimentType string                       `json:"experiment_type"`
		Parameters     []domain.ExperimentParameter `json:"parameters"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	id, err := h.Service.StartExperiment(c.Context(), body.ExperimentType, body.Parameters, middleware.GetPrincipal(c))
	if err != nil {
		return fail(c, err)
	}
	return response.SuccessCreated(c, "Experiment started", fiber.Map{"experiment_id": id}, nil)
}

// POST /api/v1/experiments/end-experiment
func (h *Handlers) EndExperiment(c *fiber.Ctx) error {
	var body struct {
		ExperimentID   *uint64 `json:"experiment_id"`
		Results        string  `json:"results"`
		EnergyConsumed int64   `json:"energy_consumed"`
	}
	if err := c.BodyParser(&body); err != nil || body.ExperimentID == nil {
		return response.BadRequest(c, "experiment_id is required")
	}
	ok, err := h.Service.EndExperiment(c.Context(), *body.ExperimentID, body.Results, body.EnergyConsumed, middleware.GetPrincipal(c))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Experiment ended", fiber.Map{"success": ok, "experiment_id": *body.ExperimentID}, nil)
}

// GET /api/v1/experiments/get-experiment/:experiment_id
func (h *Handlers) GetExperiment(c *fiber.Ctx) error {
	id, err := mkthandlers.ParseID(c.Params("experiment_id"))
	if err != nil {
		return response.BadRequest(c, "Invalid experiment_id")
	}
	exp, err := h.Service.GetExperiment(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Experiment fetched successfully", exp, nil)
}

// GET /api/v1/experiments/get-my-experiments
func (h *Handlers) GetMyExperiments(c *fiber.Ctx) error {
	list, err := h.Service.ResearcherExperiments(c.Context(), middleware.GetPrincipal(c))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, "Experiments fetched successfully", list, fiber.Map{"count": len(list)})
}
