package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/evalforge/evalforge/internal/pkg/errors"

	"github.com/evalforge/evalforge/internal/middleware"
	"github.com/evalforge/evalforge/internal/service"
	"github.com/evalforge/evalforge/internal/validator"
)

// EvalRunsHandler handles eval run endpoints
type EvalRunsHandler struct {
	evalRunService *service.EvalRunService
	logger         *zap.Logger
}

// NewEvalRunsHandler creates a new eval runs handler
func NewEvalRunsHandler(evalRunService *service.EvalRunService, logger *zap.Logger) *EvalRunsHandler {
	return &EvalRunsHandler{
		evalRunService: evalRunService,
		logger:         logger,
	}
}

// CreateEvalRun handles POST /v1/agents/:agentId/eval-runs
func (h *EvalRunsHandler) CreateEvalRun(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}

	var input service.EvalRunInput
	if err := c.BodyParser(&input); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	input.AgentID = agentID

	if err := validator.Validate(&input); err != nil {
		return respondError(c, h.logger, err, "Failed to create eval run")
	}

	rec, err := h.evalRunService.CreateEvalRun(c.Context(), middleware.GetCaller(c), &input)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to create eval run")
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}

// ListEvalRuns handles GET /v1/agents/:agentId/eval-runs
func (h *EvalRunsHandler) ListEvalRuns(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}

	records, err := h.evalRunService.List(c.Context(), agentID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list eval runs")
	}

	return c.JSON(fiber.Map{"data": records})
}

// GetEvalRun handles GET /v1/agents/:agentId/eval-runs/:evalRunId
func (h *EvalRunsHandler) GetEvalRun(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}
	evalRunID, err := requireParam(c, "evalRunId")
	if err != nil {
		return err
	}

	rec, err := h.evalRunService.Get(c.Context(), agentID, evalRunID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get eval run")
	}

	return c.JSON(rec)
}

// UpdateEvalRunStatus handles PATCH /v1/agents/:agentId/eval-runs/:evalRunId/status
func (h *EvalRunsHandler) UpdateEvalRunStatus(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}
	evalRunID, err := requireParam(c, "evalRunId")
	if err != nil {
		return err
	}

	var input struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if err := validator.Validate(&input); err != nil {
		return respondError(c, h.logger, err, "Failed to update eval run status")
	}

	rec, err := h.evalRunService.UpdateStatus(c.Context(), middleware.GetCaller(c), agentID, evalRunID, input.Status)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update eval run status")
	}

	return c.JSON(rec)
}

// GetEvalRunResults handles GET /v1/agents/:agentId/eval-runs/:evalRunId/results
func (h *EvalRunsHandler) GetEvalRunResults(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}
	evalRunID, err := requireParam(c, "evalRunId")
	if err != nil {
		return err
	}

	results, err := h.evalRunService.GetResults(c.Context(), agentID, evalRunID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get eval run results")
	}

	return c.JSON(fiber.Map{"data": results})
}

// PlaceEnrichment handles POST /v1/agents/:agentId/eval-runs/:evalRunId/enrichment
func (h *EvalRunsHandler) PlaceEnrichment(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}
	evalRunID, err := requireParam(c, "evalRunId")
	if err != nil {
		return err
	}

	resp, err := h.evalRunService.PlaceEnrichmentRequest(c.Context(), agentID, evalRunID)
	if err != nil {
		// The upstream's own verdict travels to the client as data.
		if apperrors.IsUpstream(err) && resp != nil {
			return c.Status(fiber.StatusBadGateway).JSON(resp)
		}
		return respondError(c, h.logger, err, "Failed to place enrichment request")
	}

	return c.JSON(resp)
}

// DeleteEvalRun handles DELETE /v1/agents/:agentId/eval-runs/:evalRunId
func (h *EvalRunsHandler) DeleteEvalRun(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}
	evalRunID, err := requireParam(c, "evalRunId")
	if err != nil {
		return err
	}

	deleted, err := h.evalRunService.Delete(c.Context(), agentID, evalRunID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to delete eval run")
	}
	if !deleted {
		return errorResponse(c, fiber.StatusNotFound, "Eval run not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
