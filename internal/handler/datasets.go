package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/evalforge/evalforge/internal/middleware"
	"github.com/evalforge/evalforge/internal/service"
	"github.com/evalforge/evalforge/internal/validator"
)

// DatasetsHandler handles dataset endpoints
type DatasetsHandler struct {
	datasetService *service.DatasetService
	logger         *zap.Logger
}

// NewDatasetsHandler creates a new datasets handler
func NewDatasetsHandler(datasetService *service.DatasetService, logger *zap.Logger) *DatasetsHandler {
	return &DatasetsHandler{
		datasetService: datasetService,
		logger:         logger,
	}
}

// SaveDataset handles PUT /v1/agents/:agentId/datasets
func (h *DatasetsHandler) SaveDataset(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}

	var input service.DatasetInput
	if err := c.BodyParser(&input); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	input.AgentID = agentID

	if err := validator.Validate(&input); err != nil {
		return respondError(c, h.logger, err, "Failed to save dataset")
	}

	rec, err := h.datasetService.Save(c.Context(), middleware.GetCaller(c), &input)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to save dataset")
	}

	return c.JSON(rec)
}

// ListDatasets handles GET /v1/agents/:agentId/datasets
func (h *DatasetsHandler) ListDatasets(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}

	records, err := h.datasetService.List(c.Context(), agentID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list datasets")
	}

	return c.JSON(fiber.Map{"data": records})
}

// GetDataset handles GET /v1/agents/:agentId/datasets/:datasetId
func (h *DatasetsHandler) GetDataset(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}
	datasetID, err := requireParam(c, "datasetId")
	if err != nil {
		return err
	}

	rec, err := h.datasetService.Get(c.Context(), agentID, datasetID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get dataset")
	}

	return c.JSON(rec)
}

// GetDatasetRows handles GET /v1/agents/:agentId/datasets/:datasetId/rows
func (h *DatasetsHandler) GetDatasetRows(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}
	datasetID, err := requireParam(c, "datasetId")
	if err != nil {
		return err
	}

	rows, err := h.datasetService.GetRows(c.Context(), agentID, datasetID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get dataset rows")
	}

	return c.JSON(fiber.Map{"data": rows})
}

// DeleteDataset handles DELETE /v1/agents/:agentId/datasets/:datasetId
func (h *DatasetsHandler) DeleteDataset(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}
	datasetID, err := requireParam(c, "datasetId")
	if err != nil {
		return err
	}

	deleted, err := h.datasetService.Delete(c.Context(), agentID, datasetID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to delete dataset")
	}
	if !deleted {
		return errorResponse(c, fiber.StatusNotFound, "Dataset not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
