package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/evalforge/evalforge/internal/middleware"
	"github.com/evalforge/evalforge/internal/service"
	"github.com/evalforge/evalforge/internal/validator"
)

// MetricsConfigsHandler handles metrics configuration endpoints
type MetricsConfigsHandler struct {
	configService *service.MetricsConfigService
	logger        *zap.Logger
}

// NewMetricsConfigsHandler creates a new metrics configurations handler
func NewMetricsConfigsHandler(configService *service.MetricsConfigService, logger *zap.Logger) *MetricsConfigsHandler {
	return &MetricsConfigsHandler{
		configService: configService,
		logger:        logger,
	}
}

// SaveMetricsConfig handles PUT /v1/agents/:agentId/metrics-configurations
func (h *MetricsConfigsHandler) SaveMetricsConfig(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}

	var input service.MetricsConfigInput
	if err := c.BodyParser(&input); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	input.AgentID = agentID

	if err := validator.Validate(&input); err != nil {
		return respondError(c, h.logger, err, "Failed to save metrics configuration")
	}

	rec, err := h.configService.Save(c.Context(), middleware.GetCaller(c), &input)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to save metrics configuration")
	}

	return c.JSON(rec)
}

// ListMetricsConfigs handles GET /v1/agents/:agentId/metrics-configurations
func (h *MetricsConfigsHandler) ListMetricsConfigs(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}

	records, err := h.configService.List(c.Context(), agentID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list metrics configurations")
	}

	return c.JSON(fiber.Map{"data": records})
}

// GetMetricsConfig handles GET /v1/agents/:agentId/metrics-configurations/:configId
func (h *MetricsConfigsHandler) GetMetricsConfig(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}
	configID, err := requireParam(c, "configId")
	if err != nil {
		return err
	}

	rec, err := h.configService.Get(c.Context(), agentID, configID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get metrics configuration")
	}

	return c.JSON(rec)
}

// GetMetricsConfigSelections handles GET /v1/agents/:agentId/metrics-configurations/:configId/selections
func (h *MetricsConfigsHandler) GetMetricsConfigSelections(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}
	configID, err := requireParam(c, "configId")
	if err != nil {
		return err
	}

	selections, err := h.configService.GetSelections(c.Context(), agentID, configID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to get metric selections")
	}

	return c.JSON(fiber.Map{"data": selections})
}

// DeleteMetricsConfig handles DELETE /v1/agents/:agentId/metrics-configurations/:configId
func (h *MetricsConfigsHandler) DeleteMetricsConfig(c *fiber.Ctx) error {
	agentID, err := requireParam(c, "agentId")
	if err != nil {
		return err
	}
	configID, err := requireParam(c, "configId")
	if err != nil {
		return err
	}

	deleted, err := h.configService.Delete(c.Context(), agentID, configID)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to delete metrics configuration")
	}
	if !deleted {
		return errorResponse(c, fiber.StatusNotFound, "Metrics configuration not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
