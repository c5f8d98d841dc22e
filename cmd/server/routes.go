package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evalforge/evalforge/internal/config"
)

func registerRoutes(app *fiber.App, cfg *config.Config, deps *Dependencies) {
	app.Use(cors.New())

	app.Get("/health", deps.HealthHandler.Health)
	app.Get("/ready", deps.HealthHandler.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1", deps.AuthMiddleware.Handler())

	agents := v1.Group("/agents/:agentId")

	datasets := agents.Group("/datasets")
	datasets.Put("/", deps.DatasetsHandler.SaveDataset)
	datasets.Get("/", deps.DatasetsHandler.ListDatasets)
	datasets.Get("/:datasetId", deps.DatasetsHandler.GetDataset)
	datasets.Get("/:datasetId/rows", deps.DatasetsHandler.GetDatasetRows)
	datasets.Delete("/:datasetId", deps.DatasetsHandler.DeleteDataset)

	metricsConfigs := agents.Group("/metrics-configurations")
	metricsConfigs.Put("/", deps.MetricsConfigsHandler.SaveMetricsConfig)
	metricsConfigs.Get("/", deps.MetricsConfigsHandler.ListMetricsConfigs)
	metricsConfigs.Get("/:configId", deps.MetricsConfigsHandler.GetMetricsConfig)
	metricsConfigs.Get("/:configId/selections", deps.MetricsConfigsHandler.GetMetricsConfigSelections)
	metricsConfigs.Delete("/:configId", deps.MetricsConfigsHandler.DeleteMetricsConfig)

	evalRuns := agents.Group("/eval-runs")
	evalRuns.Post("/", deps.EvalRunsHandler.CreateEvalRun)
	evalRuns.Get("/", deps.EvalRunsHandler.ListEvalRuns)
	evalRuns.Get("/:evalRunId", deps.EvalRunsHandler.GetEvalRun)
	evalRuns.Patch("/:evalRunId/status", deps.EvalRunsHandler.UpdateEvalRunStatus)
	evalRuns.Get("/:evalRunId/results", deps.EvalRunsHandler.GetEvalRunResults)
	evalRuns.Post("/:evalRunId/enrichment", deps.EvalRunsHandler.PlaceEnrichment)
	evalRuns.Delete("/:evalRunId", deps.EvalRunsHandler.DeleteEvalRun)
}
