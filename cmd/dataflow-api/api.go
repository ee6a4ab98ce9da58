// Package main provides the Dataflow API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/dataflow-hq/dataflow/pkg/eventbus"
	"github.com/dataflow-hq/dataflow/pkg/persistence"
	"github.com/dataflow-hq/dataflow/pkg/services"
	"github.com/dataflow-hq/dataflow/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	pipelineService := services.NewPipeline(a.persistence, a.eventBus, a.logger)
	connectionService := services.NewConnection(a.persistence, a.logger)
	templateService := services.NewTemplate(a.persistence, a.logger)

	handlers := web.NewAPIHandlers(pipelineService, connectionService, templateService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Dataflow API")
	})

	p := app.Group("/pipelines")
	p.Get("/", handlers.GetPipelines)
	p.Post("/", handlers.CreatePipeline)
	p.Get("/:id", handlers.GetPipeline)
	p.Patch("/:id", handlers.UpdatePipeline)
	p.Delete("/:id", handlers.DeletePipeline)
	p.Get("/:id/spec", handlers.GetPipelineSpec)
	p.Post("/:id/validate", handlers.ValidatePipeline)
	p.Post("/:id/generate", handlers.GeneratePipeline)

	c := app.Group("/connections")
	c.Get("/", handlers.GetConnections)
	c.Post("/", handlers.SaveConnection)
	c.Get("/:id", handlers.GetConnection)
	c.Delete("/:id", handlers.DeleteConnection)

	tpl := app.Group("/templates")
	tpl.Get("/", handlers.GetTemplates)
	tpl.Post("/", handlers.SaveTemplate)
	tpl.Get("/:id", handlers.GetTemplate)
	tpl.Delete("/:id", handlers.DeleteTemplate)

	app.Post("/specs/validate", handlers.ValidateDocument)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
