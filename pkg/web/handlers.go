// Package web provides HTTP handlers and REST API endpoints for pipeline management.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/dataflow-hq/dataflow/pkg/dag"
	"github.com/dataflow-hq/dataflow/pkg/services"
	"github.com/dataflow-hq/dataflow/pkg/validation"
)

type APIHandlers struct {
	pipelineService   *services.Pipeline
	connectionService *services.Connection
	templateService   *services.Template
	validator         *validator.Validate
}

func NewAPIHandlers(
	pipelineService *services.Pipeline,
	connectionService *services.Connection,
	templateService *services.Template,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		pipelineService:   pipelineService,
		connectionService: connectionService,
		templateService:   templateService,
		validator:         validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.pipelineService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Dataflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Dataflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetPipelines(c fiber.Ctx) error {
	pipelines, err := h.pipelineService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"pipelines":   pipelines,
		"total_count": len(pipelines),
	})
}

func (h *APIHandlers) GetPipeline(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Pipeline ID is required")
	}

	pipeline, err := h.pipelineService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(pipeline)
}

func (h *APIHandlers) CreatePipeline(c fiber.Ctx) error {
	var req CreatePipelineRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	pipeline := req.ToModel()

	if err := h.pipelineService.Create(c.Context(), pipeline); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(pipeline)
}

func (h *APIHandlers) UpdatePipeline(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Pipeline ID is required")
	}

	var req UpdatePipelineRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.pipelineService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	req.ApplyTo(existing)

	if err := h.pipelineService.Update(c.Context(), existing); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(existing)
}

func (h *APIHandlers) DeletePipeline(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Pipeline ID is required")
	}

	if err := h.pipelineService.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetPipelineSpec serves the canonical document assembled from the stored
// form state.
func (h *APIHandlers) GetPipelineSpec(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Pipeline ID is required")
	}

	spec, err := h.pipelineService.BuildSpec(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(spec)
}

// ValidatePipeline runs the full rule set over the pipeline's canonical
// document. The verdict is returned with HTTP 200 regardless of validity;
// failures are data, not transport errors.
func (h *APIHandlers) ValidatePipeline(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Pipeline ID is required")
	}

	result, spec, err := h.pipelineService.Validate(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(ValidateResponse{
		Valid:    result.Valid,
		Errors:   result.Errors,
		Warnings: result.Warnings,
		Spec:     spec,
	})
}

// ValidateDocument runs the structural schema gate over a raw canonical
// document supplied in the request body.
func (h *APIHandlers) ValidateDocument(c fiber.Ctx) error {
	result := validation.ValidateDocument(c.Body())

	return c.JSON(ValidateResponse{
		Valid:    result.Valid,
		Errors:   result.Errors,
		Warnings: result.Warnings,
	})
}

// GeneratePipeline renders the DAG artifact for a pipeline. The template may
// be forced with the template_id query parameter.
func (h *APIHandlers) GeneratePipeline(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Pipeline ID is required")
	}

	result, err := h.pipelineService.Generate(c.Context(), id, c.Query("template_id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(GenerateResponse{
		DagID:         dag.DagID(result.Spec.Metadata.Name),
		TemplateID:    result.DAG.TemplateID,
		TemplateName:  result.DAG.TemplateName,
		DAG:           result.DAG.Output,
		UnknownTokens: result.DAG.UnknownTokens,
		Spec:          result.Spec,
	})
}

func (h *APIHandlers) GetConnections(c fiber.Ctx) error {
	connections, err := h.connectionService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	responses := make([]ConnectionResponse, 0, len(connections))
	for _, conn := range connections {
		responses = append(responses, TransformConnectionResponse(conn))
	}

	return c.JSON(fiber.Map{
		"connections": responses,
		"total_count": len(responses),
	})
}

func (h *APIHandlers) GetConnection(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Connection ID is required")
	}

	connection, err := h.connectionService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformConnectionResponse(connection))
}

func (h *APIHandlers) SaveConnection(c fiber.Ctx) error {
	var req SaveConnectionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	connection := req.ToModel()

	if err := h.connectionService.Save(c.Context(), connection); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(TransformConnectionResponse(connection))
}

func (h *APIHandlers) DeleteConnection(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Connection ID is required")
	}

	if err := h.connectionService.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	templates, err := h.templateService.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"templates":   templates,
		"total_count": len(templates),
	})
}

func (h *APIHandlers) GetTemplate(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	template, err := h.templateService.Get(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(template)
}

func (h *APIHandlers) SaveTemplate(c fiber.Ctx) error {
	var req SaveTemplateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	template := req.ToModel()

	if err := h.templateService.Save(c.Context(), template); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(template)
}

func (h *APIHandlers) DeleteTemplate(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	if err := h.templateService.Delete(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
