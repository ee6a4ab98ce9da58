package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dataflow-hq/dataflow/pkg/dag"
	"github.com/dataflow-hq/dataflow/pkg/eventbus"
	"github.com/dataflow-hq/dataflow/pkg/events"
	"github.com/dataflow-hq/dataflow/pkg/jobspec"
	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/persistence"
	"github.com/dataflow-hq/dataflow/pkg/persistence/postgresql"
	"github.com/dataflow-hq/dataflow/pkg/validation"
)

// databaseBacked is satisfied by persistence implementations that expose a
// live SQL handle. When available, validation extends to connection
// existence checks against the store.
type databaseBacked interface {
	DB() *sql.DB
}

// Pipeline orchestrates pipeline CRUD, validation, and artifact generation.
type Pipeline struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewPipeline creates a new pipeline service.
func NewPipeline(store persistence.Persistence, bus eventbus.EventBus, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		persistence: store,
		eventBus:    bus,
		validate:    validator.New(),
		logger:      logger,
	}
}

// HealthCheck checks the health of the persistence layer.
func (s *Pipeline) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns all stored pipelines.
func (s *Pipeline) List(ctx context.Context) ([]*models.Pipeline, error) {
	return s.persistence.PipelineRepository().List(ctx)
}

// Get returns a pipeline by its ID.
func (s *Pipeline) Get(ctx context.Context, id string) (*models.Pipeline, error) {
	return s.persistence.PipelineRepository().GetByID(ctx, id)
}

// Create validates and stores a new pipeline, assigning an ID when missing.
func (s *Pipeline) Create(ctx context.Context, pipeline *models.Pipeline) error {
	if pipeline == nil {
		return ErrPipelineNil
	}

	if err := s.validate.Struct(pipeline); err != nil {
		return NewValidationError("Create", err.Error())
	}

	if pipeline.ID == "" {
		pipeline.ID = uuid.New().String()
	}

	if err := s.persistence.PipelineRepository().Save(ctx, pipeline); err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	s.publish(ctx, pipeline.ID, events.PipelineCreated{
		BaseEvent: s.baseEvent(events.PipelineCreatedEvent, pipeline.ID),
		Name:      pipeline.Name,
	})

	return nil
}

// Update validates and stores changes to an existing pipeline.
func (s *Pipeline) Update(ctx context.Context, pipeline *models.Pipeline) error {
	if pipeline == nil {
		return ErrPipelineNil
	}

	if pipeline.ID == "" {
		return NewValidationError("Update", "pipeline id is required")
	}

	if err := s.validate.Struct(pipeline); err != nil {
		return NewValidationError("Update", err.Error())
	}

	existing, err := s.persistence.PipelineRepository().GetByID(ctx, pipeline.ID)
	if err != nil {
		return err
	}

	pipeline.CreatedAt = existing.CreatedAt

	if err := s.persistence.PipelineRepository().Save(ctx, pipeline); err != nil {
		return fmt.Errorf("failed to update pipeline: %w", err)
	}

	s.publish(ctx, pipeline.ID, events.PipelineUpdated{
		BaseEvent: s.baseEvent(events.PipelineUpdatedEvent, pipeline.ID),
		Name:      pipeline.Name,
	})

	return nil
}

// Delete removes a pipeline by its ID.
func (s *Pipeline) Delete(ctx context.Context, id string) error {
	if _, err := s.persistence.PipelineRepository().GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.persistence.PipelineRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pipeline: %w", err)
	}

	s.publish(ctx, id, events.PipelineDeleted{
		BaseEvent: s.baseEvent(events.PipelineDeletedEvent, id),
	})

	return nil
}

// BuildSpec assembles the canonical document for a stored pipeline.
func (s *Pipeline) BuildSpec(ctx context.Context, id string) (*models.PipelineSpec, error) {
	pipeline, err := s.persistence.PipelineRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	connections, err := s.persistence.ConnectionRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	return jobspec.Build(pipeline, connections), nil
}

// Validate builds the canonical document for a stored pipeline and runs the
// full rule set over it. Stores with a live SQL handle additionally get
// connection existence checks.
func (s *Pipeline) Validate(ctx context.Context, id string) (*models.ValidationResult, *models.PipelineSpec, error) {
	spec, err := s.BuildSpec(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	var result *models.ValidationResult

	if backed, ok := s.persistence.(databaseBacked); ok {
		result = validation.ValidateSpecWithDB(ctx, spec, backed.DB(), postgresql.TableName)
	} else {
		result = validation.ValidateSpec(spec)
	}

	s.publish(ctx, id, events.PipelineValidated{
		BaseEvent: s.baseEvent(events.PipelineValidatedEvent, id),
		Valid:     result.Valid,
		Errors:    result.Errors,
		Warnings:  result.Warnings,
	})

	return result, spec, nil
}

// GenerateResult bundles the artifacts produced for one pipeline.
type GenerateResult struct {
	DAG  *dag.RenderResult
	Spec *models.PipelineSpec
}

// Generate renders the DAG artifact and canonical document for a stored
// pipeline. An empty templateID falls back to the pipeline's configured
// template, then to the default built-in.
func (s *Pipeline) Generate(ctx context.Context, id, templateID string) (*GenerateResult, error) {
	pipeline, err := s.persistence.PipelineRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	connections, err := s.persistence.ConnectionRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	templates, err := s.persistence.TemplateRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	if templateID == "" {
		templateID = pipeline.TemplateID
	}

	if templateID == "" {
		templateID = dag.DefaultTemplateID
	}

	rendered := dag.Render(templateID, pipeline, connections, templates)

	s.publish(ctx, id, events.ArtifactRendered{
		BaseEvent:     s.baseEvent(events.ArtifactRenderedEvent, id),
		DagID:         dag.DagID(pipeline.Name),
		TemplateID:    rendered.TemplateID,
		UnknownTokens: rendered.UnknownTokens,
	})

	return &GenerateResult{
		DAG:  rendered,
		Spec: jobspec.Build(pipeline, connections),
	}, nil
}

func (s *Pipeline) baseEvent(eventType events.EventType, pipelineID string) events.BaseEvent {
	return events.BaseEvent{
		ID:         s.eventBus.GenerateID(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		PipelineID: pipelineID,
	}
}

// publish delivers a lifecycle event on a best-effort basis; storage writes
// never fail because the bus is down.
func (s *Pipeline) publish(ctx context.Context, key string, event eventbus.Event) {
	if s.eventBus == nil {
		return
	}

	if err := s.eventBus.Publish(ctx, key, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}
