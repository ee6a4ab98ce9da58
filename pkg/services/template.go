package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/dataflow-hq/dataflow/pkg/dag"
	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/persistence"
)

// Template manages user-defined DAG templates. Built-in templates are served
// read-only alongside stored ones; user templates with a built-in's ID shadow
// it during rendering.
type Template struct {
	persistence persistence.Persistence
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewTemplate creates a new template service.
func NewTemplate(store persistence.Persistence, logger *slog.Logger) *Template {
	return &Template{
		persistence: store,
		validate:    validator.New(),
		logger:      logger,
	}
}

// List returns built-in templates followed by every stored template.
func (s *Template) List(ctx context.Context) ([]*models.Template, error) {
	stored, err := s.persistence.TemplateRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return append(dag.BuiltinTemplates(), stored...), nil
}

// Get returns a template by its ID, preferring a stored template over a
// built-in with the same ID.
func (s *Template) Get(ctx context.Context, id string) (*models.Template, error) {
	stored, err := s.persistence.TemplateRepository().GetByID(ctx, id)
	if err == nil {
		return stored, nil
	}

	if !persistence.IsTemplateNotFound(err) {
		return nil, err
	}

	for _, builtin := range dag.BuiltinTemplates() {
		if builtin.ID == id {
			return builtin, nil
		}
	}

	return nil, persistence.ErrTemplateNotFound
}

// Save validates and upserts a user-defined template.
func (s *Template) Save(ctx context.Context, template *models.Template) error {
	if template == nil {
		return ErrTemplateNil
	}

	if template.Builtin {
		return ErrBuiltinReadOnly
	}

	if err := s.validate.Struct(template); err != nil {
		return NewValidationError("Save", err.Error())
	}

	if err := s.persistence.TemplateRepository().Save(ctx, template); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	return nil
}

// Delete removes a user-defined template by its ID.
func (s *Template) Delete(ctx context.Context, id string) error {
	if _, err := s.persistence.TemplateRepository().GetByID(ctx, id); err != nil {
		return err
	}

	return s.persistence.TemplateRepository().Delete(ctx, id)
}
