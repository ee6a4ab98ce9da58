// Package persistence provides the storage abstraction for pipelines,
// connections, and user-defined templates.
package persistence

import (
	"context"

	"github.com/dataflow-hq/dataflow/pkg/models"
)

// PipelineRepository stores pipeline form state.
type PipelineRepository interface {
	List(ctx context.Context) ([]*models.Pipeline, error)
	GetByID(ctx context.Context, id string) (*models.Pipeline, error)
	Save(ctx context.Context, pipeline *models.Pipeline) error
	Delete(ctx context.Context, id string) error
}

// ConnectionRepository stores connection endpoints.
type ConnectionRepository interface {
	List(ctx context.Context) ([]*models.Connection, error)
	GetByID(ctx context.Context, id string) (*models.Connection, error)
	Save(ctx context.Context, connection *models.Connection) error
	Delete(ctx context.Context, id string) error
}

// TemplateRepository stores user-defined DAG templates. Built-in templates
// never pass through here.
type TemplateRepository interface {
	List(ctx context.Context) ([]*models.Template, error)
	GetByID(ctx context.Context, id string) (*models.Template, error)
	Save(ctx context.Context, template *models.Template) error
	Delete(ctx context.Context, id string) error
}

type Persistence interface {
	PipelineRepository() PipelineRepository
	ConnectionRepository() ConnectionRepository
	TemplateRepository() TemplateRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
