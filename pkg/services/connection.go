package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/persistence"
)

// Connection manages stored source and target endpoints.
type Connection struct {
	persistence persistence.Persistence
	validate    *validator.Validate
	logger      *slog.Logger
}

// NewConnection creates a new connection service.
func NewConnection(store persistence.Persistence, logger *slog.Logger) *Connection {
	return &Connection{
		persistence: store,
		validate:    validator.New(),
		logger:      logger,
	}
}

// List returns all stored connections.
func (s *Connection) List(ctx context.Context) ([]*models.Connection, error) {
	return s.persistence.ConnectionRepository().List(ctx)
}

// Get returns a connection by its surrogate key or domain connection_id.
func (s *Connection) Get(ctx context.Context, id string) (*models.Connection, error) {
	return s.persistence.ConnectionRepository().GetByID(ctx, id)
}

// Save validates and upserts a connection.
func (s *Connection) Save(ctx context.Context, connection *models.Connection) error {
	if connection == nil {
		return ErrConnectionNil
	}

	if err := s.validate.Struct(connection); err != nil {
		return NewValidationError("Save", err.Error())
	}

	if connection.Status == "" {
		connection.Status = models.ConnectionActive
	}

	if err := s.persistence.ConnectionRepository().Save(ctx, connection); err != nil {
		return fmt.Errorf("failed to save connection: %w", err)
	}

	return nil
}

// Delete removes a connection by its domain connection_id.
func (s *Connection) Delete(ctx context.Context, id string) error {
	if _, err := s.persistence.ConnectionRepository().GetByID(ctx, id); err != nil {
		return err
	}

	return s.persistence.ConnectionRepository().Delete(ctx, id)
}
