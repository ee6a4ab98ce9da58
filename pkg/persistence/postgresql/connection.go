package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/persistence"
)

// ConnectionRepository handles connection-related database operations. Rows
// carry a numeric surrogate key alongside the domain connection_id held in
// the JSON body; lookups accept either.
type ConnectionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewConnectionRepository creates a new connection repository.
func NewConnectionRepository(db *sql.DB, logger *slog.Logger) *ConnectionRepository {
	return &ConnectionRepository{db: db, logger: logger}
}

// List returns all connections from the database.
func (r *ConnectionRepository) List(ctx context.Context) ([]*models.Connection, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id::text, data FROM connections ORDER BY data->>'name'")
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	connections := make([]*models.Connection, 0)

	for rows.Next() {
		connection, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}

		connections = append(connections, connection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}

	return connections, nil
}

// GetByID returns a connection by its surrogate key or domain connection_id.
func (r *ConnectionRepository) GetByID(ctx context.Context, id string) (*models.Connection, error) {
	query := `
		SELECT id::text, data FROM connections
		WHERE data->>'connection_id' = $1 OR id::text = $1
	`

	connection, err := scanConnection(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrConnectionNotFound
		}

		return nil, fmt.Errorf("failed to query connection %s: %w", id, err)
	}

	return connection, nil
}

// Save upserts a connection keyed by its domain connection_id.
func (r *ConnectionRepository) Save(ctx context.Context, connection *models.Connection) error {
	now := time.Now().UTC()
	if connection.CreatedAt.IsZero() {
		connection.CreatedAt = now
	}

	connection.UpdatedAt = now

	data, err := json.Marshal(connection)
	if err != nil {
		return fmt.Errorf("failed to marshal connection %s: %w", connection.ConnectionID, err)
	}

	query := `
		INSERT INTO connections (data, created_at, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT ((data->>'connection_id'))
		DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query, data, connection.CreatedAt, connection.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save connection %s: %w", connection.ConnectionID, err)
	}

	return nil
}

// Delete removes a connection by its domain connection_id. Deleting a missing
// connection is a no-op.
func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM connections WHERE data->>'connection_id' = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete connection %s: %w", id, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnection(row rowScanner) (*models.Connection, error) {
	var (
		id  string
		raw []byte
	)

	if err := row.Scan(&id, &raw); err != nil {
		return nil, err
	}

	var connection models.Connection

	if err := json.Unmarshal(raw, &connection); err != nil {
		return nil, fmt.Errorf("failed to unmarshal connection: %w", err)
	}

	connection.ID = id

	return &connection, nil
}
