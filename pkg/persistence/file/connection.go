package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/persistence"
)

// ConnectionRepository handles connection-related file operations. Connections
// are keyed on disk by their domain ConnectionID.
type ConnectionRepository struct {
	root string
}

// NewConnectionRepository creates a new connection repository.
func NewConnectionRepository(root string) *ConnectionRepository {
	return &ConnectionRepository{root: root}
}

// List returns every stored connection, sorted by name.
func (cr *ConnectionRepository) List(ctx context.Context) ([]*models.Connection, error) {
	dir := os.DirFS(path.Join(cr.root, "connections"))

	jsonFiles, err := fs.Glob(dir, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list connection files: %w", err)
	}

	connections := make([]*models.Connection, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		connection, err := cr.GetByID(ctx, file[:len(file)-5])
		if err != nil {
			return nil, err
		}

		connections = append(connections, connection)
	}

	sort.Slice(connections, func(i, j int) bool {
		return connections[i].Name < connections[j].Name
	})

	return connections, nil
}

// GetByID retrieves a connection by its ConnectionID from the file system.
func (cr *ConnectionRepository) GetByID(_ context.Context, id string) (*models.Connection, error) {
	filePath := filepath.Clean(path.Join(cr.root, "connections", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrConnectionNotFound
		}

		return nil, fmt.Errorf("failed to fetch connection %s: %w", id, err)
	}

	var connection models.Connection

	err = json.Unmarshal(body, &connection)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal connection %s: %w", id, err)
	}

	return &connection, nil
}

// Save persists a connection to the file system.
func (cr *ConnectionRepository) Save(_ context.Context, connection *models.Connection) error {
	err := os.MkdirAll(path.Join(cr.root, "connections"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create connections directory: %w", err)
	}

	now := time.Now().UTC()
	if connection.CreatedAt.IsZero() {
		connection.CreatedAt = now
	}

	connection.UpdatedAt = now

	data, err := json.MarshalIndent(connection, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal connection %s: %w", connection.ConnectionID, err)
	}

	return os.WriteFile(path.Join(cr.root, "connections", connection.ConnectionID+".json"), data, 0600)
}

// Delete removes a connection by its ConnectionID. Deleting a missing
// connection is a no-op.
func (cr *ConnectionRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(path.Join(cr.root, "connections", id+".json"))

	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete connection %s: %w", id, err)
	}

	return nil
}
