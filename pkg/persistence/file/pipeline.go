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

// PipelineRepository handles pipeline-related file operations.
type PipelineRepository struct {
	root string
}

// NewPipelineRepository creates a new pipeline repository.
func NewPipelineRepository(root string) *PipelineRepository {
	return &PipelineRepository{root: root}
}

// List returns every stored pipeline, sorted by name.
func (pr *PipelineRepository) List(ctx context.Context) ([]*models.Pipeline, error) {
	dir := os.DirFS(path.Join(pr.root, "pipelines"))

	jsonFiles, err := fs.Glob(dir, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list pipeline files: %w", err)
	}

	pipelines := make([]*models.Pipeline, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		pipeline, err := pr.GetByID(ctx, file[:len(file)-5])
		if err != nil {
			return nil, err
		}

		pipelines = append(pipelines, pipeline)
	}

	sort.Slice(pipelines, func(i, j int) bool {
		return pipelines[i].Name < pipelines[j].Name
	})

	return pipelines, nil
}

// GetByID retrieves a pipeline by its ID from the file system.
func (pr *PipelineRepository) GetByID(_ context.Context, id string) (*models.Pipeline, error) {
	filePath := filepath.Clean(path.Join(pr.root, "pipelines", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrPipelineNotFound
		}

		return nil, fmt.Errorf("failed to fetch pipeline %s: %w", id, err)
	}

	var pipeline models.Pipeline

	err = json.Unmarshal(body, &pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal pipeline %s: %w", id, err)
	}

	return &pipeline, nil
}

// Save persists a pipeline to the file system.
func (pr *PipelineRepository) Save(_ context.Context, pipeline *models.Pipeline) error {
	err := os.MkdirAll(path.Join(pr.root, "pipelines"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create pipelines directory: %w", err)
	}

	now := time.Now().UTC()
	if pipeline.CreatedAt.IsZero() {
		pipeline.CreatedAt = now
	}

	pipeline.UpdatedAt = now

	data, err := json.MarshalIndent(pipeline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pipeline %s: %w", pipeline.ID, err)
	}

	return os.WriteFile(path.Join(pr.root, "pipelines", pipeline.ID+".json"), data, 0600)
}

// Delete removes a pipeline by its ID. Deleting a missing pipeline is a no-op.
func (pr *PipelineRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(path.Join(pr.root, "pipelines", id+".json"))

	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete pipeline %s: %w", id, err)
	}

	return nil
}
