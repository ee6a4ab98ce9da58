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

// TemplateRepository handles user-defined template file operations.
type TemplateRepository struct {
	root string
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(root string) *TemplateRepository {
	return &TemplateRepository{root: root}
}

// List returns every stored template, sorted by name.
func (tr *TemplateRepository) List(ctx context.Context) ([]*models.Template, error) {
	dir := os.DirFS(path.Join(tr.root, "templates"))

	jsonFiles, err := fs.Glob(dir, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list template files: %w", err)
	}

	templates := make([]*models.Template, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		template, err := tr.GetByID(ctx, file[:len(file)-5])
		if err != nil {
			return nil, err
		}

		templates = append(templates, template)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].Name < templates[j].Name
	})

	return templates, nil
}

// GetByID retrieves a template by its ID from the file system.
func (tr *TemplateRepository) GetByID(_ context.Context, id string) (*models.Template, error) {
	filePath := filepath.Clean(path.Join(tr.root, "templates", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrTemplateNotFound
		}

		return nil, fmt.Errorf("failed to fetch template %s: %w", id, err)
	}

	var template models.Template

	err = json.Unmarshal(body, &template)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal template %s: %w", id, err)
	}

	return &template, nil
}

// Save persists a template to the file system. Built-in templates are
// compiled into the binary and never stored.
func (tr *TemplateRepository) Save(_ context.Context, template *models.Template) error {
	if template.Builtin {
		return fmt.Errorf("built-in template %s cannot be saved", template.ID)
	}

	err := os.MkdirAll(path.Join(tr.root, "templates"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create templates directory: %w", err)
	}

	now := time.Now().UTC()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}

	template.UpdatedAt = now

	data, err := json.MarshalIndent(template, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal template %s: %w", template.ID, err)
	}

	return os.WriteFile(path.Join(tr.root, "templates", template.ID+".json"), data, 0600)
}

// Delete removes a template by its ID. Deleting a missing template is a no-op.
func (tr *TemplateRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(path.Join(tr.root, "templates", id+".json"))

	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete template %s: %w", id, err)
	}

	return nil
}
