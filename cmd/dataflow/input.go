package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dataflow-hq/dataflow/pkg/cmd"
	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/persistence"
)

var ErrNoInput = errors.New("either --file or --database-url with --id is required")

// pipelineInput resolves the pipeline under work plus the store context it
// came from. File inputs have no store: connections and templates are empty
// and existence checks are skipped.
type pipelineInput struct {
	pipeline    *models.Pipeline
	connections []*models.Connection
	templates   []*models.Template
	store       persistence.Persistence
}

func (in *pipelineInput) close(ctx context.Context, logger *slog.Logger) {
	if in.store == nil {
		return
	}

	if err := in.store.Close(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
	}
}

func loadPipelineInput(ctx context.Context, logger *slog.Logger, file, databaseURL, id string) (*pipelineInput, error) {
	if file != "" {
		return loadPipelineFile(file)
	}

	if databaseURL == "" || id == "" {
		return nil, ErrNoInput
	}

	store, err := cmd.NewPersistence(ctx, logger, databaseURL)
	if err != nil {
		return nil, err
	}

	pipeline, err := store.PipelineRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	connections, err := store.ConnectionRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	templates, err := store.TemplateRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return &pipelineInput{
		pipeline:    pipeline,
		connections: connections,
		templates:   templates,
		store:       store,
	}, nil
}

func loadPipelineFile(path string) (*pipelineInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file: %w", err)
	}

	var pipeline models.Pipeline

	if err := json.Unmarshal(raw, &pipeline); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline file %s: %w", path, err)
	}

	return &pipelineInput{pipeline: &pipeline}, nil
}
