package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/persistence"
)

func TestPipelineRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())
	repo := store.PipelineRepository()

	pipeline := &models.Pipeline{
		ID:                 "pipe-1",
		Name:               "Orders To Lake",
		SourceConnectionID: "conn-src",
		TargetConnectionID: "conn-tgt",
	}

	require.NoError(t, repo.Save(ctx, pipeline))
	assert.False(t, pipeline.CreatedAt.IsZero())

	loaded, err := repo.GetByID(ctx, "pipe-1")
	require.NoError(t, err)
	assert.Equal(t, "Orders To Lake", loaded.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, "pipe-1"))

	_, err = repo.GetByID(ctx, "pipe-1")
	assert.True(t, persistence.IsPipelineNotFound(err))
}

func TestPipelineRepository_ListSortsByName(t *testing.T) {
	ctx := context.Background()
	repo := NewPersistence(t.TempDir()).PipelineRepository()

	require.NoError(t, repo.Save(ctx, &models.Pipeline{ID: "b", Name: "beta"}))
	require.NoError(t, repo.Save(ctx, &models.Pipeline{ID: "a", Name: "alpha"}))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alpha", all[0].Name)
}

func TestConnectionRepository_KeyedByConnectionID(t *testing.T) {
	ctx := context.Background()
	repo := NewPersistence(t.TempDir()).ConnectionRepository()

	require.NoError(t, repo.Save(ctx, &models.Connection{
		ConnectionID: "warehouse-1",
		Name:         "warehouse",
		Platform:     "snowflake",
		Status:       models.ConnectionActive,
	}))

	loaded, err := repo.GetByID(ctx, "warehouse-1")
	require.NoError(t, err)
	assert.Equal(t, "warehouse", loaded.Name)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, persistence.IsConnectionNotFound(err))
}

func TestTemplateRepository_RejectsBuiltin(t *testing.T) {
	ctx := context.Background()
	repo := NewPersistence(t.TempDir()).TemplateRepository()

	err := repo.Save(ctx, &models.Template{ID: "database_ingest", Name: "x", Template: "y", Builtin: true})
	assert.Error(t, err)
}

func TestTemplateRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewPersistence(t.TempDir()).TemplateRepository()

	require.NoError(t, repo.Save(ctx, &models.Template{
		ID:       "team-ingest",
		Name:     "Team ingest",
		Template: "dag_id = {{dag_id}}",
	}))

	loaded, err := repo.GetByID(ctx, "team-ingest")
	require.NoError(t, err)
	assert.Contains(t, loaded.Template, "{{dag_id}}")
}

func TestDeleteMissingIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewPersistence(t.TempDir())

	assert.NoError(t, store.PipelineRepository().Delete(ctx, "nope"))
	assert.NoError(t, store.ConnectionRepository().Delete(ctx, "nope"))
	assert.NoError(t, store.TemplateRepository().Delete(ctx, "nope"))
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, NewPersistence(t.TempDir()).HealthCheck(ctx))
	assert.Error(t, NewPersistence("/definitely/not/here").HealthCheck(ctx))
}
