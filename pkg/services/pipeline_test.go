package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataflow-hq/dataflow/pkg/dag"
	"github.com/dataflow-hq/dataflow/pkg/eventbus"
	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/persistence"
	"github.com/dataflow-hq/dataflow/pkg/persistence/file"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testService(t *testing.T) (*Pipeline, persistence.Persistence) {
	t.Helper()

	store := file.NewPersistence(t.TempDir())
	bus := eventbus.NewGoChannelEventBus(testLogger())

	return NewPipeline(store, bus, testLogger()), store
}

func storedPipeline() *models.Pipeline {
	return &models.Pipeline{
		Name:               "Orders To Lake",
		SourceConnectionID: "conn-src",
		TargetConnectionID: "conn-tgt",
		SourcePlatform:     "postgres",
		TargetPlatform:     "snowflake",
		Datasets: []*models.Dataset{
			{Schema: "sales", Table: "orders"},
		},
		Schedule: models.ScheduleConfig{Type: models.ScheduleDaily},
	}
}

func TestPipelineService_CreateAssignsID(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t)

	p := storedPipeline()
	require.NoError(t, svc.Create(ctx, p))
	assert.NotEmpty(t, p.ID)

	loaded, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Orders To Lake", loaded.Name)
}

func TestPipelineService_CreateRejectsInvalidForm(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t)

	err := svc.Create(ctx, &models.Pipeline{Name: "x"})
	assert.True(t, IsValidationError(err))
}

func TestPipelineService_UpdateMissingPipeline(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t)

	p := storedPipeline()
	p.ID = "ghost"

	err := svc.Update(ctx, p)
	assert.True(t, IsNotFoundError(err))
}

func TestPipelineService_DeletePublishesAndRemoves(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t)

	p := storedPipeline()
	require.NoError(t, svc.Create(ctx, p))
	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err := svc.Get(ctx, p.ID)
	assert.True(t, IsNotFoundError(err))
}

func TestPipelineService_ValidateStoredPipeline(t *testing.T) {
	ctx := context.Background()
	svc, store := testService(t)

	require.NoError(t, store.ConnectionRepository().Save(ctx, &models.Connection{
		ConnectionID: "conn-src", Name: "src", Platform: "postgres", Status: models.ConnectionActive,
	}))
	require.NoError(t, store.ConnectionRepository().Save(ctx, &models.Connection{
		ConnectionID: "conn-tgt", Name: "tgt", Platform: "snowflake", Status: models.ConnectionActive,
	}))

	p := storedPipeline()
	require.NoError(t, svc.Create(ctx, p))

	result, spec, err := svc.Validate(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, spec)
	assert.True(t, result.Valid, "errors: %+v", result.Errors)
	assert.Equal(t, models.SpecKind, spec.Kind)
}

func TestPipelineService_GenerateProducesArtifacts(t *testing.T) {
	ctx := context.Background()
	svc, _ := testService(t)

	p := storedPipeline()
	require.NoError(t, svc.Create(ctx, p))

	result, err := svc.Generate(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, dag.DefaultTemplateID, result.DAG.TemplateID)
	assert.Contains(t, result.DAG.Output, "dataflow__orders_to_lake")
	assert.Equal(t, "Orders To Lake", result.Spec.Metadata.Name)
}

func TestPipelineService_GenerateUsesStoredTemplate(t *testing.T) {
	ctx := context.Background()
	svc, store := testService(t)

	require.NoError(t, store.TemplateRepository().Save(ctx, &models.Template{
		ID:       "team-ingest",
		Name:     "Team ingest",
		Template: "dag = {{dag_id}}",
	}))

	p := storedPipeline()
	require.NoError(t, svc.Create(ctx, p))

	result, err := svc.Generate(ctx, p.ID, "team-ingest")
	require.NoError(t, err)
	assert.Equal(t, "team-ingest", result.DAG.TemplateID)
	assert.Contains(t, result.DAG.Output, "dag = dataflow__orders_to_lake")
}

func TestPipelineService_HealthCheck(t *testing.T) {
	svc, _ := testService(t)

	msg, healthy := svc.HealthCheck(context.Background())
	assert.True(t, healthy, msg)
}
