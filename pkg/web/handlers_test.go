package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataflow-hq/dataflow/pkg/eventbus"
	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/persistence/file"
	"github.com/dataflow-hq/dataflow/pkg/services"
	"github.com/dataflow-hq/dataflow/pkg/web"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := file.NewPersistence(t.TempDir())
	bus := eventbus.NewGoChannelEventBus(logger)

	handlers := web.NewAPIHandlers(
		services.NewPipeline(store, bus, logger),
		services.NewConnection(store, logger),
		services.NewTemplate(store, logger),
		validator.New(validator.WithRequiredStructEnabled()),
	)

	app := fiber.New()
	app.Get("/health", handlers.HealthCheck)

	p := app.Group("/pipelines")
	p.Get("/", handlers.GetPipelines)
	p.Post("/", handlers.CreatePipeline)
	p.Get("/:id", handlers.GetPipeline)
	p.Patch("/:id", handlers.UpdatePipeline)
	p.Delete("/:id", handlers.DeletePipeline)
	p.Get("/:id/spec", handlers.GetPipelineSpec)
	p.Post("/:id/validate", handlers.ValidatePipeline)
	p.Post("/:id/generate", handlers.GeneratePipeline)

	conns := app.Group("/connections")
	conns.Get("/", handlers.GetConnections)
	conns.Post("/", handlers.SaveConnection)
	conns.Get("/:id", handlers.GetConnection)
	conns.Delete("/:id", handlers.DeleteConnection)

	tpls := app.Group("/templates")
	tpls.Get("/", handlers.GetTemplates)
	tpls.Post("/", handlers.SaveTemplate)
	tpls.Get("/:id", handlers.GetTemplate)
	tpls.Delete("/:id", handlers.DeleteTemplate)

	app.Post("/specs/validate", handlers.ValidateDocument)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, raw
}

func createPipelineRequest() web.CreatePipelineRequest {
	return web.CreatePipelineRequest{
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

func TestCreatePipeline(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/pipelines/", createPipelineRequest())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var pipeline models.Pipeline
	require.NoError(t, json.Unmarshal(body, &pipeline))
	assert.NotEmpty(t, pipeline.ID)
	assert.Equal(t, "Orders To Lake", pipeline.Name)
}

func TestCreatePipeline_RejectsShortName(t *testing.T) {
	app := setupTestApp(t)

	req := createPipelineRequest()
	req.Name = "ab"

	resp, _ := doJSON(t, app, http.MethodPost, "/pipelines/", req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPipeline_NotFound(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/pipelines/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdatePipeline_PartialUpdate(t *testing.T) {
	app := setupTestApp(t)

	_, body := doJSON(t, app, http.MethodPost, "/pipelines/", createPipelineRequest())

	var created models.Pipeline
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body := doJSON(t, app, http.MethodPatch, "/pipelines/"+created.ID, map[string]any{
		"description": "updated",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Pipeline
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "updated", updated.Description)
	assert.Equal(t, "Orders To Lake", updated.Name)
}

func TestDeletePipeline(t *testing.T) {
	app := setupTestApp(t)

	_, body := doJSON(t, app, http.MethodPost, "/pipelines/", createPipelineRequest())

	var created models.Pipeline
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ := doJSON(t, app, http.MethodDelete, "/pipelines/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/pipelines/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidatePipeline_ReturnsVerdictWith200(t *testing.T) {
	app := setupTestApp(t)

	req := createPipelineRequest()
	req.TargetConnectionID = "conn-src" // identical endpoints fail validation

	_, body := doJSON(t, app, http.MethodPost, "/pipelines/", req)

	var created models.Pipeline
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body := doJSON(t, app, http.MethodPost, "/pipelines/"+created.ID+"/validate", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var verdict web.ValidateResponse
	require.NoError(t, json.Unmarshal(body, &verdict))
	assert.False(t, verdict.Valid)
	require.NotNil(t, verdict.Spec)
	assert.Equal(t, models.SpecAPIVersion, verdict.Spec.APIVersion)
}

func TestGeneratePipeline(t *testing.T) {
	app := setupTestApp(t)

	_, body := doJSON(t, app, http.MethodPost, "/pipelines/", createPipelineRequest())

	var created models.Pipeline
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body := doJSON(t, app, http.MethodPost, "/pipelines/"+created.ID+"/generate", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var generated web.GenerateResponse
	require.NoError(t, json.Unmarshal(body, &generated))
	assert.Equal(t, "dataflow__orders_to_lake", generated.DagID)
	assert.Contains(t, generated.DAG, "dataflow__orders_to_lake")
	require.NotNil(t, generated.Spec)
}

func TestConnectionEndpointsStripSecrets(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/connections/", web.SaveConnectionRequest{
		ConnectionID: "warehouse-1",
		Name:         "warehouse",
		Platform:     "snowflake",
		Password:     "hunter2",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotContains(t, string(body), "hunter2")

	resp, body = doJSON(t, app, http.MethodGet, "/connections/warehouse-1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "hunter2")

	var conn web.ConnectionResponse
	require.NoError(t, json.Unmarshal(body, &conn))
	assert.Equal(t, "warehouse", conn.Name)
	assert.Equal(t, models.ConnectionActive, conn.Status)
}

func TestTemplateEndpointsIncludeBuiltins(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/templates/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Templates  []*models.Template `json:"templates"`
		TotalCount int                `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(body, &listing))
	assert.GreaterOrEqual(t, listing.TotalCount, 3)

	resp, _ = doJSON(t, app, http.MethodPost, "/templates/", web.SaveTemplateRequest{
		ID:       "team-ingest",
		Name:     "Team ingest",
		Template: "dag = {{dag_id}}",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/templates/team-ingest", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tpl models.Template
	require.NoError(t, json.Unmarshal(body, &tpl))
	assert.False(t, tpl.Builtin)
}

func TestValidateDocumentEndpoint(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/specs/validate", map[string]any{
		"apiVersion": "wrong/v1",
		"kind":       "Pipeline",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var verdict web.ValidateResponse
	require.NoError(t, json.Unmarshal(body, &verdict))
	assert.False(t, verdict.Valid)
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
