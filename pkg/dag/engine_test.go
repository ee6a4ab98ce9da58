package dag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataflow-hq/dataflow/pkg/models"
)

func customTemplate(id, body string) *models.Template {
	return &models.Template{ID: id, Name: "custom " + id, Template: body}
}

func TestRender_DagIDBody(t *testing.T) {
	p := testPipeline()
	p.Name = "My Pipeline!"

	result := Render("t1", p, nil, []*models.Template{customTemplate("t1", "{{dag_id}}")})

	// Header first, then the substituted body and nothing else.
	assert.True(t, strings.HasPrefix(result.Output, "# Generated by dataflow"))
	assert.True(t, strings.HasSuffix(result.Output, "dataflow__my_pipeline_"))
	assert.Empty(t, result.UnknownTokens)
}

func TestRender_UnresolvedTemplateReturnsSentinel(t *testing.T) {
	result := Render("no-such-template", testPipeline(), nil, nil)

	assert.Equal(t, NoTemplateSentinel, result.Output)
	assert.Equal(t, "no-such-template", result.TemplateID)
}

func TestRender_UnknownTokensPassThroughVerbatim(t *testing.T) {
	body := "{{dag_id}} {{not_yet_a_placeholder}} {{not_yet_a_placeholder}}"

	result := Render("t1", testPipeline(), nil, []*models.Template{customTemplate("t1", body)})

	assert.Contains(t, result.Output, "{{not_yet_a_placeholder}}")
	assert.Equal(t, []string{"not_yet_a_placeholder"}, result.UnknownTokens)
}

func TestRender_MalformedTokensLeftAlone(t *testing.T) {
	body := "{{ spaced }} {{}} {{unclosed"

	result := Render("t1", testPipeline(), nil, []*models.Template{customTemplate("t1", body)})

	assert.Contains(t, result.Output, "{{ spaced }}")
	assert.Contains(t, result.Output, "{{}}")
	assert.Contains(t, result.Output, "{{unclosed")
	assert.Empty(t, result.UnknownTokens)
}

func TestRender_ValuesWithDollarSignsSurviveUnchanged(t *testing.T) {
	p := testPipeline(&models.Dataset{
		Schema:      "sales",
		Table:       "orders",
		FilterQuery: "amount > $1 AND region = $$special",
	})
	p.ColumnMappings = nil

	result := Render("t1", p, nil, []*models.Template{customTemplate("t1", "{{extract_tasks}}")})

	assert.Contains(t, result.Output, "amount > $1 AND region = $$special")
}

func TestRender_UserTemplateShadowsBuiltin(t *testing.T) {
	custom := customTemplate(TemplateExtract, "shadowed")

	result := Render(TemplateExtract, testPipeline(), nil, []*models.Template{custom})

	assert.True(t, strings.HasSuffix(result.Output, "shadowed"))
}

func TestFillTemplate_BuiltinDatabaseIngest(t *testing.T) {
	p := testPipeline(
		&models.Dataset{Schema: "sales", Table: "orders", TargetPath: "/lake/sales/orders"},
		&models.Dataset{Schema: "sales", Table: "refunds", TargetPath: "/lake/sales/refunds"},
	)
	p.Description = "Moves order tables into the lake"

	connections := []*models.Connection{
		{ConnectionID: "conn-src", Name: "orders-db", Platform: "postgres", Status: models.ConnectionActive},
		{ConnectionID: "conn-tgt", Name: "lake", Platform: "s3", Status: models.ConnectionActive},
	}

	output := FillTemplate(TemplateDatabaseIngest, p, connections, nil)

	require.Contains(t, output, `dag_id="dataflow__orders_to_lake"`)
	assert.Contains(t, output, `schedule="@daily"`)
	assert.Contains(t, output, `"owner": "data-platform"`)
	assert.Contains(t, output, `"retries": 1`)
	assert.Contains(t, output, "orders-db (conn-src)")
	assert.Contains(t, output, `tooltip="Ingest 2 datasets"`)
	assert.NotContains(t, output, "{{")
}

func TestBuildPlaceholderMap_Defaults(t *testing.T) {
	values := BuildPlaceholderMap(testPipeline(), nil)

	assert.Equal(t, "data-platform", values["owner"])
	assert.Equal(t, "data-alerts@dataflow.local", values["owner_email"])
	assert.Equal(t, "1", values["retries"])
	assert.Equal(t, "300", values["retry_delay_seconds"])
	assert.Equal(t, "@daily", values["schedule"])
	assert.Equal(t, "conn-src", values["source_connection_name"])
}

func TestBuildPlaceholderMap_ValuesNeverContainTokens(t *testing.T) {
	p := testPipeline(&models.Dataset{Schema: "sales", Table: "orders"})
	p.Description = "uses {{curly}} braces"

	values := BuildPlaceholderMap(p, nil)

	// The description is carried as-is; the invariant is on generated
	// values, which must never synthesize tokens of their own.
	for key, value := range values {
		if key == "pipeline_description" {
			continue
		}

		assert.NotContains(t, value, "{{", key)
	}
}

func TestRender_OverridesFromRetryAndOwnership(t *testing.T) {
	retries := 4
	delay := 120

	p := testPipeline()
	p.Owner = "analytics"
	p.OwnerEmail = "analytics@corp.example"
	p.Retry = &models.RetryPolicy{MaxRetries: &retries, RetryDelaySeconds: &delay}

	values := BuildPlaceholderMap(p, nil)

	assert.Equal(t, "analytics", values["owner"])
	assert.Equal(t, "analytics@corp.example", values["owner_email"])
	assert.Equal(t, "4", values["retries"])
	assert.Equal(t, "120", values["retry_delay_seconds"])
}
