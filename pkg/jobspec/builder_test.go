package jobspec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/validation"
)

func formState() *models.Pipeline {
	return &models.Pipeline{
		ID:                 "pipe-1",
		Name:               "Orders To Lake",
		Description:        "Moves order tables into the lake",
		SourceConnectionID: "conn-src",
		TargetConnectionID: "conn-tgt",
		SourcePlatform:     "postgres",
		TargetPlatform:     "snowflake",
		Datasets: []*models.Dataset{
			{Schema: "sales", Table: "orders", TargetPath: "/lake/sales/orders", FilterQuery: "1=1"},
		},
		Schedule: models.ScheduleConfig{Type: models.ScheduleManual},
	}
}

func testConnections() []*models.Connection {
	return []*models.Connection{
		{
			ConnectionID: "conn-src",
			Name:         "orders-db",
			Platform:     "postgres",
			Host:         "db.internal",
			Port:         5432,
			Database:     "orders",
			Username:     "loader",
			Password:     "hunter2",
			Token:        "secret-token",
			Status:       models.ConnectionActive,
		},
		{
			ConnectionID: "conn-tgt",
			Name:         "warehouse",
			Platform:     "snowflake",
			Status:       models.ConnectionActive,
		},
	}
}

func TestResolveOperator(t *testing.T) {
	t.Run("explicit override wins", func(t *testing.T) {
		p := formState()
		p.OperatorOverride = models.OperatorBash
		p.SourcePlatform = "csv"

		assert.Equal(t, models.OperatorBash, ResolveOperator(p))
	})

	t.Run("flat file source selects python", func(t *testing.T) {
		p := formState()
		p.SourcePlatform = "sftp"

		assert.Equal(t, models.OperatorPython, ResolveOperator(p))
	})

	t.Run("flat file target selects python", func(t *testing.T) {
		p := formState()
		p.TargetPlatform = "s3"

		assert.Equal(t, models.OperatorPython, ResolveOperator(p))
	})

	t.Run("database to database selects spark", func(t *testing.T) {
		assert.Equal(t, models.OperatorSparkSubmit, ResolveOperator(formState()))
	})
}

func TestBuild_OperatorThreadedIntoEveryDataset(t *testing.T) {
	p := formState()
	p.Datasets = append(p.Datasets, &models.Dataset{Schema: "sales", Table: "refunds"})

	spec := Build(p, testConnections())

	assert.Equal(t, models.OperatorSparkSubmit, spec.Spec.Execution.Operator)
	require.NotNil(t, spec.Spec.Execution.SparkConfig)
	assert.Equal(t, DefaultSparkApplication, spec.Spec.Execution.SparkConfig.Application)
	assert.Nil(t, spec.Spec.Execution.PythonConfig)

	for _, d := range spec.Spec.Datasets {
		require.NotNil(t, d.Execution)
		assert.Equal(t, models.OperatorSparkSubmit, d.Execution.Operator)
		assert.NotNil(t, d.Execution.SparkConfig)
		assert.Nil(t, d.Execution.PythonConfig)
	}

	assert.Equal(t, "sales__orders", spec.Spec.Datasets[0].Execution.TaskID)
	assert.Equal(t, "sales__refunds", spec.Spec.Datasets[1].Execution.TaskID)
}

func TestBuild_PythonBranchExcludesSparkConfig(t *testing.T) {
	p := formState()
	p.TargetPlatform = "s3"

	spec := Build(p, testConnections())

	assert.Equal(t, models.OperatorPython, spec.Spec.Execution.Operator)
	assert.Nil(t, spec.Spec.Execution.SparkConfig)
	require.NotNil(t, spec.Spec.Execution.PythonConfig)
	assert.Equal(t, DefaultPythonCallable, spec.Spec.Execution.PythonConfig.Callable)
}

func TestBuild_StripsSecretsFromEmbeddedConnections(t *testing.T) {
	spec := Build(formState(), testConnections())

	require.NotNil(t, spec.Spec.Source.Connection)
	assert.Equal(t, "orders-db", spec.Spec.Source.Connection.Name)
	assert.Equal(t, "db.internal", spec.Spec.Source.Connection.Host)

	raw, err := EncodeYAML(spec)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")
	assert.NotContains(t, string(raw), "secret-token")
}

func TestBuild_UnknownConnectionLeavesRefNil(t *testing.T) {
	spec := Build(formState(), nil)

	assert.Nil(t, spec.Spec.Source.Connection)
	assert.Equal(t, "conn-src", spec.Spec.Source.ConnectionID)
}

func TestBuild_GeneratesIDWhenMissing(t *testing.T) {
	p := formState()
	p.ID = ""

	spec := Build(p, testConnections())

	assert.NotEmpty(t, spec.Metadata.ID)
}

// A freshly built document always satisfies the structural validator:
// builder defaults cover every required field.
func TestBuild_RoundTripValidates(t *testing.T) {
	p := formState()
	p.OperatorOverride = models.OperatorPython

	spec := Build(p, testConnections())
	result := validation.ValidateSpec(spec)

	assert.True(t, result.Valid, "errors: %+v", result.Errors)
}

func TestBuild_CustomTemplateOperatorCarriesContent(t *testing.T) {
	p := formState()
	p.OperatorOverride = models.OperatorCustomTemplate
	p.CustomTemplate = "from airflow import DAG"

	spec := Build(p, testConnections())

	assert.Equal(t, "from airflow import DAG", spec.Spec.Execution.CustomTemplate)
	assert.Nil(t, spec.Spec.Execution.SparkConfig)
}

func TestEncodeDecodeJSON(t *testing.T) {
	spec := Build(formState(), testConnections())

	raw, err := EncodeJSON(spec)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"apiVersion": "dataflow.dev/v1"`))

	decoded, err := DecodeJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, spec.Metadata.Name, decoded.Metadata.Name)
	assert.Len(t, decoded.Spec.Datasets, 1)
}

func TestBuild_AdvancedFeatures(t *testing.T) {
	p := formState()
	p.Datasets[0].IncrementalColumn = "updated_at"

	spec := Build(p, testConnections())

	require.NotNil(t, spec.Spec.AdvancedFeatures)
	assert.Equal(t, true, spec.Spec.AdvancedFeatures["incremental_load"])

	assert.Nil(t, Build(formState(), nil).Spec.AdvancedFeatures)
}
