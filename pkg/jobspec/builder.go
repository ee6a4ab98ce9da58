// Package jobspec assembles the canonical pipeline specification document
// from raw pipeline form state. The document is the spec validator's input
// and the machine-readable artifact emitted alongside the generated DAG.
package jobspec

import (
	"time"

	"github.com/google/uuid"

	"github.com/dataflow-hq/dataflow/pkg/dag"
	"github.com/dataflow-hq/dataflow/pkg/models"
)

// DefaultSparkApplication is attached when a Spark pipeline has not named
// its application artifact yet.
const DefaultSparkApplication = "s3://dataflow-artifacts/jobs/ingest-latest.jar"

// DefaultPythonCallable is the shared entrypoint for Python-executed tasks.
const DefaultPythonCallable = "dataflow.runners.run_pipeline"

// flatFilePlatforms is the platform category that forces Python execution:
// Spark gains nothing on file-shaped sources and the Python runner owns the
// file protocol handling.
var flatFilePlatforms = map[string]bool{
	"csv":        true,
	"flat_file":  true,
	"local_file": true,
	"sftp":       true,
	"ftp":        true,
	"s3":         true,
	"gcs":        true,
	"azure_blob": true,
}

// ResolveOperator picks the effective operator kind: an explicit override
// wins; otherwise flat-file involvement on either side selects the Python
// operator and everything else runs through spark-submit.
func ResolveOperator(p *models.Pipeline) models.OperatorKind {
	if p.OperatorOverride != "" {
		return p.OperatorOverride
	}

	if flatFilePlatforms[p.SourcePlatform] || flatFilePlatforms[p.TargetPlatform] {
		return models.OperatorPython
	}

	return models.OperatorSparkSubmit
}

// Build assembles the canonical document from form state. Pure and
// synchronous: it embeds only the secret-stripped view of each connection,
// because the document lands in a source-control-backed artifact. The
// document is regenerated wholesale on every call; it is never mutated.
func Build(p *models.Pipeline, connections []*models.Connection) *models.PipelineSpec {
	operator := ResolveOperator(p)

	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}

	datasets := make([]*models.Dataset, 0, len(p.Datasets))
	for _, d := range p.Datasets {
		datasets = append(datasets, buildDataset(p, d, operator))
	}

	return &models.PipelineSpec{
		APIVersion: models.SpecAPIVersion,
		Kind:       models.SpecKind,
		Metadata: models.SpecMetadata{
			Name:        p.Name,
			Description: p.Description,
			ID:          id,
			GeneratedAt: time.Now().UTC(),
		},
		Spec: models.SpecBody{
			Source: models.SpecEndpoint{
				ConnectionID: p.SourceConnectionID,
				Platform:     p.SourcePlatform,
				Connection:   connectionRef(p.SourceConnectionID, connections),
			},
			Target: models.SpecEndpoint{
				ConnectionID: p.TargetConnectionID,
				Platform:     p.TargetPlatform,
				Connection:   connectionRef(p.TargetConnectionID, connections),
			},
			Datasets:        datasets,
			Schedule:        p.Schedule,
			Retry:           p.Retry,
			FailureHandling: p.FailureHandling,
			Ownership: models.Ownership{
				Owner: ownerOrDefault(p.Owner, dag.DefaultOwner),
				Email: ownerOrDefault(p.OwnerEmail, dag.DefaultOwnerEmail),
			},
			Execution:        buildExecution(p, operator),
			AdvancedFeatures: advancedFeatures(p),
			ColumnMappings:   p.ColumnMappings,
			DataQualityRules: p.DataQualityRules,
		},
	}
}

func ownerOrDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}

func connectionRef(connectionID string, connections []*models.Connection) *models.ConnectionRef {
	for _, conn := range connections {
		if conn.ConnectionID == connectionID {
			ref := conn.Ref()

			return &ref
		}
	}

	return nil
}

// buildDataset threads the resolved operator into the per-dataset execution
// block, attaching sub-configuration only to the matching branch.
func buildDataset(p *models.Pipeline, d *models.Dataset, operator models.OperatorKind) *models.Dataset {
	out := *d
	out.Execution = &models.DatasetExecution{
		TaskID:   dag.TaskID(d.Schema, d.Table),
		Operator: operator,
	}

	switch operator {
	case models.OperatorSparkSubmit:
		out.Execution.SparkConfig = &models.SparkConfig{
			Application: sparkApplication(p),
			DeployMode:  "cluster",
		}
	case models.OperatorPython:
		out.Execution.PythonConfig = &models.PythonConfig{Callable: DefaultPythonCallable}
	case models.OperatorBash, models.OperatorCustomTemplate:
		// Pipeline-level execution carries everything these need.
	}

	return &out
}

func buildExecution(p *models.Pipeline, operator models.OperatorKind) models.SpecExecution {
	execution := models.SpecExecution{Operator: operator}

	switch operator {
	case models.OperatorSparkSubmit:
		execution.SparkConfig = &models.SparkConfig{
			Application: sparkApplication(p),
			DeployMode:  "cluster",
		}
	case models.OperatorPython:
		execution.PythonConfig = &models.PythonConfig{Callable: DefaultPythonCallable}
	case models.OperatorCustomTemplate:
		execution.CustomTemplate = p.CustomTemplate
	case models.OperatorBash:
		// Nothing operator-specific to attach.
	}

	return execution
}

func sparkApplication(p *models.Pipeline) string {
	if p.SparkApplication != "" {
		return p.SparkApplication
	}

	return DefaultSparkApplication
}

func advancedFeatures(p *models.Pipeline) map[string]any {
	incremental := false

	for _, d := range p.Datasets {
		if d.IncrementalColumn != "" {
			incremental = true

			break
		}
	}

	if !incremental && len(p.DataQualityRules) == 0 {
		return nil
	}

	return map[string]any{
		"incremental_load":   incremental,
		"data_quality_rules": len(p.DataQualityRules) > 0,
	}
}
