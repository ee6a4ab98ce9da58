package models

import "time"

// Sentinel values every canonical document must carry.
const (
	SpecAPIVersion = "dataflow.dev/v1"
	SpecKind       = "Pipeline"
)

// PipelineSpec is the canonical, storage-agnostic pipeline specification
// document. It is assembled from Pipeline form state, validated structurally,
// and emitted alongside the generated DAG; it is read-only once produced and
// regenerated in full on every edit.
type PipelineSpec struct {
	APIVersion string       `json:"apiVersion" yaml:"apiVersion"`
	Kind       string       `json:"kind"       yaml:"kind"`
	Metadata   SpecMetadata `json:"metadata"   yaml:"metadata"`
	Spec       SpecBody     `json:"spec"       yaml:"spec"`
}

// SpecMetadata identifies the document.
type SpecMetadata struct {
	Name        string    `json:"name"        yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	ID          string    `json:"id"          yaml:"id"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// SpecBody holds the pipeline definition proper.
type SpecBody struct {
	Source           SpecEndpoint               `json:"source"           yaml:"source"`
	Target           SpecEndpoint               `json:"target"           yaml:"target"`
	Datasets         []*Dataset                 `json:"datasets"         yaml:"datasets"`
	Schedule         ScheduleConfig             `json:"schedule"         yaml:"schedule"`
	Retry            *RetryPolicy               `json:"retry,omitempty"  yaml:"retry,omitempty"`
	FailureHandling  string                     `json:"failure_handling,omitempty" yaml:"failure_handling,omitempty"`
	Ownership        Ownership                  `json:"ownership"        yaml:"ownership"`
	Execution        SpecExecution              `json:"execution"        yaml:"execution"`
	AdvancedFeatures map[string]any             `json:"advanced_features,omitempty" yaml:"advanced_features,omitempty"`
	ColumnMappings   map[string][]ColumnMapping `json:"column_mappings,omitempty"   yaml:"column_mappings,omitempty"`
	DataQualityRules []DataQualityRule          `json:"data_quality_rules,omitempty" yaml:"data_quality_rules,omitempty"`
}

// SpecEndpoint names one side of the movement. Invariant: source and target
// must not reference the same connection.
type SpecEndpoint struct {
	ConnectionID string         `json:"connection_id"        yaml:"connection_id"`
	Platform     string         `json:"platform,omitempty"   yaml:"platform,omitempty"`
	Connection   *ConnectionRef `json:"connection,omitempty" yaml:"connection,omitempty"`
}

// Ownership records who is paged when the pipeline fails.
type Ownership struct {
	Owner string `json:"owner" yaml:"owner"`
	Email string `json:"email" yaml:"email"`
	Team  string `json:"team,omitempty" yaml:"team,omitempty"`
}

// SpecExecution is the pipeline-level execution block. Operator-specific
// sub-configuration is attached exclusively to the branch matching the
// resolved operator kind.
type SpecExecution struct {
	Operator       OperatorKind  `json:"operator"                  yaml:"operator"`
	SparkConfig    *SparkConfig  `json:"spark_config,omitempty"    yaml:"spark_config,omitempty"`
	PythonConfig   *PythonConfig `json:"python_config,omitempty"   yaml:"python_config,omitempty"`
	CustomTemplate string        `json:"custom_template,omitempty" yaml:"custom_template,omitempty"`
}
