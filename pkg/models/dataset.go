package models

// LoadMethod describes how a dataset's rows are written to the target.
type LoadMethod string

const (
	LoadMethodAppend  LoadMethod = "append"
	LoadMethodReplace LoadMethod = "replace"
	LoadMethodUpsert  LoadMethod = "upsert"
	LoadMethodMerge   LoadMethod = "merge"
)

// LoadMethods lists every valid load method.
func LoadMethods() []LoadMethod {
	return []LoadMethod{LoadMethodAppend, LoadMethodReplace, LoadMethodUpsert, LoadMethodMerge}
}

// IsValid reports whether m is one of the enumerated load methods.
func (m LoadMethod) IsValid() bool {
	switch m {
	case LoadMethodAppend, LoadMethodReplace, LoadMethodUpsert, LoadMethodMerge:
		return true
	}

	return false
}

// Dataset is one schema-qualified table (or file-source unit) moved by a pipeline.
// Ordering within a pipeline is significant: it drives deterministic task-ID
// generation and positional indexing into column-mapping lookups.
type Dataset struct {
	Schema            string     `json:"schema"             validate:"required"`
	Table             string     `json:"table"              validate:"required"`
	TargetPath        string     `json:"target_path,omitempty"`
	FilterQuery       string     `json:"filter_query,omitempty"`
	IncrementalColumn string     `json:"incremental_column,omitempty"`
	LoadMethod        LoadMethod `json:"load_method,omitempty"`

	Execution *DatasetExecution `json:"execution,omitempty"`
}

// DatasetExecution is the per-dataset execution block written into the
// canonical document. Operator-specific configuration is attached exclusively
// to the branch matching the resolved operator kind.
type DatasetExecution struct {
	TaskID       string            `json:"task_id"`
	Operator     OperatorKind      `json:"operator"`
	SparkConfig  *SparkConfig      `json:"spark_config,omitempty"`
	PythonConfig *PythonConfig     `json:"python_config,omitempty"`
	Env          map[string]string `json:"env,omitempty"`
}

// SparkConfig carries spark-submit settings for Spark-executed datasets.
type SparkConfig struct {
	Application string            `json:"application"`
	DeployMode  string            `json:"deploy_mode,omitempty"`
	Conf        map[string]string `json:"conf,omitempty"`
}

// PythonConfig carries callable settings for Python-executed datasets.
type PythonConfig struct {
	Callable    string `json:"callable"`
	Requirement string `json:"requirement,omitempty"`
}

// QualifiedName returns the "<schema>.<table>" key used for column-mapping lookups.
func (d *Dataset) QualifiedName() string {
	return d.Schema + "." + d.Table
}
