// Package models defines the core domain models for pipeline specification and artifact generation.
package models

import "time"

// Pipeline is the mutable form state a user builds up in the dashboard.
// It is the raw input to both spec assembly and DAG rendering; the canonical
// document derived from it is regenerated on every edit, never mutated in place.
type Pipeline struct {
	ID          string `json:"id"`
	Name        string `json:"name"        validate:"required,min=3"`
	Description string `json:"description"`

	SourceConnectionID string `json:"source_connection_id" validate:"required"`
	TargetConnectionID string `json:"target_connection_id" validate:"required"`
	SourcePlatform     string `json:"source_platform"`
	TargetPlatform     string `json:"target_platform"`
	SourcePath         string `json:"source_path,omitempty"` // Fallback path when no datasets are configured

	Datasets []*Dataset     `json:"datasets"`
	Schedule ScheduleConfig `json:"schedule"`
	Retry    *RetryPolicy   `json:"retry,omitempty"`

	FailureHandling string `json:"failure_handling,omitempty"`
	Owner           string `json:"owner,omitempty"`
	OwnerEmail      string `json:"owner_email,omitempty"`

	// OperatorOverride forces the execution operator for every dataset.
	// When empty the operator is derived from the platforms involved.
	OperatorOverride OperatorKind `json:"operator_override,omitempty"`
	CustomTemplate   string       `json:"custom_template,omitempty"`
	SparkApplication string       `json:"spark_application,omitempty"`

	// ColumnMappings is keyed by "<schema>.<table>"; datasets without an entry
	// are passed through untransformed.
	ColumnMappings map[string][]ColumnMapping `json:"column_mappings,omitempty"`

	DataQualityRules []DataQualityRule `json:"data_quality_rules,omitempty"`

	TemplateID string `json:"template_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ColumnMapping maps one source column to a target column, optionally through
// a transform expression.
type ColumnMapping struct {
	Source    string `json:"source"    validate:"required"`
	Target    string `json:"target"    validate:"required"`
	Transform string `json:"transform,omitempty"`
}

// DataQualityRule is a declarative check applied to a dataset after load.
type DataQualityRule struct {
	Dataset   string `json:"dataset"`
	RuleType  string `json:"rule_type"`
	Column    string `json:"column,omitempty"`
	Condition string `json:"condition,omitempty"`
	Severity  string `json:"severity,omitempty"`
}

// RetryPolicy controls task retry behaviour in the generated DAG.
type RetryPolicy struct {
	MaxRetries        *int `json:"max_retries,omitempty"`
	RetryDelaySeconds *int `json:"retry_delay_seconds,omitempty"`
}
