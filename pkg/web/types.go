// Package web provides HTTP request and response types for the pipeline API.
package web

import "github.com/dataflow-hq/dataflow/pkg/models"

// CreatePipelineRequest represents the request body for creating a new pipeline.
type CreatePipelineRequest struct {
	Name               string                `json:"name"                 validate:"required,min=3"`
	Description        string                `json:"description"`
	SourceConnectionID string                `json:"source_connection_id" validate:"required"`
	TargetConnectionID string                `json:"target_connection_id" validate:"required"`
	SourcePlatform     string                `json:"source_platform"`
	TargetPlatform     string                `json:"target_platform"`
	SourcePath         string                `json:"source_path,omitempty"`
	Datasets           []*models.Dataset     `json:"datasets"`
	Schedule           models.ScheduleConfig `json:"schedule"`
	Retry              *models.RetryPolicy   `json:"retry,omitempty"`

	FailureHandling string `json:"failure_handling,omitempty"`
	Owner           string `json:"owner,omitempty"`
	OwnerEmail      string `json:"owner_email,omitempty"`

	OperatorOverride models.OperatorKind `json:"operator_override,omitempty"`
	CustomTemplate   string              `json:"custom_template,omitempty"`
	SparkApplication string              `json:"spark_application,omitempty"`

	ColumnMappings   map[string][]models.ColumnMapping `json:"column_mappings,omitempty"`
	DataQualityRules []models.DataQualityRule          `json:"data_quality_rules,omitempty"`

	TemplateID string `json:"template_id,omitempty"`
}

// ToModel converts the request into the stored form state.
func (r *CreatePipelineRequest) ToModel() *models.Pipeline {
	return &models.Pipeline{
		Name:               r.Name,
		Description:        r.Description,
		SourceConnectionID: r.SourceConnectionID,
		TargetConnectionID: r.TargetConnectionID,
		SourcePlatform:     r.SourcePlatform,
		TargetPlatform:     r.TargetPlatform,
		SourcePath:         r.SourcePath,
		Datasets:           r.Datasets,
		Schedule:           r.Schedule,
		Retry:              r.Retry,
		FailureHandling:    r.FailureHandling,
		Owner:              r.Owner,
		OwnerEmail:         r.OwnerEmail,
		OperatorOverride:   r.OperatorOverride,
		CustomTemplate:     r.CustomTemplate,
		SparkApplication:   r.SparkApplication,
		ColumnMappings:     r.ColumnMappings,
		DataQualityRules:   r.DataQualityRules,
		TemplateID:         r.TemplateID,
	}
}

// UpdatePipelineRequest represents the request body for updating an existing
// pipeline. Scalar fields are optional to support partial updates; slice and
// map fields replace the stored value when present.
type UpdatePipelineRequest struct {
	Name               *string                `json:"name,omitempty"                 validate:"omitempty,min=3"`
	Description        *string                `json:"description,omitempty"`
	SourceConnectionID *string                `json:"source_connection_id,omitempty"`
	TargetConnectionID *string                `json:"target_connection_id,omitempty"`
	SourcePlatform     *string                `json:"source_platform,omitempty"`
	TargetPlatform     *string                `json:"target_platform,omitempty"`
	SourcePath         *string                `json:"source_path,omitempty"`
	Datasets           []*models.Dataset      `json:"datasets,omitempty"`
	Schedule           *models.ScheduleConfig `json:"schedule,omitempty"`
	Retry              *models.RetryPolicy    `json:"retry,omitempty"`

	FailureHandling *string `json:"failure_handling,omitempty"`
	Owner           *string `json:"owner,omitempty"`
	OwnerEmail      *string `json:"owner_email,omitempty"`

	OperatorOverride *models.OperatorKind `json:"operator_override,omitempty"`
	CustomTemplate   *string              `json:"custom_template,omitempty"`
	SparkApplication *string              `json:"spark_application,omitempty"`

	ColumnMappings   map[string][]models.ColumnMapping `json:"column_mappings,omitempty"`
	DataQualityRules []models.DataQualityRule          `json:"data_quality_rules,omitempty"`

	TemplateID *string `json:"template_id,omitempty"`
}

// ApplyTo merges the partial update into the stored form state.
func (r *UpdatePipelineRequest) ApplyTo(p *models.Pipeline) {
	if r.Name != nil {
		p.Name = *r.Name
	}

	if r.Description != nil {
		p.Description = *r.Description
	}

	if r.SourceConnectionID != nil {
		p.SourceConnectionID = *r.SourceConnectionID
	}

	if r.TargetConnectionID != nil {
		p.TargetConnectionID = *r.TargetConnectionID
	}

	if r.SourcePlatform != nil {
		p.SourcePlatform = *r.SourcePlatform
	}

	if r.TargetPlatform != nil {
		p.TargetPlatform = *r.TargetPlatform
	}

	if r.SourcePath != nil {
		p.SourcePath = *r.SourcePath
	}

	if r.Datasets != nil {
		p.Datasets = r.Datasets
	}

	if r.Schedule != nil {
		p.Schedule = *r.Schedule
	}

	if r.Retry != nil {
		p.Retry = r.Retry
	}

	if r.FailureHandling != nil {
		p.FailureHandling = *r.FailureHandling
	}

	if r.Owner != nil {
		p.Owner = *r.Owner
	}

	if r.OwnerEmail != nil {
		p.OwnerEmail = *r.OwnerEmail
	}

	if r.OperatorOverride != nil {
		p.OperatorOverride = *r.OperatorOverride
	}

	if r.CustomTemplate != nil {
		p.CustomTemplate = *r.CustomTemplate
	}

	if r.SparkApplication != nil {
		p.SparkApplication = *r.SparkApplication
	}

	if r.ColumnMappings != nil {
		p.ColumnMappings = r.ColumnMappings
	}

	if r.DataQualityRules != nil {
		p.DataQualityRules = r.DataQualityRules
	}

	if r.TemplateID != nil {
		p.TemplateID = *r.TemplateID
	}
}

// SaveConnectionRequest represents the request body for upserting a connection.
type SaveConnectionRequest struct {
	ConnectionID string                  `json:"connection_id" validate:"required"`
	Name         string                  `json:"name"          validate:"required"`
	Platform     string                  `json:"platform"      validate:"required"`
	Host         string                  `json:"host,omitempty"`
	Port         int                     `json:"port,omitempty"`
	Database     string                  `json:"database,omitempty"`
	Username     string                  `json:"username,omitempty"`
	Password     string                  `json:"password,omitempty"`
	Token        string                  `json:"token,omitempty"`
	Extra        map[string]any          `json:"extra,omitempty"`
	Status       models.ConnectionStatus `json:"status,omitempty"`
}

// ToModel converts the request into the stored connection.
func (r *SaveConnectionRequest) ToModel() *models.Connection {
	return &models.Connection{
		ConnectionID: r.ConnectionID,
		Name:         r.Name,
		Platform:     r.Platform,
		Host:         r.Host,
		Port:         r.Port,
		Database:     r.Database,
		Username:     r.Username,
		Password:     r.Password,
		Token:        r.Token,
		Extra:        r.Extra,
		Status:       r.Status,
	}
}

// ConnectionResponse is the secret-stripped view of a connection served by
// the API. Passwords and tokens never leave the store.
type ConnectionResponse struct {
	ID           string                  `json:"id,omitempty"`
	ConnectionID string                  `json:"connection_id"`
	Name         string                  `json:"name"`
	Platform     string                  `json:"platform"`
	Host         string                  `json:"host,omitempty"`
	Port         int                     `json:"port,omitempty"`
	Database     string                  `json:"database,omitempty"`
	Username     string                  `json:"username,omitempty"`
	Extra        map[string]any          `json:"extra,omitempty"`
	Status       models.ConnectionStatus `json:"status"`
}

// TransformConnectionResponse strips credentials from a stored connection.
func TransformConnectionResponse(conn *models.Connection) ConnectionResponse {
	return ConnectionResponse{
		ID:           conn.ID,
		ConnectionID: conn.ConnectionID,
		Name:         conn.Name,
		Platform:     conn.Platform,
		Host:         conn.Host,
		Port:         conn.Port,
		Database:     conn.Database,
		Username:     conn.Username,
		Extra:        conn.Extra,
		Status:       conn.Status,
	}
}

// SaveTemplateRequest represents the request body for upserting a template.
type SaveTemplateRequest struct {
	ID          string                    `json:"id"          validate:"required"`
	Name        string                    `json:"name"        validate:"required"`
	Description string                    `json:"description"`
	SourceType  models.TemplateSourceType `json:"source_type"`
	Template    string                    `json:"template"    validate:"required"`
}

// ToModel converts the request into the stored template.
func (r *SaveTemplateRequest) ToModel() *models.Template {
	sourceType := r.SourceType
	if sourceType == "" {
		sourceType = models.TemplateSourceAny
	}

	return &models.Template{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		SourceType:  sourceType,
		Template:    r.Template,
	}
}

// ValidateResponse carries a validation verdict alongside the canonical
// document it was computed over.
type ValidateResponse struct {
	Valid    bool                     `json:"valid"`
	Errors   []models.ValidationIssue `json:"errors"`
	Warnings []models.ValidationIssue `json:"warnings"`
	Spec     *models.PipelineSpec     `json:"spec"`
}

// GenerateResponse carries the rendered DAG artifact and canonical document.
type GenerateResponse struct {
	DagID         string               `json:"dag_id"`
	TemplateID    string               `json:"template_id"`
	TemplateName  string               `json:"template_name"`
	DAG           string               `json:"dag"`
	UnknownTokens []string             `json:"unknown_tokens,omitempty"`
	Spec          *models.PipelineSpec `json:"spec"`
}
