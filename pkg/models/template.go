package models

import "time"

// TemplateSourceType restricts which pipelines a template applies to.
type TemplateSourceType string

const (
	TemplateSourceAny      TemplateSourceType = "any"
	TemplateSourceFlatFile TemplateSourceType = "flat_file"
	TemplateSourceDatabase TemplateSourceType = "database"
)

// IsValid reports whether t is one of the enumerated template source types.
func (t TemplateSourceType) IsValid() bool {
	switch t {
	case TemplateSourceAny, TemplateSourceFlatFile, TemplateSourceDatabase:
		return true
	}

	return false
}

// Template is a DAG text template with {{placeholder}} tokens. Built-in
// templates are process-wide constants; user-defined ones are persisted and
// loaded per rendering call.
type Template struct {
	ID          string             `json:"id"          validate:"required"`
	Name        string             `json:"name"        validate:"required"`
	Description string             `json:"description"`
	SourceType  TemplateSourceType `json:"source_type"`
	Template    string             `json:"template"    validate:"required"`
	Builtin     bool               `json:"builtin"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
