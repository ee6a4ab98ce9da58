// Package events defines event types and structures for pipeline lifecycle notifications.
package events

import (
	"time"

	"github.com/dataflow-hq/dataflow/pkg/models"
)

type EventType string

// Topic carries every pipeline lifecycle event.
const Topic = "dataflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	PipelineCreatedEvent   EventType = "pipeline.created"
	PipelineUpdatedEvent   EventType = "pipeline.updated"
	PipelineDeletedEvent   EventType = "pipeline.deleted"
	PipelineValidatedEvent EventType = "pipeline.validated"
	ArtifactRenderedEvent  EventType = "artifact.rendered"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	PipelineID string         `json:"pipeline_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type PipelineCreated struct {
	BaseEvent

	Name string `json:"name"`
}

func (e PipelineCreated) GetType() EventType {
	return PipelineCreatedEvent
}

type PipelineUpdated struct {
	BaseEvent

	Name string `json:"name"`
}

func (e PipelineUpdated) GetType() EventType {
	return PipelineUpdatedEvent
}

type PipelineDeleted struct {
	BaseEvent
}

func (e PipelineDeleted) GetType() EventType {
	return PipelineDeletedEvent
}

// PipelineValidated is published after every validation run, pass or fail.
type PipelineValidated struct {
	BaseEvent

	Valid    bool                     `json:"valid"`
	Errors   []models.ValidationIssue `json:"errors,omitempty"`
	Warnings []models.ValidationIssue `json:"warnings,omitempty"`
}

func (e PipelineValidated) GetType() EventType {
	return PipelineValidatedEvent
}

// ArtifactRendered is published when a DAG artifact is generated for a pipeline.
type ArtifactRendered struct {
	BaseEvent

	DagID         string   `json:"dag_id"`
	TemplateID    string   `json:"template_id"`
	UnknownTokens []string `json:"unknown_tokens,omitempty"`
}

func (e ArtifactRendered) GetType() EventType {
	return ArtifactRenderedEvent
}
