package dag

import (
	"strconv"
	"time"

	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/schedule"
)

// Literal defaults applied when the form left the field unset.
const (
	DefaultOwner             = "data-platform"
	DefaultOwnerEmail        = "data-alerts@dataflow.local"
	DefaultRetries           = 1
	DefaultRetryDelaySeconds = 300
)

// taskGroupIndent is the column at which stage blocks sit inside the DAG body.
const taskGroupIndent = 4

// BuildPlaceholderMap computes the full placeholder vocabulary for one
// render. The map is rebuilt fresh per call and never persisted. Invariant:
// no value may itself contain a "{{key}}" token, so substitution order does
// not matter.
func BuildPlaceholderMap(p *models.Pipeline, connections []*models.Connection) map[string]string {
	retries := DefaultRetries
	retryDelay := DefaultRetryDelaySeconds

	if p.Retry != nil {
		if p.Retry.MaxRetries != nil {
			retries = *p.Retry.MaxRetries
		}

		if p.Retry.RetryDelaySeconds != nil {
			retryDelay = *p.Retry.RetryDelaySeconds
		}
	}

	owner := p.Owner
	if owner == "" {
		owner = DefaultOwner
	}

	email := p.OwnerEmail
	if email == "" {
		email = DefaultOwnerEmail
	}

	values := map[string]string{
		"dag_id":               DagID(p.Name),
		"pipeline_id":          p.ID,
		"pipeline_name":        p.Name,
		"pipeline_description": p.Description,
		"schedule":             schedule.Resolve(p.Schedule.Type, p.Schedule.CronExpression),
		"owner":                owner,
		"owner_email":          email,
		"retries":              strconv.Itoa(retries),
		"retry_delay_seconds":  strconv.Itoa(retryDelay),
		"source_connection_id": p.SourceConnectionID,
		"target_connection_id": p.TargetConnectionID,
		"source_platform":      p.SourcePlatform,
		"target_platform":      p.TargetPlatform,
		"dataset_count":        strconv.Itoa(len(p.Datasets)),
		"generated_at":         time.Now().UTC().Format(time.RFC3339),

		"ingest_sensor_tasks": BuildIngestSensorTasks(p, p.Datasets, taskGroupIndent),
		"ingest_tasks":        BuildIngestTasks(p, p.Datasets, taskGroupIndent),
		"transform_tasks":     BuildTransformTasks(p, p.Datasets, taskGroupIndent),
		"extract_tasks":       BuildExtractTasks(p, p.Datasets, taskGroupIndent),
	}

	for _, conn := range connections {
		switch conn.ConnectionID {
		case p.SourceConnectionID:
			values["source_connection_name"] = conn.Name

			if values["source_platform"] == "" {
				values["source_platform"] = conn.Platform
			}
		case p.TargetConnectionID:
			values["target_connection_name"] = conn.Name

			if values["target_platform"] == "" {
				values["target_platform"] = conn.Platform
			}
		}
	}

	// Connection names always resolve to something renderable.
	if _, ok := values["source_connection_name"]; !ok {
		values["source_connection_name"] = p.SourceConnectionID
	}

	if _, ok := values["target_connection_name"]; !ok {
		values["target_connection_name"] = p.TargetConnectionID
	}

	return values
}
