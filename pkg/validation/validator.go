// Package validation checks canonical pipeline specification documents for
// structural correctness. Structural violations are errors and block validity;
// risky-but-legal configurations surface as warnings and never do. The
// validator is pure: all I/O-backed checks live behind explicit extensions.
package validation

import (
	"fmt"
	"strings"

	"github.com/dataflow-hq/dataflow/pkg/cronspec"
	"github.com/dataflow-hq/dataflow/pkg/models"
)

// ValidateSpec walks spec depth-first and reports every rule violation with a
// path pointing at the offending field. Warnings never affect validity.
func ValidateSpec(spec *models.PipelineSpec) *models.ValidationResult {
	result := models.NewValidationResult()

	if spec == nil {
		result.AddError("", "pipeline spec is required")

		return result
	}

	if spec.APIVersion != models.SpecAPIVersion {
		result.AddError("apiVersion", fmt.Sprintf("apiVersion must be %q, got %q", models.SpecAPIVersion, spec.APIVersion))
	}

	if spec.Kind != models.SpecKind {
		result.AddError("kind", fmt.Sprintf("kind must be %q, got %q", models.SpecKind, spec.Kind))
	}

	validateMetadata(spec, result)
	validateEndpoints(spec, result)
	validateDatasets(spec, result)
	validateSchedule(&spec.Spec.Schedule, result)
	validateExecution(&spec.Spec.Execution, result)
	validateRetry(spec.Spec.Retry, result)

	if len(spec.Spec.ColumnMappings) == 0 {
		result.AddWarning("spec.column_mappings", "no column mappings defined; columns are passed through unchanged")
	}

	return result
}

func validateMetadata(spec *models.PipelineSpec, result *models.ValidationResult) {
	if strings.TrimSpace(spec.Metadata.Name) == "" {
		result.AddError("metadata.name", "pipeline name is required")
	}

	if strings.TrimSpace(spec.Metadata.Description) == "" {
		result.AddWarning("metadata.description", "pipeline description is empty")
	}
}

func validateEndpoints(spec *models.PipelineSpec, result *models.ValidationResult) {
	source := spec.Spec.Source.ConnectionID
	target := spec.Spec.Target.ConnectionID

	if source == "" {
		result.AddError("spec.source.connection_id", "source connection is required")
	}

	if target == "" {
		result.AddError("spec.target.connection_id", "target connection is required")
	}

	if source != "" && source == target {
		result.AddError("spec.target.connection_id", "source and target cannot use the same connection")
	}
}

func validateDatasets(spec *models.PipelineSpec, result *models.ValidationResult) {
	datasets := spec.Spec.Datasets
	if len(datasets) == 0 {
		result.AddError("spec.datasets", "at least one dataset is required")

		return
	}

	for i, dataset := range datasets {
		path := fmt.Sprintf("spec.datasets[%d]", i)

		if dataset.Schema == "" {
			result.AddError(path+".schema", "dataset schema is required")
		}

		if dataset.Table == "" {
			result.AddError(path+".table", "dataset table is required")
		}

		if dataset.LoadMethod != "" && !dataset.LoadMethod.IsValid() {
			result.AddError(path+".load_method", fmt.Sprintf("load_method %q is not one of %v", dataset.LoadMethod, models.LoadMethods()))
		}

		if dataset.TargetPath == "" {
			result.AddWarning(path+".target_path", "no target path set; the platform default location applies")
		}

		if dataset.FilterQuery == "" {
			result.AddWarning(path+".filter_query", "no filter query set; the full table will be pulled")
		}

		if dataset.Execution != nil && dataset.Execution.Operator != "" && !dataset.Execution.Operator.IsValid() {
			result.AddError(path+".execution.operator", fmt.Sprintf("operator %q is not one of %v", dataset.Execution.Operator, models.OperatorKinds()))
		}
	}
}

func validateSchedule(schedule *models.ScheduleConfig, result *models.ValidationResult) {
	if schedule.Type == "" {
		result.AddError("spec.schedule", "schedule is required")

		return
	}

	if !schedule.Type.IsValid() {
		result.AddError("spec.schedule.type", fmt.Sprintf("schedule type %q is not one of %v", schedule.Type, models.ScheduleTypes()))

		return
	}

	if schedule.Type.RequiresCron() {
		validateCronSchedule(schedule, result)

		return
	}

	if schedule.Type == models.ScheduleEventDriven {
		validateEventSensor(schedule.EventSensor, result)
	}
}

// Preset types resolve to scheduler-native tokens and interval types fall
// back to documented defaults, so a missing expression is only fatal for
// custom schedules. Any expression that is present must parse.
func validateCronSchedule(schedule *models.ScheduleConfig, result *models.ValidationResult) {
	if schedule.CronExpression == "" {
		if schedule.Type == models.ScheduleCustom {
			result.AddError("spec.schedule.cron_expression", `cron expression is required for schedule type "custom"`)
		}

		return
	}

	if err := cronspec.Validate(schedule.CronExpression); err != nil {
		result.AddError("spec.schedule.cron_expression", "invalid cron expression: "+err.Error())

		return
	}

	if interval, ok := cronspec.MinuteInterval(schedule.CronExpression); ok && interval <= 1 {
		result.AddWarning("spec.schedule.cron_expression", "schedule fires every minute or faster; expect significant scheduler and source load")
	}
}

// Sensor config gaps are warnings only: a sensor may be intentionally left
// unconfigured while the pipeline is being drafted.
func validateEventSensor(sensor *models.EventSensorConfig, result *models.ValidationResult) {
	if sensor == nil {
		result.AddError("spec.schedule.event_sensor", "event_sensor is required for event-driven schedules")

		return
	}

	if !sensor.SensorType.IsValid() {
		result.AddError("spec.schedule.event_sensor.sensor_type", fmt.Sprintf("sensor type %q is not one of %v", sensor.SensorType, models.SensorTypes()))

		return
	}

	switch sensor.SensorType {
	case models.SensorFileWatcher, models.SensorSFTP, models.SensorS3Event:
		if strings.TrimSpace(sensor.Config.WatchPath) == "" {
			result.AddWarning("spec.schedule.event_sensor.config.watch_path", fmt.Sprintf("%s sensor has no watch path configured", sensor.SensorType))
		}
	case models.SensorDB:
		if strings.TrimSpace(sensor.Config.SQLCondition) == "" {
			result.AddWarning("spec.schedule.event_sensor.config.sql_condition", "db_sensor has no SQL condition configured")
		}
	case models.SensorUpstreamJob:
		if strings.TrimSpace(sensor.Config.UpstreamJob) == "" {
			result.AddWarning("spec.schedule.event_sensor.config.upstream_job", "upstream_job sensor has no upstream job configured")
		}
	case models.SensorAPIWebhook:
		// Webhook sensors are configured on the caller side.
	}
}

func validateExecution(execution *models.SpecExecution, result *models.ValidationResult) {
	if execution.Operator == "" {
		result.AddError("spec.execution", "execution operator is required")

		return
	}

	if !execution.Operator.IsValid() {
		result.AddError("spec.execution.operator", fmt.Sprintf("operator %q is not one of %v", execution.Operator, models.OperatorKinds()))

		return
	}

	switch execution.Operator {
	case models.OperatorSparkSubmit:
		if execution.SparkConfig == nil || strings.TrimSpace(execution.SparkConfig.Application) == "" {
			result.AddError("spec.execution.spark_config.application", "spark_config.application is required for SparkSubmitOperator")
		}
	case models.OperatorCustomTemplate:
		if strings.TrimSpace(execution.CustomTemplate) == "" {
			result.AddError("spec.execution.custom_template", "custom_template content is required for CustomTemplate execution")
		}
	case models.OperatorPython, models.OperatorBash:
		// No operator-specific requirements.
	}
}

func validateRetry(retry *models.RetryPolicy, result *models.ValidationResult) {
	if retry == nil {
		return
	}

	if retry.MaxRetries != nil && *retry.MaxRetries < 0 {
		result.AddError("spec.retry.max_retries", "max_retries must be >= 0")
	}

	if retry.RetryDelaySeconds != nil && *retry.RetryDelaySeconds <= 0 {
		result.AddError("spec.retry.retry_delay_seconds", "retry_delay_seconds must be > 0")
	}
}
