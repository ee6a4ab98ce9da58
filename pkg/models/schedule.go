package models

// ScheduleType is the closed set of schedule kinds a pipeline may declare.
type ScheduleType string

const (
	ScheduleManual      ScheduleType = "manual"
	ScheduleEveryMins   ScheduleType = "every_minutes"
	ScheduleEveryHours  ScheduleType = "every_hours"
	ScheduleHourly      ScheduleType = "hourly"
	ScheduleDaily       ScheduleType = "daily"
	ScheduleWeekly      ScheduleType = "weekly"
	ScheduleMonthly     ScheduleType = "monthly"
	ScheduleCustom      ScheduleType = "custom"
	ScheduleEventDriven ScheduleType = "event_driven"
)

// ScheduleTypes lists every valid schedule type.
func ScheduleTypes() []ScheduleType {
	return []ScheduleType{
		ScheduleManual, ScheduleEveryMins, ScheduleEveryHours, ScheduleHourly,
		ScheduleDaily, ScheduleWeekly, ScheduleMonthly, ScheduleCustom,
		ScheduleEventDriven,
	}
}

// IsValid reports whether t is one of the enumerated schedule types.
func (t ScheduleType) IsValid() bool {
	switch t {
	case ScheduleManual, ScheduleEveryMins, ScheduleEveryHours, ScheduleHourly,
		ScheduleDaily, ScheduleWeekly, ScheduleMonthly, ScheduleCustom,
		ScheduleEventDriven:
		return true
	}

	return false
}

// RequiresCron reports whether t needs a cron expression to be meaningful.
// Preset types (hourly, daily, ...) resolve to scheduler-native tokens but the
// document still carries the expression for them.
func (t ScheduleType) RequiresCron() bool {
	switch t {
	case ScheduleEveryMins, ScheduleEveryHours, ScheduleHourly,
		ScheduleDaily, ScheduleWeekly, ScheduleMonthly, ScheduleCustom:
		return true
	case ScheduleManual, ScheduleEventDriven:
		return false
	}

	return false
}

// ScheduleConfig declares when a pipeline runs.
type ScheduleConfig struct {
	Type           ScheduleType       `json:"type"            validate:"required"`
	CronExpression string             `json:"cron_expression,omitempty"`
	EventSensor    *EventSensorConfig `json:"event_sensor,omitempty"`
}

// SensorType is the closed set of event-driven trigger kinds.
type SensorType string

const (
	SensorFileWatcher SensorType = "file_watcher"
	SensorS3Event     SensorType = "s3_event"
	SensorDB          SensorType = "db_sensor"
	SensorSFTP        SensorType = "sftp_sensor"
	SensorAPIWebhook  SensorType = "api_webhook"
	SensorUpstreamJob SensorType = "upstream_job"
)

// SensorTypes lists every valid sensor type.
func SensorTypes() []SensorType {
	return []SensorType{
		SensorFileWatcher, SensorS3Event, SensorDB,
		SensorSFTP, SensorAPIWebhook, SensorUpstreamJob,
	}
}

// IsValid reports whether s is one of the enumerated sensor types.
func (s SensorType) IsValid() bool {
	switch s {
	case SensorFileWatcher, SensorS3Event, SensorDB,
		SensorSFTP, SensorAPIWebhook, SensorUpstreamJob:
		return true
	}

	return false
}

// EventSensorConfig gates an event-driven schedule on an external condition.
type EventSensorConfig struct {
	SensorType SensorType     `json:"sensor_type" validate:"required"`
	Config     SensorSettings `json:"config"`
}

// SensorSettings holds the sensor-type-specific knobs. Only the fields
// relevant to the declared sensor type are consulted; the rest stay empty.
type SensorSettings struct {
	WatchPath    string `json:"watch_path,omitempty"`
	SQLCondition string `json:"sql_condition,omitempty"`
	UpstreamJob  string `json:"upstream_job,omitempty"`
	PollInterval int    `json:"poll_interval,omitempty"`
	TimeoutHours int    `json:"timeout_hours,omitempty"`
	SensorMode   string `json:"sensor_mode,omitempty"`
	SoftFail     bool   `json:"soft_fail,omitempty"`
}
