// Package schedule maps a pipeline's declared schedule onto scheduler-native
// trigger tokens for the generated DAG.
package schedule

import "github.com/dataflow-hq/dataflow/pkg/models"

// Scheduler-native preset trigger tokens.
const (
	TriggerOnce    = "@once"
	TriggerHourly  = "@hourly"
	TriggerDaily   = "@daily"
	TriggerWeekly  = "@weekly"
	TriggerMonthly = "@monthly"

	// TriggerNone marks sensor-driven DAGs: the schedule is event-based,
	// not time-based.
	TriggerNone = "None"
)

// Defaults applied when an interval schedule carries no expression.
const (
	DefaultEveryMinutesCron = "*/15 * * * *"
	DefaultEveryHoursCron   = "0 */2 * * *"
)

// Resolve maps a schedule type and cron expression to the trigger token the
// generated DAG declares. It never re-validates the expression; validity is
// the spec validator's responsibility. Unknown or unset types fall back to a
// manual trigger.
func Resolve(scheduleType models.ScheduleType, cronExpression string) string {
	switch scheduleType {
	case models.ScheduleManual:
		return TriggerOnce
	case models.ScheduleHourly:
		return TriggerHourly
	case models.ScheduleDaily:
		return TriggerDaily
	case models.ScheduleWeekly:
		return TriggerWeekly
	case models.ScheduleMonthly:
		return TriggerMonthly
	case models.ScheduleEventDriven:
		return TriggerNone
	case models.ScheduleEveryMins:
		if cronExpression != "" {
			return cronExpression
		}

		return DefaultEveryMinutesCron
	case models.ScheduleEveryHours:
		if cronExpression != "" {
			return cronExpression
		}

		return DefaultEveryHoursCron
	case models.ScheduleCustom:
		if cronExpression != "" {
			return cronExpression
		}

		return TriggerOnce
	}

	return TriggerOnce
}
