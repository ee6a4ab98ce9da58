// Package cronspec validates 5-field cron expressions and answers advisory
// frequency questions about them. The validator is intentionally stricter
// about diagnostics and looser about stepped terms than a full cron engine:
// it names the offending field and value, and for "<base>/<step>" terms it
// range-checks only the step and the literal bounds of a ranged base, not the
// enumerated occurrences the step implies.
package cronspec

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrEmptyExpression is returned when the expression is blank.
var ErrEmptyExpression = errors.New("cron expression is empty")

// ErrFieldCount is returned when the expression does not split into 5 fields.
var ErrFieldCount = errors.New("cron expression must have exactly 5 parts")

const fieldCount = 5

type field struct {
	name string
	min  int
	max  int
}

// Field order: minute, hour, day-of-month, month, day-of-week.
// Weekday accepts 0-7 so both Sunday encodings pass.
var fields = [fieldCount]field{
	{"minute", 0, 59},
	{"hour", 0, 23},
	{"day-of-month", 1, 31},
	{"month", 1, 12},
	{"day-of-week", 0, 7},
}

var fieldChars = regexp.MustCompile(`^[0-9*,/-]+$`)

// Validate checks expr for structural correctness. A nil return means the
// expression is well-formed and every literal value is in range.
func Validate(expr string) error {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return ErrEmptyExpression
	}

	parts := strings.Fields(trimmed)
	if len(parts) != fieldCount {
		return ErrFieldCount
	}

	for i, part := range parts {
		if err := validateField(fields[i], part); err != nil {
			return err
		}
	}

	return nil
}

func validateField(f field, part string) error {
	if !fieldChars.MatchString(part) {
		return fmt.Errorf("%s field has invalid characters", f.name)
	}

	values, err := expandField(f, part)
	if err != nil {
		return err
	}

	for _, v := range values {
		if v < f.min || v > f.max {
			return fmt.Errorf("%s value %d out of range (%d-%d)", f.name, v, f.min, f.max)
		}
	}

	return nil
}

// expandField collects the integer values a field mentions literally.
// Stepped terms contribute the step value plus, for ranged bases, the range
// endpoints; they do not enumerate the occurrences the step implies.
func expandField(f field, part string) ([]int, error) {
	malformed := fmt.Errorf("%s field is malformed", f.name)

	var values []int

	for _, term := range strings.Split(part, ",") {
		switch {
		case term == "*":
			// No literal values to check.
		case strings.Contains(term, "/"):
			base, step, ok := strings.Cut(term, "/")
			if !ok || step == "" || strings.Contains(step, "/") {
				return nil, malformed
			}

			stepValue, err := strconv.Atoi(step)
			if err != nil {
				return nil, malformed
			}

			values = append(values, stepValue)

			if base == "*" {
				continue
			}

			if strings.Contains(base, "-") {
				low, high, err := parseRange(base)
				if err != nil {
					return nil, malformed
				}

				values = append(values, low, high)

				continue
			}

			if _, err := strconv.Atoi(base); err != nil {
				return nil, malformed
			}
		case strings.Contains(term, "-"):
			low, high, err := parseRange(term)
			if err != nil {
				return nil, malformed
			}

			values = append(values, low, high)
		default:
			value, err := strconv.Atoi(term)
			if err != nil {
				return nil, malformed
			}

			values = append(values, value)
		}
	}

	return values, nil
}

func parseRange(term string) (int, int, error) {
	low, high, ok := strings.Cut(term, "-")
	if !ok {
		return 0, 0, errors.New("not a range")
	}

	lowValue, err := strconv.Atoi(low)
	if err != nil {
		return 0, 0, err
	}

	highValue, err := strconv.Atoi(high)
	if err != nil {
		return 0, 0, err
	}

	return lowValue, highValue, nil
}

// highFrequencyListLen is the minute-list length beyond which an explicit
// comma list is treated as effectively every minute.
const highFrequencyListLen = 30

// MinuteInterval returns a heuristic minute interval for expr, used only for
// advisory load warnings. A "*/N" minute field yields N; an explicit comma
// list of more than 30 minute values with hour and day-of-month both "*"
// yields 1. ok is false when no frequency hint applies. This is not exact
// cron semantics.
func MinuteInterval(expr string) (int, bool) {
	parts := strings.Fields(strings.TrimSpace(expr))
	if len(parts) != fieldCount {
		return 0, false
	}

	minute := parts[0]

	if after, found := strings.CutPrefix(minute, "*/"); found {
		interval, err := strconv.Atoi(after)
		if err != nil {
			return 0, false
		}

		return interval, true
	}

	if strings.Contains(minute, ",") {
		listLen := len(strings.Split(minute, ","))
		if listLen > highFrequencyListLen && parts[1] == "*" && parts[2] == "*" {
			return 1, true
		}
	}

	return 0, false
}

// NextRuns previews the next n fire times of expr after from. It uses the
// standard 5-field parser, so expressions that pass Validate but rely on the
// loose stepped-term bounds may still be rejected here.
func NextRuns(expr string, from time.Time, n int) ([]time.Time, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cron expression: %w", err)
	}

	runs := make([]time.Time, 0, n)
	next := from

	for range n {
		next = schedule.Next(next)
		runs = append(runs, next)
	}

	return runs, nil
}
