package cronspec

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AllWildcards(t *testing.T) {
	assert.NoError(t, Validate("* * * * *"))
}

func TestValidate_FieldCount(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"empty after trim", "   "},
		{"four fields", "* * * *"},
		{"six fields", "* * * * * *"},
		{"one field", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.expr)
			require.Error(t, err)
		})
	}

	err := Validate("* * * *")
	require.ErrorIs(t, err, ErrFieldCount)
	assert.Contains(t, err.Error(), "must have exactly 5 parts")
}

func TestValidate_OutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		message string
	}{
		{"minute too large", "99 * * * *", "minute value 99 out of range (0-59)"},
		{"hour too large", "0 24 * * *", "hour value 24 out of range (0-23)"},
		{"day-of-month zero", "0 0 0 * *", "day-of-month value 0 out of range (1-31)"},
		{"month too large", "0 0 1 13 *", "month value 13 out of range (1-12)"},
		{"weekday too large", "0 0 * * 8", "day-of-week value 8 out of range (0-7)"},
		{"range endpoint out of range", "0-75 * * * *", "minute value 75 out of range (0-59)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.expr)
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestValidate_InvalidCharacters(t *testing.T) {
	err := Validate("a * * * *")
	require.Error(t, err)
	assert.Equal(t, "minute field has invalid characters", err.Error())

	err = Validate("* * ? * *")
	require.Error(t, err)
	assert.Equal(t, "day-of-month field has invalid characters", err.Error())
}

func TestValidate_Malformed(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"trailing slash", "*/ * * * *"},
		{"double slash", "1/2/3 * * * *"},
		{"dangling range", "5- * * * *"},
		{"dangling comma term", "5,- * * * *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.expr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "malformed")
		})
	}
}

func TestValidate_AcceptedShapes(t *testing.T) {
	exprs := []string{
		"*/1 * * * *",
		"0 */2 * * *",
		"0,15,30,45 * * * *",
		"0-30 9-17 * * 1-5",
		"0-30/5 * * * *",
		"0 3 * * 0",
		"0 3 * * 7",
	}

	for _, expr := range exprs {
		assert.NoError(t, Validate(expr), expr)
	}
}

// The stepped-term check is deliberately loose: only the step value and the
// literal bounds of a ranged base are range-checked.
func TestValidate_SteppedBoundsAreLoose(t *testing.T) {
	assert.NoError(t, Validate("99/5 * * * *"))

	err := Validate("0-99/5 * * * *")
	require.Error(t, err)
	assert.Equal(t, "minute value 99 out of range (0-59)", err.Error())

	err = Validate("*/99 * * * *")
	require.Error(t, err)
	assert.Equal(t, "minute value 99 out of range (0-59)", err.Error())
}

func TestMinuteInterval_Step(t *testing.T) {
	interval, ok := MinuteInterval("*/1 * * * *")
	require.True(t, ok)
	assert.Equal(t, 1, interval)

	interval, ok = MinuteInterval("*/15 * * * *")
	require.True(t, ok)
	assert.Equal(t, 15, interval)
}

func TestMinuteInterval_DenseList(t *testing.T) {
	minutes := make([]string, 0, 40)
	for i := range 40 {
		minutes = append(minutes, strconv.Itoa(i))
	}

	expr := strings.Join(minutes, ",") + " * * * *"

	interval, ok := MinuteInterval(expr)
	require.True(t, ok)
	assert.Equal(t, 1, interval)

	// Same list pinned to one hour is not effectively-every-minute.
	_, ok = MinuteInterval(strings.Join(minutes, ",") + " 3 * * *")
	assert.False(t, ok)
}

func TestMinuteInterval_NoHint(t *testing.T) {
	for _, expr := range []string{"0 3 * * *", "0,30 * * * *", "* * * * *", "bad"} {
		_, ok := MinuteInterval(expr)
		assert.False(t, ok, expr)
	}
}

func TestNextRuns(t *testing.T) {
	from := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	runs, err := NextRuns("0 3 * * *", from, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC), runs[0])
	assert.Equal(t, time.Date(2025, 6, 3, 3, 0, 0, 0, time.UTC), runs[1])

	_, err = NextRuns("not a cron", from, 1)
	require.Error(t, err)
}
