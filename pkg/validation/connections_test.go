package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataflow-hq/dataflow/pkg/models"
)

type fakeLookup struct {
	rows map[string]connectionRow
	err  error

	numericIDs []int64
	namedIDs   []string
}

func (f *fakeLookup) lookup(_ context.Context, numericIDs []int64, namedIDs []string) (map[string]connectionRow, error) {
	f.numericIDs = numericIDs
	f.namedIDs = namedIDs

	if f.err != nil {
		return nil, f.err
	}

	return f.rows, nil
}

func TestCheckConnections_PartitionsBuckets(t *testing.T) {
	fake := &fakeLookup{rows: map[string]connectionRow{
		"42":       {name: "warehouse", status: models.ConnectionActive},
		"conn-tgt": {name: "lake", status: models.ConnectionActive},
	}}

	result := models.NewValidationResult()
	checkConnections(context.Background(), result, "42", "conn-tgt", fake)

	assert.Equal(t, []int64{42}, fake.numericIDs)
	assert.Equal(t, []string{"conn-tgt"}, fake.namedIDs)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestCheckConnections_SharedIDQueriedOnce(t *testing.T) {
	fake := &fakeLookup{rows: map[string]connectionRow{
		"conn-a": {name: "a", status: models.ConnectionActive},
	}}

	result := models.NewValidationResult()
	checkConnections(context.Background(), result, "conn-a", "conn-a", fake)

	assert.Equal(t, []string{"conn-a"}, fake.namedIDs)
	assert.Empty(t, fake.numericIDs)
}

func TestCheckConnections_MissingConnectionIsError(t *testing.T) {
	fake := &fakeLookup{rows: map[string]connectionRow{
		"conn-src": {name: "src", status: models.ConnectionActive},
	}}

	result := models.NewValidationResult()
	checkConnections(context.Background(), result, "conn-src", "conn-gone", fake)

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "spec.target.connection_id", result.Errors[0].Path)
	assert.Contains(t, result.Errors[0].Message, `"conn-gone" not found`)
}

func TestCheckConnections_InactiveConnectionIsWarning(t *testing.T) {
	fake := &fakeLookup{rows: map[string]connectionRow{
		"conn-src": {name: "legacy warehouse", status: models.ConnectionInactive},
		"conn-tgt": {name: "lake", status: models.ConnectionActive},
	}}

	result := models.NewValidationResult()
	checkConnections(context.Background(), result, "conn-src", "conn-tgt", fake)

	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "spec.source.connection_id", result.Warnings[0].Path)
	assert.Contains(t, result.Warnings[0].Message, "legacy warehouse")
}

func TestCheckConnections_LookupFailureDowngradesToWarning(t *testing.T) {
	fake := &fakeLookup{err: errors.New("connection refused")}

	result := models.NewValidationResult()
	checkConnections(context.Background(), result, "conn-src", "conn-tgt", fake)

	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "database", result.Warnings[0].Path)
	assert.Contains(t, result.Warnings[0].Message, "connection refused")
}

func TestValidateSpecWithDB_SkipsLookupWithoutIDs(t *testing.T) {
	spec := validSpec()
	spec.Spec.Source.ConnectionID = ""
	spec.Spec.Target.ConnectionID = ""

	// A nil executor would panic if the lookup ran.
	result := ValidateSpecWithDB(context.Background(), spec, nil, func(string) string { return "connections" })

	require.False(t, result.Valid)

	paths := errorPaths(result)
	assert.Contains(t, paths, "spec.source.connection_id")
	assert.Contains(t, paths, "spec.target.connection_id")
	for _, w := range result.Warnings {
		assert.NotEqual(t, "database", w.Path)
	}
}
