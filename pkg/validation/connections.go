package validation

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/dataflow-hq/dataflow/pkg/models"
)

// QueryExecutor issues raw parameterized queries. *sql.DB satisfies it.
type QueryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// TableNameResolver maps an entity name to its physical table name.
type TableNameResolver func(entity string) string

// connectionLookupTimeout bounds the advisory existence check; a slow store
// must not stall structural validation results.
const connectionLookupTimeout = 5 * time.Second

// ValidateSpecWithDB runs ValidateSpec and then verifies that the referenced
// source/target connections exist and are active. The lookup is advisory: any
// failure it raises is downgraded to a single warning so structural
// validation stays available when the store is unreachable.
func ValidateSpecWithDB(ctx context.Context, spec *models.PipelineSpec, exec QueryExecutor, table TableNameResolver) *models.ValidationResult {
	result := ValidateSpec(spec)
	if spec == nil {
		return result
	}

	sourceID := spec.Spec.Source.ConnectionID
	targetID := spec.Spec.Target.ConnectionID

	if sourceID == "" && targetID == "" {
		return result
	}

	checkConnections(ctx, result, sourceID, targetID, &sqlConnectionLookup{exec: exec, table: table})

	return result
}

// connectionRow is the slice of a stored connection the checker needs.
type connectionRow struct {
	name   string
	status models.ConnectionStatus
}

// connectionLookup resolves a set of connection identifiers to stored rows,
// keyed by the identifier as the caller supplied it.
type connectionLookup interface {
	lookup(ctx context.Context, numericIDs []int64, namedIDs []string) (map[string]connectionRow, error)
}

func checkConnections(ctx context.Context, result *models.ValidationResult, sourceID, targetID string, lookup connectionLookup) {
	ids := make([]string, 0, 2)
	for _, id := range []string{sourceID, targetID} {
		if id != "" && (len(ids) == 0 || ids[0] != id) {
			ids = append(ids, id)
		}
	}

	// The identifier may be the store's surrogate key or the domain
	// connection_id string; one IN query cannot match both columns, so the
	// set is partitioned and each bucket queried on its own column.
	var (
		numericIDs []int64
		namedIDs   []string
	)

	for _, id := range ids {
		if pk, err := strconv.ParseInt(id, 10, 64); err == nil {
			numericIDs = append(numericIDs, pk)
		} else {
			namedIDs = append(namedIDs, id)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, connectionLookupTimeout)
	defer cancel()

	found, err := lookup.lookup(ctx, numericIDs, namedIDs)
	if err != nil {
		result.AddWarning("database", "connection existence check skipped: "+err.Error())

		return
	}

	for path, id := range map[string]string{
		"spec.source.connection_id": sourceID,
		"spec.target.connection_id": targetID,
	} {
		if id == "" {
			continue
		}

		row, ok := found[id]
		if !ok {
			result.AddError(path, fmt.Sprintf("connection %q not found", id))

			continue
		}

		if row.status == models.ConnectionInactive {
			result.AddWarning(path, fmt.Sprintf("connection %q (%s) is inactive", id, row.name))
		}
	}
}

// sqlConnectionLookup queries the JSON-in-column Connection table directly:
// the generic entity interface has no bulk ID-set lookup.
type sqlConnectionLookup struct {
	exec  QueryExecutor
	table TableNameResolver
}

func (l *sqlConnectionLookup) lookup(ctx context.Context, numericIDs []int64, namedIDs []string) (map[string]connectionRow, error) {
	found := make(map[string]connectionRow)

	if len(numericIDs) > 0 {
		query := fmt.Sprintf(
			`SELECT id::text, data->>'name', data->>'status' FROM %s WHERE id = ANY($1)`,
			l.table("Connection"),
		)

		if err := l.collect(ctx, found, query, pq.Array(numericIDs)); err != nil {
			return nil, err
		}
	}

	if len(namedIDs) > 0 {
		query := fmt.Sprintf(
			`SELECT data->>'connection_id', data->>'name', data->>'status' FROM %s WHERE data->>'connection_id' = ANY($1)`,
			l.table("Connection"),
		)

		if err := l.collect(ctx, found, query, pq.Array(namedIDs)); err != nil {
			return nil, err
		}
	}

	return found, nil
}

func (l *sqlConnectionLookup) collect(ctx context.Context, found map[string]connectionRow, query string, ids any) error {
	rows, err := l.exec.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query connections: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var key, name, status sql.NullString

		if err := rows.Scan(&key, &name, &status); err != nil {
			return fmt.Errorf("failed to scan connection row: %w", err)
		}

		found[key.String] = connectionRow{
			name:   name.String,
			status: models.ConnectionStatus(status.String),
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating connections: %w", err)
	}

	return nil
}
