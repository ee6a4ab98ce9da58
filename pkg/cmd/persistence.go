// Package cmd provides shared construction helpers for the command binaries.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dataflow-hq/dataflow/pkg/persistence"
	"github.com/dataflow-hq/dataflow/pkg/persistence/file"
	"github.com/dataflow-hq/dataflow/pkg/persistence/postgresql"
)

// NewPersistence builds the persistence layer from a database URL. Postgres
// URLs get the SQL store; anything else is treated as a file root.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parseProvider(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parseProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
