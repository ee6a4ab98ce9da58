package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dataflow-hq/dataflow/pkg/jobspec"
	"github.com/dataflow-hq/dataflow/pkg/log"
	"github.com/dataflow-hq/dataflow/pkg/models"
	"github.com/dataflow-hq/dataflow/pkg/persistence/postgresql"
	"github.com/dataflow-hq/dataflow/pkg/validation"
)

var ErrSpecInvalid = errors.New("pipeline specification is invalid")

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a pipeline specification",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Path to a pipeline form state JSON file",
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Database connection URL for persistence",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "Pipeline ID to load from the store",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("validate")

			input, err := loadPipelineInput(ctx, logger,
				command.String("file"), command.String("database-url"), command.String("id"))
			if err != nil {
				return err
			}
			defer input.close(ctx, logger)

			spec := jobspec.Build(input.pipeline, input.connections)
			result := validateSpec(ctx, spec, input)

			printResult(result)

			if !result.Valid {
				return ErrSpecInvalid
			}

			return nil
		},
	}
}

// validateSpec runs the full rule set; stores with a live SQL handle
// additionally get connection existence checks.
func validateSpec(ctx context.Context, spec *models.PipelineSpec, input *pipelineInput) *models.ValidationResult {
	if backed, ok := input.store.(interface{ DB() *sql.DB }); ok {
		return validation.ValidateSpecWithDB(ctx, spec, backed.DB(), postgresql.TableName)
	}

	return validation.ValidateSpec(spec)
}

func printResult(result *models.ValidationResult) {
	for _, issue := range result.Errors {
		_, _ = fmt.Fprintf(os.Stdout, "ERROR   %s: %s\n", issue.Path, issue.Message)
	}

	for _, issue := range result.Warnings {
		_, _ = fmt.Fprintf(os.Stdout, "WARNING %s: %s\n", issue.Path, issue.Message)
	}

	if result.Valid {
		_, _ = fmt.Fprintln(os.Stdout, "Specification is valid.")

		return
	}

	_, _ = fmt.Fprintf(os.Stdout, "Specification is invalid: %d error(s), %d warning(s).\n",
		len(result.Errors), len(result.Warnings))
}
