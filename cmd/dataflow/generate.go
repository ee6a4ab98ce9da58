package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/dataflow-hq/dataflow/pkg/dag"
	"github.com/dataflow-hq/dataflow/pkg/jobspec"
	"github.com/dataflow-hq/dataflow/pkg/log"
)

func NewGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Generate the DAG artifact and canonical document for a pipeline",
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
				Name:    "template",
				Aliases: []string{"t"},
				Usage:   "Template ID to render with (defaults to the pipeline's template)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory to write the artifacts into",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Generate artifacts even when validation fails",
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
			logger := log.WithModule("generate")

			input, err := loadPipelineInput(ctx, logger,
				command.String("file"), command.String("database-url"), command.String("id"))
			if err != nil {
				return err
			}
			defer input.close(ctx, logger)

			spec := jobspec.Build(input.pipeline, input.connections)

			result := validateSpec(ctx, spec, input)
			printResult(result)

			if !result.Valid && !command.Bool("force") {
				return ErrSpecInvalid
			}

			templateID := command.String("template")
			if templateID == "" {
				templateID = input.pipeline.TemplateID
			}

			if templateID == "" {
				templateID = dag.DefaultTemplateID
			}

			rendered := dag.Render(templateID, input.pipeline, input.connections, input.templates)

			for _, token := range rendered.UnknownTokens {
				_, _ = fmt.Fprintf(os.Stderr, "warning: unknown template token {{%s}} left as-is\n", token)
			}

			specYAML, err := jobspec.EncodeYAML(spec)
			if err != nil {
				return err
			}

			outDir := command.String("output")
			if err := os.MkdirAll(outDir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			dagID := dag.DagID(input.pipeline.Name)
			dagPath := filepath.Join(outDir, dagID+".py")
			specPath := filepath.Join(outDir, dagID+".yaml")

			if err := os.WriteFile(dagPath, []byte(rendered.Output), 0600); err != nil {
				return fmt.Errorf("failed to write DAG artifact: %w", err)
			}

			if err := os.WriteFile(specPath, specYAML, 0600); err != nil {
				return fmt.Errorf("failed to write spec artifact: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Wrote %s and %s (template %s)\n", dagPath, specPath, rendered.TemplateID)

			return nil
		},
	}
}
