package dag

import (
	"fmt"
	"strings"

	"github.com/dataflow-hq/dataflow/pkg/models"
)

// DefaultSourcePath is the pipeline-level fallback path used when no datasets
// are configured yet.
const DefaultSourcePath = "/data/incoming"

// taskRenderer emits one task block for one dataset at the given indent.
type taskRenderer func(p *models.Pipeline, taskID string, d *models.Dataset, indent int) string

// groupSpec names the task-group envelope for one generation mode.
type groupSpec struct {
	groupID string
	verb    string
	render  taskRenderer
}

// BuildIngestSensorTasks emits the ingest stage for event-driven pipelines:
// each task polls for its trigger condition before loading.
func BuildIngestSensorTasks(p *models.Pipeline, datasets []*models.Dataset, indent int) string {
	return buildGroup(p, datasets, indent, groupSpec{
		groupID: "ingest_tasks",
		verb:    "Ingest",
		render:  renderIngestSensorTask,
	})
}

// BuildIngestTasks emits the ingest stage for time-scheduled pipelines.
func BuildIngestTasks(p *models.Pipeline, datasets []*models.Dataset, indent int) string {
	return buildGroup(p, datasets, indent, groupSpec{
		groupID: "ingest_tasks",
		verb:    "Ingest",
		render:  renderIngestTask,
	})
}

// BuildTransformTasks emits the transform stage. Only datasets with a
// non-empty column-mapping entry participate; when none qualify the stage is
// omitted entirely rather than rendered as an empty group.
func BuildTransformTasks(p *models.Pipeline, datasets []*models.Dataset, indent int) string {
	mapped := make([]*models.Dataset, 0, len(datasets))

	for _, d := range datasets {
		if len(p.ColumnMappings[d.QualifiedName()]) > 0 {
			mapped = append(mapped, d)
		}
	}

	if len(mapped) == 0 {
		return ""
	}

	return buildGroup(p, mapped, indent, groupSpec{
		groupID: "transform_tasks",
		verb:    "Transform",
		render:  renderTransformTask,
	})
}

// BuildExtractTasks emits the extract stage.
func BuildExtractTasks(p *models.Pipeline, datasets []*models.Dataset, indent int) string {
	return buildGroup(p, datasets, indent, groupSpec{
		groupID: "extract_tasks",
		verb:    "Extract",
		render:  renderExtractTask,
	})
}

// buildGroup applies the shared cardinality policy: zero datasets yield one
// synthetic task from pipeline-level fallbacks, one dataset yields a bare
// task block, and more yield a task-group envelope with every block indented
// two further spaces and separated by a blank line.
func buildGroup(p *models.Pipeline, datasets []*models.Dataset, indent int, gs groupSpec) string {
	switch len(datasets) {
	case 0:
		return gs.render(p, strings.ToLower(SanitizeIdentifier(p.Name)), fallbackDataset(p), indent)
	case 1:
		d := datasets[0]

		return gs.render(p, TaskID(d.Schema, d.Table), d, indent)
	default:
		pad := strings.Repeat(" ", indent)
		tooltip := fmt.Sprintf("%s %d datasets", gs.verb, len(datasets))

		blocks := make([]string, 0, len(datasets))
		for _, d := range datasets {
			blocks = append(blocks, gs.render(p, TaskID(d.Schema, d.Table), d, indent+2))
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%swith TaskGroup(group_id=%q, tooltip=%q) as %s_group:\n", pad, gs.groupID, tooltip, gs.groupID)
		b.WriteString(strings.Join(blocks, "\n"))

		return b.String()
	}
}

// fallbackDataset is the synthetic dataset rendered when the pipeline has no
// datasets configured yet.
func fallbackDataset(p *models.Pipeline) *models.Dataset {
	path := p.SourcePath
	if path == "" {
		path = DefaultSourcePath
	}

	return &models.Dataset{
		TargetPath: path,
		LoadMethod: models.LoadMethodAppend,
	}
}

func renderIngestTask(_ *models.Pipeline, taskID string, d *models.Dataset, indent int) string {
	pad := strings.Repeat(" ", indent)

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s = PythonOperator(\n", pad, taskID)
	fmt.Fprintf(&b, "%s    task_id=%q,\n", pad, taskID)
	fmt.Fprintf(&b, "%s    python_callable=run_ingest,\n", pad)
	fmt.Fprintf(&b, "%s    op_kwargs={\n", pad)
	fmt.Fprintf(&b, "%s        \"schema\": %q,\n", pad, d.Schema)
	fmt.Fprintf(&b, "%s        \"table\": %q,\n", pad, d.Table)
	fmt.Fprintf(&b, "%s        \"target_path\": %q,\n", pad, d.TargetPath)
	fmt.Fprintf(&b, "%s        \"load_method\": %q,\n", pad, loadMethod(d))
	fmt.Fprintf(&b, "%s    },\n", pad)
	fmt.Fprintf(&b, "%s)\n", pad)

	return b.String()
}

func renderIngestSensorTask(p *models.Pipeline, taskID string, d *models.Dataset, indent int) string {
	pad := strings.Repeat(" ", indent)

	pollInterval := 60
	watchPath := d.TargetPath

	if sensor := p.Schedule.EventSensor; sensor != nil {
		if sensor.Config.PollInterval > 0 {
			pollInterval = sensor.Config.PollInterval
		}

		if sensor.Config.WatchPath != "" {
			watchPath = sensor.Config.WatchPath
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s = PythonOperator(\n", pad, taskID)
	fmt.Fprintf(&b, "%s    task_id=%q,\n", pad, taskID)
	fmt.Fprintf(&b, "%s    python_callable=run_ingest,\n", pad)
	fmt.Fprintf(&b, "%s    op_kwargs={\n", pad)
	fmt.Fprintf(&b, "%s        \"schema\": %q,\n", pad, d.Schema)
	fmt.Fprintf(&b, "%s        \"table\": %q,\n", pad, d.Table)
	fmt.Fprintf(&b, "%s        \"target_path\": %q,\n", pad, d.TargetPath)
	fmt.Fprintf(&b, "%s        \"load_method\": %q,\n", pad, loadMethod(d))
	fmt.Fprintf(&b, "%s        \"wait_for_event\": True,\n", pad)
	fmt.Fprintf(&b, "%s        \"watch_path\": %q,\n", pad, watchPath)
	fmt.Fprintf(&b, "%s        \"poll_interval\": %d,\n", pad, pollInterval)
	fmt.Fprintf(&b, "%s    },\n", pad)
	fmt.Fprintf(&b, "%s)\n", pad)

	return b.String()
}

func renderTransformTask(p *models.Pipeline, taskID string, d *models.Dataset, indent int) string {
	pad := strings.Repeat(" ", indent)
	mappings := p.ColumnMappings[d.QualifiedName()]

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s = PythonOperator(\n", pad, taskID)
	fmt.Fprintf(&b, "%s    task_id=%q,\n", pad, taskID)
	fmt.Fprintf(&b, "%s    python_callable=run_transform,\n", pad)
	fmt.Fprintf(&b, "%s    op_kwargs={\n", pad)
	fmt.Fprintf(&b, "%s        \"dataset\": %q,\n", pad, d.QualifiedName())
	fmt.Fprintf(&b, "%s        \"mapping_count\": %d,\n", pad, len(mappings))
	fmt.Fprintf(&b, "%s    },\n", pad)
	fmt.Fprintf(&b, "%s)\n", pad)

	return b.String()
}

func renderExtractTask(_ *models.Pipeline, taskID string, d *models.Dataset, indent int) string {
	pad := strings.Repeat(" ", indent)

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s = PythonOperator(\n", pad, taskID)
	fmt.Fprintf(&b, "%s    task_id=%q,\n", pad, taskID)
	fmt.Fprintf(&b, "%s    python_callable=run_extract,\n", pad)
	fmt.Fprintf(&b, "%s    op_kwargs={\n", pad)
	fmt.Fprintf(&b, "%s        \"schema\": %q,\n", pad, d.Schema)
	fmt.Fprintf(&b, "%s        \"table\": %q,\n", pad, d.Table)
	fmt.Fprintf(&b, "%s        \"filter_query\": %q,\n", pad, d.FilterQuery)
	fmt.Fprintf(&b, "%s        \"target_path\": %q,\n", pad, d.TargetPath)
	fmt.Fprintf(&b, "%s    },\n", pad)
	fmt.Fprintf(&b, "%s)\n", pad)

	return b.String()
}

func loadMethod(d *models.Dataset) models.LoadMethod {
	if d.LoadMethod == "" {
		return models.LoadMethodAppend
	}

	return d.LoadMethod
}
