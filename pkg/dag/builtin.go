package dag

import "github.com/dataflow-hq/dataflow/pkg/models"

// Built-in template IDs.
const (
	TemplateDatabaseIngest = "builtin-database-ingest"
	TemplateFlatFileIngest = "builtin-flat-file-ingest"
	TemplateExtract        = "builtin-extract"
)

// DefaultTemplateID is used when a pipeline does not pick a template.
const DefaultTemplateID = TemplateDatabaseIngest

// BuiltinTemplates returns the process-wide template set. The slice is
// rebuilt per call so callers can not mutate the catalog.
func BuiltinTemplates() []*models.Template {
	return []*models.Template{
		{
			ID:          TemplateDatabaseIngest,
			Name:        "Database ingest",
			Description: "Scheduled ingest from a database source with optional transform stage",
			SourceType:  models.TemplateSourceDatabase,
			Template:    databaseIngestTemplate,
			Builtin:     true,
		},
		{
			ID:          TemplateFlatFileIngest,
			Name:        "Flat-file ingest",
			Description: "Event-driven ingest from a file-based source",
			SourceType:  models.TemplateSourceFlatFile,
			Template:    flatFileIngestTemplate,
			Builtin:     true,
		},
		{
			ID:          TemplateExtract,
			Name:        "Extract",
			Description: "Extract datasets from the source into files on the target",
			SourceType:  models.TemplateSourceAny,
			Template:    extractTemplate,
			Builtin:     true,
		},
	}
}

const databaseIngestTemplate = `"""{{pipeline_name}}: {{pipeline_description}}"""
from datetime import timedelta

from airflow import DAG
from airflow.operators.python import PythonOperator
from airflow.utils.task_group import TaskGroup

from dataflow.runners import run_ingest, run_transform

default_args = {
    "owner": "{{owner}}",
    "email": ["{{owner_email}}"],
    "email_on_failure": True,
    "retries": {{retries}},
    "retry_delay": timedelta(seconds={{retry_delay_seconds}}),
}

with DAG(
    dag_id="{{dag_id}}",
    description="{{pipeline_description}}",
    schedule="{{schedule}}",
    default_args=default_args,
    catchup=False,
    tags=["dataflow", "{{source_platform}}", "{{target_platform}}"],
) as dag:
    # Source: {{source_connection_name}} ({{source_connection_id}})
    # Target: {{target_connection_name}} ({{target_connection_id}})
{{ingest_tasks}}
{{transform_tasks}}
`

const flatFileIngestTemplate = `"""{{pipeline_name}}: {{pipeline_description}}"""
from datetime import timedelta

from airflow import DAG
from airflow.operators.python import PythonOperator
from airflow.utils.task_group import TaskGroup

from dataflow.runners import run_ingest

default_args = {
    "owner": "{{owner}}",
    "email": ["{{owner_email}}"],
    "email_on_failure": True,
    "retries": {{retries}},
    "retry_delay": timedelta(seconds={{retry_delay_seconds}}),
}

with DAG(
    dag_id="{{dag_id}}",
    description="{{pipeline_description}}",
    schedule={{schedule}},
    default_args=default_args,
    catchup=False,
    tags=["dataflow", "event-driven", "{{target_platform}}"],
) as dag:
    # {{dataset_count}} dataset(s) from {{source_connection_name}}
{{ingest_sensor_tasks}}
`

const extractTemplate = `"""{{pipeline_name}}: {{pipeline_description}}"""
from datetime import timedelta

from airflow import DAG
from airflow.operators.python import PythonOperator
from airflow.utils.task_group import TaskGroup

from dataflow.runners import run_extract

default_args = {
    "owner": "{{owner}}",
    "email": ["{{owner_email}}"],
    "retries": {{retries}},
    "retry_delay": timedelta(seconds={{retry_delay_seconds}}),
}

with DAG(
    dag_id="{{dag_id}}",
    description="{{pipeline_description}}",
    schedule="{{schedule}}",
    default_args=default_args,
    catchup=False,
    tags=["dataflow", "extract"],
) as dag:
{{extract_tasks}}
`
