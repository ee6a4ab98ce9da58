package validation

import (
	"github.com/xeipuuv/gojsonschema"

	"github.com/dataflow-hq/dataflow/pkg/models"
)

// specSchema is the JSON Schema for the canonical document envelope. It gates
// shape only (types and required keys); field-level policy stays in
// ValidateSpec so its diagnostics keep their severity tiering.
const specSchema = `
{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["apiVersion", "kind", "metadata", "spec"],
  "properties": {
    "apiVersion": {
      "type": "string"
    },
    "kind": {
      "type": "string"
    },
    "metadata": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {
          "type": "string"
        },
        "description": {
          "type": "string"
        },
        "id": {
          "type": "string"
        }
      }
    },
    "spec": {
      "type": "object",
      "required": ["source", "target", "datasets", "schedule", "execution"],
      "properties": {
        "source": {
          "type": "object",
          "properties": {
            "connection_id": {
              "type": "string"
            }
          }
        },
        "target": {
          "type": "object",
          "properties": {
            "connection_id": {
              "type": "string"
            }
          }
        },
        "datasets": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "schema": {
                "type": "string"
              },
              "table": {
                "type": "string"
              }
            }
          }
        },
        "schedule": {
          "type": "object",
          "required": ["type"],
          "properties": {
            "type": {
              "type": "string"
            },
            "cron_expression": {
              "type": "string"
            }
          }
        },
        "execution": {
          "type": "object",
          "properties": {
            "operator": {
              "type": "string"
            }
          }
        }
      }
    }
  }
}`

// ValidateDocument checks a serialized canonical document against the
// envelope schema. Used for documents read from disk or the API before they
// are decoded into a PipelineSpec.
func ValidateDocument(raw []byte) *models.ValidationResult {
	result := models.NewValidationResult()

	schemaLoader := gojsonschema.NewStringLoader(specSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	schemaResult, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		result.AddError("", "document is not valid JSON: "+err.Error())

		return result
	}

	if !schemaResult.Valid() {
		for _, schemaErr := range schemaResult.Errors() {
			result.AddError(schemaErr.Field(), schemaErr.Description())
		}
	}

	return result
}
