package jobspec

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dataflow-hq/dataflow/pkg/models"
)

// EncodeYAML renders the canonical document as YAML, the shape committed to
// source control next to the generated DAG.
func EncodeYAML(spec *models.PipelineSpec) ([]byte, error) {
	out, err := yaml.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pipeline spec as yaml: %w", err)
	}

	return out, nil
}

// EncodeJSON renders the canonical document as indented JSON, the shape the
// API serves and the schema gate consumes.
func EncodeJSON(spec *models.PipelineSpec) ([]byte, error) {
	out, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode pipeline spec as json: %w", err)
	}

	return out, nil
}

// DecodeJSON parses a serialized canonical document.
func DecodeJSON(raw []byte) (*models.PipelineSpec, error) {
	var spec models.PipelineSpec

	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("failed to decode pipeline spec: %w", err)
	}

	return &spec, nil
}
