// Package dag renders orchestrator DAG documents from pipeline definitions:
// dataset task groups, the placeholder vocabulary, and template substitution.
package dag

import (
	"regexp"
	"strings"
)

// DagIDPrefix namespaces every generated DAG in the scheduler.
const DagIDPrefix = "dataflow__"

var identifierPattern = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeIdentifier replaces every character outside [A-Za-z0-9_] with an
// underscore, yielding a legal scheduler identifier.
func SanitizeIdentifier(s string) string {
	return identifierPattern.ReplaceAllString(s, "_")
}

// TaskID derives the deterministic per-dataset task identifier
// lower(sanitize("<schema>__<table>")). Collisions are only avoided while
// (schema, table) pairs stay unique within a pipeline; duplicates are not
// deduplicated here and will collide in the rendered DAG.
func TaskID(schema, table string) string {
	return strings.ToLower(SanitizeIdentifier(schema + "__" + table))
}

// DagID derives the scheduler DAG identifier from the pipeline name.
func DagID(pipelineName string) string {
	return DagIDPrefix + strings.ToLower(SanitizeIdentifier(pipelineName))
}
