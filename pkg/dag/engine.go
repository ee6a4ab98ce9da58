package dag

import (
	"fmt"
	"strings"
	"time"

	"github.com/dataflow-hq/dataflow/pkg/models"
)

// NoTemplateSentinel is returned when the requested template cannot be
// resolved. An unresolved template is not an error: the caller always gets
// renderable text.
const NoTemplateSentinel = "# no template selected\n"

// RenderResult is the outcome of one template render. UnknownTokens lists
// placeholders the template referenced that are not in the current
// vocabulary; they are left verbatim in Output so templates written against
// a future vocabulary keep rendering.
type RenderResult struct {
	Output        string   `json:"output"`
	TemplateID    string   `json:"template_id"`
	TemplateName  string   `json:"template_name"`
	UnknownTokens []string `json:"unknown_tokens,omitempty"`
}

// FillTemplate resolves templateID against the built-in and user-defined
// catalogs, substitutes the placeholder vocabulary into its body, and
// prepends the descriptive header.
func FillTemplate(templateID string, p *models.Pipeline, connections []*models.Connection, customTemplates []*models.Template) string {
	return Render(templateID, p, connections, customTemplates).Output
}

// Render is FillTemplate with the unknown-token report attached.
func Render(templateID string, p *models.Pipeline, connections []*models.Connection, customTemplates []*models.Template) *RenderResult {
	tpl := resolveTemplate(templateID, customTemplates)
	if tpl == nil {
		return &RenderResult{Output: NoTemplateSentinel, TemplateID: templateID}
	}

	values := BuildPlaceholderMap(p, connections)
	body, unknown := substitute(tpl.Template, values)

	return &RenderResult{
		Output:        renderHeader(tpl, p) + body,
		TemplateID:    tpl.ID,
		TemplateName:  tpl.Name,
		UnknownTokens: unknown,
	}
}

// resolveTemplate prefers user-defined templates over built-ins so a user can
// shadow a built-in by reusing its ID.
func resolveTemplate(templateID string, customTemplates []*models.Template) *models.Template {
	for _, tpl := range customTemplates {
		if tpl.ID == templateID {
			return tpl
		}
	}

	for _, tpl := range BuiltinTemplates() {
		if tpl.ID == templateID {
			return tpl
		}
	}

	return nil
}

// renderHeader is regenerated on every render, never cached.
func renderHeader(tpl *models.Template, p *models.Pipeline) string {
	var b strings.Builder

	b.WriteString("# Generated by dataflow. Do not edit; changes are overwritten on the next deploy.\n")
	fmt.Fprintf(&b, "# Template: %s\n", tpl.Name)
	fmt.Fprintf(&b, "# Pipeline: %s\n", p.Name)
	fmt.Fprintf(&b, "# Movement: %s (%s) -> %s (%s)\n", p.SourceConnectionID, p.SourcePlatform, p.TargetConnectionID, p.TargetPlatform)
	fmt.Fprintf(&b, "# Datasets: %d\n", len(p.Datasets))
	fmt.Fprintf(&b, "# Generated at: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	return b.String()
}

func isTokenChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// substitute replaces every {{identifier}} token with its vocabulary value in
// a single pass over the body, avoiding the quadratic behaviour of repeated
// global replacement on large templates. Tokens without a vocabulary entry
// are left verbatim and reported; malformed token syntax is passed through
// untouched.
func substitute(body string, values map[string]string) (string, []string) {
	var (
		b       strings.Builder
		unknown []string
		seen    map[string]bool
	)

	b.Grow(len(body))

	for i := 0; i < len(body); {
		open := strings.Index(body[i:], "{{")
		if open < 0 {
			b.WriteString(body[i:])

			break
		}

		open += i
		b.WriteString(body[i:open])

		end := open + 2
		for end < len(body) && isTokenChar(body[end]) {
			end++
		}

		if end+1 >= len(body) || body[end] != '}' || body[end+1] != '}' || end == open+2 {
			// Not a well-formed token; emit the braces and move on.
			b.WriteString("{{")
			i = open + 2

			continue
		}

		token := body[open+2 : end]

		value, ok := values[token]
		if !ok {
			b.WriteString(body[open : end+2])

			if !seen[token] {
				if seen == nil {
					seen = make(map[string]bool)
				}

				seen[token] = true
				unknown = append(unknown, token)
			}

			i = end + 2

			continue
		}

		b.WriteString(value)
		i = end + 2
	}

	return b.String(), unknown
}
