// Package header extracts and parses the YAML frontmatter block that
// declares a document's chunk definitions.
//
// A header is delimited by a bare "---" line at the very start of the
// document and a matching "---" line later in the text. A missing or
// malformed header degrades to "no header" rather than aborting; the caller
// decides whether that is worth a warning.
package header

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/chunklint/pkg/types"
)

// delimiter is the frontmatter fence line
const delimiter = "---"

// Result holds the outcome of a header parse. When Found is false the Body
// is the full document text and BodyLine/BodyOffset point at its start.
type Result struct {
	Definitions []types.ChunkDefinition

	// Found is true when a well-formed header block was parsed
	Found bool

	// Malformed is true when delimiters were present but the enclosed text
	// failed to parse as YAML. Surfaced as a warning one layer up.
	Malformed bool

	Body string

	// BodyLine is the 1-based document line of the first body line, used to
	// offset scanner line numbers
	BodyLine int

	// BodyOffset is the byte offset of the body within the document
	BodyOffset int
}

// Parse detects and parses the frontmatter header of a document.
// It never returns an error: structural problems degrade to a Result with
// Found=false so the scanner can still run over the full text.
func Parse(content string) Result {
	noHeader := Result{Body: content, BodyLine: 1, BodyOffset: 0}

	if !strings.HasPrefix(content, delimiter) {
		return noHeader
	}
	// The opening fence must be a bare line, not e.g. "----" or "--- text"
	firstLine, _, _ := strings.Cut(content, "\n")
	if strings.TrimSpace(firstLine) != delimiter {
		return noHeader
	}

	lines := strings.Split(content, "\n")
	endIdx := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			endIdx = i
			break
		}
	}
	if endIdx == -1 {
		return noHeader
	}

	headerText := strings.Join(lines[1:endIdx], "\n")
	body := strings.Join(lines[endIdx+1:], "\n")
	bodyLine := endIdx + 2 // line after the closing fence, 1-based
	bodyOffset := len(content) - len(body)

	var raw map[string]interface{}
	if err := yaml.Unmarshal([]byte(headerText), &raw); err != nil {
		r := noHeader
		r.Malformed = true
		return r
	}

	return Result{
		Definitions: extractDefinitions(raw),
		Found:       true,
		Body:        body,
		BodyLine:    bodyLine,
		BodyOffset:  bodyOffset,
	}
}

// extractDefinitions pulls the chunks list out of the parsed frontmatter.
// Entries that are not mappings become zero-value definitions; the
// cross-reference validator reports them as missing an ID. Unknown keys are
// ignored for forward compatibility.
func extractDefinitions(raw map[string]interface{}) []types.ChunkDefinition {
	list, ok := raw["chunks"].([]interface{})
	if !ok {
		return nil
	}

	defs := make([]types.ChunkDefinition, 0, len(list))
	for _, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			defs = append(defs, types.ChunkDefinition{})
			continue
		}
		defs = append(defs, definitionFromMap(m))
	}
	return defs
}

// definitionFromMap maps the recognized keys of one chunks entry.
// Fields validated later by the field-group validators keep their raw YAML
// values so a wrong type becomes a field-validation issue, not a parse
// failure.
func definitionFromMap(m map[string]interface{}) types.ChunkDefinition {
	def := types.ChunkDefinition{
		ID:           stringValue(m["id"]),
		Context:      stringValue(m["context"]),
		Tags:         stringSlice(m["tags"]),
		CreatedAt:    m["created_at"],
		Version:      m["version"],
		Priority:     m["priority"],
		Dependencies: m["dependencies"],
		Type:         m["type"],
		ContentPath:  stringValue(m["content_path"]),
	}
	return def
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

// stringSlice converts a YAML sequence to its string entries, dropping
// anything that is not a string
func stringSlice(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	// Fresh slice per definition; definitions never share containers
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
