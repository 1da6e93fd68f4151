// Package validator reconciles header-declared chunk definitions against
// body-extracted chunk contents and validates declared metadata fields.
//
// The validator builds the canonical chunk record set consumed by the
// quality diagnostics and the exporter. It emits consistency issues
// (header/body ID mismatches, duplicate header IDs, missing context) and
// field-validation issues from three independent field groups: temporal
// (created_at, version), agentic (priority, dependencies), and multimodal
// (type, content_path).
package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/chunklint/pkg/types"
)

// Validate joins definitions and bodies into canonical records and returns
// the consistency and field-validation issues found along the way.
// docDir is the document's directory, used to resolve content_path lookups.
// headerFound distinguishes a present-but-sparse header from no header at
// all: body-only chunks are only an error when a header exists.
func Validate(defs []types.ChunkDefinition, bodies []types.ChunkBody, docDir string, headerFound bool) ([]types.ChunkRecord, []types.Issue) {
	var issues []types.Issue
	var records []types.ChunkRecord

	bodyByID := make(map[string]types.ChunkBody, len(bodies))
	for _, b := range bodies {
		if _, ok := bodyByID[b.ID]; !ok {
			bodyByID[b.ID] = b
		}
	}

	// All known IDs, for dependency reference checks
	known := make(map[string]bool, len(defs)+len(bodies))
	for _, def := range defs {
		if def.ID != "" {
			known[def.ID] = true
		}
	}
	for _, b := range bodies {
		known[b.ID] = true
	}

	headerIDs := make(map[string]bool, len(defs))
	flaggedDup := make(map[string]bool)

	for _, def := range defs {
		if def.ID == "" {
			issues = append(issues, types.Issue{
				Category: types.CategoryConsistency,
				Severity: types.SeverityError,
				Message:  "Chunk definition is missing an 'id' and cannot be cross-referenced",
			})
			continue
		}

		if headerIDs[def.ID] {
			// One duplicate-id error per ID, however many extra copies exist.
			// First occurrence stays canonical.
			if !flaggedDup[def.ID] {
				flaggedDup[def.ID] = true
				issues = append(issues, types.Issue{
					Category: types.CategoryConsistency,
					Severity: types.SeverityError,
					ChunkIDs: []string{def.ID},
					Message:  fmt.Sprintf("Duplicate chunk ID '%s' in header", def.ID),
				})
			}
			continue
		}
		headerIDs[def.ID] = true

		record := types.ChunkRecord{
			ID:      def.ID,
			Context: def.Context,
			Tags:    append([]string(nil), def.Tags...),
			Content: bodyByID[def.ID].Content,
		}

		if def.Context == "" {
			issues = append(issues, types.Issue{
				Category:   types.CategoryConsistency,
				Severity:   types.SeverityWarning,
				ChunkIDs:   []string{def.ID},
				Message:    "Chunk has no 'context' field",
				Suggestion: "Add a short description of what this chunk covers to improve retrieval.",
			})
		}

		issues = append(issues, validateTemporal(def, &record)...)
		issues = append(issues, validateAgentic(def, &record, known)...)
		issues = append(issues, validateMultimodal(def, &record, docDir)...)

		records = append(records, record)
	}

	// Reconcile ID sets. A body chunk with no governing metadata blocks
	// ingestion; a declared chunk with no content is likely stale but may
	// be intentionally deferred, so the two directions grade differently.
	if headerFound {
		for _, b := range bodies {
			if !headerIDs[b.ID] {
				issues = append(issues, types.Issue{
					Category: types.CategoryConsistency,
					Severity: types.SeverityError,
					ChunkIDs: []string{b.ID},
					Message:  fmt.Sprintf("Chunk '%s' appears in the body but is not declared in the header", b.ID),
					Line:     b.Line,
				})
			}
		}
	}
	for _, record := range records {
		if _, ok := bodyByID[record.ID]; !ok {
			issues = append(issues, types.Issue{
				Category:   types.CategoryConsistency,
				Severity:   types.SeverityWarning,
				ChunkIDs:   []string{record.ID},
				Message:    fmt.Sprintf("Chunk '%s' is declared in the header but has no body content", record.ID),
				Suggestion: "Add a <Chunk id=\"" + record.ID + "\"> block to the body or remove the stale declaration.",
			})
		}
	}

	return records, issues
}

// validateTemporal checks created_at and version
func validateTemporal(def types.ChunkDefinition, record *types.ChunkRecord) []types.Issue {
	var issues []types.Issue

	if def.CreatedAt != nil {
		switch v := def.CreatedAt.(type) {
		case time.Time:
			// yaml resolves unquoted ISO-8601 scalars to time.Time
			record.CreatedAt = v.Format("2006-01-02")
		case string:
			if parsed, err := parseDate(v); err != nil {
				issues = append(issues, types.Issue{
					Category: types.CategoryFieldValidation,
					Severity: types.SeverityError,
					ChunkIDs: []string{def.ID},
					Message:  fmt.Sprintf("Invalid 'created_at' value %q: expected an ISO-8601 date (YYYY-MM-DD)", v),
				})
			} else {
				record.CreatedAt = parsed.Format("2006-01-02")
			}
		default:
			issues = append(issues, types.Issue{
				Category: types.CategoryFieldValidation,
				Severity: types.SeverityError,
				ChunkIDs: []string{def.ID},
				Message:  fmt.Sprintf("Invalid 'created_at' value %v: expected an ISO-8601 date (YYYY-MM-DD)", v),
			})
		}
	}

	if def.Version != nil {
		if n, ok := intValue(def.Version); ok && n >= 1 {
			record.Version = n
		} else {
			issues = append(issues, types.Issue{
				Category: types.CategoryFieldValidation,
				Severity: types.SeverityError,
				ChunkIDs: []string{def.ID},
				Message:  fmt.Sprintf("Invalid 'version' value %v: expected an integer >= 1", def.Version),
			})
		}
	}

	return issues
}

// validateAgentic checks priority and dependencies. Broken dependency
// references degrade agentic ordering, not retrieval, so they stay soft.
func validateAgentic(def types.ChunkDefinition, record *types.ChunkRecord, known map[string]bool) []types.Issue {
	var issues []types.Issue

	if def.Priority != nil {
		if s, ok := def.Priority.(string); ok && types.Priority(s).Valid() {
			record.Priority = s
		} else {
			issues = append(issues, types.Issue{
				Category: types.CategoryFieldValidation,
				Severity: types.SeverityError,
				ChunkIDs: []string{def.ID},
				Message:  fmt.Sprintf("Invalid 'priority' value %v: expected one of high, medium, low", def.Priority),
			})
		}
	}

	if def.Dependencies != nil {
		list, ok := def.Dependencies.([]interface{})
		if !ok {
			issues = append(issues, types.Issue{
				Category: types.CategoryFieldValidation,
				Severity: types.SeverityError,
				ChunkIDs: []string{def.ID},
				Message:  "Invalid 'dependencies' value: expected a sequence of chunk IDs",
			})
			return issues
		}
		for i, entry := range list {
			dep, ok := entry.(string)
			if !ok {
				issues = append(issues, types.Issue{
					Category: types.CategoryFieldValidation,
					Severity: types.SeverityError,
					ChunkIDs: []string{def.ID},
					Message:  fmt.Sprintf("Invalid dependency at index %d: expected a chunk ID string, got %v", i, entry),
				})
				continue
			}
			record.Dependencies = append(record.Dependencies, dep)
			switch {
			case dep == def.ID:
				issues = append(issues, types.Issue{
					Category: types.CategoryFieldValidation,
					Severity: types.SeverityWarning,
					ChunkIDs: []string{def.ID},
					Message:  fmt.Sprintf("Chunk '%s' depends on itself", def.ID),
				})
			case !known[dep]:
				issues = append(issues, types.Issue{
					Category:   types.CategoryFieldValidation,
					Severity:   types.SeverityWarning,
					ChunkIDs:   []string{def.ID},
					Message:    fmt.Sprintf("Dependency '%s' does not reference a known chunk", dep),
					Suggestion: "Declare the referenced chunk or remove the dependency.",
				})
			}
		}
	}

	return issues
}

// validateMultimodal checks type and content_path. A missing asset is a
// warning, not an error: assets may be produced later in the pipeline.
func validateMultimodal(def types.ChunkDefinition, record *types.ChunkRecord, docDir string) []types.Issue {
	var issues []types.Issue

	record.Type = string(types.ChunkText)
	typeKnown := true
	if def.Type != nil {
		if s, ok := def.Type.(string); ok && types.ChunkType(s).Valid() {
			record.Type = s
		} else {
			typeKnown = false
			issues = append(issues, types.Issue{
				Category: types.CategoryFieldValidation,
				Severity: types.SeverityError,
				ChunkIDs: []string{def.ID},
				Message:  fmt.Sprintf("Invalid 'type' value %v: expected one of text, image, video, audio", def.Type),
			})
		}
	}

	if def.ContentPath != "" {
		record.ContentPath = def.ContentPath
	}

	if !typeKnown {
		// Cannot judge content_path rules against an unknown type
		return issues
	}

	if record.Type == string(types.ChunkText) {
		if def.ContentPath != "" {
			issues = append(issues, types.Issue{
				Category:   types.CategoryFieldValidation,
				Severity:   types.SeverityWarning,
				ChunkIDs:   []string{def.ID},
				Message:    "'content_path' is set but the chunk type is text",
				Suggestion: "Set a non-text 'type' (image, video, audio) or remove 'content_path'.",
			})
		}
		return issues
	}

	// Non-text chunk
	if def.ContentPath == "" {
		issues = append(issues, types.Issue{
			Category:   types.CategoryFieldValidation,
			Severity:   types.SeverityWarning,
			ChunkIDs:   []string{def.ID},
			Message:    fmt.Sprintf("Chunk of type '%s' has no 'content_path'", record.Type),
			Suggestion: "Point 'content_path' at the asset file, relative to the document.",
		})
		return issues
	}

	resolved := def.ContentPath
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(docDir, resolved)
	}
	if _, err := os.Stat(resolved); err != nil {
		issues = append(issues, types.Issue{
			Category:   types.CategoryFieldValidation,
			Severity:   types.SeverityWarning,
			ChunkIDs:   []string{def.ID},
			Message:    fmt.Sprintf("Content path '%s' does not exist", def.ContentPath),
			Suggestion: "Create the asset or fix the path; assets may also be produced later in the pipeline.",
		})
	}

	return issues
}

// parseDate accepts a calendar date, optionally with a time component
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// intValue normalizes the integer types the YAML decoder may produce
func intValue(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	default:
		return 0, false
	}
}
