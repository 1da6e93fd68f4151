package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/chunklint/pkg/types"
)

// Level controls how much remediation detail a rendered report includes
type Level string

const (
	// LevelDiagnose lists problems with explanations only
	LevelDiagnose Level = "diagnose"
	// LevelSuggest additionally includes concrete modification suggestions
	LevelSuggest Level = "suggest"
	// LevelFix additionally includes machine-applicable definition patches
	LevelFix Level = "fix"
)

// ParseLevel validates a level string from a flag or tool parameter
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelDiagnose, LevelSuggest, LevelFix:
		return Level(s), nil
	default:
		return "", fmt.Errorf("%w: %q (expected diagnose, suggest, or fix)", types.ErrInvalidLevel, s)
	}
}

var categoryNames = map[types.Category]string{
	types.CategoryStructural:      "📦 Structural",
	types.CategoryConsistency:     "🔗 Consistency",
	types.CategoryFieldValidation: "📋 Field Validation",
	types.CategorySimilarity:      "🔄 Semantic Similarity",
	types.CategoryContextQuality:  "📝 Context Quality",
	types.CategoryTagOverlap:      "🏷️  Tag Overlap",
	types.CategoryIDNaming:        "🆔 ID Naming",
}

var severityIcons = map[types.Severity]string{
	types.SeverityError:   "❌",
	types.SeverityWarning: "⚠️",
	types.SeverityInfo:    "ℹ️",
}

// FormatText renders a report as human-readable text grouped by category
func FormatText(r types.Report, level Level) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n📄 %s\n", r.Filepath)
	fmt.Fprintf(&b, "   Chunks: %d | Tags: %d | Categories: %s\n",
		r.Stats.ChunkCount, r.Stats.UniqueTags, strings.Join(r.Stats.Categories, ", "))

	if len(r.Issues) == 0 {
		b.WriteString("\n✅ No issues found!\n")
		return b.String()
	}

	var current types.Category
	for _, issue := range r.Issues {
		if issue.Category != current {
			current = issue.Category
			name, ok := categoryNames[current]
			if !ok {
				name = string(current)
			}
			fmt.Fprintf(&b, "\n%s\n%s\n", name, strings.Repeat("-", 40))
		}

		subject := "document"
		if len(issue.ChunkIDs) > 0 {
			subject = strings.Join(issue.ChunkIDs, ", ")
		}
		fmt.Fprintf(&b, "  %s [%s]\n", severityIcons[issue.Severity], subject)
		if issue.Line > 0 {
			fmt.Fprintf(&b, "     Line %d: %s\n", issue.Line, issue.Message)
		} else {
			fmt.Fprintf(&b, "     %s\n", issue.Message)
		}

		if (level == LevelSuggest || level == LevelFix) && issue.Suggestion != "" {
			fmt.Fprintf(&b, "     💡 %s\n", issue.Suggestion)
		}
		if level == LevelFix && len(issue.Fix) > 0 {
			patch, err := json.Marshal(issue.Fix)
			if err == nil {
				fmt.Fprintf(&b, "     🔧 Fix: %s\n", patch)
			}
		}
		b.WriteString("\n")
	}

	s := r.Stats.IssuesBySeverity
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Summary: %d error(s), %d warning(s), %d info\n",
		s[types.SeverityError], s[types.SeverityWarning], s[types.SeverityInfo])

	return b.String()
}

// FormatJSON renders a report as an indented JSON document. suggestion is
// included at the suggest and fix levels; fix only at the fix level.
func FormatJSON(r types.Report, level Level) (string, error) {
	out := r
	out.Issues = make([]types.Issue, len(r.Issues))
	for i, issue := range r.Issues {
		if level == LevelDiagnose {
			issue.Suggestion = ""
		}
		if level != LevelFix {
			issue.Fix = nil
		}
		out.Issues[i] = issue
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

// FormatJSONAll renders multiple reports as one JSON array
func FormatJSONAll(reports []types.Report, level Level) (string, error) {
	if len(reports) == 1 {
		return FormatJSON(reports[0], level)
	}

	rendered := make([]json.RawMessage, len(reports))
	for i, r := range reports {
		s, err := FormatJSON(r, level)
		if err != nil {
			return "", err
		}
		rendered[i] = json.RawMessage(s)
	}

	data, err := json.MarshalIndent(rendered, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal reports: %w", err)
	}
	return string(data), nil
}
