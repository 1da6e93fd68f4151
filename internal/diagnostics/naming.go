package diagnostics

import (
	"fmt"
	"strings"

	"github.com/dshills/chunklint/pkg/types"
)

// CheckIDNaming re-validates the category:topic-name grammar for the
// diagnostics report (independent of the scanner's structural check) and
// flags category prefixes used by only a single chunk when others are
// shared, which usually indicates an inconsistent naming scheme.
func CheckIDNaming(records []types.ChunkRecord) []types.Issue {
	var issues []types.Issue

	counts := make(map[string]int)
	var categoryOrder []string

	for _, record := range records {
		if !types.ValidID(record.ID) {
			issues = append(issues, types.Issue{
				Category:   types.CategoryIDNaming,
				Severity:   types.SeverityWarning,
				ChunkIDs:   []string{record.ID},
				Message:    "ID format should be 'category:topic-name' (lowercase, kebab-case)",
				Suggestion: "Rename to follow pattern, e.g., 'skill:python-async'",
			})
			continue
		}

		category := record.Category()
		if counts[category] == 0 {
			categoryOrder = append(categoryOrder, category)
		}
		counts[category]++
	}

	if len(counts) < 2 {
		return issues
	}

	var singletons []string
	for _, category := range categoryOrder {
		if counts[category] == 1 {
			singletons = append(singletons, category)
		}
	}
	// Flag only a mix: some categories used once, others shared. All
	// singletons means the author is simply not grouping, which is a
	// different style, not an inconsistency.
	if len(singletons) == 0 || len(singletons) == len(counts) {
		return issues
	}

	singletonSet := make(map[string]bool, len(singletons))
	for _, category := range singletons {
		singletonSet[category] = true
	}
	var memberIDs []string
	for _, record := range records {
		if types.ValidID(record.ID) && singletonSet[record.Category()] {
			memberIDs = append(memberIDs, record.ID)
		}
	}

	issues = append(issues, types.Issue{
		Category:   types.CategoryIDNaming,
		Severity:   types.SeverityInfo,
		ChunkIDs:   memberIDs,
		Message:    fmt.Sprintf("Uncommon category prefixes: %s", strings.Join(singletons, ", ")),
		Suggestion: "Consider grouping related chunks under the same category prefix for better organization.",
	})

	return issues
}
