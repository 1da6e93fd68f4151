package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/chunklint/pkg/types"
)

// ubiquitousFraction is the share of chunks a tag must appear in to be
// considered too common to aid filtering
const ubiquitousFraction = 0.8

// CheckTagOverlap flags tag sets that defeat filtering: tags present on
// nearly every chunk, and groups of chunks with identical tag sets.
func CheckTagOverlap(records []types.ChunkRecord) []types.Issue {
	var issues []types.Issue

	if len(records) < 2 {
		return issues
	}

	tagCounts := make(map[string]int)
	for _, record := range records {
		seen := make(map[string]bool)
		for _, tag := range record.Tags {
			if !seen[tag] {
				seen[tag] = true
				tagCounts[tag]++
			}
		}
	}

	// A single ubiquitous tag may be legitimately document-wide; two or
	// more means the tag dimension carries no signal.
	threshold := float64(len(records)) * ubiquitousFraction
	var ubiquitous []string
	for tag, count := range tagCounts {
		if float64(count) >= threshold {
			ubiquitous = append(ubiquitous, tag)
		}
	}
	sort.Strings(ubiquitous)

	if len(ubiquitous) > 1 {
		allIDs := make([]string, len(records))
		for i, record := range records {
			allIDs[i] = record.ID
		}
		issues = append(issues, types.Issue{
			Category: types.CategoryTagOverlap,
			Severity: types.SeverityInfo,
			ChunkIDs: allIDs,
			Message: fmt.Sprintf("Tags appear in most chunks, reducing filtering effectiveness: %s",
				strings.Join(ubiquitous, ", ")),
			Suggestion: "Consider using more specific sub-tags or adding differentiating tags to enable precise filtering.",
		})
	}

	// Group chunks by exact tag set, first-appearance order
	groups := make(map[string][]string)
	var groupOrder []string
	for _, record := range records {
		if len(record.Tags) == 0 {
			continue
		}
		key := tagSetKey(record.Tags)
		if _, ok := groups[key]; !ok {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], record.ID)
	}

	for _, key := range groupOrder {
		members := groups[key]
		if len(members) < 2 {
			continue
		}
		issues = append(issues, types.Issue{
			Category:   types.CategoryTagOverlap,
			Severity:   types.SeverityWarning,
			ChunkIDs:   members,
			Message:    fmt.Sprintf("Identical tags: [%s]", strings.Join(strings.Split(key, "\x00"), ", ")),
			Suggestion: "Add differentiating tags to each chunk based on their specific focus (e.g., level:beginner vs level:advanced, or use:api vs use:cli).",
		})
	}

	return issues
}

// tagSetKey builds an order-insensitive, duplicate-insensitive key for a
// tag set
func tagSetKey(tags []string) string {
	uniq := make(map[string]bool, len(tags))
	for _, tag := range tags {
		uniq[tag] = true
	}
	sorted := make([]string, 0, len(uniq))
	for tag := range uniq {
		sorted = append(sorted, tag)
	}
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
