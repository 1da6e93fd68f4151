// Package report assembles issues and statistics into the final per-document
// report and renders it as grouped human-readable text or JSON.
//
// Issue ordering is fixed: structural, consistency, field validation, then
// the four quality categories, each internally in discovery order. The same
// document always renders byte-identically.
package report

import (
	"sort"
	"strings"

	"github.com/dshills/chunklint/pkg/types"
)

// Assemble merges the issue streams from all pipeline stages with summary
// statistics over the canonical chunk set.
//
// A document that produced no canonical chunks short-circuits to a single
// structural error with zeroed statistics; there is nothing meaningful to
// diagnose or count.
func Assemble(filepath string, records []types.ChunkRecord, issues []types.Issue) types.Report {
	if len(records) == 0 {
		noChunks := []types.Issue{{
			Category: types.CategoryStructural,
			Severity: types.SeverityError,
			Message:  "No valid chunks found in document",
		}}
		return types.Report{
			Filepath: filepath,
			Issues:   noChunks,
			Stats: types.Stats{
				Categories:       []string{},
				IssuesBySeverity: types.CountBySeverity(noChunks),
			},
		}
	}

	ordered := orderIssues(issues)
	return types.Report{
		Filepath: filepath,
		Issues:   ordered,
		Stats:    computeStats(records, ordered),
	}
}

// orderIssues arranges issues in the fixed category order, preserving
// discovery order within each category
func orderIssues(issues []types.Issue) []types.Issue {
	ordered := make([]types.Issue, 0, len(issues))
	for _, category := range types.CategoryOrder {
		for _, issue := range issues {
			if issue.Category == category {
				ordered = append(ordered, issue)
			}
		}
	}
	return ordered
}

func computeStats(records []types.ChunkRecord, issues []types.Issue) types.Stats {
	totalWords := 0
	uniqueTags := make(map[string]bool)
	categories := make(map[string]bool)

	for _, record := range records {
		totalWords += len(strings.Fields(record.Context))
		for _, tag := range record.Tags {
			uniqueTags[tag] = true
		}
		if c := record.Category(); c != "" {
			categories[c] = true
		}
	}

	sortedCategories := make([]string, 0, len(categories))
	for c := range categories {
		sortedCategories = append(sortedCategories, c)
	}
	sort.Strings(sortedCategories)

	return types.Stats{
		ChunkCount:       len(records),
		AvgContextWords:  float64(totalWords) / float64(len(records)),
		UniqueTags:       len(uniqueTags),
		Categories:       sortedCategories,
		IssuesBySeverity: types.CountBySeverity(issues),
	}
}
