package types

// Stats summarizes the canonical chunk set and the issue counts for one
// document
type Stats struct {
	ChunkCount       int              `json:"chunk_count"`
	AvgContextWords  float64          `json:"avg_context_words"`
	UniqueTags       int              `json:"unique_tags"`
	Categories       []string         `json:"categories"` // sorted distinct ID category prefixes
	IssuesBySeverity map[Severity]int `json:"issues_by_severity"`
}

// Report is the complete diagnostic result for one document. It is a pure
// function of the document text plus content-path lookups; running the
// engine twice on the same input yields an identical report.
type Report struct {
	Filepath string  `json:"filepath"`
	Issues   []Issue `json:"issues"`
	Stats    Stats   `json:"stats"`
}

// HasErrors reports whether any issue has error severity
func (r *Report) HasErrors() bool {
	return r.Stats.IssuesBySeverity[SeverityError] > 0
}

// CountBySeverity tallies issues by severity
func CountBySeverity(issues []Issue) map[Severity]int {
	counts := map[Severity]int{
		SeverityError:   0,
		SeverityWarning: 0,
		SeverityInfo:    0,
	}
	for _, issue := range issues {
		counts[issue.Severity]++
	}
	return counts
}
