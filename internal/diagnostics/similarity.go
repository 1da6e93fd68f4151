package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/chunklint/pkg/types"
)

const (
	// similarityThreshold is the Jaccard score at or above which a chunk
	// pair is flagged as likely to confuse retrieval
	similarityThreshold = 0.6

	// maxSharedTokens caps how many shared keywords a similarity issue lists
	maxSharedTokens = 10
)

// CheckSimilarity flags chunk pairs whose combined context and content share
// most of their vocabulary. O(n²) over the chunk count, which is fine at
// document scale.
func CheckSimilarity(records []types.ChunkRecord) []types.Issue {
	var issues []types.Issue

	tokens := make([]map[string]bool, len(records))
	for i, record := range records {
		tokens[i] = tokenize(record.Context + " " + record.Content)
	}

	for i := range records {
		for j := i + 1; j < len(records); j++ {
			similarity := jaccard(tokens[i], tokens[j])
			if similarity < similarityThreshold {
				continue
			}

			shared := sharedTokens(tokens[i], tokens[j])
			issues = append(issues, types.Issue{
				Category: types.CategorySimilarity,
				Severity: types.SeverityWarning,
				ChunkIDs: []string{records[i].ID, records[j].ID},
				Message: fmt.Sprintf("Chunks may confuse retrieval (similarity: %.0f%%). Shared keywords: %s",
					similarity*100, strings.Join(shared, ", ")),
				Suggestion: fmt.Sprintf("Differentiate contexts: emphasize what makes '%s' unique vs '%s'. Consider different use cases or examples.",
					records[i].ID, records[j].ID),
			})
		}
	}

	return issues
}

// sharedTokens returns up to maxSharedTokens common tokens, sorted
// alphabetically for deterministic reports
func sharedTokens(a, b map[string]bool) []string {
	var shared []string
	for token := range a {
		if b[token] {
			shared = append(shared, token)
		}
	}
	sort.Strings(shared)
	if len(shared) > maxSharedTokens {
		shared = shared[:maxSharedTokens]
	}
	return shared
}
