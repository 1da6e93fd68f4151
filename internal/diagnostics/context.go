package diagnostics

import (
	"fmt"
	"strings"

	"github.com/dshills/chunklint/pkg/types"
)

const (
	// Context word-count bands. 8-50 words passes; 12-30 is the band the
	// suggestions steer toward.
	minContextWords     = 8
	maxContextWords     = 50
	optimalContextMin   = 12
	optimalContextMax   = 30

	// openerWords is how much of the content opening the context is
	// compared against
	openerWords = 15

	// openerOverlapThreshold flags a context that merely repeats the
	// content opening
	openerOverlapThreshold = 0.7
)

// CheckContextQuality grades each chunk's context by length band and flags
// contexts that just restate the content's opening words.
func CheckContextQuality(records []types.ChunkRecord) []types.Issue {
	var issues []types.Issue

	for _, record := range records {
		wordCount := len(strings.Fields(record.Context))

		if wordCount == 0 {
			issues = append(issues, types.Issue{
				Category:   types.CategoryContextQuality,
				Severity:   types.SeverityError,
				ChunkIDs:   []string{record.ID},
				Message:    "Context is empty",
				Suggestion: "Add a 15-25 word description that explains what this chunk covers and how it differs from other chunks.",
				Fix: map[string]interface{}{
					"context": fmt.Sprintf("[TODO: Describe the purpose and unique aspects of %s]", record.ID),
				},
			})
			continue
		}

		if wordCount < minContextWords {
			issues = append(issues, types.Issue{
				Category: types.CategoryContextQuality,
				Severity: types.SeverityWarning,
				ChunkIDs: []string{record.ID},
				Message: fmt.Sprintf("Context too short (%d words, recommend %d-%d)",
					wordCount, optimalContextMin, optimalContextMax),
				Suggestion: "Expand context with: what topic this covers, who would search for it, and what makes it distinct from similar chunks.",
			})
		}

		if wordCount > maxContextWords {
			issues = append(issues, types.Issue{
				Category: types.CategoryContextQuality,
				Severity: types.SeverityInfo,
				ChunkIDs: []string{record.ID},
				Message: fmt.Sprintf("Context may be too verbose (%d words, recommend %d-%d)",
					wordCount, optimalContextMin, optimalContextMax),
				Suggestion: "Consider condensing to key differentiating information only.",
			})
		}

		// Opener check runs independently of the length bands
		if record.Content != "" {
			opener := strings.Join(firstWords(record.Content, openerWords), " ")
			contextTokens := tokenize(record.Context)
			openerTokens := tokenize(opener)

			if len(contextTokens) > 0 && len(openerTokens) > 0 &&
				jaccard(contextTokens, openerTokens) > openerOverlapThreshold {
				issues = append(issues, types.Issue{
					Category:   types.CategoryContextQuality,
					Severity:   types.SeverityWarning,
					ChunkIDs:   []string{record.ID},
					Message:    "Context appears to just repeat the content opening",
					Suggestion: "Rewrite context to explain the chunk's role in the document rather than summarizing its content.",
				})
			}
		}
	}

	return issues
}

func firstWords(text string, n int) []string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return words
}
