package diagnostics

import (
	"regexp"
	"strings"

	"github.com/dshills/chunklint/pkg/types"
)

// wordPattern matches alphabetic words of length >= 3; shorter words and
// punctuation carry little retrieval signal
var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// tokenize splits text into a set of lowercase word tokens
func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		tokens[word] = true
	}
	return tokens
}

// jaccard computes set similarity: |A ∩ B| / |A ∪ B|, 0 when either set is
// empty
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for token := range a {
		if b[token] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Run executes all four checks and concatenates their issues in the fixed
// category order: similarity, context quality, tag overlap, ID naming.
func Run(records []types.ChunkRecord) []types.Issue {
	var issues []types.Issue
	issues = append(issues, CheckSimilarity(records)...)
	issues = append(issues, CheckContextQuality(records)...)
	issues = append(issues, CheckTagOverlap(records)...)
	issues = append(issues, CheckIDNaming(records)...)
	return issues
}
