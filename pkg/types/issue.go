package types

// Category identifies which pipeline stage or heuristic produced an issue
type Category string

const (
	CategoryStructural      Category = "structural"
	CategoryConsistency     Category = "consistency"
	CategoryFieldValidation Category = "field_validation"
	CategorySimilarity      Category = "semantic_similarity"
	CategoryContextQuality  Category = "context_quality"
	CategoryTagOverlap      Category = "tag_overlap"
	CategoryIDNaming        Category = "id_naming"
)

// CategoryOrder is the fixed report ordering: structural issues first, then
// consistency and field validation from the cross-reference stage, then the
// four quality heuristics.
var CategoryOrder = []Category{
	CategoryStructural,
	CategoryConsistency,
	CategoryFieldValidation,
	CategorySimilarity,
	CategoryContextQuality,
	CategoryTagOverlap,
	CategoryIDNaming,
}

// Severity grades an issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single diagnostic finding. Quality heuristics never produce
// error severity; they are advisory and do not block ingestion.
type Issue struct {
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	ChunkIDs []string `json:"chunk_ids"`
	Message  string   `json:"message"`

	// Line is the 1-based document line for structural issues, 0 otherwise
	Line int `json:"line,omitempty"`

	// Suggestion is a concrete remediation hint, shown at the suggest and
	// fix detail levels
	Suggestion string `json:"suggestion,omitempty"`

	// Fix is a partial chunk definition patch, shown at the fix detail level
	Fix map[string]interface{} `json:"fix,omitempty"`
}
