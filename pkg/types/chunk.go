package types

import "regexp"

// ChunkType represents the modality of a chunk's content
type ChunkType string

const (
	ChunkText  ChunkType = "text"
	ChunkImage ChunkType = "image"
	ChunkVideo ChunkType = "video"
	ChunkAudio ChunkType = "audio"
)

// Valid reports whether the chunk type is one of the recognized modalities
func (t ChunkType) Valid() bool {
	switch t {
	case ChunkText, ChunkImage, ChunkVideo, ChunkAudio:
		return true
	default:
		return false
	}
}

// Priority represents the agentic ordering hint declared for a chunk
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether the priority is one of the recognized levels
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// idPattern is the category:topic-name grammar for chunk IDs.
// Lowercase letters for the category, lowercase alphanumerics and
// hyphens for the topic.
var idPattern = regexp.MustCompile(`^[a-z]+:[a-z0-9-]+$`)

// ValidID reports whether id satisfies the category:topic-name grammar
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// ChunkDefinition is one entry of the header's chunks list, immutable after
// parse. Fields whose values need later type/format validation are kept as
// raw YAML values; the cross-reference validator turns them into issues and
// typed record fields. Unknown header keys are ignored for forward
// compatibility.
type ChunkDefinition struct {
	ID      string
	Context string
	Tags    []string

	// Temporal metadata (raw YAML values, nil when absent)
	CreatedAt interface{}
	Version   interface{}

	// Agentic metadata
	Priority     interface{}
	Dependencies interface{}

	// Multimodal metadata
	Type        interface{}
	ContentPath string
}

// ChunkBody is the literal content of one closed, non-nested marker pair in
// the document body. Offsets are byte positions of the full chunk element
// (opening marker through closing marker) in the original document so
// collaborators can rewrite chunks in place.
type ChunkBody struct {
	ID          string
	Content     string // trimmed literal text between the markers
	StartOffset int
	EndOffset   int
	Line        int // line of the opening marker
}

// ChunkRecord is the canonical join of a ChunkDefinition with its matching
// ChunkBody, keyed by ID. Content is the empty string when no body match
// exists. Optional metadata holds only values that passed field validation.
type ChunkRecord struct {
	ID           string   `json:"id"`
	Context      string   `json:"context"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	CreatedAt    string   `json:"created_at,omitempty"`
	Version      int      `json:"version,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	Type         string   `json:"type,omitempty"`
	ContentPath  string   `json:"content_path,omitempty"`
}

// Category returns the ID's category prefix, or "" when the ID does not
// contain a colon
func (r *ChunkRecord) Category() string {
	for i := 0; i < len(r.ID); i++ {
		if r.ID[i] == ':' {
			return r.ID[:i]
		}
	}
	return ""
}
