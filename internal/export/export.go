package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/chunklint/pkg/types"
)

// Record is the output shape for one chunk
type Record struct {
	ID           string   `json:"id"`
	Context      string   `json:"context"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	Source       string   `json:"source"`
	CreatedAt    string   `json:"created_at,omitempty"`
	Version      int      `json:"version,omitempty"`
	Type         string   `json:"type,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// BuildRecords shapes validated chunks into export records. Chunks with
// no body content would be useless to a retrieval system, so they are
// skipped; their IDs are returned for the caller to warn about.
func BuildRecords(source string, chunks []types.ChunkRecord) ([]Record, []string) {
	records := make([]Record, 0, len(chunks))
	var skipped []string

	for _, chunk := range chunks {
		if chunk.Content == "" {
			skipped = append(skipped, chunk.ID)
			continue
		}

		tags := chunk.Tags
		if tags == nil {
			tags = []string{}
		}

		records = append(records, Record{
			ID:           chunk.ID,
			Context:      chunk.Context,
			Content:      chunk.Content,
			Tags:         tags,
			Source:       source,
			CreatedAt:    chunk.CreatedAt,
			Version:      chunk.Version,
			Type:         chunk.Type,
			Priority:     chunk.Priority,
			Dependencies: chunk.Dependencies,
		})
	}

	return records, skipped
}

// WriteJSON writes records to path as a JSON array
func WriteJSON(path string, records []Record, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
