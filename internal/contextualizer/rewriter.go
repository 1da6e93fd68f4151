package contextualizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Matches a full chunk element including its markers. Non-greedy, so
// nested markers are not supported here; structural validation catches
// those before contextualization is worth running.
var chunkPattern = regexp.MustCompile(`(?is)<Chunk\s+id=["']([^"']+)["']>\s*(.*?)\s*</Chunk>`)

type chunkSpan struct {
	id      string
	content string
	start   int
	end     int
}

func extractSpans(content string) []chunkSpan {
	matches := chunkPattern.FindAllStringSubmatchIndex(content, -1)
	spans := make([]chunkSpan, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, chunkSpan{
			id:      content[m[2]:m[3]],
			content: strings.TrimSpace(content[m[4]:m[5]]),
			start:   m[0],
			end:     m[1],
		})
	}
	return spans
}

func renderChunk(id, contextText, content string) string {
	return fmt.Sprintf("<Chunk id=%q>\n<!-- Context: %s -->\n\n%s\n</Chunk>", id, contextText, content)
}

// RewriteDocument generates a context for every chunk in the document and
// inserts it as an HTML comment at the top of the chunk body. Returns the
// rewritten document and the number of chunks processed. Chunks are
// rewritten back to front so earlier offsets stay valid.
func RewriteDocument(ctx context.Context, gen Generator, content string) (string, int, error) {
	spans := extractSpans(content)
	if len(spans) == 0 {
		return content, 0, nil
	}

	result := content
	for i := len(spans) - 1; i >= 0; i-- {
		span := spans[i]

		text, err := gen.SituateContext(ctx, Request{
			ChunkID:      span.id,
			ChunkContent: span.content,
			Document:     content,
		})
		if err != nil {
			return "", 0, fmt.Errorf("chunk %s: %w", span.id, err)
		}

		// Keep the comment on one line so it stays a single leading marker
		text = strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")

		result = result[:span.start] + renderChunk(span.id, text, span.content) + result[span.end:]
	}

	return result, len(spans), nil
}

// OutputPath derives the default output filename for a contextualized
// document: input.md becomes input.contextualized.md.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + ".contextualized" + ext
}

// ContextualizeFile reads a document, rewrites its chunks with generated
// contexts, and writes the result. An empty outputPath uses OutputPath.
// Returns the output path and the number of chunks processed.
func ContextualizeFile(ctx context.Context, gen Generator, inputPath, outputPath string) (string, int, error) {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", inputPath, err)
	}

	if outputPath == "" {
		outputPath = OutputPath(inputPath)
	}

	result, n, err := RewriteDocument(ctx, gen, string(content))
	if err != nil {
		return "", 0, err
	}

	if err := os.WriteFile(outputPath, []byte(result), 0o644); err != nil {
		return "", 0, fmt.Errorf("write %s: %w", outputPath, err)
	}

	return outputPath, n, nil
}
