package contextualizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `---
chunks:
  - id: skill:python
    context: Python automation.
---
# Skills

<Chunk id="skill:python">
print("hi")
</Chunk>

<Chunk id='skill:golang'>
go build ./...
</Chunk>
`

func TestExtractSpans(t *testing.T) {
	spans := extractSpans(sampleDoc)
	require.Len(t, spans, 2)

	assert.Equal(t, "skill:python", spans[0].id)
	assert.Equal(t, `print("hi")`, spans[0].content)
	assert.Equal(t, "skill:golang", spans[1].id)
	assert.Equal(t, "go build ./...", spans[1].content)
	assert.Less(t, spans[0].end, spans[1].start)
}

func TestExtractSpansNone(t *testing.T) {
	assert.Empty(t, extractSpans("# No chunks here\n"))
}

func TestRewriteDocument(t *testing.T) {
	gen, err := NewDryRunProvider()
	require.NoError(t, err)

	result, n, err := RewriteDocument(context.Background(), gen, sampleDoc)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Contains(t, result, "<Chunk id=\"skill:python\">\n<!-- Context: [DRY RUN] Context would be generated for: skill:python -->\n\nprint(\"hi\")\n</Chunk>")
	assert.Contains(t, result, "<Chunk id=\"skill:golang\">\n<!-- Context: [DRY RUN] Context would be generated for: skill:golang -->\n\ngo build ./...\n</Chunk>")

	// Surrounding document text survives the rewrite
	assert.Contains(t, result, "# Skills")
	assert.Contains(t, result, "context: Python automation.")
}

func TestRewriteDocumentNoChunks(t *testing.T) {
	gen, err := NewDryRunProvider()
	require.NoError(t, err)

	content := "# Plain document\n"
	result, n, err := RewriteDocument(context.Background(), gen, content)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, content, result)
}

type failingGenerator struct {
	DryRunProvider
}

func (f *failingGenerator) SituateContext(ctx context.Context, req Request) (string, error) {
	return "", errors.New("provider exploded")
}

func TestRewriteDocumentProviderError(t *testing.T) {
	_, _, err := RewriteDocument(context.Background(), &failingGenerator{}, sampleDoc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skill:golang")
}

type multilineGenerator struct {
	DryRunProvider
}

func (m *multilineGenerator) SituateContext(ctx context.Context, req Request) (string, error) {
	return "line one\nline two\n", nil
}

func TestRewriteDocumentFlattensNewlines(t *testing.T) {
	result, _, err := RewriteDocument(context.Background(), &multilineGenerator{}, sampleDoc)
	require.NoError(t, err)
	assert.Contains(t, result, "<!-- Context: line one line two -->")
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "doc.contextualized.md", OutputPath("doc.md"))
	assert.Equal(t, "dir/notes.contextualized.md", OutputPath("dir/notes.md"))
	assert.Equal(t, "plain.contextualized", OutputPath("plain"))
}

func TestContextualizeFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(input, []byte(sampleDoc), 0o644))

	gen, err := NewDryRunProvider()
	require.NoError(t, err)

	outPath, n, err := ContextualizeFile(context.Background(), gen, input, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "doc.contextualized.md"), outPath)
	assert.Equal(t, 2, n)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(written), "<!-- Context:")

	original, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(original), "input file is left untouched")
}

func TestContextualizeFileExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	output := filepath.Join(dir, "custom.md")
	require.NoError(t, os.WriteFile(input, []byte(sampleDoc), 0o644))

	gen, err := NewDryRunProvider()
	require.NoError(t, err)

	outPath, _, err := ContextualizeFile(context.Background(), gen, input, output)
	require.NoError(t, err)
	assert.Equal(t, output, outPath)
	assert.FileExists(t, output)
}

func TestContextualizeFileMissingInput(t *testing.T) {
	gen, err := NewDryRunProvider()
	require.NoError(t, err)

	_, _, err = ContextualizeFile(context.Background(), gen, "/nonexistent/doc.md", "")
	assert.Error(t, err)
}
