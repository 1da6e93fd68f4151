package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/chunklint/pkg/types"
)

func structuralErrors(issues []types.Issue) []types.Issue {
	var out []types.Issue
	for _, issue := range issues {
		if issue.Severity == types.SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

func TestScan_WellFormed(t *testing.T) {
	body := `intro text

<Chunk id="skill:python">
Python content here.
</Chunk>

<Chunk id="skill:golang">
Go content here.
</Chunk>
`
	result := Scan(body, 1, 0)

	assert.Empty(t, structuralErrors(result.Issues))
	require.Len(t, result.Bodies, 2)

	assert.Equal(t, "skill:python", result.Bodies[0].ID)
	assert.Equal(t, "Python content here.", result.Bodies[0].Content)
	assert.Equal(t, 3, result.Bodies[0].Line)

	assert.Equal(t, "skill:golang", result.Bodies[1].ID)
	assert.Equal(t, "Go content here.", result.Bodies[1].Content)
}

func TestScan_Offsets(t *testing.T) {
	body := `<Chunk id="a:one">x</Chunk>`
	result := Scan(body, 5, 100)

	require.Len(t, result.Bodies, 1)
	b := result.Bodies[0]
	assert.Equal(t, 100, b.StartOffset)
	assert.Equal(t, 100+len(body), b.EndOffset)
	assert.Equal(t, 5, b.Line)
}

func TestScan_SingleQuotesAndCase(t *testing.T) {
	body := "<chunk id='a:one'>x</CHUNK>"
	result := Scan(body, 1, 0)

	assert.Empty(t, structuralErrors(result.Issues))
	require.Len(t, result.Bodies, 1)
	assert.Equal(t, "a:one", result.Bodies[0].ID)
}

func TestScan_DuplicateID(t *testing.T) {
	body := `<Chunk id="a:one">first</Chunk>
<Chunk id="a:one">second</Chunk>
<Chunk id="a:one">third</Chunk>
`
	result := Scan(body, 1, 0)

	errs := structuralErrors(result.Issues)
	require.Len(t, errs, 2) // one per later occurrence
	assert.Contains(t, errs[0].Message, "Duplicate chunk ID 'a:one'")
	assert.Contains(t, errs[0].Message, "first seen at line 1")
	assert.Equal(t, 2, errs[0].Line)

	// First pair wins for content extraction
	require.Len(t, result.Bodies, 1)
	assert.Equal(t, "first", result.Bodies[0].Content)
}

func TestScan_Nesting(t *testing.T) {
	body := `<Chunk id="a:a">
outer before
<Chunk id="b:b">
inner
</Chunk>
outer after
</Chunk>
`
	result := Scan(body, 1, 0)

	errs := structuralErrors(result.Issues)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "Nested chunk 'b:b' inside 'a:a'")
	assert.Contains(t, errs[0].Message, "opened at line 1")

	// Both chunks still recorded with their respective closing markers
	require.Len(t, result.Bodies, 2)
	assert.Equal(t, "b:b", result.Bodies[0].ID)
	assert.Equal(t, "inner", result.Bodies[0].Content)
	assert.Equal(t, "a:a", result.Bodies[1].ID)
	assert.Contains(t, result.Bodies[1].Content, "outer before")
	assert.Contains(t, result.Bodies[1].Content, "outer after")
}

func TestScan_UnmatchedClose(t *testing.T) {
	body := "some text\n</Chunk>\n"
	result := Scan(body, 1, 0)

	errs := structuralErrors(result.Issues)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "without matching opening tag")
	assert.Equal(t, 2, errs[0].Line)
	assert.Empty(t, result.Bodies)
}

func TestScan_UnclosedAtEOF(t *testing.T) {
	body := `<Chunk id="a:one">
content
<Chunk id="b:two">
more
`
	result := Scan(body, 1, 0)

	var unclosed []types.Issue
	for _, issue := range result.Issues {
		if strings.Contains(issue.Message, "Unclosed") {
			unclosed = append(unclosed, issue)
		}
	}
	require.Len(t, unclosed, 2)
	assert.Equal(t, []string{"a:one"}, unclosed[0].ChunkIDs)
	assert.Equal(t, 1, unclosed[0].Line)
	assert.Equal(t, []string{"b:two"}, unclosed[1].ChunkIDs)
	assert.Equal(t, 3, unclosed[1].Line)
}

func TestScan_IDFormatWarning(t *testing.T) {
	body := `<Chunk id="BadFormat">x</Chunk>`
	result := Scan(body, 1, 0)

	assert.Empty(t, structuralErrors(result.Issues))
	require.Len(t, result.Issues, 1)
	assert.Equal(t, types.SeverityWarning, result.Issues[0].Severity)
	assert.Contains(t, result.Issues[0].Message, "Invalid chunk ID format 'BadFormat'")

	// Structural correctness is independent of the format warning
	require.Len(t, result.Bodies, 1)
}

func TestScan_MultipleMarkersOneLine(t *testing.T) {
	body := `<Chunk id="a:one">x</Chunk> mid <Chunk id="b:two">y</Chunk>`
	result := Scan(body, 1, 0)

	assert.Empty(t, structuralErrors(result.Issues))
	require.Len(t, result.Bodies, 2)
	assert.Equal(t, "x", result.Bodies[0].Content)
	assert.Equal(t, "y", result.Bodies[1].Content)
}

func TestScan_BaseLineOffsetsDiagnostics(t *testing.T) {
	body := "\n</Chunk>\n"
	result := Scan(body, 12, 0)

	errs := structuralErrors(result.Issues)
	require.Len(t, errs, 1)
	assert.Equal(t, 13, errs[0].Line)
}

func TestScan_EmptyBody(t *testing.T) {
	result := Scan("", 1, 0)
	assert.Empty(t, result.Issues)
	assert.Empty(t, result.Bodies)
}
