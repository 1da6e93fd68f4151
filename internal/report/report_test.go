package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/chunklint/pkg/types"
)

func sampleRecords() []types.ChunkRecord {
	return []types.ChunkRecord{
		{ID: "skill:python", Context: "one two three four", Tags: []string{"python", "backend"}},
		{ID: "skill:golang", Context: "one two", Tags: []string{"golang", "backend"}},
		{ID: "hobby:painting", Context: "", Tags: nil},
	}
}

func TestAssemble_Stats(t *testing.T) {
	r := Assemble("doc.md", sampleRecords(), nil)

	assert.Equal(t, 3, r.Stats.ChunkCount)
	assert.InDelta(t, 2.0, r.Stats.AvgContextWords, 0.001) // (4+2+0)/3
	assert.Equal(t, 3, r.Stats.UniqueTags)
	assert.Equal(t, []string{"hobby", "skill"}, r.Stats.Categories)
}

func TestAssemble_NoChunksShortCircuit(t *testing.T) {
	issues := []types.Issue{
		{Category: types.CategoryStructural, Severity: types.SeverityError, Message: "Unclosed chunk 'a:b'"},
	}
	r := Assemble("doc.md", nil, issues)

	require.Len(t, r.Issues, 1)
	assert.Equal(t, "No valid chunks found in document", r.Issues[0].Message)
	assert.Equal(t, types.SeverityError, r.Issues[0].Severity)
	assert.Equal(t, 0, r.Stats.ChunkCount)
	assert.Equal(t, 0, r.Stats.UniqueTags)
	assert.Empty(t, r.Stats.Categories)
	assert.Equal(t, 1, r.Stats.IssuesBySeverity[types.SeverityError])
	assert.True(t, r.HasErrors())
}

func TestAssemble_FixedCategoryOrder(t *testing.T) {
	issues := []types.Issue{
		{Category: types.CategoryIDNaming, Severity: types.SeverityInfo, Message: "naming"},
		{Category: types.CategoryStructural, Severity: types.SeverityError, Message: "structural-1"},
		{Category: types.CategoryFieldValidation, Severity: types.SeverityError, Message: "field"},
		{Category: types.CategoryStructural, Severity: types.SeverityWarning, Message: "structural-2"},
		{Category: types.CategoryConsistency, Severity: types.SeverityWarning, Message: "consistency"},
	}
	r := Assemble("doc.md", sampleRecords(), issues)

	var got []string
	for _, issue := range r.Issues {
		got = append(got, issue.Message)
	}
	// Discovery order preserved within each category
	assert.Equal(t, []string{"structural-1", "structural-2", "consistency", "field", "naming"}, got)
}

func TestFormatText_Levels(t *testing.T) {
	issues := []types.Issue{
		{
			Category:   types.CategoryContextQuality,
			Severity:   types.SeverityError,
			ChunkIDs:   []string{"skill:python"},
			Message:    "Context is empty",
			Suggestion: "Add a description.",
			Fix:        map[string]interface{}{"context": "[TODO]"},
		},
	}
	r := Assemble("doc.md", sampleRecords(), issues)

	diagnose := FormatText(r, LevelDiagnose)
	assert.Contains(t, diagnose, "Context is empty")
	assert.Contains(t, diagnose, "[skill:python]")
	assert.NotContains(t, diagnose, "Add a description.")
	assert.NotContains(t, diagnose, "Fix:")

	suggest := FormatText(r, LevelSuggest)
	assert.Contains(t, suggest, "Add a description.")
	assert.NotContains(t, suggest, "Fix:")

	fix := FormatText(r, LevelFix)
	assert.Contains(t, fix, "Add a description.")
	assert.Contains(t, fix, `Fix: {"context":"[TODO]"}`)
}

func TestFormatText_NoIssues(t *testing.T) {
	r := Assemble("doc.md", sampleRecords(), nil)
	text := FormatText(r, LevelDiagnose)

	assert.Contains(t, text, "No issues found!")
	assert.Contains(t, text, "Chunks: 3 | Tags: 3 | Categories: hobby, skill")
}

func TestFormatText_DocumentLevelIssue(t *testing.T) {
	issues := []types.Issue{
		{Category: types.CategoryTagOverlap, Severity: types.SeverityInfo, Message: "Tags appear in most chunks"},
	}
	r := Assemble("doc.md", sampleRecords(), issues)
	text := FormatText(r, LevelDiagnose)

	assert.Contains(t, text, "[document]")
}

func TestFormatText_LineNumbers(t *testing.T) {
	issues := []types.Issue{
		{Category: types.CategoryStructural, Severity: types.SeverityError, ChunkIDs: []string{"a:b"}, Message: "Unclosed chunk 'a:b'", Line: 7},
	}
	r := Assemble("doc.md", sampleRecords(), issues)
	text := FormatText(r, LevelDiagnose)

	assert.Contains(t, text, "Line 7: Unclosed chunk 'a:b'")
}

func TestFormatJSON_LevelGating(t *testing.T) {
	issues := []types.Issue{
		{
			Category:   types.CategoryContextQuality,
			Severity:   types.SeverityError,
			ChunkIDs:   []string{"skill:python"},
			Message:    "Context is empty",
			Suggestion: "Add a description.",
			Fix:        map[string]interface{}{"context": "[TODO]"},
		},
	}
	r := Assemble("doc.md", sampleRecords(), issues)

	parse := func(s string) map[string]interface{} {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(s), &m))
		return m
	}

	out, err := FormatJSON(r, LevelDiagnose)
	require.NoError(t, err)
	issue := parse(out)["issues"].([]interface{})[0].(map[string]interface{})
	assert.NotContains(t, issue, "suggestion")
	assert.NotContains(t, issue, "fix")

	out, err = FormatJSON(r, LevelSuggest)
	require.NoError(t, err)
	issue = parse(out)["issues"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Add a description.", issue["suggestion"])
	assert.NotContains(t, issue, "fix")

	out, err = FormatJSON(r, LevelFix)
	require.NoError(t, err)
	issue = parse(out)["issues"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Add a description.", issue["suggestion"])
	assert.Equal(t, map[string]interface{}{"context": "[TODO]"}, issue["fix"])
}

func TestFormatJSONAll_MultipleReports(t *testing.T) {
	r1 := Assemble("a.md", sampleRecords(), nil)
	r2 := Assemble("b.md", nil, nil)

	out, err := FormatJSONAll([]types.Report{r1, r2}, LevelDiagnose)
	require.NoError(t, err)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "a.md", list[0]["filepath"])
	assert.Equal(t, "b.md", list[1]["filepath"])
}

func TestParseLevel(t *testing.T) {
	for _, valid := range []string{"diagnose", "suggest", "fix"} {
		level, err := ParseLevel(valid)
		require.NoError(t, err)
		assert.Equal(t, Level(valid), level)
	}

	_, err := ParseLevel("repair")
	assert.ErrorIs(t, err, types.ErrInvalidLevel)
}

func TestFormatText_Deterministic(t *testing.T) {
	issues := []types.Issue{
		{Category: types.CategorySimilarity, Severity: types.SeverityWarning, ChunkIDs: []string{"a:b", "c:d"}, Message: "similar"},
	}
	r1 := Assemble("doc.md", sampleRecords(), issues)
	r2 := Assemble("doc.md", sampleRecords(), issues)

	assert.Equal(t, FormatText(r1, LevelFix), FormatText(r2, LevelFix))
	j1, err := FormatJSON(r1, LevelFix)
	require.NoError(t, err)
	j2, err := FormatJSON(r2, LevelFix)
	require.NoError(t, err)
	assert.Equal(t, j1, j2)
}
