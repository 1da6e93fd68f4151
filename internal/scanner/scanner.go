// Package scanner implements the single-pass, line-oriented state machine
// that extracts chunk marker pairs from a document body.
//
// Markers have the literal shape <Chunk id="IDENTIFIER"> ... </Chunk> with
// single or double attribute quoting and a case-insensitive marker name.
// The scanner detects duplicated IDs, nested markers, unmatched closing
// markers, and markers left open at end of input. It always finishes its
// pass; every problem becomes a structural issue, never an abort.
package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/chunklint/pkg/types"
)

var (
	openPattern  = regexp.MustCompile(`(?i)<Chunk\s+id=["']([^"']+)["']\s*>`)
	closePattern = regexp.MustCompile(`(?i)</Chunk>`)
)

// Result holds the extracted chunk bodies and the structural issues found
// during the scan. Bodies appear in the order their opening markers were
// first encountered, one entry per ID (first open/close pair wins).
type Result struct {
	Bodies []types.ChunkBody
	Issues []types.Issue
}

// openMarker is one stack frame of the scanner: a marker that has been
// opened but not yet closed.
type openMarker struct {
	id         string
	line       int
	contentPos int // byte offset just past the opening marker
	startPos   int // byte offset of the opening marker itself
	duplicate  bool
}

// event is one marker occurrence within a line, ordered by column
type event struct {
	col   int
	open  bool
	id    string // open events only
	start int    // match start, relative to line
	end   int    // match end, relative to line
}

// Scan runs the state machine over body text. baseLine is the 1-based
// document line of the first body line and baseOffset the body's byte
// offset within the document, so issue lines and body offsets refer to the
// original document.
func Scan(body string, baseLine, baseOffset int) Result {
	var result Result

	// id -> line of first occurrence, open or closed
	firstSeen := make(map[string]int)
	// id -> index into result.Bodies, for first-wins content extraction
	recorded := make(map[string]int)
	var stack []openMarker

	offset := 0
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lineNo := baseLine + i

		for _, ev := range lineEvents(line) {
			if ev.open {
				if first, ok := firstSeen[ev.id]; ok {
					result.Issues = append(result.Issues, types.Issue{
						Category: types.CategoryStructural,
						Severity: types.SeverityError,
						ChunkIDs: []string{ev.id},
						Message:  fmt.Sprintf("Duplicate chunk ID '%s' (first seen at line %d)", ev.id, first),
						Line:     lineNo,
					})
				} else {
					firstSeen[ev.id] = lineNo
				}

				if len(stack) > 0 {
					outer := stack[len(stack)-1]
					result.Issues = append(result.Issues, types.Issue{
						Category: types.CategoryStructural,
						Severity: types.SeverityError,
						ChunkIDs: []string{ev.id, outer.id},
						Message:  fmt.Sprintf("Nested chunk '%s' inside '%s' (opened at line %d)", ev.id, outer.id, outer.line),
						Line:     lineNo,
					})
				}

				if !types.ValidID(ev.id) {
					result.Issues = append(result.Issues, types.Issue{
						Category:   types.CategoryStructural,
						Severity:   types.SeverityWarning,
						ChunkIDs:   []string{ev.id},
						Message:    fmt.Sprintf("Invalid chunk ID format '%s' - use 'category:topic-name'", ev.id),
						Suggestion: "Rename to the pattern 'category:topic-name', e.g. 'skill:python-async'.",
						Line:       lineNo,
					})
				}

				_, dup := recorded[ev.id]
				stack = append(stack, openMarker{
					id:         ev.id,
					line:       lineNo,
					contentPos: offset + ev.end,
					startPos:   offset + ev.start,
					duplicate:  dup,
				})
				continue
			}

			// Closing marker
			if len(stack) == 0 {
				result.Issues = append(result.Issues, types.Issue{
					Category: types.CategoryStructural,
					Severity: types.SeverityError,
					Message:  "Closing </Chunk> without matching opening tag",
					Line:     lineNo,
				})
				continue
			}

			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if top.duplicate {
				// Later pair for an already recorded ID: flagged above,
				// ignored for content extraction
				continue
			}
			if _, ok := recorded[top.id]; ok {
				continue
			}

			recorded[top.id] = len(result.Bodies)
			result.Bodies = append(result.Bodies, types.ChunkBody{
				ID:          top.id,
				Content:     strings.TrimSpace(body[top.contentPos : offset+ev.start]),
				StartOffset: baseOffset + top.startPos,
				EndOffset:   baseOffset + offset + ev.end,
				Line:        top.line,
			})
		}

		offset += len(line) + 1 // +1 for the split newline
	}

	// EOF with open markers: one issue per unclosed entry
	for _, open := range stack {
		result.Issues = append(result.Issues, types.Issue{
			Category: types.CategoryStructural,
			Severity: types.SeverityError,
			ChunkIDs: []string{open.id},
			Message:  fmt.Sprintf("Unclosed chunk '%s'", open.id),
			Line:     open.line,
		})
	}

	return result
}

// lineEvents finds all marker occurrences within one line, in the order
// they are lexically encountered
func lineEvents(line string) []event {
	var events []event

	for _, m := range openPattern.FindAllStringSubmatchIndex(line, -1) {
		events = append(events, event{
			col:   m[0],
			open:  true,
			id:    line[m[2]:m[3]],
			start: m[0],
			end:   m[1],
		})
	}
	for _, m := range closePattern.FindAllStringIndex(line, -1) {
		events = append(events, event{col: m[0], start: m[0], end: m[1]})
	}

	// Merge in column order. Both match lists are already sorted, so a
	// single insertion pass is enough.
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].col < events[j-1].col; j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
	return events
}
