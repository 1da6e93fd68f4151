// Package types provides shared type definitions for chunklint.
//
// This package defines the domain model used across the validation pipeline:
// chunk definitions parsed from a document header, chunk bodies extracted
// from inline markers, the reconciled canonical records, and the issue and
// report structures every stage produces.
//
// # Core Types
//
// ChunkDefinition is one entry of the header's chunks list. Optional metadata
// fields that require later validation (created_at, version, priority, type,
// dependencies) are carried as raw YAML values so a bad value surfaces as a
// field-validation issue instead of aborting the header parse:
//
//	def := types.ChunkDefinition{
//	    ID:      "skill:python",
//	    Context: "Author's Python background and preferred tooling",
//	    Tags:    []string{"python", "backend"},
//	}
//
// ChunkBody is the literal text of one well-formed marker pair in the body,
// with byte offsets for in-place rewriting by collaborators.
//
// ChunkRecord is the canonical join of a definition with its body content,
// produced by the cross-reference validator. Records are what the quality
// diagnostics and the exporter consume.
//
// # Issues and Reports
//
// Issue is the single currency of the pipeline. Every stage reports problems
// as issues; nothing panics or aborts:
//
//	issue := types.Issue{
//	    Category: types.CategoryStructural,
//	    Severity: types.SeverityError,
//	    ChunkIDs: []string{"skill:python"},
//	    Message:  "Unclosed chunk 'skill:python'",
//	    Line:     42,
//	}
//
// Report collects the ordered issues for one document together with summary
// statistics. Report.HasErrors drives the process exit code.
package types
