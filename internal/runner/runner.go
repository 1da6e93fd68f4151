// Package runner wires the pipeline stages together and fans out over
// multiple documents.
//
// Each document's run is independent and shares no mutable state: parse
// header, scan body, cross-reference, run diagnostics, assemble report.
// Multiple documents are processed concurrently with a bounded worker pool;
// results are returned in input order.
package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/chunklint/internal/diagnostics"
	"github.com/dshills/chunklint/internal/header"
	"github.com/dshills/chunklint/internal/report"
	"github.com/dshills/chunklint/internal/scanner"
	"github.com/dshills/chunklint/internal/validator"
	"github.com/dshills/chunklint/pkg/types"
)

// Options configures a multi-document run
type Options struct {
	// Workers is the number of concurrent document pipelines
	// (default: runtime.NumCPU())
	Workers int
}

// Statistics summarizes a multi-document run
type Statistics struct {
	DocumentsProcessed int
	DocumentsFailed    int
	Duration           time.Duration
}

func pipeline(path, content string) ([]types.ChunkRecord, []types.Issue) {
	var issues []types.Issue

	h := header.Parse(content)
	if h.Malformed {
		issues = append(issues, types.Issue{
			Category:   types.CategoryStructural,
			Severity:   types.SeverityWarning,
			Message:    "Header block is not valid YAML; treating document as having no header",
			Suggestion: "Fix the YAML between the '---' fences so chunk definitions can be read.",
		})
	}

	scan := scanner.Scan(h.Body, h.BodyLine, h.BodyOffset)
	issues = append(issues, scan.Issues...)

	records, validationIssues := validator.Validate(h.Definitions, scan.Bodies, filepath.Dir(path), h.Found)
	issues = append(issues, validationIssues...)

	issues = append(issues, diagnostics.Run(records)...)

	return records, issues
}

// ProcessDocument runs the full validation pipeline over one document's
// text. It is a pure function of the text plus content-path lookups
// relative to the document's directory; it never fails, all problems
// become report issues.
func ProcessDocument(path, content string) types.Report {
	records, issues := pipeline(path, content)
	return report.Assemble(path, records, issues)
}

// ScanDocument runs only the header split and structural body scan,
// for marker validation without the metadata stages.
func ScanDocument(content string) scanner.Result {
	h := header.Parse(content)
	return scanner.Scan(h.Body, h.BodyLine, h.BodyOffset)
}

// ExtractRecords runs the pipeline and returns both the canonical chunk
// records and the full report, for collaborators (exporter,
// contextualizer) that act on validated chunks.
func ExtractRecords(path, content string) ([]types.ChunkRecord, types.Report) {
	records, issues := pipeline(path, content)
	return records, report.Assemble(path, records, issues)
}

// CollectFiles resolves a target path into the list of documents to
// process: the file itself, or every .md file under a directory in sorted
// order.
func CollectFiles(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, target)
	}

	if !info.IsDir() {
		return []string{target}, nil
	}

	var files []string
	err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", target, err)
	}

	sort.Strings(files)
	return files, nil
}

// Run processes every document under target and returns their reports in
// input order. A file that cannot be read gets a report with a single
// structural error rather than failing the whole run.
func Run(ctx context.Context, target string, opts Options) ([]types.Report, Statistics, error) {
	start := time.Now()

	files, err := CollectFiles(target)
	if err != nil {
		return nil, Statistics{}, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	reports := make([]types.Report, len(files))
	failed := make([]bool, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			content, err := os.ReadFile(path)
			if err != nil {
				failed[i] = true
				reports[i] = report.Assemble(path, nil, nil)
				reports[i].Issues = []types.Issue{{
					Category: types.CategoryStructural,
					Severity: types.SeverityError,
					Message:  fmt.Sprintf("Failed to read file: %v", err),
				}}
				reports[i].Stats.IssuesBySeverity = types.CountBySeverity(reports[i].Issues)
				return nil
			}

			reports[i] = ProcessDocument(path, string(content))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Statistics{}, err
	}

	stats := Statistics{Duration: time.Since(start)}
	for _, f := range failed {
		if f {
			stats.DocumentsFailed++
		} else {
			stats.DocumentsProcessed++
		}
	}

	return reports, stats, nil
}
