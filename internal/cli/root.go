// Package cli implements the chunklint command tree.
package cli

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// Build metadata, injected by the main package
var (
	version   = "dev"
	buildTime = "unknown"
)

// ErrIssuesFound signals that processing succeeded but at least one
// document has error-severity issues. The main package maps it to exit
// code 1 without printing a redundant error message.
var ErrIssuesFound = errors.New("validation errors found")

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "chunklint",
	Short: "Validate and prepare chunked markdown documents for RAG ingestion",
	Long: `chunklint lints markdown documents that declare chunks in YAML
frontmatter and mark them in the body with <Chunk id="..."> tags.

It checks marker structure, cross-references header definitions against
body content, validates metadata fields, and diagnoses retrieval quality
problems such as near-duplicate chunks and weak contexts. Validated
chunks can be contextualized with an LLM and exported for vector
database ingestion.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")
}

// SetVersion injects build metadata from the main package
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	// stdout is reserved for reports and JSON
	log.SetOutput(os.Stderr)
	return rootCmd.ExecuteContext(ctx)
}

func logVerbose(format string, args ...interface{}) {
	if verbose {
		log.Printf(format, args...)
	}
}
