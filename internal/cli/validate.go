package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/chunklint/internal/runner"
	"github.com/dshills/chunklint/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check chunk marker structure",
	Long: `Check <Chunk> marker structure in a markdown file or every .md file
under a directory: balanced open/close tags, unique IDs, no nesting.

Exits with code 1 when any structural error is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

var severityIcons = map[types.Severity]string{
	types.SeverityError:   "❌",
	types.SeverityWarning: "⚠️",
	types.SeverityInfo:    "ℹ️",
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := runner.CollectFiles(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	totalErrors := 0
	totalWarnings := 0

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		result := runner.ScanDocument(string(content))
		logVerbose("%s: %d chunks, %d issues", file, len(result.Bodies), len(result.Issues))

		if len(result.Issues) == 0 {
			continue
		}

		fmt.Fprintf(out, "\n📄 %s\n", file)
		for _, issue := range result.Issues {
			switch issue.Severity {
			case types.SeverityError:
				totalErrors++
			case types.SeverityWarning:
				totalWarnings++
			}
			fmt.Fprintf(out, "  %s Line %d: %s\n", severityIcons[issue.Severity], issue.Line, issue.Message)
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 50))
	if totalErrors == 0 && totalWarnings == 0 {
		fmt.Fprintln(out, "✅ All files valid!")
	} else {
		fmt.Fprintf(out, "Found %d error(s) and %d warning(s)\n", totalErrors, totalWarnings)
	}

	if totalErrors > 0 {
		return ErrIssuesFound
	}
	return nil
}
