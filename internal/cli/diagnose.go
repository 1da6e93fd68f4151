package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/chunklint/internal/report"
	"github.com/dshills/chunklint/internal/runner"
)

var (
	diagnoseLevel string
	diagnoseJSON  bool
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [path]",
	Short: "Run the full validation and quality pipeline",
	Long: `Run the full pipeline over a markdown file or every .md file under a
directory: header parsing, marker structure, metadata validation, and
chunk quality diagnostics.

Detail levels control how much each issue carries:
  diagnose  issues only
  suggest   adds remediation suggestions
  fix       adds machine-applicable fix payloads

Exits with code 1 when any document has an error-severity issue.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

func init() {
	diagnoseCmd.Flags().StringVarP(&diagnoseLevel, "level", "l", "diagnose", "detail level: diagnose, suggest, or fix")
	diagnoseCmd.Flags().BoolVar(&diagnoseJSON, "json", false, "emit JSON instead of text")
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	level, err := report.ParseLevel(diagnoseLevel)
	if err != nil {
		return err
	}

	reports, stats, err := runner.Run(cmd.Context(), args[0], runner.Options{})
	if err != nil {
		return err
	}
	logVerbose("processed %d document(s) in %s", stats.DocumentsProcessed, stats.Duration)

	out := cmd.OutOrStdout()

	if diagnoseJSON {
		rendered, err := report.FormatJSONAll(reports, level)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rendered)
	} else {
		for _, r := range reports {
			fmt.Fprint(out, report.FormatText(r, level))
		}
	}

	for _, r := range reports {
		if r.HasErrors() {
			return ErrIssuesFound
		}
	}
	return nil
}
