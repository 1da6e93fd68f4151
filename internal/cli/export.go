package cli

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/chunklint/internal/export"
	"github.com/dshills/chunklint/internal/runner"
)

var (
	exportOutput string
	exportPretty bool
	exportDB     string
)

var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Export validated chunks for retrieval ingestion",
	Long: `Export validated chunks from a markdown file or every .md file under a
directory. Output is a JSON array by default; use --db to upsert into a
SQLite database instead.

Chunks without body content are skipped with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "chunks.json", "output JSON file")
	exportCmd.Flags().BoolVarP(&exportPretty, "pretty", "p", false, "pretty-print JSON output")
	exportCmd.Flags().StringVar(&exportDB, "db", "", "SQLite database file (overrides JSON output)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	files, err := runner.CollectFiles(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var allRecords []export.Record

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}

		records, _ := runner.ExtractRecords(file, string(content))
		shaped, skipped := export.BuildRecords(file, records)
		for _, id := range skipped {
			log.Printf("Warning: no content found for chunk %q in %s", id, file)
		}

		allRecords = append(allRecords, shaped...)
		fmt.Fprintf(out, "📄 %s: %d chunks\n", file, len(shaped))
	}

	destination := exportOutput
	if exportDB != "" {
		destination = exportDB

		store, err := export.NewStore(exportDB)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()

		if err := store.UpsertRecords(cmd.Context(), allRecords); err != nil {
			return err
		}
	} else {
		if err := export.WriteJSON(exportOutput, allRecords, exportPretty); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 50))
	fmt.Fprintf(out, "✅ Exported %d chunks to %s\n", len(allRecords), destination)
	return nil
}
