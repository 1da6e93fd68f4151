package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/chunklint/internal/export"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("chunklint version %s\n", version)
		cmd.Printf("Build Time: %s\n", buildTime)
		cmd.Printf("SQLite Driver: %s\n", export.DriverName)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
