package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/dshills/chunklint/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol server for AI assistant integration.
The server communicates over stdio using JSON-RPC.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "chunklint": {
        "command": "/path/to/chunklint",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	srv, err := mcpserver.NewServer()
	if err != nil {
		return err
	}

	// stdout carries the protocol, so startup info goes to stderr
	log.Printf("chunklint MCP server v%s listening on stdio...", version)
	return srv.Serve(cmd.Context())
}
