package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// validateDocumentTool returns the tool definition for validate_document
func validateDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "validate_document",
		Description: "Validate chunked markdown documents and return structured reports",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a markdown file or a directory of markdown files",
				},
			},
			Required: []string{"path"},
		},
	}
}

// diagnoseChunksTool returns the tool definition for diagnose_chunks
func diagnoseChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "diagnose_chunks",
		Description: "Diagnose chunk quality for one markdown document at a chosen detail level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a markdown file",
				},
				"level": map[string]interface{}{
					"type":        "string",
					"description": "Detail level: diagnose (issues only), suggest (adds suggestions), fix (adds fix payloads)",
					"enum":        []string{"diagnose", "suggest", "fix"},
					"default":     "diagnose",
				},
			},
			Required: []string{"path"},
		},
	}
}

// exportChunksTool returns the tool definition for export_chunks
func exportChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "export_chunks",
		Description: "Export validated chunks from markdown documents to JSON or SQLite for retrieval ingestion",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a markdown file or a directory of markdown files",
				},
				"output": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path for the output file (JSON array or SQLite database)",
				},
				"format": map[string]interface{}{
					"type":        "string",
					"description": "Output format",
					"enum":        []string{"json", "sqlite"},
					"default":     "json",
				},
				"pretty": map[string]interface{}{
					"type":        "boolean",
					"description": "Pretty-print JSON output",
					"default":     false,
				},
			},
			Required: []string{"path", "output"},
		},
	}
}
