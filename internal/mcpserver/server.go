package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName is the MCP server name
	ServerName = "chunklint"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server
type Server struct {
	mcp *server.MCPServer
}

// NewServer creates a new MCP server instance with all tools registered
func NewServer() (*Server, error) {
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(validateDocumentTool(), s.handleValidateDocument)
	s.mcp.AddTool(diagnoseChunksTool(), s.handleDiagnoseChunks)
	s.mcp.AddTool(exportChunksTool(), s.handleExportChunks)
}
