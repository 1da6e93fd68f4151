package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/chunklint/internal/export"
	"github.com/dshills/chunklint/internal/report"
	"github.com/dshills/chunklint/internal/runner"
	"github.com/dshills/chunklint/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeNotFound      = -32001 // Target path does not exist
	ErrorCodeNotMarkdown   = -32002 // Target is not a markdown document
)

// handleValidateDocument handles the validate_document tool invocation
func (s *Server) handleValidateDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := pathParam(args)
	if err != nil {
		return nil, err
	}

	reports, stats, err := runner.Run(ctx, path, runner.Options{})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, newMCPError(ErrorCodeNotFound, "path does not exist", map[string]interface{}{
				"path": path,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "validation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	severityTotals := map[types.Severity]int{
		types.SeverityError:   0,
		types.SeverityWarning: 0,
		types.SeverityInfo:    0,
	}
	hasErrors := false
	rendered := make([]json.RawMessage, 0, len(reports))
	for _, r := range reports {
		if r.HasErrors() {
			hasErrors = true
		}
		for severity, count := range r.Stats.IssuesBySeverity {
			severityTotals[severity] += count
		}

		text, err := report.FormatJSON(r, report.LevelFix)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to render report", map[string]interface{}{
				"error": err.Error(),
			})
		}
		rendered = append(rendered, json.RawMessage(text))
	}

	response := map[string]interface{}{
		"documents":          stats.DocumentsProcessed,
		"documents_failed":   stats.DocumentsFailed,
		"duration_ms":        stats.Duration.Milliseconds(),
		"has_errors":         hasErrors,
		"issues_by_severity": severityTotals,
		"reports":            rendered,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDiagnoseChunks handles the diagnose_chunks tool invocation
func (s *Server) handleDiagnoseChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := pathParam(args)
	if err != nil {
		return nil, err
	}

	levelName := getStringDefault(args, "level", "diagnose")
	level, err := report.ParseLevel(levelName)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid level", map[string]interface{}{
			"param":   "level",
			"value":   levelName,
			"allowed": []string{"diagnose", "suggest", "fix"},
		})
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeNotFound, "cannot read file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	r := runner.ProcessDocument(path, string(content))
	text, err := report.FormatJSON(r, level)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to render report", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(text), nil
}

// handleExportChunks handles the export_chunks tool invocation
func (s *Server) handleExportChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := pathParam(args)
	if err != nil {
		return nil, err
	}

	output, ok := args["output"].(string)
	if !ok || output == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "output parameter is required", map[string]interface{}{
			"param":  "output",
			"reason": "missing or empty",
		})
	}

	format := getStringDefault(args, "format", "json")
	if format != "json" && format != "sqlite" {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid format", map[string]interface{}{
			"param":   "format",
			"value":   format,
			"allowed": []string{"json", "sqlite"},
		})
	}
	pretty := getBoolDefault(args, "pretty", false)

	files, err := runner.CollectFiles(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeNotFound, "path does not exist", map[string]interface{}{
			"path": path,
		})
	}

	var allRecords []export.Record
	var allSkipped []string
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "cannot read file", map[string]interface{}{
				"path":  file,
				"error": err.Error(),
			})
		}

		records, _ := runner.ExtractRecords(file, string(content))
		shaped, skipped := export.BuildRecords(file, records)
		allRecords = append(allRecords, shaped...)
		allSkipped = append(allSkipped, skipped...)
	}

	switch format {
	case "json":
		if err := export.WriteJSON(output, allRecords, pretty); err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "export failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	case "sqlite":
		store, err := export.NewStore(output)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "cannot open database", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer func() {
			_ = store.Close()
		}()

		if err := store.UpsertRecords(ctx, allRecords); err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "export failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	response := map[string]interface{}{
		"exported": len(allRecords),
		"files":    len(files),
		"format":   format,
		"output":   output,
	}
	if len(allSkipped) > 0 {
		response["skipped"] = allSkipped
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// pathParam extracts and validates the required path argument
func pathParam(args map[string]interface{}) (string, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return "", newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if !filepath.IsAbs(path) {
		return "", newMCPError(ErrorCodeInvalidParams, "path must be absolute", map[string]interface{}{
			"param": "path",
			"value": path,
		})
	}

	return path, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
