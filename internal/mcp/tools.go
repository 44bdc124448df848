package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/azdo-mcp/internal/azdo"
	"github.com/dshills/azdo-mcp/internal/importer"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
)

// handleImportTestCases handles the testplan_import_test_cases tool invocation
func (s *Server) handleImportTestCases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	req := importer.Request{
		WorkItemType:      s.cfg.WorkItemType,
		LookupConcurrency: s.cfg.LookupConcurrency,
	}

	var err error
	if req.Project, err = requireString(args, "project"); err != nil {
		return nil, err
	}
	if req.FileContent, err = requireString(args, "fileContent"); err != nil {
		return nil, err
	}
	if req.FileName, err = requireString(args, "fileName"); err != nil {
		return nil, err
	}

	req.PreviewOnly = getBoolDefault(args, "previewOnly", false)
	req.IgnoreIDs = getBoolDefault(args, "ignoreIds", false)
	req.AddToSuite = getBoolDefault(args, "addToSuite", false)
	req.PlanID = getIntDefault(args, "planId", 0)
	req.SuiteID = getIntDefault(args, "suiteId", 0)
	req.FieldMapping = getStringMap(args, "fieldMapping")

	req.BatchSize = getIntDefault(args, "batchSize", 10)
	if req.BatchSize < 1 || req.BatchSize > 50 {
		return nil, newMCPError(ErrorCodeInvalidParams, "batchSize must be between 1 and 50", map[string]interface{}{
			"param": "batchSize",
			"value": req.BatchSize,
		})
	}

	if req.AddToSuite && (req.PlanID <= 0 || req.SuiteID <= 0) {
		return nil, newMCPError(ErrorCodeInvalidParams, "addToSuite requires planId and suiteId", map[string]interface{}{
			"planId":  req.PlanID,
			"suiteId": req.SuiteID,
		})
	}

	resp := s.importer.Run(ctx, req)
	return mcp.NewToolResultText(formatJSON(resp)), nil
}

// handleSuggestFieldMapping handles the testplan_suggest_field_mapping tool invocation
func (s *Server) handleSuggestFieldMapping(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	project, err := requireString(args, "project")
	if err != nil {
		return nil, err
	}
	fileContent, err := requireString(args, "fileContent")
	if err != nil {
		return nil, err
	}
	fileName, err := requireString(args, "fileName")
	if err != nil {
		return nil, err
	}

	suggestion, warnings, err := s.importer.SuggestMapping(ctx, project, s.cfg.WorkItemType, fileContent, fileName)
	if err != nil {
		// Parsing failures are business results here, not protocol errors.
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"success":  false,
			"error":    err.Error(),
			"warnings": warnings,
		})), nil
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"success":    true,
		"suggestion": suggestion,
		"warnings":   warnings,
	})), nil
}

// handleInvalidateFieldCache handles the testplan_invalidate_field_cache tool invocation
func (s *Server) handleInvalidateFieldCache(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	project, err := requireString(args, "project")
	if err != nil {
		return nil, err
	}
	workItemType := getStringDefault(args, "workItemType", azdo.TestCaseType)

	s.catalog.Invalidate(project, workItemType)

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"invalidated":  true,
		"project":      project,
		"workItemType": workItemType,
	})), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
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

// requireString extracts a mandatory string parameter
func requireString(args map[string]interface{}, key string) (string, error) {
	val, ok := args[key].(string)
	if !ok || val == "" {
		return "", newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]interface{}{
			"param":  key,
			"reason": "missing or empty",
		})
	}
	return val, nil
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
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

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
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

// getStringMap extracts a string-to-string map parameter
func getStringMap(args map[string]interface{}, key string) map[string]string {
	raw, ok := args[key].(map[string]interface{})
	if !ok {
		return nil
	}
	result := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			result[k] = s
		}
	}
	return result
}
