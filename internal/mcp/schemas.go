package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// importTestCasesTool returns the tool definition for testplan_import_test_cases
func importTestCasesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "testplan_import_test_cases",
		Description: "Bulk import or update test cases in Azure DevOps from a CSV file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Azure DevOps project name",
				},
				"fileContent": map[string]interface{}{
					"type":        "string",
					"description": "Base64-encoded CSV file content (spreadsheet binaries are rejected)",
				},
				"fileName": map[string]interface{}{
					"type":        "string",
					"description": "Original file name, used for format detection",
				},
				"previewOnly": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, run parsing, mapping and categorization but issue no create/update calls",
					"default":     false,
				},
				"batchSize": map[string]interface{}{
					"type":        "integer",
					"description": "Rows dispatched concurrently per batch wave (bounds in-flight remote calls)",
					"default":     10,
					"minimum":     1,
					"maximum":     50,
				},
				"ignoreIds": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, strip id values from all rows so every row is created as a new test case",
					"default":     false,
				},
				"fieldMapping": map[string]interface{}{
					"type":        "object",
					"description": "Explicit header-to-field mapping (header -> field reference name); disables mapping heuristics",
					"additionalProperties": map[string]interface{}{
						"type": "string",
					},
				},
				"addToSuite": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, add successfully imported test cases to the given suite",
					"default":     false,
				},
				"planId": map[string]interface{}{
					"type":        "integer",
					"description": "Test plan id, required when addToSuite is set",
				},
				"suiteId": map[string]interface{}{
					"type":        "integer",
					"description": "Test suite id, required when addToSuite is set",
				},
			},
			Required: []string{"project", "fileContent", "fileName"},
		},
	}
}

// suggestFieldMappingTool returns the tool definition for testplan_suggest_field_mapping
func suggestFieldMappingTool() mcp.Tool {
	return mcp.Tool{
		Name:        "testplan_suggest_field_mapping",
		Description: "Suggest a header-to-field mapping for a CSV file without importing anything",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Azure DevOps project name",
				},
				"fileContent": map[string]interface{}{
					"type":        "string",
					"description": "Base64-encoded CSV file content",
				},
				"fileName": map[string]interface{}{
					"type":        "string",
					"description": "Original file name, used for format detection",
				},
			},
			Required: []string{"project", "fileContent", "fileName"},
		},
	}
}

// invalidateFieldCacheTool returns the tool definition for testplan_invalidate_field_cache
func invalidateFieldCacheTool() mcp.Tool {
	return mcp.Tool{
		Name:        "testplan_invalidate_field_cache",
		Description: "Drop the cached field catalog for a project so the next import re-fetches it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"project": map[string]interface{}{
					"type":        "string",
					"description": "Azure DevOps project name",
				},
				"workItemType": map[string]interface{}{
					"type":        "string",
					"description": "Work item type whose catalog to drop",
					"default":     "Test Case",
				},
			},
			Required: []string{"project"},
		},
	}
}
