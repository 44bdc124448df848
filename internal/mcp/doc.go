// Package mcp implements the Model Context Protocol (MCP) server for the
// Azure DevOps test case import tools.
//
// The server exposes three tools to MCP clients:
//   - testplan_import_test_cases: bulk import test cases from a CSV file
//   - testplan_suggest_field_mapping: advisory header-to-field mapping
//   - testplan_invalidate_field_cache: drop a cached field catalog
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport; the server reads
// requests on stdin and writes responses to stdout, so all logging goes
// to stderr.
//
// # Tool: testplan_import_test_cases
//
// The import tool accepts the base64-encoded CSV content plus options:
//
//	{
//	  "name": "testplan_import_test_cases",
//	  "arguments": {
//	    "project": "Fabrikam",
//	    "fileContent": "<base64 CSV>",
//	    "fileName": "testcases.csv",
//	    "previewOnly": false,
//	    "batchSize": 10,
//	    "ignoreIds": false,
//	    "addToSuite": true,
//	    "planId": 42,
//	    "suiteId": 7,
//	    "fieldMapping": {"Case Title": "System.Title"}
//	  }
//	}
//
// Business failures (unparseable file, unmappable columns, per-row
// create/update errors) are reported inside the JSON payload with
// success=false and itemized errors correlated by original row index.
// Only genuinely unexpected failures surface on the MCP error channel.
//
// # Tool: testplan_suggest_field_mapping
//
// Runs ingestion and the mapping heuristics only, returning the scored
// suggestion per header. The suggestion is advisory: it affects an
// import only when passed back through the fieldMapping argument.
//
// # Error Handling
//
// Tool argument failures return standard JSON-RPC error responses:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error
package mcp
