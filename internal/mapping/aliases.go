package mapping

import "github.com/dshills/azdo-mcp/internal/azdo"

// aliases maps field reference names to normalized header spellings seen
// in real test case exports. Matched after normalization, so "Test-Case
// ID" and "test case id" are the same entry.
var aliases = map[string][]string{
	azdo.FieldID: {
		"id", "test case id", "work item id", "case id", "tc id",
	},
	azdo.FieldTitle: {
		"title", "name", "summary", "test case", "test case title",
		"test name", "test title", "case name",
	},
	azdo.FieldSteps: {
		"steps", "test steps", "step", "actions", "repro steps",
		"steps to reproduce",
	},
	azdo.FieldPriority: {
		"priority", "pri",
	},
	azdo.FieldAreaPath: {
		"area", "area path",
	},
	azdo.FieldIterationPath: {
		"iteration", "iteration path", "sprint",
	},
	azdo.FieldDescription: {
		"description", "desc", "details", "notes",
	},
	azdo.FieldTags: {
		"tags", "labels", "keywords",
	},
	azdo.FieldAutomationStatus: {
		"automation", "automation status", "automated",
	},
}
