package azdo

// Well-known work item field reference names.
const (
	FieldID               = "System.Id"
	FieldTitle            = "System.Title"
	FieldWorkItemType     = "System.WorkItemType"
	FieldAreaPath         = "System.AreaPath"
	FieldIterationPath    = "System.IterationPath"
	FieldDescription      = "System.Description"
	FieldTags             = "System.Tags"
	FieldPriority         = "Microsoft.VSTS.Common.Priority"
	FieldSteps            = "Microsoft.VSTS.TCM.Steps"
	FieldAutomationStatus = "Microsoft.VSTS.TCM.AutomationStatus"
)

// TestCaseType is the work item type name for test cases.
const TestCaseType = "Test Case"

// FieldDefinition describes one field of a work item type as reported by
// the field catalog endpoint.
type FieldDefinition struct {
	ReferenceName string `json:"referenceName"`
	DisplayName   string `json:"name"`
}

// fieldListResponse is the wire shape of the field catalog endpoint.
type fieldListResponse struct {
	Count int               `json:"count"`
	Value []FieldDefinition `json:"value"`
}
