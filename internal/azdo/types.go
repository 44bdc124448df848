package azdo

import "context"

// WorkItem is a work item as returned by the REST API. Fields holds the
// requested field values keyed by reference name.
type WorkItem struct {
	ID     int            `json:"id"`
	Fields map[string]any `json:"fields"`
	URL    string         `json:"url"`
}

// StringField returns a field value as a string, or "" when the field is
// absent or not a string.
func (w *WorkItem) StringField(referenceName string) string {
	if w == nil || w.Fields == nil {
		return ""
	}
	if v, ok := w.Fields[referenceName].(string); ok {
		return v
	}
	return ""
}

// Type returns the work item type name, when it was requested.
func (w *WorkItem) Type() string {
	return w.StringField(FieldWorkItemType)
}

// WorkItemService is the remote work item surface consumed by the import
// pipeline.
type WorkItemService interface {
	// GetWorkItem fetches a work item by id, requesting only the given
	// fields. Returns ErrWorkItemNotFound when the id does not exist.
	GetWorkItem(ctx context.Context, project string, id int, fields []string) (*WorkItem, error)

	// CreateWorkItem creates a work item of the given type from a patch
	// document.
	CreateWorkItem(ctx context.Context, project, workItemType string, ops []PatchOp) (*WorkItem, error)

	// UpdateWorkItem applies a patch document to an existing work item.
	UpdateWorkItem(ctx context.Context, project string, id int, ops []PatchOp) (*WorkItem, error)

	// AddTestCasesToSuite associates work items with a test suite in one
	// combined call. The service accepts valid ids and silently ignores
	// invalid ones.
	AddTestCasesToSuite(ctx context.Context, project string, planID, suiteID int, ids []int) error
}

// FieldService lists the field definitions of a work item type.
type FieldService interface {
	ListFields(ctx context.Context, project, workItemType string) ([]FieldDefinition, error)
}
