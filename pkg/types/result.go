package types

// OperationKind identifies which pipeline operation produced an error.
type OperationKind string

const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationLookup OperationKind = "lookup"
)

// OperationError is a per-row failure. One row's error never affects
// sibling rows; errors accumulate and the run continues.
type OperationError struct {
	RowIndex   int           `json:"originalRowIndex"`
	Title      string        `json:"title"`
	Operation  OperationKind `json:"operation"`
	Message    string        `json:"errorMessage"`
	OriginalID *int          `json:"originalId,omitempty"`
}

// TestCaseResult records a successful create or update of one row.
type TestCaseResult struct {
	RowIndex   int    `json:"originalRowIndex"`
	Title      string `json:"title"`
	WorkItemID int    `json:"workItemId"`
	URL        string `json:"url,omitempty"`
	Operation  string `json:"operation"` // "created" or "updated"
}

// Summary holds the aggregate counts for a completed run.
type Summary struct {
	TotalProcessed      int `json:"totalProcessed"`
	SuccessfulCreations int `json:"successfulCreations"`
	SuccessfulUpdates   int `json:"successfulUpdates"`
	Failures            int `json:"failures"`
}

// BulkOperationResult accumulates per-row outcomes across all batches of
// both partitions. Success is true iff Errors is empty.
type BulkOperationResult struct {
	Success bool             `json:"success"`
	Created []TestCaseResult `json:"created"`
	Updated []TestCaseResult `json:"updated"`
	Errors  []OperationError `json:"errors"`
	Summary Summary          `json:"summary"`
}

// NewBulkOperationResult returns an empty result with allocated slices so
// the JSON form always carries arrays rather than nulls.
func NewBulkOperationResult() *BulkOperationResult {
	return &BulkOperationResult{
		Created: make([]TestCaseResult, 0),
		Updated: make([]TestCaseResult, 0),
		Errors:  make([]OperationError, 0),
	}
}

// Finalize computes the summary counts and the success flag.
func (r *BulkOperationResult) Finalize() {
	r.Summary = Summary{
		TotalProcessed:      len(r.Created) + len(r.Updated) + len(r.Errors),
		SuccessfulCreations: len(r.Created),
		SuccessfulUpdates:   len(r.Updated),
		Failures:            len(r.Errors),
	}
	r.Success = len(r.Errors) == 0
}

// SuccessfulIDs returns the work item ids of all created and updated rows,
// in result order. Used by suite enrollment.
func (r *BulkOperationResult) SuccessfulIDs() []int {
	ids := make([]int, 0, len(r.Created)+len(r.Updated))
	for _, c := range r.Created {
		ids = append(ids, c.WorkItemID)
	}
	for _, u := range r.Updated {
		ids = append(ids, u.WorkItemID)
	}
	return ids
}
