package types

// RawRow is a single data row from the uploaded file. Values preserves the
// original header -> cell text association; RowIndex is the 1-based row
// number in the source file (the header row is row 1, so the first data
// row is row 2). A RawRow is immutable once parsed.
type RawRow struct {
	RowIndex int               `json:"rowIndex"`
	Values   map[string]string `json:"values"`
}

// Get returns the cell value for a header, or "" when the header is absent.
func (r RawRow) Get(header string) string {
	return r.Values[header]
}

// FieldMapping maps source file column headers to work item field
// reference names.
type FieldMapping map[string]string

// MappedTestCase is a normalized candidate record built from one RawRow
// through the resolved field mapping. RawID holds the id column text as
// found in the file; an empty RawID marks the row for creation. ID is the
// numeric coercion of RawID, set by categorization once the remote item
// is confirmed to exist with the right type.
type MappedTestCase struct {
	RowIndex         int
	Title            string
	Steps            string // raw delimited step text, not yet encoded
	Priority         string
	AreaPath         string
	IterationPath    string
	Description      string
	Tags             string
	AutomationStatus string
	RawID            string
	ID               *int
	ExtraFields      map[string]string // reference name -> value
	Original         RawRow
}

// BulkOperationOptions controls a single import invocation.
type BulkOperationOptions struct {
	Project      string
	PlanID       int
	SuiteID      int
	BatchSize    int // clamped to [1,50]; bounds in-flight remote calls
	AddToSuite   bool
	IgnoreIDs    bool
	PreviewOnly  bool
	WorkItemType string // defaults to "Test Case"

	// LookupConcurrency bounds the per-row existence lookups during
	// categorization. The default of 1 preserves sequential lookups.
	LookupConcurrency int
}

// Batch size bounds for the executor.
const (
	MinBatchSize     = 1
	MaxBatchSize     = 50
	DefaultBatchSize = 10
)

// ClampedBatchSize returns BatchSize forced into [MinBatchSize, MaxBatchSize],
// substituting DefaultBatchSize when unset.
func (o BulkOperationOptions) ClampedBatchSize() int {
	b := o.BatchSize
	if b == 0 {
		b = DefaultBatchSize
	}
	if b < MinBatchSize {
		b = MinBatchSize
	}
	if b > MaxBatchSize {
		b = MaxBatchSize
	}
	return b
}
