package importer

import (
	"context"
	"fmt"

	"github.com/dshills/azdo-mcp/internal/azdo"
	"github.com/dshills/azdo-mcp/internal/catalog"
	"github.com/dshills/azdo-mcp/internal/ingest"
	"github.com/dshills/azdo-mcp/internal/mapping"
	"github.com/dshills/azdo-mcp/pkg/types"
)

// Request is one bulk import invocation.
type Request struct {
	Project     string
	PlanID      int
	SuiteID     int
	FileContent string // base64-encoded CSV bytes
	FileName    string
	PreviewOnly bool
	AddToSuite  bool
	BatchSize   int
	IgnoreIDs   bool

	// FieldMapping, when non-empty, is taken verbatim and disables the
	// mapping heuristics.
	FieldMapping map[string]string

	// WorkItemType defaults to "Test Case".
	WorkItemType string

	// LookupConcurrency bounds categorization lookups; default 1.
	LookupConcurrency int
}

// Preview describes what the pipeline resolved before execution.
type Preview struct {
	Headers         []string           `json:"headers"`
	TotalRows       int                `json:"totalRows"`
	FieldMapping    types.FieldMapping `json:"fieldMapping"`
	UnmappedHeaders []string           `json:"unmappedHeaders,omitempty"`
}

// Stats summarizes the categorization outcome.
type Stats struct {
	TotalRows int `json:"totalRows"`
	ToCreate  int `json:"toCreate"`
	ToUpdate  int `json:"toUpdate"`
	RowErrors int `json:"rowErrors"`
}

// RowSummary is the per-row line of a preview response.
type RowSummary struct {
	RowIndex int    `json:"rowIndex"`
	Title    string `json:"title"`
	ID       string `json:"id,omitempty"`
	Action   string `json:"action"` // "create", "update", or "error"
	Message  string `json:"message,omitempty"`
}

// Response is the public result of a pipeline run. Business failures are
// communicated inside the payload with Success=false and itemized errors;
// the pipeline itself never panics out.
type Response struct {
	Success bool        `json:"success"`
	Stage   types.Stage `json:"stage"`

	Preview         *Preview     `json:"preview,omitempty"`
	Stats           *Stats       `json:"stats,omitempty"`
	MappedTestCases []RowSummary `json:"mappedTestCases,omitempty"`

	BulkOperationResult *types.BulkOperationResult `json:"bulkOperationResult,omitempty"`

	FileParsingWarnings  []string               `json:"fileParsingWarnings,omitempty"`
	MappingWarnings      []string               `json:"mappingWarnings,omitempty"`
	MappingErrors        []string               `json:"mappingErrors,omitempty"`
	OperationErrors      []types.OperationError `json:"operationErrors,omitempty"`
	SuiteEnrollmentError string                 `json:"suiteEnrollmentError,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Importer runs the bulk test case import pipeline. The catalog is the
// only state shared across invocations and is read-only from the
// pipeline's point of view.
type Importer struct {
	svc     azdo.WorkItemService
	catalog *catalog.Catalog
}

// New creates an Importer over a work item service and a field catalog.
func New(svc azdo.WorkItemService, cat *catalog.Catalog) *Importer {
	return &Importer{svc: svc, catalog: cat}
}

// Run executes the pipeline for one request. Stages one through three
// are hard gates; from categorization on, faults accumulate per row. An
// unexpected failure outside row scope is caught at this boundary and
// converted into the fatal response shape, so Run never panics.
func (imp *Importer) Run(ctx context.Context, req Request) (resp *Response) {
	totalRows := 0
	defer func() {
		if r := recover(); r != nil {
			resp = fatalResponse(types.StageExecution, fmt.Errorf("unexpected failure: %v", r), totalRows)
		}
	}()

	if req.WorkItemType == "" {
		req.WorkItemType = azdo.TestCaseType
	}

	// Stage 1: file ingestion. Hard gate, before any remote call.
	table, parseWarnings, err := ingest.Parse(req.FileContent, req.FileName)
	if err != nil {
		return &Response{
			Success:             false,
			Stage:               types.StageFileParsing,
			Errors:              []string{err.Error()},
			FileParsingWarnings: parseWarnings,
		}
	}
	totalRows = len(table.Rows)

	// Stage 2: schema discovery through the cache. A failure here means
	// the remote connection never established: the fatal path.
	fields, err := imp.catalog.GetOrFetch(ctx, req.Project, req.WorkItemType)
	if err != nil {
		return fatalResponse(types.StageMapping, err, totalRows)
	}

	// Stage 3: field mapping. Hard gate when nothing can be mapped.
	fm, mappingWarnings, err := mapping.Resolve(table.Headers, req.FieldMapping, fields)
	if err != nil {
		return &Response{
			Success:             false,
			Stage:               types.StageMapping,
			Errors:              []string{err.Error()},
			FileParsingWarnings: parseWarnings,
			MappingWarnings:     mappingWarnings,
			MappingErrors:       []string{err.Error()},
		}
	}

	// Stage 4: projection.
	proj := projectRows(table, fm, req.IgnoreIDs)

	// Stage 5: categorization against remote state.
	parts := categorize(ctx, imp.svc, req.Project, req.WorkItemType, proj.cases, req.LookupConcurrency)

	warnings := append(append([]string{}, parseWarnings...), mappingWarnings...)
	warnings = append(warnings, proj.warnings...)

	rowErrors := append(append([]types.OperationError{}, proj.rowErrs...), parts.errors...)

	if req.PreviewOnly {
		return previewResponse(table, fm, proj, parts, rowErrors, warnings, parseWarnings, mappingWarnings)
	}

	// Stage 6: batch execution.
	result := types.NewBulkOperationResult()
	result.Errors = append(result.Errors, rowErrors...)

	exec := newExecutor(imp.svc, req.Project, req.WorkItemType, clampBatchSize(req.BatchSize), fields, result)
	exec.run(ctx, parts.toCreate, parts.toUpdate)

	// Stage 7: aggregation.
	result.Finalize()

	// Stage 8: optional suite enrollment.
	resp = &Response{
		Success:             result.Success,
		Stage:               types.StageCompleted,
		BulkOperationResult: result,
		FileParsingWarnings: parseWarnings,
		MappingWarnings:     mappingWarnings,
		OperationErrors:     result.Errors,
		Warnings:            warnings,
		Preview: &Preview{
			Headers:      table.Headers,
			TotalRows:    totalRows,
			FieldMapping: fm,
		},
	}

	if req.AddToSuite && req.PlanID > 0 && req.SuiteID > 0 {
		if err := enrollSuite(ctx, imp.svc, req.Project, req.PlanID, req.SuiteID, result); err != nil {
			resp.Success = false
			resp.SuiteEnrollmentError = err.Error()
		}
	}

	return resp
}

// SuggestMapping runs stages one through three only and returns the
// advisory suggestion document.
func (imp *Importer) SuggestMapping(ctx context.Context, project, workItemType, fileContent, fileName string) (*mapping.Suggestion, []string, error) {
	if workItemType == "" {
		workItemType = azdo.TestCaseType
	}

	table, warnings, err := ingest.Parse(fileContent, fileName)
	if err != nil {
		return nil, warnings, err
	}

	fields, err := imp.catalog.GetOrFetch(ctx, project, workItemType)
	if err != nil {
		return nil, warnings, err
	}

	suggestion := mapping.Suggest(table.Headers, fields)
	return &suggestion, warnings, nil
}

func clampBatchSize(b int) int {
	opts := types.BulkOperationOptions{BatchSize: b}
	return opts.ClampedBatchSize()
}

// previewResponse builds the stage-five response for previewOnly runs.
// No create or update call has been issued at this point.
func previewResponse(table *ingest.Table, fm types.FieldMapping, proj projection, parts partitions,
	rowErrors []types.OperationError, warnings, parseWarnings, mappingWarnings []string) *Response {

	summaries := make([]RowSummary, 0, len(parts.toCreate)+len(parts.toUpdate)+len(rowErrors))
	for _, tc := range parts.toCreate {
		summaries = append(summaries, RowSummary{RowIndex: tc.RowIndex, Title: tc.Title, Action: "create"})
	}
	for _, tc := range parts.toUpdate {
		summaries = append(summaries, RowSummary{RowIndex: tc.RowIndex, Title: tc.Title, ID: tc.RawID, Action: "update"})
	}
	for _, opErr := range rowErrors {
		summaries = append(summaries, RowSummary{RowIndex: opErr.RowIndex, Title: opErr.Title, Action: "error", Message: opErr.Message})
	}

	errStrings := make([]string, 0, len(rowErrors))
	for _, opErr := range rowErrors {
		errStrings = append(errStrings, fmt.Sprintf("row %d: %s", opErr.RowIndex, opErr.Message))
	}

	return &Response{
		Success: len(rowErrors) == 0,
		Stage:   types.StagePreview,
		Preview: &Preview{
			Headers:      table.Headers,
			TotalRows:    len(table.Rows),
			FieldMapping: fm,
		},
		Stats: &Stats{
			TotalRows: len(table.Rows),
			ToCreate:  len(parts.toCreate),
			ToUpdate:  len(parts.toUpdate),
			RowErrors: len(rowErrors),
		},
		MappedTestCases:     summaries,
		FileParsingWarnings: parseWarnings,
		MappingWarnings:     mappingWarnings,
		OperationErrors:     rowErrors,
		Warnings:            warnings,
		Errors:              errStrings,
	}
}

// fatalResponse converts a failure outside row scope into the fatal
// result shape: one synthetic error entry, every row counted as failed.
func fatalResponse(stage types.Stage, err error, totalRows int) *Response {
	fatal := &types.FatalError{Stage: stage, Err: err}
	result := types.NewBulkOperationResult()
	result.Errors = append(result.Errors, types.OperationError{
		Operation: types.OperationLookup,
		Message:   fatal.Error(),
	})
	result.Summary = types.Summary{
		TotalProcessed: totalRows,
		Failures:       totalRows,
	}
	result.Success = false

	return &Response{
		Success:             false,
		Stage:               stage,
		BulkOperationResult: result,
		Errors:              []string{fatal.Error()},
	}
}
