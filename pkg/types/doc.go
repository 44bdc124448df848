// Package types defines the shared domain model for the bulk test case
// import pipeline.
//
// The core types follow the data through the pipeline stages:
//
//	RawRow          - one parsed row from the uploaded CSV file
//	FieldMapping    - resolved header -> field reference name mapping
//	MappedTestCase  - normalized candidate record built from a RawRow
//	TestCaseResult  - a successful create or update outcome
//	OperationError  - a per-row failure, correlated by original row index
//	BulkOperationResult - accumulated outcomes plus summary counts
//
// Every row carries its original 1-based row index from the source file
// end to end, so users can trace any reported outcome back to the exact
// line in the file they uploaded. The header is row 1; the first data
// row is row 2.
//
// # Invariants
//
// A row index appears in at most one of Created, Updated, or Errors.
// BulkOperationResult.Success is true if and only if Errors is empty.
// The pipeline owns no durable state: all of these values live and die
// within a single import invocation, and the remote work item service
// remains the system of record.
package types
