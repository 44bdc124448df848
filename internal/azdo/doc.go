// Package azdo implements the Azure DevOps REST API client used by the
// import pipeline.
//
// The pipeline consumes two narrow interfaces, both satisfied by Client:
//
//	WorkItemService - fetch, create, update work items; bulk suite add
//	FieldService    - list field definitions for a work item type
//
// Requests authenticate with a personal access token over basic auth.
// Create and update send JSON Patch documents (application/json-patch+json)
// built from the tagged PatchOp variant, which guarantees at compile time
// that a remove operation carries no value.
//
// Transient failures (HTTP 429, 5xx, network errors) are retried with
// exponential backoff; a 404 on fetch maps to ErrWorkItemNotFound so that
// callers can distinguish "absent" from "try again later".
package azdo
