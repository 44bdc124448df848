// Package importer implements the bulk test case import pipeline.
//
// A single invocation flows strictly downward through the stages:
//
//	parse -> map -> project -> categorize -> execute -> aggregate -> enroll
//
// Parsing and mapping are hard gates: their failures halt the run before
// any work item is touched. From categorization on, faults are isolated
// to the smallest possible scope: one row's failure is recorded and its
// siblings continue. Only a failure outside row scope (the fatal path)
// aborts the remaining run, and it converts every unprocessed row into a
// single synthetic failure entry so callers still see the full row count
// accounted for.
//
// Concurrency exists only inside a batch wave: each create/update
// partition is split into batches of the requested size, rows within a
// wave dispatch concurrently, and waves run one after another. Peak
// in-flight remote calls are therefore bounded by the batch size at any
// instant. Categorization's existence lookups run through the same shape
// with their own configurable bound, defaulting to sequential.
package importer
