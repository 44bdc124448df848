// Package mapping resolves source file column headers onto work item
// field reference names.
//
// Two modes exist. Suggestion scores every header against the field
// catalog's display names plus a built-in alias table and accepts the
// best candidate above a threshold; headers below it are reported as
// unmapped, never as errors. Suggestion output is advisory only: it has
// no effect on an import unless passed back as the explicit mapping.
// Explicit mode takes the caller's header -> reference name mapping
// verbatim and skips all heuristics.
//
// The scorer is pure and deterministic: identical headers and field
// catalog always produce the identical suggestion.
package mapping
