// Package ingest decodes and validates an uploaded tabular file into a
// header row plus data rows.
//
// Input is base64-encoded file bytes and the original filename. Only CSV
// is accepted: spreadsheet binary formats (xls, xlsx) are rejected
// explicitly, by extension and by magic bytes, with a message telling the
// user to export as CSV. All ingestion failures halt the pipeline before
// any remote call is made.
package ingest
