package types

import (
	"errors"
	"fmt"
)

// Stage identifies the pipeline stage that produced a response or error.
type Stage string

const (
	StageFileParsing     Stage = "file_parsing"
	StageMapping         Stage = "mapping"
	StageCategorization  Stage = "categorization"
	StageExecution       Stage = "execution"
	StageSuiteEnrollment Stage = "suite_enrollment"
	StagePreview         Stage = "preview"
	StageCompleted       Stage = "completed"
)

// File parsing gate errors. Any of these halt the pipeline before a
// single remote call is made.
var (
	ErrEmptyFile       = errors.New("file contains no data")
	ErrMissingHeader   = errors.New("file has no header row")
	ErrDuplicateHeader = errors.New("duplicate column header")
	ErrNoTitleColumn   = errors.New("no title-like column found in header row")
	ErrBinaryFormat    = errors.New("spreadsheet binary formats are not supported; export the sheet as CSV")
	ErrInvalidBase64   = errors.New("file content is not valid base64")
)

// Mapping gate errors.
var (
	ErrNoMappableColumns = errors.New("no columns could be mapped to work item fields")
)

// StageError wraps an error with the pipeline stage it belongs to, so the
// response serializer can attribute failures to the right hard gate.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// NewStageError wraps err with a stage tag.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// FatalError marks a failure outside row scope, such as the remote
// connection never establishing. It is the only error class that aborts
// the remaining run; the pipeline boundary converts it into a result that
// fails every unprocessed row.
type FatalError struct {
	Stage Stage
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal at %s: %v", e.Stage, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }
