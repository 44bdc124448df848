package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/azdo-mcp/internal/azdo"
	"github.com/dshills/azdo-mcp/pkg/types"
)

// executor issues the create and update calls in bounded, sequential
// batch waves. Rows within one wave dispatch concurrently; waves run one
// after another, so peak in-flight remote calls never exceed batchSize.
type executor struct {
	svc          azdo.WorkItemService
	project      string
	workItemType string
	batchSize    int
	fields       []azdo.FieldDefinition // catalog, for custom field validation

	mu     sync.Mutex
	result *types.BulkOperationResult
}

func newExecutor(svc azdo.WorkItemService, project, workItemType string, batchSize int, fields []azdo.FieldDefinition, result *types.BulkOperationResult) *executor {
	return &executor{
		svc:          svc,
		project:      project,
		workItemType: workItemType,
		batchSize:    batchSize,
		fields:       fields,
		result:       result,
	}
}

// run executes both partitions. The partitions are independent; each is
// processed in ceil(len/batchSize) sequential waves.
func (e *executor) run(ctx context.Context, toCreate, toUpdate []types.MappedTestCase) {
	e.runPartition(ctx, toCreate, types.OperationCreate)
	e.runPartition(ctx, toUpdate, types.OperationUpdate)
}

func (e *executor) runPartition(ctx context.Context, cases []types.MappedTestCase, kind types.OperationKind) {
	for start := 0; start < len(cases); start += e.batchSize {
		// Cooperative cancellation point between waves: the wave in
		// flight always completes, remaining rows fail fast.
		if err := ctx.Err(); err != nil {
			for _, tc := range cases[start:] {
				e.recordError(errorFor(tc, kind, fmt.Sprintf("operation canceled: %v", err)))
			}
			return
		}

		end := start + e.batchSize
		if end > len(cases) {
			end = len(cases)
		}

		var g errgroup.Group
		for _, tc := range cases[start:end] {
			g.Go(func() error {
				e.dispatchRow(ctx, tc, kind)
				return nil // row failures are recorded, never wave-fatal
			})
		}
		_ = g.Wait()
	}
}

// dispatchRow issues one create or update call and records the outcome.
// A single row's failure never aborts its batch or any other batch.
func (e *executor) dispatchRow(ctx context.Context, tc types.MappedTestCase, kind types.OperationKind) {
	ops := e.buildPatchOps(tc)

	var item *azdo.WorkItem
	var err error
	if kind == types.OperationCreate {
		item, err = e.svc.CreateWorkItem(ctx, e.project, e.workItemType, ops)
	} else {
		item, err = e.svc.UpdateWorkItem(ctx, e.project, *tc.ID, ops)
	}

	if err != nil {
		e.recordError(errorFor(tc, kind, err.Error()))
		return
	}

	res := types.TestCaseResult{
		RowIndex:   tc.RowIndex,
		Title:      tc.Title,
		WorkItemID: item.ID,
		URL:        item.URL,
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if kind == types.OperationCreate {
		res.Operation = "created"
		e.result.Created = append(e.result.Created, res)
	} else {
		res.Operation = "updated"
		e.result.Updated = append(e.result.Updated, res)
	}
}

// buildPatchOps builds the patch document for one row: the fixed fields
// first, then any remaining mapped custom fields. Custom fields matching
// a fixed field reference name (case-insensitively) are skipped so the
// document never carries duplicate entries for one field.
func (e *executor) buildPatchOps(tc types.MappedTestCase) []azdo.PatchOp {
	ops := []azdo.PatchOp{azdo.AddField(azdo.FieldTitle, tc.Title)}

	if tc.Steps != "" {
		if encoded := EncodeSteps(tc.Steps); encoded != "" {
			ops = append(ops, azdo.AddField(azdo.FieldSteps, encoded))
		}
	}
	if tc.Priority != "" {
		if p, err := strconv.Atoi(strings.TrimSpace(tc.Priority)); err == nil {
			ops = append(ops, azdo.AddField(azdo.FieldPriority, p))
		}
	}
	if tc.AreaPath != "" {
		ops = append(ops, azdo.AddField(azdo.FieldAreaPath, tc.AreaPath))
	}
	if tc.IterationPath != "" {
		ops = append(ops, azdo.AddField(azdo.FieldIterationPath, tc.IterationPath))
	}
	if tc.Description != "" {
		ops = append(ops, azdo.AddField(azdo.FieldDescription, tc.Description))
	}
	if tc.Tags != "" {
		ops = append(ops, azdo.AddField(azdo.FieldTags, tc.Tags))
	}
	if tc.AutomationStatus != "" {
		ops = append(ops, azdo.AddField(azdo.FieldAutomationStatus, tc.AutomationStatus))
	}

	for ref, value := range tc.ExtraFields {
		if isFixedField(ref) {
			continue
		}
		if canonical, ok := e.canonicalFieldName(ref); ok {
			ops = append(ops, azdo.AddField(canonical, value))
		}
		// Unknown reference names are dropped: one bad custom column must
		// not reject the whole row at the remote end.
	}

	return ops
}

// fixedFieldNames are the reference names the fixed patch entries cover.
var fixedFieldNames = []string{
	azdo.FieldID,
	azdo.FieldTitle,
	azdo.FieldSteps,
	azdo.FieldPriority,
	azdo.FieldAreaPath,
	azdo.FieldIterationPath,
	azdo.FieldDescription,
	azdo.FieldTags,
	azdo.FieldAutomationStatus,
}

func isFixedField(ref string) bool {
	for _, fixed := range fixedFieldNames {
		if strings.EqualFold(ref, fixed) {
			return true
		}
	}
	return false
}

// canonicalFieldName validates a custom field against the field catalog
// and returns the catalog's exact reference name casing. With an empty
// catalog every field passes through unvalidated.
func (e *executor) canonicalFieldName(ref string) (string, bool) {
	if len(e.fields) == 0 {
		return ref, true
	}
	for _, field := range e.fields {
		if strings.EqualFold(field.ReferenceName, ref) {
			return field.ReferenceName, true
		}
	}
	return "", false
}

func (e *executor) recordError(opErr types.OperationError) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.result.Errors = append(e.result.Errors, opErr)
}

func errorFor(tc types.MappedTestCase, kind types.OperationKind, message string) types.OperationError {
	return types.OperationError{
		RowIndex:   tc.RowIndex,
		Title:      tc.Title,
		Operation:  kind,
		Message:    message,
		OriginalID: tc.ID,
	}
}
