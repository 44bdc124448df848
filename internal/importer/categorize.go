package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/azdo-mcp/internal/azdo"
	"github.com/dshills/azdo-mcp/pkg/types"
)

// partitions is the outcome of categorization: each input row lands in
// exactly one bucket.
type partitions struct {
	toCreate []types.MappedTestCase
	toUpdate []types.MappedTestCase
	errors   []types.OperationError
}

type rowDecision int

const (
	decideCreate rowDecision = iota
	decideUpdate
	decideError
)

// verdict is one row's categorization result.
type verdict struct {
	decision rowDecision
	id       int
	opErr    types.OperationError
}

// categorize classifies every candidate as create, update, or errored
// against remote state. Rows without an id create; rows with an id must
// resolve to an existing work item of the expected type or they error.
// A row is never silently reinterpreted: a dangling id means the user's
// intent is unknowable and guessing is disallowed.
//
// Existence lookups run with bounded concurrency; the default bound of 1
// keeps them sequential. Verdicts are collected per index so the output
// partitions preserve input row order regardless of lookup completion
// order.
func categorize(ctx context.Context, svc azdo.WorkItemService, project, workItemType string, cases []types.MappedTestCase, lookupConcurrency int) partitions {
	if lookupConcurrency < 1 {
		lookupConcurrency = 1
	}

	verdicts := make([]verdict, len(cases))
	sem := make(chan struct{}, lookupConcurrency)
	var g errgroup.Group

	for i := range cases {
		tc := cases[i]
		out := &verdicts[i]

		if tc.RawID == "" {
			out.decision = decideCreate
			continue
		}

		id, err := strconv.Atoi(tc.RawID)
		if err != nil {
			out.decision = decideError
			out.opErr = types.OperationError{
				RowIndex:  tc.RowIndex,
				Title:     tc.Title,
				Operation: types.OperationLookup,
				Message:   fmt.Sprintf("invalid id %q: not a number", tc.RawID),
			}
			continue
		}

		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			*out = lookupVerdict(ctx, svc, project, workItemType, tc, id)
			return nil // lookup failures are per-row, never group-fatal
		})
	}
	_ = g.Wait()

	var p partitions
	for i, v := range verdicts {
		switch v.decision {
		case decideCreate:
			p.toCreate = append(p.toCreate, cases[i])
		case decideUpdate:
			tc := cases[i]
			id := v.id
			tc.ID = &id
			p.toUpdate = append(p.toUpdate, tc)
		case decideError:
			p.errors = append(p.errors, v.opErr)
		}
	}
	return p
}

// lookupVerdict resolves one row's id against the remote service,
// requesting only the type field to minimize the payload. "Not found" is
// reported distinctly from other lookup failures: a caller's retry policy
// should not retry absence but may retry a transient failure.
func lookupVerdict(ctx context.Context, svc azdo.WorkItemService, project, workItemType string, tc types.MappedTestCase, id int) verdict {
	item, err := svc.GetWorkItem(ctx, project, id, []string{azdo.FieldWorkItemType})
	switch {
	case errors.Is(err, azdo.ErrWorkItemNotFound):
		return verdict{decision: decideError, opErr: types.OperationError{
			RowIndex:   tc.RowIndex,
			Title:      tc.Title,
			Operation:  types.OperationLookup,
			Message:    fmt.Sprintf("work item %d not found", id),
			OriginalID: &id,
		}}
	case err != nil:
		return verdict{decision: decideError, opErr: types.OperationError{
			RowIndex:   tc.RowIndex,
			Title:      tc.Title,
			Operation:  types.OperationLookup,
			Message:    fmt.Sprintf("lookup of work item %d failed: %v", id, err),
			OriginalID: &id,
		}}
	case item.Type() != workItemType:
		return verdict{decision: decideError, opErr: types.OperationError{
			RowIndex:   tc.RowIndex,
			Title:      tc.Title,
			Operation:  types.OperationLookup,
			Message:    fmt.Sprintf("work item %d exists but is not a %s (found %q)", id, workItemType, item.Type()),
			OriginalID: &id,
		}}
	}
	return verdict{decision: decideUpdate, id: id}
}
