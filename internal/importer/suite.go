package importer

import (
	"context"
	"fmt"

	"github.com/dshills/azdo-mcp/internal/azdo"
	"github.com/dshills/azdo-mcp/pkg/types"
)

// enrollSuite bulk-associates all successful work item ids with the test
// suite in one combined call. The remote service accepts valid ids and
// silently ignores invalid ones, so only a whole-call failure is
// reportable here; a failure never invalidates the create and update
// results already recorded.
func enrollSuite(ctx context.Context, svc azdo.WorkItemService, project string, planID, suiteID int, result *types.BulkOperationResult) error {
	ids := result.SuccessfulIDs()
	if len(ids) == 0 {
		return nil
	}

	if err := svc.AddTestCasesToSuite(ctx, project, planID, suiteID, ids); err != nil {
		return fmt.Errorf("add %d test cases to suite %d of plan %d: %w", len(ids), suiteID, planID, err)
	}
	return nil
}
