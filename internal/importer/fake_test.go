package importer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dshills/azdo-mcp/internal/azdo"
)

// fakeService is an in-memory WorkItemService for pipeline tests.
type fakeService struct {
	mu sync.Mutex

	// remote state: id -> work item type name
	existing map[int]string

	// failCreateTitles lists titles whose create call should fail.
	failCreateTitles map[string]bool

	// suiteErr, when set, fails the suite enrollment call.
	suiteErr error

	nextID      int64
	createCalls int64
	updateCalls int64
	lookupCalls int64

	inFlight    int64
	maxInFlight int64

	createdOps map[string][]azdo.PatchOp // title -> patch document
	suiteAdds  [][]int
}

func newFakeService() *fakeService {
	return &fakeService{
		existing:         make(map[int]string),
		failCreateTitles: make(map[string]bool),
		createdOps:       make(map[string][]azdo.PatchOp),
		nextID:           1000,
	}
}

func (f *fakeService) enter() {
	cur := atomic.AddInt64(&f.inFlight, 1)
	for {
		max := atomic.LoadInt64(&f.maxInFlight)
		if cur <= max || atomic.CompareAndSwapInt64(&f.maxInFlight, max, cur) {
			return
		}
	}
}

func (f *fakeService) leave() {
	atomic.AddInt64(&f.inFlight, -1)
}

func (f *fakeService) GetWorkItem(ctx context.Context, project string, id int, fields []string) (*azdo.WorkItem, error) {
	atomic.AddInt64(&f.lookupCalls, 1)

	f.mu.Lock()
	itemType, ok := f.existing[id]
	f.mu.Unlock()
	if !ok {
		return nil, azdo.ErrWorkItemNotFound
	}
	return &azdo.WorkItem{
		ID:     id,
		Fields: map[string]any{azdo.FieldWorkItemType: itemType},
	}, nil
}

func (f *fakeService) CreateWorkItem(ctx context.Context, project, workItemType string, ops []azdo.PatchOp) (*azdo.WorkItem, error) {
	f.enter()
	defer f.leave()
	atomic.AddInt64(&f.createCalls, 1)

	title := titleFromOps(ops)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateTitles[title] {
		return nil, azdo.ErrRequestFailed
	}
	f.nextID++
	id := int(f.nextID)
	f.existing[id] = workItemType
	f.createdOps[title] = ops
	return &azdo.WorkItem{ID: id, URL: "https://dev.azure.com/_wi/" + title}, nil
}

func (f *fakeService) UpdateWorkItem(ctx context.Context, project string, id int, ops []azdo.PatchOp) (*azdo.WorkItem, error) {
	f.enter()
	defer f.leave()
	atomic.AddInt64(&f.updateCalls, 1)

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.existing[id]; !ok {
		return nil, azdo.ErrWorkItemNotFound
	}
	return &azdo.WorkItem{ID: id}, nil
}

func (f *fakeService) AddTestCasesToSuite(ctx context.Context, project string, planID, suiteID int, ids []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.suiteErr != nil {
		return f.suiteErr
	}
	f.suiteAdds = append(f.suiteAdds, ids)
	return nil
}

// fakeFieldService serves a fixed catalog and counts fetches.
type fakeFieldService struct {
	fields []azdo.FieldDefinition
	calls  int64
}

func (f *fakeFieldService) ListFields(ctx context.Context, project, workItemType string) ([]azdo.FieldDefinition, error) {
	atomic.AddInt64(&f.calls, 1)
	return f.fields, nil
}

func titleFromOps(ops []azdo.PatchOp) string {
	for _, op := range ops {
		if op.Path == "/fields/"+azdo.FieldTitle {
			if s, ok := op.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

// testFields is the catalog used across importer tests.
var testFields = []azdo.FieldDefinition{
	{ReferenceName: azdo.FieldID, DisplayName: "ID"},
	{ReferenceName: azdo.FieldTitle, DisplayName: "Title"},
	{ReferenceName: azdo.FieldSteps, DisplayName: "Steps"},
	{ReferenceName: azdo.FieldPriority, DisplayName: "Priority"},
	{ReferenceName: azdo.FieldAreaPath, DisplayName: "Area Path"},
	{ReferenceName: azdo.FieldIterationPath, DisplayName: "Iteration Path"},
	{ReferenceName: azdo.FieldDescription, DisplayName: "Description"},
	{ReferenceName: azdo.FieldTags, DisplayName: "Tags"},
	{ReferenceName: azdo.FieldAutomationStatus, DisplayName: "Automation status"},
	{ReferenceName: "Custom.Reviewer", DisplayName: "Reviewer"},
}
