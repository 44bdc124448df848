package importer

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/azdo-mcp/internal/azdo"
	"github.com/dshills/azdo-mcp/internal/catalog"
	"github.com/dshills/azdo-mcp/pkg/types"
)

func csvB64(content string) string {
	return base64.StdEncoding.EncodeToString([]byte(content))
}

func newTestImporter(svc *fakeService) *Importer {
	cat := catalog.New(&fakeFieldService{fields: testFields}, time.Minute)
	return New(svc, cat)
}

func TestRun_SingleCreate(t *testing.T) {
	svc := newFakeService()
	imp := newTestImporter(svc)

	resp := imp.Run(context.Background(), Request{
		Project:     "proj",
		FileContent: csvB64("Title,Steps\nLogin works,1. Open app|App launches\n"),
		FileName:    "cases.csv",
		BatchSize:   10,
	})

	require.Equal(t, types.StageCompleted, resp.Stage)
	require.True(t, resp.Success)

	result := resp.BulkOperationResult
	require.NotNil(t, result)
	assert.Len(t, result.Created, 1)
	assert.Empty(t, result.Updated)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.Summary.TotalProcessed)
	assert.Equal(t, 1, result.Summary.SuccessfulCreations)

	created := result.Created[0]
	assert.Equal(t, 2, created.RowIndex)
	assert.Equal(t, "Login works", created.Title)
	assert.NotZero(t, created.WorkItemID)

	// The steps column must reach the remote call in encoded form.
	ops := svc.createdOps["Login works"]
	require.NotEmpty(t, ops)
	steps := ""
	for _, op := range ops {
		if op.Path == "/fields/"+azdo.FieldSteps {
			steps, _ = op.Value.(string)
		}
	}
	assert.Contains(t, steps, `<steps id="0" last="2">`)
	assert.Contains(t, steps, "Open app")
}

func TestRun_WrongTypeIDGoesToErrors(t *testing.T) {
	svc := newFakeService()
	svc.existing[12345] = "Bug"
	imp := newTestImporter(svc)

	resp := imp.Run(context.Background(), Request{
		Project:     "proj",
		FileContent: csvB64("Title,Steps,ID\nLogin works,1. Open app|App launches,12345\n"),
		FileName:    "cases.csv",
	})

	require.False(t, resp.Success)
	result := resp.BulkOperationResult
	require.NotNil(t, result)
	assert.Empty(t, result.Created)
	assert.Empty(t, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "exists but is not a Test Case")
	assert.Equal(t, 2, result.Errors[0].RowIndex)
	assert.EqualValues(t, 0, svc.createCalls)
	assert.EqualValues(t, 0, svc.updateCalls)
}

func TestRun_IgnoreIDsForcesCreates(t *testing.T) {
	svc := newFakeService()
	svc.existing[101] = azdo.TestCaseType
	svc.existing[102] = azdo.TestCaseType
	imp := newTestImporter(svc)

	resp := imp.Run(context.Background(), Request{
		Project:     "proj",
		FileContent: csvB64("Title,ID\nFirst,101\nSecond,102\n"),
		FileName:    "cases.csv",
		IgnoreIDs:   true,
	})

	require.True(t, resp.Success)
	result := resp.BulkOperationResult
	assert.Len(t, result.Created, 2)
	assert.Empty(t, result.Updated)
	assert.EqualValues(t, 0, svc.lookupCalls)

	found := false
	for _, w := range resp.Warnings {
		if strings.Contains(w, "stripped") {
			found = true
		}
	}
	assert.True(t, found, "expected a warning that ids were stripped, got %v", resp.Warnings)
}

func TestRun_PreviewIssuesNoWrites(t *testing.T) {
	svc := newFakeService()
	svc.existing[777] = "Bug"
	imp := newTestImporter(svc)

	resp := imp.Run(context.Background(), Request{
		Project:     "proj",
		FileContent: csvB64("Title,ID,Mystery Column\nGood row,,\nBad row,777,\n"),
		FileName:    "cases.csv",
		PreviewOnly: true,
	})

	require.Equal(t, types.StagePreview, resp.Stage)
	assert.EqualValues(t, 0, svc.createCalls)
	assert.EqualValues(t, 0, svc.updateCalls)

	// Categorization still ran and its outcome is reported.
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 2, resp.Stats.TotalRows)
	assert.Equal(t, 1, resp.Stats.ToCreate)
	assert.Equal(t, 1, resp.Stats.RowErrors)
	assert.NotEmpty(t, resp.Errors)
	assert.NotEmpty(t, resp.MappedTestCases)

	// The unmapped header is reported as a warning, never an error.
	foundWarning := false
	for _, w := range resp.MappingWarnings {
		if strings.Contains(w, "Mystery Column") {
			foundWarning = true
		}
	}
	assert.True(t, foundWarning, "expected unmapped header warning, got %v", resp.MappingWarnings)
}

func TestRun_FileParsingGate(t *testing.T) {
	imp := newTestImporter(newFakeService())

	resp := imp.Run(context.Background(), Request{
		Project:     "proj",
		FileContent: csvB64("zzz"), // no title-like column
		FileName:    "cases.xlsx",
	})

	require.Equal(t, types.StageFileParsing, resp.Stage)
	assert.False(t, resp.Success)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0], "not supported")
	assert.Nil(t, resp.BulkOperationResult)
}

func TestRun_MappingGate(t *testing.T) {
	imp := newTestImporter(newFakeService())

	// Explicit mapping that maps nothing to the title field.
	resp := imp.Run(context.Background(), Request{
		Project:      "proj",
		FileContent:  csvB64("Title,Steps\nLogin works,ok\n"),
		FileName:     "cases.csv",
		FieldMapping: map[string]string{"Steps": azdo.FieldSteps},
	})

	require.Equal(t, types.StageMapping, resp.Stage)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.MappingErrors)
}

func TestRun_FatalPathFailsAllRows(t *testing.T) {
	svc := newFakeService()
	cat := catalog.New(&failingFieldService{}, time.Minute)
	imp := New(svc, cat)

	resp := imp.Run(context.Background(), Request{
		Project:     "proj",
		FileContent: csvB64("Title\nOne\nTwo\nThree\n"),
		FileName:    "cases.csv",
	})

	assert.False(t, resp.Success)
	result := resp.BulkOperationResult
	require.NotNil(t, result)
	// One synthetic error entry; every row counted as failed.
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Summary.Failures)
	assert.Equal(t, 3, result.Summary.TotalProcessed)
}

type failingFieldService struct{}

func (f *failingFieldService) ListFields(ctx context.Context, project, workItemType string) ([]azdo.FieldDefinition, error) {
	return nil, errors.New("connection refused")
}

func TestRun_SuiteEnrollment(t *testing.T) {
	svc := newFakeService()
	imp := newTestImporter(svc)

	resp := imp.Run(context.Background(), Request{
		Project:     "proj",
		FileContent: csvB64("Title\nOne\nTwo\n"),
		FileName:    "cases.csv",
		AddToSuite:  true,
		PlanID:      42,
		SuiteID:     7,
	})

	require.True(t, resp.Success)
	require.Len(t, svc.suiteAdds, 1)
	assert.Len(t, svc.suiteAdds[0], 2)
}

func TestRun_SuiteEnrollmentFailureKeepsResults(t *testing.T) {
	svc := newFakeService()
	svc.suiteErr = errors.New("suite gone")
	imp := newTestImporter(svc)

	resp := imp.Run(context.Background(), Request{
		Project:     "proj",
		FileContent: csvB64("Title\nOne\n"),
		FileName:    "cases.csv",
		AddToSuite:  true,
		PlanID:      42,
		SuiteID:     7,
	})

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.SuiteEnrollmentError)
	// Already-recorded create results survive the stage failure.
	require.NotNil(t, resp.BulkOperationResult)
	assert.Len(t, resp.BulkOperationResult.Created, 1)
	assert.True(t, resp.BulkOperationResult.Success)
}

func TestRun_SuiteEnrollmentSkippedWithoutSuccesses(t *testing.T) {
	svc := newFakeService()
	svc.existing[1] = "Bug"
	imp := newTestImporter(svc)

	resp := imp.Run(context.Background(), Request{
		Project:     "proj",
		FileContent: csvB64("Title,ID\nOnly row,1\n"),
		FileName:    "cases.csv",
		AddToSuite:  true,
		PlanID:      42,
		SuiteID:     7,
	})

	assert.False(t, resp.Success)
	assert.Empty(t, svc.suiteAdds)
	assert.Empty(t, resp.SuiteEnrollmentError)
}
