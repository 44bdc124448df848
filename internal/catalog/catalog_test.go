package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/azdo-mcp/internal/azdo"
)

type countingFieldService struct {
	fields []azdo.FieldDefinition
	err    error
	calls  int
}

func (s *countingFieldService) ListFields(ctx context.Context, project, workItemType string) ([]azdo.FieldDefinition, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.fields, nil
}

func TestGetOrFetch_CachesPerKey(t *testing.T) {
	svc := &countingFieldService{fields: []azdo.FieldDefinition{
		{ReferenceName: azdo.FieldTitle, DisplayName: "Title"},
	}}
	cat := New(svc, time.Minute)

	first, err := cat.GetOrFetch(context.Background(), "proj", azdo.TestCaseType)
	require.NoError(t, err)
	second, err := cat.GetOrFetch(context.Background(), "proj", azdo.TestCaseType)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, svc.calls)

	// A different project or type is a different cache entry.
	_, err = cat.GetOrFetch(context.Background(), "other", azdo.TestCaseType)
	require.NoError(t, err)
	_, err = cat.GetOrFetch(context.Background(), "proj", "Bug")
	require.NoError(t, err)
	assert.Equal(t, 3, svc.calls)
}

func TestGetOrFetch_ErrorNotCached(t *testing.T) {
	svc := &countingFieldService{err: errors.New("connection refused")}
	cat := New(svc, time.Minute)

	_, err := cat.GetOrFetch(context.Background(), "proj", azdo.TestCaseType)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "proj/Test Case")

	// The failure is retried on the next call, not served from cache.
	svc.err = nil
	_, err = cat.GetOrFetch(context.Background(), "proj", azdo.TestCaseType)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.calls)
}

func TestInvalidate(t *testing.T) {
	svc := &countingFieldService{}
	cat := New(svc, time.Minute)

	_, err := cat.GetOrFetch(context.Background(), "proj", azdo.TestCaseType)
	require.NoError(t, err)

	cat.Invalidate("proj", azdo.TestCaseType)

	_, err = cat.GetOrFetch(context.Background(), "proj", azdo.TestCaseType)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.calls)
}

func TestInvalidate_OtherKeysUntouched(t *testing.T) {
	svc := &countingFieldService{}
	cat := New(svc, time.Minute)

	_, _ = cat.GetOrFetch(context.Background(), "proj", azdo.TestCaseType)
	_, _ = cat.GetOrFetch(context.Background(), "other", azdo.TestCaseType)

	cat.Invalidate("proj", azdo.TestCaseType)

	_, _ = cat.GetOrFetch(context.Background(), "other", azdo.TestCaseType)
	assert.Equal(t, 2, svc.calls)
}

func TestNew_NonPositiveTTLUsesDefault(t *testing.T) {
	cat := New(&countingFieldService{}, 0)
	require.NotNil(t, cat)

	_, err := cat.GetOrFetch(context.Background(), "proj", azdo.TestCaseType)
	require.NoError(t, err)
}
