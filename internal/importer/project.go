package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/azdo-mcp/internal/azdo"
	"github.com/dshills/azdo-mcp/internal/ingest"
	"github.com/dshills/azdo-mcp/pkg/types"
)

// Column patterns for step synthesis from separate action/expected columns.
var (
	actionColumnPattern   = regexp.MustCompile(`(?i)^(step\s*)?action`)
	expectedColumnPattern = regexp.MustCompile(`(?i)^expected`)
)

// projection is the outcome of applying the resolved mapping to all rows.
type projection struct {
	cases    []types.MappedTestCase
	rowErrs  []types.OperationError
	warnings []string
}

// projectRows turns raw rows plus the resolved mapping into normalized
// candidate records. Rows without a title are errored and excluded; all
// other rows survive. When ignoreIDs is set every id association is
// stripped before categorization, forcing a pure-create run.
func projectRows(table *ingest.Table, fm types.FieldMapping, ignoreIDs bool) projection {
	var p projection

	for _, row := range table.Rows {
		tc := types.MappedTestCase{
			RowIndex:    row.RowIndex,
			ExtraFields: make(map[string]string),
			Original:    row,
		}

		for header, ref := range fm {
			value := strings.TrimSpace(row.Get(header))
			if value == "" {
				continue
			}
			switch {
			case strings.EqualFold(ref, azdo.FieldID):
				tc.RawID = value
			case strings.EqualFold(ref, azdo.FieldTitle):
				tc.Title = value
			case strings.EqualFold(ref, azdo.FieldSteps):
				tc.Steps = value
			case strings.EqualFold(ref, azdo.FieldPriority):
				tc.Priority = value
			case strings.EqualFold(ref, azdo.FieldAreaPath):
				tc.AreaPath = value
			case strings.EqualFold(ref, azdo.FieldIterationPath):
				tc.IterationPath = value
			case strings.EqualFold(ref, azdo.FieldDescription):
				tc.Description = value
			case strings.EqualFold(ref, azdo.FieldTags):
				tc.Tags = value
			case strings.EqualFold(ref, azdo.FieldAutomationStatus):
				tc.AutomationStatus = value
			default:
				tc.ExtraFields[ref] = value
			}
		}

		if tc.Title == "" {
			p.rowErrs = append(p.rowErrs, types.OperationError{
				RowIndex:  row.RowIndex,
				Operation: types.OperationLookup,
				Message:   "row has no title and was excluded",
			})
			continue
		}

		if tc.Steps == "" {
			tc.Steps = synthesizeSteps(table.Headers, row)
		}

		p.cases = append(p.cases, tc)
	}

	if ignoreIDs {
		stripped := 0
		for i := range p.cases {
			if p.cases[i].RawID != "" {
				p.cases[i].RawID = ""
				stripped++
			}
		}
		if stripped > 0 {
			p.warnings = append(p.warnings,
				fmt.Sprintf("ignoreIds is set: id values were stripped from %d rows, all rows will be created as new test cases", stripped))
		}
	}

	return p
}

// synthesizeSteps builds a single-step string from separate action and
// expected-result columns when no header mapped to the steps field. The
// '|' between action and expected is the source-format delimiter.
func synthesizeSteps(headers []string, row types.RawRow) string {
	var action, expected string
	for _, h := range headers {
		if action == "" && actionColumnPattern.MatchString(h) {
			action = strings.TrimSpace(row.Get(h))
		}
		if expected == "" && expectedColumnPattern.MatchString(h) {
			expected = strings.TrimSpace(row.Get(h))
		}
	}
	if action == "" && expected == "" {
		return ""
	}
	return fmt.Sprintf("1. %s|%s", action, expected)
}
