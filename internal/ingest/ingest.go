package ingest

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dshills/azdo-mcp/pkg/types"
)

// Table is the parsed form of an uploaded file.
type Table struct {
	Headers []string
	Rows    []types.RawRow
}

// titleLikePattern recognizes a column that can carry the test case title.
var titleLikePattern = regexp.MustCompile(`(?i)title|name|summary|test\s*case`)

// Magic bytes of the rejected spreadsheet containers: ZIP (xlsx) and
// OLE2 compound document (legacy xls).
var (
	zipMagic  = []byte{0x50, 0x4B, 0x03, 0x04}
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Parse decodes base64 file content and splits it into headers and rows.
// Returned warnings are non-fatal row-shape notes (ragged or empty rows);
// any returned error is a hard gate.
func Parse(fileContent, fileName string) (*Table, []string, error) {
	raw, err := base64.StdEncoding.DecodeString(fileContent)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", types.ErrInvalidBase64, err)
	}
	if len(raw) == 0 {
		return nil, nil, types.ErrEmptyFile
	}

	if err := rejectBinaryFormats(raw, fileName); err != nil {
		return nil, nil, err
	}

	// Spreadsheet CSV exports routinely lead with a UTF-8 BOM.
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1 // row shapes validated below, with warnings

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil, types.ErrMissingHeader
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header row: %w", err)
	}
	if err := validateHeaders(headers); err != nil {
		return nil, nil, err
	}

	var warnings []string
	rows := make([]types.RawRow, 0)
	rowIndex := 1 // header is row 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowIndex++
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", rowIndex, err)
		}

		if isEmptyRecord(record) {
			warnings = append(warnings, fmt.Sprintf("row %d: empty row skipped", rowIndex))
			continue
		}
		if len(record) < len(headers) {
			warnings = append(warnings, fmt.Sprintf("row %d: %d missing cells padded with empty values", rowIndex, len(headers)-len(record)))
		}
		if len(record) > len(headers) {
			warnings = append(warnings, fmt.Sprintf("row %d: %d extra cells beyond the header row dropped", rowIndex, len(record)-len(headers)))
		}

		values := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				values[h] = record[i]
			} else {
				values[h] = ""
			}
		}
		rows = append(rows, types.RawRow{RowIndex: rowIndex, Values: values})
	}

	if len(rows) == 0 {
		return nil, warnings, types.ErrEmptyFile
	}

	return &Table{Headers: headers, Rows: rows}, warnings, nil
}

// rejectBinaryFormats refuses spreadsheet binaries by extension and by
// content sniffing.
func rejectBinaryFormats(raw []byte, fileName string) error {
	lower := strings.ToLower(fileName)
	for _, ext := range []string{".xls", ".xlsx", ".xlsm", ".xlsb"} {
		if strings.HasSuffix(lower, ext) {
			return fmt.Errorf("%w (got %q)", types.ErrBinaryFormat, fileName)
		}
	}
	if bytes.HasPrefix(raw, zipMagic) || bytes.HasPrefix(raw, ole2Magic) {
		return fmt.Errorf("%w (file content is a spreadsheet binary)", types.ErrBinaryFormat)
	}
	return nil
}

// validateHeaders enforces non-empty, unique headers and the presence of
// at least one title-like column.
func validateHeaders(headers []string) error {
	if len(headers) == 0 {
		return types.ErrMissingHeader
	}

	seen := make(map[string]string, len(headers))
	hasTitle := false
	for _, h := range headers {
		trimmed := strings.TrimSpace(h)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q and %q", types.ErrDuplicateHeader, prev, h)
		}
		seen[key] = h
		if titleLikePattern.MatchString(trimmed) {
			hasTitle = true
		}
	}
	if len(seen) == 0 {
		return types.ErrMissingHeader
	}
	if !hasTitle {
		return types.ErrNoTitleColumn
	}
	return nil
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
