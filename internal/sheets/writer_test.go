package sheets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/googleapi"

	"charsync/internal/layout"
)

// newTemplateWorkbook creates a minimal local copy of the spreadsheet
// template with a "Page 1" worksheet
func newTemplateWorkbook(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "template.xlsx")
	f := excelize.NewFile()
	_, err := f.NewSheet("Page 1")
	require.NoError(t, err)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestWorkbookWriter_Write(t *testing.T) {
	path := newTemplateWorkbook(t)
	writer := NewWorkbookWriter(path)

	writes := []CellWrite{
		{Ref: layout.CellRef{Worksheet: "Page 1", Cell: "D3"}, Value: "Aria Stormwind"},
		{Ref: layout.CellRef{Worksheet: "Page 1", Cell: "M40"}, Value: 14},
		{Ref: layout.CellRef{Worksheet: "Page 1", Cell: "D49"}, Value: true},
	}
	require.NoError(t, writer.Write(context.Background(), writes))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Page 1", "D3")
	require.NoError(t, err)
	assert.Equal(t, "Aria Stormwind", name)

	str, err := f.GetCellValue("Page 1", "M40")
	require.NoError(t, err)
	assert.Equal(t, "14", str)

	prof, err := f.GetCellValue("Page 1", "D49")
	require.NoError(t, err)
	assert.Equal(t, "TRUE", prof)
}

func TestWorkbookWriter_Idempotent(t *testing.T) {
	path := newTemplateWorkbook(t)
	writer := NewWorkbookWriter(path)

	writes := []CellWrite{
		{Ref: layout.CellRef{Worksheet: "Page 1", Cell: "D3"}, Value: "Aria Stormwind"},
	}
	require.NoError(t, writer.Write(context.Background(), writes))
	require.NoError(t, writer.Write(context.Background(), writes))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Page 1", "D3")
	require.NoError(t, err)
	assert.Equal(t, "Aria Stormwind", name)
}

func TestWorkbookWriter_MissingWorksheet(t *testing.T) {
	path := newTemplateWorkbook(t)
	writer := NewWorkbookWriter(path)

	err := writer.Write(context.Background(), []CellWrite{
		{Ref: layout.CellRef{Worksheet: "Page 9", Cell: "A1"}, Value: "x"},
	})

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Contains(t, err.Error(), "Page 9")
}

func TestWorkbookWriter_MissingWorkbook(t *testing.T) {
	writer := NewWorkbookWriter(filepath.Join(t.TempDir(), "absent.xlsx"))

	err := writer.Write(context.Background(), []CellWrite{
		{Ref: layout.CellRef{Worksheet: "Page 1", Cell: "A1"}, Value: "x"},
	})

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestWorkbookWriter_EmptyBatch(t *testing.T) {
	// An empty batch must not require the workbook to exist.
	writer := NewWorkbookWriter(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.NoError(t, writer.Write(context.Background(), nil))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantAuth bool
	}{
		{name: "unauthorized", err: &googleapi.Error{Code: 401}, wantAuth: true},
		{name: "forbidden", err: &googleapi.Error{Code: 403}, wantAuth: true},
		{name: "wrapped forbidden", err: fmt.Errorf("call failed: %w", &googleapi.Error{Code: 403}), wantAuth: true},
		{name: "rate limited", err: &googleapi.Error{Code: 429}},
		{name: "server error", err: &googleapi.Error{Code: 500}},
		{name: "plain error", err: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classify(tt.err)

			var authErr *AuthError
			var writeErr *WriteError
			if tt.wantAuth {
				assert.ErrorAs(t, classified, &authErr)
			} else {
				assert.ErrorAs(t, classified, &writeErr)
			}
		})
	}
}
