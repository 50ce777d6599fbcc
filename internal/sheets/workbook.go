package sheets

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkbookWriter writes cell values into a local .xlsx copy of the template.
// The workbook must already exist with the template's worksheets; the writer
// only fills cells, it never creates or reformats sheets.
type WorkbookWriter struct {
	path string
}

// NewWorkbookWriter creates a writer targeting the workbook at path
func NewWorkbookWriter(path string) *WorkbookWriter {
	return &WorkbookWriter{path: path}
}

// Write places every value into its cell and saves the workbook
func (w *WorkbookWriter) Write(_ context.Context, writes []CellWrite) error {
	if len(writes) == 0 {
		return nil
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return &WriteError{Err: fmt.Errorf("cannot open workbook %s: %w", w.path, err)}
	}
	defer f.Close()

	for _, cw := range writes {
		index, err := f.GetSheetIndex(cw.Ref.Worksheet)
		if err != nil || index < 0 {
			return &WriteError{Err: fmt.Errorf("workbook has no worksheet %q", cw.Ref.Worksheet)}
		}
		if err := f.SetCellValue(cw.Ref.Worksheet, cw.Ref.Cell, cw.Value); err != nil {
			return &WriteError{Err: fmt.Errorf("cannot set %s: %w", cw.Ref.A1(), err)}
		}
	}

	if err := f.Save(); err != nil {
		return &WriteError{Err: fmt.Errorf("cannot save workbook %s: %w", w.path, err)}
	}

	return nil
}
