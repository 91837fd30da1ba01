// Package export writes tabular data to spreadsheet files.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the only sheet in produced workbooks.
const SheetName = "users"

// Ext is the file extension of produced workbooks.
const Ext = ".xlsx"

// ContentType is the MIME type of produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrInvalidName is returned for names that are empty, hidden or contain a
// path separator.
var ErrInvalidName = errors.New("invalid export name")

// Writer writes workbooks into one directory.
type Writer struct {
	dir string
}

// NewWriter returns a Writer storing files in dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: exports are served back over HTTP
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the directory exports are written to.
func (w *Writer) Dir() string {
	return w.dir
}

// Export writes header and rows to <dir>/<name>.xlsx, replacing any previous
// file, and returns the file base name. A nil cell is written empty.
func (w *Writer) Export(ctx context.Context, name string, header []string, rows [][]any) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.WarnContext(ctx, "Failed to close workbook", "err", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return "", err
	}
	h := make([]any, len(header))
	for i, v := range header {
		h[i] = v
	}
	if err := f.SetSheetRow(SheetName, "A1", &h); err != nil {
		return "", err
	}
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			if v == nil {
				v = ""
			}
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
			return "", fmt.Errorf("row %d: %w", i, err)
		}
	}
	file := name + Ext
	if err := f.SaveAs(filepath.Join(w.dir, file)); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", file, err)
	}
	slog.InfoContext(ctx, "Exported", "file", file, "rows", len(rows))
	return file, nil
}

// Open returns the export file with the given base name.
func (w *Writer) Open(file string) (*os.File, error) {
	if filepath.Ext(file) != Ext {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, file)
	}
	if err := checkName(strings.TrimSuffix(file, Ext)); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(w.dir, file))
}

// checkName rejects names that would escape the export directory.
func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
