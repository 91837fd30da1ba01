package csvdb

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/invopop/jsonschema"
)

// Table stores all rows of type T in one CSV file.
//
// A Table is a handle, not a cache: it keeps no rows in memory between calls.
type Table[T any] struct {
	path    string
	schema  *jsonschema.Schema
	columns []column
}

// NewTable creates a Table for the file at path. The file itself is not
// touched until the first Load or Save.
func NewTable[T any](path string) (*Table[T], error) {
	schema, columns, err := schemaFromType[T]()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return &Table[T]{path: path, schema: schema, columns: columns}, nil
}

// Path returns the backing file path.
func (t *Table[T]) Path() string {
	return t.path
}

// Header returns the column names in file order.
func (t *Table[T]) Header() []string {
	h := make([]string, len(t.columns))
	for i := range t.columns {
		h[i] = t.columns[i].Name
	}
	return h
}

// Schema returns the JSON Schema the columns were derived from.
func (t *Table[T]) Schema() *jsonschema.Schema {
	return t.schema
}

// Load reads every row from the file.
//
// A missing file is created with the header only and an empty slice is
// returned. Any other failure is a *StorageError.
func (t *Table[T]) Load() ([]T, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := t.Save(nil); err != nil {
				return nil, err
			}
			return []T{}, nil
		}
		return nil, &StorageError{Op: "load", Path: t.path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, corrupt(t.path, 1, errMissingHeader)
		}
		return nil, corrupt(t.path, 1, err)
	}
	if !slices.Equal(header, t.Header()) {
		return nil, corrupt(t.path, 1, fmt.Errorf("%w: got %v, want %v", errHeaderMismatch, header, t.Header()))
	}
	// The reader enforces the header's field count from here on.
	rows := []T{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, corrupt(t.path, perr.Line, perr.Err)
			}
			return nil, corrupt(t.path, 0, err)
		}
		line, _ := r.FieldPos(0)
		row, err := t.decodeRow(record)
		if err != nil {
			return nil, corrupt(t.path, line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Save replaces the file content with the header followed by rows.
func (t *Table[T]) Save(rows []T) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header()); err != nil {
		return &StorageError{Op: "save", Path: t.path, Err: err}
	}
	for i, row := range rows {
		cells, err := t.encodeRow(row)
		if err != nil {
			return &StorageError{Op: "save", Path: t.path, Err: fmt.Errorf("row %d: %w", i, err)}
		}
		if err := w.Write(cells); err != nil {
			return &StorageError{Op: "save", Path: t.path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &StorageError{Op: "save", Path: t.path, Err: err}
	}
	if err := writeFileAtomic(t.path, buf.Bytes()); err != nil {
		return &StorageError{Op: "save", Path: t.path, Err: err}
	}
	return nil
}

func (t *Table[T]) decodeRow(record []string) (T, error) {
	var row T
	obj := make(map[string]any, len(t.columns))
	for i := range t.columns {
		v, err := decodeCell(&t.columns[i], record[i])
		if err != nil {
			return row, fmt.Errorf("column %q: %w", t.columns[i].Name, err)
		}
		if v != nil {
			obj[t.columns[i].Name] = v
		}
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return row, err
	}
	if err := json.Unmarshal(data, &row); err != nil {
		return row, fmt.Errorf("failed to unmarshal row: %w", err)
	}
	return row, nil
}

func (t *Table[T]) encodeRow(row T) ([]string, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal row: %w", err)
	}
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	var obj map[string]any
	if err := d.Decode(&obj); err != nil {
		return nil, fmt.Errorf("row is not an object: %w", err)
	}
	cells := make([]string, len(t.columns))
	for i := range t.columns {
		if cells[i], err = encodeCell(obj[t.columns[i].Name]); err != nil {
			return nil, fmt.Errorf("column %q: %w", t.columns[i].Name, err)
		}
	}
	return cells, nil
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(name)
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil { //nolint:gosec // G302: the table is not secret
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, path)
}
