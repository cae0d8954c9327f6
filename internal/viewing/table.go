package viewing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// Column names shared by the enrichment and dashboard steps.
const (
	ColumnTitle     = "title"
	ColumnStartTime = "start_time"
	ColumnDuration  = "duration"
	ColumnGenre     = "genre"
	ColumnYear      = "year"
	ColumnMediaType = "media_type"
)

// ErrMissingTitleColumn is returned when a table has no title column.
var ErrMissingTitleColumn = errors.New("csv has no title column")

// Table is a header plus string rows, in file order.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns the index of the named column or -1.
func (t *Table) Column(name string) int {
	if t == nil {
		return -1
	}
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Value returns the cell for row and column name; missing cells read as null.
func (t *Table) Value(row int, name string) string {
	idx := t.Column(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// RequireTitle reports ErrMissingTitleColumn when the title column is absent.
func (t *Table) RequireTitle() error {
	if t.Column(ColumnTitle) < 0 {
		return ErrMissingTitleColumn
	}
	return nil
}

// ReadTable parses a CSV stream with a header row.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv is empty")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := &Table{Header: header}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ReadTableFile opens and parses the CSV file at path.
func ReadTableFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	table, err := ReadTable(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// WriteTable encodes the table as CSV with a header row.
func WriteTable(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// WriteTableFile replaces path atomically with the encoded table.
func WriteTableFile(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file %s: %w", path, err)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	if err := WriteTable(pending, t); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
