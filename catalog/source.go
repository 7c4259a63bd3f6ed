package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source is a tabular data source. ReadRows returns at most limit rows,
// starting at row 1; each row holds at least Columns cells, with "" for an
// empty cell.
type Source interface {
	Name() string
	ReadRows(ctx context.Context, limit int) ([][]string, error)
}

// Open returns the source reader matching the file extension of path
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return &XLSXSource{Path: path}, nil
	case ".csv":
		return &CSVSource{Path: path}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteSource{Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported data source type: %s", path)
	}
}

// MemorySource serves rows held in memory
type MemorySource struct {
	Label string
	Rows  [][]string
}

func (m *MemorySource) Name() string {
	if m.Label == "" {
		return "memory"
	}
	return m.Label
}

func (m *MemorySource) ReadRows(ctx context.Context, limit int) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := min(len(m.Rows), limit)
	out := make([][]string, n)
	for i := range n {
		out[i] = padRow(m.Rows[i])
	}
	return out, nil
}

// checkFile maps a missing file to ErrDataSourceMissing
func checkFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrDataSourceMissing)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", path, ErrDataSourceMalformed)
	}
	return nil
}

func padRow(cells []string) []string {
	row := make([]string, max(len(cells), Columns))
	copy(row, cells)
	return row
}
