package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CSVSource reads a comma separated file, one record per row
type CSVSource struct {
	Path string
}

func (s *CSVSource) Name() string {
	return s.Path
}

func (s *CSVSource) ReadRows(ctx context.Context, limit int) ([][]string, error) {
	if err := checkFile(s.Path); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows := make([][]string, 0, limit)
	for len(rows) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %v: %w", s.Path, err, ErrDataSourceMalformed)
		}
		rows = append(rows, padRow(record))
	}

	return rows, nil
}
