package catalog

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads the active worksheet of an Excel workbook
type XLSXSource struct {
	Path string
}

func (s *XLSXSource) Name() string {
	return s.Path
}

func (s *XLSXSource) ReadRows(ctx context.Context, limit int) ([][]string, error) {
	if err := checkFile(s.Path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %v: %w", err, ErrDataSourceMalformed)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no active sheet: %w", ErrDataSourceMalformed)
	}

	rows := make([][]string, 0, limit)
	for r := 1; r <= limit; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := make([]string, Columns)
		for c := 1; c <= Columns; c++ {
			name, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return nil, fmt.Errorf("bad cell coordinates (%d,%d): %v: %w", c, r, err, ErrDataSourceMalformed)
			}
			v, err := f.GetCellValue(sheet, name)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell %s: %v: %w", name, err, ErrDataSourceMalformed)
			}
			row[c-1] = v
		}
		rows = append(rows, row)
	}

	return rows, nil
}
