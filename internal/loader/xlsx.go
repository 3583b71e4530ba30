package loader

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/quarrylabs/datascout/internal/dataset"
)

// loadXLSX reads the first sheet of a workbook. The first row is the
// header; short rows are padded to the header width and extra cells beyond
// it are dropped.
func loadXLSX(path string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook %s has no sheets", ErrEmptyFile, filepath.Base(path))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %w", ErrParse, sheets[0], err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("%w: no data rows in sheet %q of %s", ErrEmptyFile, sheets[0], filepath.Base(path))
	}

	header := rows[0]
	recs := make([][]string, 0, len(rows))
	recs = append(recs, header)
	for _, row := range rows[1:] {
		r := make([]string, len(header))
		copy(r, row)
		recs = append(recs, r)
	}
	t, err := dataset.FromRecords(recs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return t, nil
}
