package loader

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quarrylabs/datascout/internal/dataset"
)

// loadCSV reads a delimited text file. The first record is the header;
// every record must have the same field count.
func loadCSV(path string, delim rune) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	skipBOM(br)

	r := csv.NewReader(br)
	r.Comma = delim
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(records) <= 1 {
		return nil, fmt.Errorf("%w: no data rows in %s", ErrEmptyFile, filepath.Base(path))
	}
	t, err := dataset.FromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return t, nil
}

func skipBOM(br *bufio.Reader) {
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
}
