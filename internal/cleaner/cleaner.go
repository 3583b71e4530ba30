// Package cleaner applies the fixed cleaning pipeline to a Table: report
// missing values, remediate them by the configured method, then count
// duplicates and flag z-score outliers without removing either. Only the
// missing-value step ever changes the data.
package cleaner

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/quarrylabs/datascout/internal/dataset"
	"github.com/quarrylabs/datascout/internal/stats"
)

// Recognized missing-value methods.
const (
	MethodDrop = "drop-missing"
	MethodFill = "fill-missing"
)

// ErrInvalidMethod reports an unrecognized Options.Method value. Returned
// errors wrap it; match with errors.Is.
var ErrInvalidMethod = errors.New("invalid cleaning method")

// Options configures one Clean call.
type Options struct {
	// Method handles missing values: MethodDrop removes every row with at
	// least one missing cell, MethodFill imputes per column kind.
	Method string
	// Threshold is the |z| cutoff above which a value flags its row as a
	// potential outlier. Must be positive.
	Threshold float64
}

// DefaultOptions returns the conservative defaults: drop rows with missing
// values, flag at |z| > 3.
func DefaultOptions() Options {
	return Options{Method: MethodDrop, Threshold: 3.0}
}

// Fill records the imputation applied to one column.
type Fill struct {
	Column string
	Kind   dataset.Kind
	Value  string
	Cells  int
}

// Report describes what Clean observed and did, in pipeline order. It is
// transient: the caller renders it and lets it go.
type Report struct {
	RowsBefore    int
	Cols          int
	Columns       []string
	MissingBefore []int // aligned with Columns

	// Method is the missing-value method applied, or "none" when the
	// table had nothing missing.
	Method      string
	RowsDropped int
	Fills       []Fill
	// Untouched lists columns fill-missing could not impute because every
	// value was missing.
	Untouched []string

	DuplicateRows int
	Threshold     float64
	OutlierRows   []int

	RowsAfter int
}

// TotalMissing sums the per-column missing counts observed before any
// handling.
func (r *Report) TotalMissing() int {
	total := 0
	for _, n := range r.MissingBefore {
		total += n
	}
	return total
}

// Clean runs the pipeline on t and returns the cleaned table plus a report
// of every step. The input table is never modified; when nothing is
// missing the result is a new table with identical values. Duplicate and
// outlier detection are diagnostic only and never change the result.
func Clean(t *dataset.Table, opts Options) (*dataset.Table, *Report, error) {
	switch opts.Method {
	case MethodDrop, MethodFill:
	default:
		return nil, nil, fmt.Errorf("%w: %q (use %q or %q)", ErrInvalidMethod, opts.Method, MethodDrop, MethodFill)
	}
	if opts.Threshold <= 0 {
		return nil, nil, fmt.Errorf("outlier threshold must be positive, got %g", opts.Threshold)
	}

	rep := &Report{
		RowsBefore:    t.Rows(),
		Cols:          t.Cols(),
		Columns:       t.Names(),
		MissingBefore: t.MissingCounts(),
		Method:        "none",
		Threshold:     opts.Threshold,
	}

	out := t.Clone()
	if rep.TotalMissing() > 0 {
		rep.Method = opts.Method
		var err error
		switch opts.Method {
		case MethodDrop:
			out, err = dropMissing(t)
			if err == nil {
				rep.RowsDropped = t.Rows() - out.Rows()
			}
		case MethodFill:
			out, rep.Fills, rep.Untouched, err = fillMissing(t)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	// Diagnostics run on the post-handling table so counts describe what
	// the caller actually receives.
	rep.DuplicateRows = out.DuplicateRows()
	rep.OutlierRows = out.OutlierRows(opts.Threshold)
	rep.RowsAfter = out.Rows()
	return out, rep, nil
}

// dropMissing keeps only the rows with no missing cells. Dropping every row
// yields a valid zero-row table.
func dropMissing(t *dataset.Table) (*dataset.Table, error) {
	keep := make([]int, 0, t.Rows())
	for r := 0; r < t.Rows(); r++ {
		if !t.RowHasMissing(r) {
			keep = append(keep, r)
		}
	}
	return t.Subset(keep)
}

// fillMissing imputes per column kind: median for numeric columns, most
// frequent value for text, boolean, and datetime columns. Columns with no
// present values are left untouched and reported. Only missing cells
// change; present cells carry over exactly as loaded.
func fillMissing(t *dataset.Table) (*dataset.Table, []Fill, []string, error) {
	counts := t.MissingCounts()

	values := make(map[string]string, len(counts))
	var fills []Fill
	var untouched []string
	for c, name := range t.Names() {
		if counts[c] == 0 {
			continue
		}
		if counts[c] == t.Rows() {
			untouched = append(untouched, name)
			continue
		}
		val := fillValue(t, name, c)
		values[name] = val
		fills = append(fills, Fill{Column: name, Kind: t.Kind(name), Value: val, Cells: counts[c]})
	}
	if len(values) == 0 {
		return t.Clone(), fills, untouched, nil
	}
	out, err := t.FillMissing(values)
	if err != nil {
		return nil, nil, nil, err
	}
	return out, fills, untouched, nil
}

func fillValue(t *dataset.Table, name string, c int) string {
	if t.Kind(name) == dataset.KindNumeric {
		med := stats.Median(stats.Finite(t.Float(name)))
		if t.IntColumn(name) {
			return strconv.FormatInt(int64(math.Round(med)), 10)
		}
		return strconv.FormatFloat(med, 'g', -1, 64)
	}
	present := make([]string, 0, t.Rows())
	for r, v := range t.ColumnStrings(name) {
		if !t.IsMissingAt(r, c) {
			present = append(present, v)
		}
	}
	mode, _ := stats.Mode(present)
	return mode
}
