// Package dataset defines the Table: an in-memory, column-oriented dataset
// with typed columns and ordered rows, backed by a gota dataframe. Tables
// are treated as immutable; every transformation returns a new Table.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/quarrylabs/datascout/internal/stats"
)

// Kind classifies a column for reporting and statistics.
type Kind string

const (
	KindNumeric  Kind = "numeric"
	KindText     Kind = "text"
	KindBoolean  Kind = "boolean"
	KindDatetime Kind = "datetime"
)

// missingTokens are the cell values treated as absent, compared after
// trimming surrounding whitespace.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"N/A":  {},
	"n/a":  {},
}

// datetimeLayouts are tried in order when classifying text columns.
var datetimeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// Table holds uniquely named columns in a fixed order, each of a single
// kind, with ordered rows.
type Table struct {
	df    dataframe.DataFrame
	kinds []Kind
}

// FromRecords builds a Table from raw string records, header first.
// Missing-value tokens are normalized before type detection so every
// column type agrees on what is absent.
func FromRecords(records [][]string) (*Table, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("need a header and at least one data row, got %d records", len(records))
	}
	recs := make([][]string, len(records))
	recs[0] = records[0]
	for i, row := range records[1:] {
		r := make([]string, len(row))
		for j, cell := range row {
			if _, ok := missingTokens[strings.TrimSpace(cell)]; ok {
				r[j] = "NaN"
			} else {
				r[j] = cell
			}
		}
		recs[i+1] = r
	}
	df := dataframe.LoadRecords(recs,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, df.Err
	}
	return New(df), nil
}

// New wraps a dataframe, classifying each column's kind.
func New(df dataframe.DataFrame) *Table {
	return &Table{df: df, kinds: classify(df)}
}

func classify(df dataframe.DataFrame) []Kind {
	names := df.Names()
	kinds := make([]Kind, df.Ncol())
	for i, typ := range df.Types() {
		switch typ {
		case series.Int, series.Float:
			kinds[i] = KindNumeric
		case series.Bool:
			kinds[i] = KindBoolean
		default:
			kinds[i] = KindText
			if isDatetime(df.Col(names[i])) {
				kinds[i] = KindDatetime
			}
		}
	}
	return kinds
}

// isDatetime reports whether every present value parses against one of the
// known layouts. Columns with no present values stay text.
func isDatetime(s series.Series) bool {
	records := s.Records()
	seen := false
	for i, v := range records {
		if s.Elem(i).IsNA() {
			continue
		}
		if !parsesAsTime(v) {
			return false
		}
		seen = true
	}
	return seen
}

func parsesAsTime(v string) bool {
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

// Rows returns the number of data rows.
func (t *Table) Rows() int { return t.df.Nrow() }

// Cols returns the number of columns.
func (t *Table) Cols() int { return t.df.Ncol() }

// Names returns the column names in table order.
func (t *Table) Names() []string { return t.df.Names() }

// Kinds returns the column kinds in table order.
func (t *Table) Kinds() []Kind {
	return append([]Kind(nil), t.kinds...)
}

// Kind returns the classification of the named column, or "" when no such
// column exists.
func (t *Table) Kind(name string) Kind {
	for i, n := range t.df.Names() {
		if n == name {
			return t.kinds[i]
		}
	}
	return ""
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	return t.Kind(name) != ""
}

// NumericColumns returns the names of numeric columns in table order.
func (t *Table) NumericColumns() []string {
	var names []string
	for i, n := range t.df.Names() {
		if t.kinds[i] == KindNumeric {
			names = append(names, n)
		}
	}
	return names
}

// IntColumn reports whether the named column holds integers rather than
// floats. Fill values for such columns should stay integral.
func (t *Table) IntColumn(name string) bool {
	for i, n := range t.df.Names() {
		if n == name {
			return t.df.Types()[i] == series.Int
		}
	}
	return false
}

// IsMissingAt reports whether the cell at row r, column index c is absent.
func (t *Table) IsMissingAt(r, c int) bool {
	return t.df.Elem(r, c).IsNA()
}

// MissingCounts returns the number of missing cells per column, in column
// order.
func (t *Table) MissingCounts() []int {
	counts := make([]int, t.df.Ncol())
	for c := 0; c < t.df.Ncol(); c++ {
		for r := 0; r < t.df.Nrow(); r++ {
			if t.df.Elem(r, c).IsNA() {
				counts[c]++
			}
		}
	}
	return counts
}

// RowHasMissing reports whether any cell in row r is absent.
func (t *Table) RowHasMissing(r int) bool {
	for c := 0; c < t.df.Ncol(); c++ {
		if t.df.Elem(r, c).IsNA() {
			return true
		}
	}
	return false
}

// Float returns the named column as float64 values, NaN where a cell is
// missing or not numeric.
func (t *Table) Float(name string) []float64 {
	return t.df.Col(name).Float()
}

// Records returns the table as string records, header first. Missing cells
// render as "NaN"; float cells use the shortest exact representation.
func (t *Table) Records() [][]string {
	names := t.df.Names()
	cols := make([][]string, len(names))
	for c, name := range names {
		cols[c] = exactRecords(t.df.Col(name))
	}
	recs := make([][]string, t.Rows()+1)
	recs[0] = append([]string(nil), names...)
	for r := 0; r < t.Rows(); r++ {
		row := make([]string, len(names))
		for c := range cols {
			row[c] = cols[c][r]
		}
		recs[r+1] = row
	}
	return recs
}

// ColumnStrings returns one column rendered the same way Records renders
// it, or nil when no such column exists.
func (t *Table) ColumnStrings(name string) []string {
	for _, n := range t.df.Names() {
		if n == name {
			return exactRecords(t.df.Col(name))
		}
	}
	return nil
}

// exactRecords renders one column to strings. gota's own Records prints
// floats with %f, which rounds everything past the sixth decimal, so float
// columns are formatted from their values instead.
func exactRecords(s series.Series) []string {
	if s.Type() != series.Float {
		return s.Records()
	}
	out := make([]string, s.Len())
	for i, v := range s.Float() {
		if math.IsNaN(v) {
			out[i] = "NaN"
			continue
		}
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return out
}

// Subset returns a new Table containing the given row indices, in order.
// Column kinds carry over unchanged.
func (t *Table) Subset(rows []int) (*Table, error) {
	df := t.df.Subset(rows)
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df, kinds: append([]Kind(nil), t.kinds...)}, nil
}

// Clone returns a new Table value with the same columns and kinds. The
// backing data is immutable, so the copy is shallow.
func (t *Table) Clone() *Table {
	return &Table{df: t.df, kinds: append([]Kind(nil), t.kinds...)}
}

// FillMissing returns a new Table with each named column's missing cells
// replaced by that column's value. Present cells carry over as typed
// values, never through a string round trip, so they stay bit identical.
// Columns not named keep their missing cells.
func (t *Table) FillMissing(values map[string]string) (*Table, error) {
	cols := make([]series.Series, t.Cols())
	for i, name := range t.Names() {
		s := t.df.Col(name)
		fill, ok := values[name]
		if !ok {
			cols[i] = s
			continue
		}
		filled, err := fillSeries(s, fill)
		if err != nil {
			return nil, fmt.Errorf("fill column %q: %w", name, err)
		}
		cols[i] = filled
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df, kinds: append([]Kind(nil), t.kinds...)}, nil
}

// fillSeries rebuilds one column with fill in place of its missing cells,
// keeping the series type.
func fillSeries(s series.Series, fill string) (series.Series, error) {
	switch s.Type() {
	case series.Float:
		v, err := strconv.ParseFloat(fill, 64)
		if err != nil {
			return series.Series{}, err
		}
		vals := s.Float()
		for i := range vals {
			if math.IsNaN(vals[i]) {
				vals[i] = v
			}
		}
		return series.New(vals, series.Float, s.Name), nil
	case series.Int:
		n, err := strconv.Atoi(fill)
		if err != nil {
			return series.Series{}, err
		}
		vals := make([]int, s.Len())
		for i := range vals {
			if s.Elem(i).IsNA() {
				vals[i] = n
				continue
			}
			v, err := s.Elem(i).Int()
			if err != nil {
				return series.Series{}, err
			}
			vals[i] = v
		}
		return series.New(vals, series.Int, s.Name), nil
	default:
		// String and Bool elements render exactly, so their records are safe
		// to rebuild from.
		recs := s.Records()
		for i := range recs {
			if s.Elem(i).IsNA() {
				recs[i] = fill
			}
		}
		return series.New(recs, s.Type(), s.Name), nil
	}
}

// Head returns the first n rows, or the table itself when it has no more
// than n rows.
func (t *Table) Head(n int) *Table {
	if n >= t.Rows() {
		return t
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sub, err := t.Subset(idx)
	if err != nil {
		return t
	}
	return sub
}

// Equal reports whether two tables have identical shape, column names, and
// cell values.
func (t *Table) Equal(o *Table) bool {
	if t.Rows() != o.Rows() || t.Cols() != o.Cols() {
		return false
	}
	a, b := t.Records(), o.Records()
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// DuplicateRows counts rows identical to an earlier row across all columns.
// Missing cells compare equal to each other.
func (t *Table) DuplicateRows() int {
	seen := make(map[string]struct{}, t.Rows())
	dup := 0
	for _, row := range t.Records()[1:] {
		key := strings.Join(row, "\x1f")
		if _, ok := seen[key]; ok {
			dup++
			continue
		}
		seen[key] = struct{}{}
	}
	return dup
}

// OutlierRows returns the indices, ascending, of rows where any numeric
// column's absolute z-score exceeds threshold. Missing cells never flag.
func (t *Table) OutlierRows(threshold float64) []int {
	flagged := make(map[int]struct{})
	for _, name := range t.NumericColumns() {
		for r, z := range stats.ZScores(t.Float(name)) {
			if !math.IsNaN(z) && math.Abs(z) > threshold {
				flagged[r] = struct{}{}
			}
		}
	}
	rows := make([]int, 0, len(flagged))
	for r := range flagged {
		rows = append(rows, r)
	}
	sort.Ints(rows)
	return rows
}
