// Package inspector computes the read-only inspection report: shape and
// column kinds, missing counts, descriptive statistics, duplicates,
// fixed-threshold outliers with box stats, domain range checks, optional
// correlation and skewness, and histogram series. It prints nothing; the
// report is rendered elsewhere.
package inspector

import (
	"math"

	"github.com/quarrylabs/datascout/internal/dataset"
	"github.com/quarrylabs/datascout/internal/stats"
)

// Fixed decision thresholds. The outlier cutoff here is independent of any
// cleaning-stage threshold.
const (
	OutlierZ  = 3.0
	SkewLimit = 0.5
)

// RangeRule bounds a named numeric column to a plausible domain interval.
type RangeRule struct {
	Column   string
	Min, Max float64
}

// rangeRules are the hardcoded sanity checks. Each applies only when its
// column exists and is numeric.
var rangeRules = []RangeRule{
	{Column: "Height", Min: 100, Max: 250},
	{Column: "Weight", Min: 20, Max: 200},
}

// Options selects the optional report sections and sizes the histograms.
type Options struct {
	// CorrColumns requests a correlation matrix over these columns; empty
	// skips the section entirely.
	CorrColumns []string
	// SkewColumns requests skewness values for these columns; empty skips
	// the section entirely.
	SkewColumns []string
	// HistogramBins is the bucket count per histogram; non-positive values
	// fall back to the default.
	HistogramBins int
}

// DefaultOptions returns the standard inspection: no optional sections,
// ten histogram buckets.
func DefaultOptions() Options {
	return Options{HistogramBins: 10}
}

// ColumnInfo describes one column's kind and missing count.
type ColumnInfo struct {
	Name    string
	Kind    dataset.Kind
	Missing int
}

// NumericSummary holds describe-style statistics for one numeric column,
// computed over its present values.
type NumericSummary struct {
	Column                                string
	Count                                 int
	Mean, Std, Min, Q25, Median, Q75, Max float64
}

// Outliers lists the rows where any numeric cell sits beyond the fixed
// |z| cutoff, with the offending rows themselves.
type Outliers struct {
	Threshold float64
	Rows      []int
	Records   [][]string
}

// BoxPlot pairs a numeric column with its box statistics.
type BoxPlot struct {
	Column string
	Stats  stats.BoxStats
}

// RangeCheck reports the rows violating one range rule.
type RangeCheck struct {
	Rule    RangeRule
	Rows    []int
	Records [][]string
}

// Correlation is the matrix over the numeric subset of the requested
// columns. Skipped names requests for columns that exist but are not
// numeric; Unknown names requests for columns the table does not have.
type Correlation struct {
	Columns []string
	Matrix  [][]float64
	Skipped []string
	Unknown []string
}

// SkewEntry is one column's skewness; Flagged marks |skew| > SkewLimit.
type SkewEntry struct {
	Column  string
	Skew    float64
	Flagged bool
}

// Skewness holds the requested skew checks plus the non-numeric (Skipped)
// and nonexistent (Unknown) request names.
type Skewness struct {
	Entries []SkewEntry
	Skipped []string
	Unknown []string
}

// Histogram is the binned value distribution of one numeric column.
type Histogram struct {
	Column string
	Bins   []stats.Bin
}

// Report bundles everything one Inspect call computed. Correlation and
// Skewness are nil unless the matching columns were requested; every other
// section is always present. The report is transient: rendered once,
// never stored.
type Report struct {
	Rows, Cols  int
	Columns     []ColumnInfo
	Summary     []NumericSummary
	Duplicates  int
	Outliers    Outliers
	BoxPlots    []BoxPlot
	RangeChecks []RangeCheck
	Correlation *Correlation
	Skewness    *Skewness
	Histograms  []Histogram
	// TimeColumns feeds the time-patterns placeholder: datetime columns
	// are named but not yet analyzed.
	TimeColumns []string
}

// Inspect runs every section in fixed order over t. Pure computation, no
// output.
func Inspect(t *dataset.Table, opt Options) *Report {
	bins := opt.HistogramBins
	if bins <= 0 {
		bins = DefaultOptions().HistogramBins
	}
	recs := t.Records()
	kinds := t.Kinds()
	missing := t.MissingCounts()
	numeric := t.NumericColumns()

	rep := &Report{Rows: t.Rows(), Cols: t.Cols()}
	for i, name := range t.Names() {
		rep.Columns = append(rep.Columns, ColumnInfo{Name: name, Kind: kinds[i], Missing: missing[i]})
		if kinds[i] == dataset.KindDatetime {
			rep.TimeColumns = append(rep.TimeColumns, name)
		}
	}

	for _, name := range numeric {
		vals := stats.Finite(t.Float(name))
		rep.Summary = append(rep.Summary, NumericSummary{
			Column: name,
			Count:  len(vals),
			Mean:   stats.Mean(vals),
			Std:    stats.StdDev(vals),
			Min:    stats.Quantile(vals, 0),
			Q25:    stats.Quantile(vals, 0.25),
			Median: stats.Quantile(vals, 0.5),
			Q75:    stats.Quantile(vals, 0.75),
			Max:    stats.Quantile(vals, 1),
		})
	}

	rep.Duplicates = t.DuplicateRows()

	rep.Outliers = Outliers{Threshold: OutlierZ, Rows: t.OutlierRows(OutlierZ)}
	for _, r := range rep.Outliers.Rows {
		rep.Outliers.Records = append(rep.Outliers.Records, recs[r+1])
	}
	for _, name := range numeric {
		if b, ok := stats.Box(t.Float(name)); ok {
			rep.BoxPlots = append(rep.BoxPlots, BoxPlot{Column: name, Stats: b})
		}
	}

	rep.RangeChecks = rangeChecks(t, recs)

	if len(opt.CorrColumns) > 0 {
		rep.Correlation = correlation(t, opt.CorrColumns)
	}
	if len(opt.SkewColumns) > 0 {
		rep.Skewness = skewness(t, opt.SkewColumns)
	}

	for _, name := range numeric {
		rep.Histograms = append(rep.Histograms, Histogram{Column: name, Bins: stats.HistogramBins(t.Float(name), bins)})
	}
	return rep
}

func rangeChecks(t *dataset.Table, recs [][]string) []RangeCheck {
	var checks []RangeCheck
	for _, rule := range rangeRules {
		if t.Kind(rule.Column) != dataset.KindNumeric {
			continue
		}
		check := RangeCheck{Rule: rule}
		for r, v := range t.Float(rule.Column) {
			if math.IsNaN(v) || (v >= rule.Min && v <= rule.Max) {
				continue
			}
			check.Rows = append(check.Rows, r)
			check.Records = append(check.Records, recs[r+1])
		}
		checks = append(checks, check)
	}
	return checks
}

// correlation computes Pearson r over pairwise-complete observations for
// the numeric subset of the requested columns, in request order.
func correlation(t *dataset.Table, requested []string) *Correlation {
	c := &Correlation{}
	for _, name := range requested {
		switch {
		case !t.HasColumn(name):
			c.Unknown = append(c.Unknown, name)
		case t.Kind(name) == dataset.KindNumeric:
			c.Columns = append(c.Columns, name)
		default:
			c.Skipped = append(c.Skipped, name)
		}
	}
	cols := make([][]float64, len(c.Columns))
	for i, name := range c.Columns {
		cols[i] = t.Float(name)
	}
	c.Matrix = make([][]float64, len(c.Columns))
	for i := range c.Matrix {
		c.Matrix[i] = make([]float64, len(c.Columns))
		for j := range c.Matrix[i] {
			if i == j {
				c.Matrix[i][j] = 1
				continue
			}
			x, y := pairwiseComplete(cols[i], cols[j])
			c.Matrix[i][j] = stats.Correlation(x, y)
		}
	}
	return c
}

// pairwiseComplete keeps only the positions where both samples are present.
func pairwiseComplete(a, b []float64) (x, y []float64) {
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}

func skewness(t *dataset.Table, requested []string) *Skewness {
	s := &Skewness{}
	for _, name := range requested {
		if !t.HasColumn(name) {
			s.Unknown = append(s.Unknown, name)
			continue
		}
		if t.Kind(name) != dataset.KindNumeric {
			s.Skipped = append(s.Skipped, name)
			continue
		}
		sk := stats.Skewness(stats.Finite(t.Float(name)))
		s.Entries = append(s.Entries, SkewEntry{
			Column:  name,
			Skew:    sk,
			Flagged: !math.IsNaN(sk) && math.Abs(sk) > SkewLimit,
		})
	}
	return s
}
