// Package report renders cleaning and inspection results as sectioned text:
// bordered table previews, histogram bars, and box-plot lines. It holds no
// state beyond the destination and sizing knobs.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/quarrylabs/datascout/internal/cleaner"
	"github.com/quarrylabs/datascout/internal/dataset"
	"github.com/quarrylabs/datascout/internal/inspector"
)

// Writer renders reports to Out.
type Writer struct {
	Out io.Writer
	// PreviewRows caps how many data rows a table preview shows.
	PreviewRows int
	// MaxPlotWidth is the character budget for histogram bars and box lines.
	MaxPlotWidth int
}

// New returns a Writer with the default preview and plot sizes.
func New(out io.Writer) *Writer {
	return &Writer{Out: out, PreviewRows: 10, MaxPlotWidth: 60}
}

// WriteClean renders the cleaning pipeline result: the table before and
// after, with what each step observed in between.
func (w *Writer) WriteClean(rep *cleaner.Report, before, after *dataset.Table) {
	w.section("INITIAL TABLE")
	w.preview(before)
	w.blank()

	w.section("MISSING VALUES")
	if rep.TotalMissing() == 0 {
		w.ok("No missing values detected")
	} else {
		for i, name := range rep.Columns {
			fmt.Fprintf(w.Out, "- %s: %d\n", name, rep.MissingBefore[i])
		}
		fmt.Fprintf(w.Out, "Total missing cells: %d\n", rep.TotalMissing())
	}
	w.blank()

	w.section("MISSING-VALUE HANDLING")
	switch rep.Method {
	case cleaner.MethodDrop:
		w.ok(fmt.Sprintf("Dropped rows with missing values: %d", rep.RowsDropped))
	case cleaner.MethodFill:
		for _, f := range rep.Fills {
			fmt.Fprintf(w.Out, "- %s: %d cell(s) set to %s\n", f.Column, f.Cells, f.Value)
		}
		for _, name := range rep.Untouched {
			w.warn(name + ": no observed values to fill from")
		}
	default:
		w.ok("Nothing to handle")
	}
	w.blank()

	w.section("DUPLICATES")
	w.duplicates(rep.DuplicateRows)
	w.blank()

	w.section("OUTLIERS")
	if len(rep.OutlierRows) == 0 {
		w.ok("No rows beyond |z| > " + num(rep.Threshold))
	} else {
		w.warn(fmt.Sprintf("Rows beyond |z| > %s: %v (kept in place)", num(rep.Threshold), rep.OutlierRows))
	}
	w.blank()

	w.section("CLEANED TABLE")
	w.preview(after)
}

// WriteInspection renders the inspection sections in their fixed order.
// Correlation and skewness appear only when the report carries them.
func (w *Writer) WriteInspection(rep *inspector.Report) {
	names := make([]string, len(rep.Columns))
	for i, c := range rep.Columns {
		names[i] = c.Name
	}

	w.section("SHAPE")
	fmt.Fprintf(w.Out, "Rows: %d\nColumns: %d\n", rep.Rows, rep.Cols)
	for _, c := range rep.Columns {
		fmt.Fprintf(w.Out, "- %s: %s\n", c.Name, c.Kind)
	}
	w.blank()

	w.section("MISSING VALUES")
	total := 0
	for _, c := range rep.Columns {
		fmt.Fprintf(w.Out, "- %s: %d\n", c.Name, c.Missing)
		total += c.Missing
	}
	if total == 0 {
		w.ok("No missing values detected")
	} else {
		fmt.Fprintf(w.Out, "Total missing cells: %d\n", total)
	}
	w.blank()

	w.section("SUMMARY STATISTICS")
	if len(rep.Summary) == 0 {
		w.warn("No numeric columns")
	} else {
		tw := w.newTable()
		tw.AppendHeader(table.Row{"Column", "Count", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"})
		for _, s := range rep.Summary {
			tw.AppendRow(table.Row{
				s.Column, s.Count, num(s.Mean), num(s.Std),
				num(s.Min), num(s.Q25), num(s.Median), num(s.Q75), num(s.Max),
			})
		}
		tw.Render()
	}
	w.blank()

	w.section("DUPLICATES")
	w.duplicates(rep.Duplicates)
	w.blank()

	w.section("OUTLIERS")
	if len(rep.Outliers.Rows) == 0 {
		w.ok("No rows beyond |z| > " + num(rep.Outliers.Threshold))
	} else {
		w.warn(fmt.Sprintf("Rows beyond |z| > %s:", num(rep.Outliers.Threshold)))
		w.rowsTable(names, rep.Outliers.Rows, rep.Outliers.Records)
	}
	w.blank()

	w.section("BOX PLOTS")
	if len(rep.BoxPlots) == 0 {
		w.warn("No numeric columns")
	}
	for _, p := range rep.BoxPlots {
		w.boxPlot(p)
	}
	w.blank()

	w.section("RANGE CHECKS")
	if len(rep.RangeChecks) == 0 {
		w.ok("No applicable range rules")
	}
	for _, c := range rep.RangeChecks {
		bounds := fmt.Sprintf("[%s, %s]", num(c.Rule.Min), num(c.Rule.Max))
		if len(c.Rows) == 0 {
			w.ok(c.Rule.Column + " within " + bounds)
			continue
		}
		w.warn(fmt.Sprintf("%s outside %s: %d row(s)", c.Rule.Column, bounds, len(c.Rows)))
		w.rowsTable(names, c.Rows, c.Records)
	}
	w.blank()

	if rep.Correlation != nil {
		w.section("CORRELATION")
		w.correlation(rep.Correlation)
		w.blank()
	}

	if rep.Skewness != nil {
		w.section("SKEWNESS")
		for _, e := range rep.Skewness.Entries {
			line := fmt.Sprintf("- %s: %s", e.Column, num(e.Skew))
			if e.Flagged {
				line += " ⚠ skewed"
			}
			fmt.Fprintln(w.Out, line)
		}
		if len(rep.Skewness.Skipped) > 0 {
			w.warn("Skipped (not numeric): " + strings.Join(rep.Skewness.Skipped, ", "))
		}
		if len(rep.Skewness.Unknown) > 0 {
			w.warn("No such column: " + strings.Join(rep.Skewness.Unknown, ", "))
		}
		w.blank()
	}

	w.section("HISTOGRAMS")
	if len(rep.Histograms) == 0 {
		w.warn("No numeric columns")
	}
	for _, h := range rep.Histograms {
		w.histogram(h)
	}
	w.blank()

	w.section("TIME PATTERNS")
	if len(rep.TimeColumns) == 0 {
		w.ok("No datetime columns detected")
	} else {
		fmt.Fprintf(w.Out, "Datetime columns: %s\n", strings.Join(rep.TimeColumns, ", "))
		w.warn("Time-pattern analysis is not implemented yet")
	}
}

func (w *Writer) section(name string) { fmt.Fprintf(w.Out, "[%s]\n", name) }
func (w *Writer) blank()              { fmt.Fprintln(w.Out) }
func (w *Writer) ok(msg string)       { fmt.Fprintln(w.Out, "✓ "+msg) }
func (w *Writer) warn(msg string)     { fmt.Fprintln(w.Out, "⚠ "+msg) }

func (w *Writer) duplicates(n int) {
	if n == 0 {
		w.ok("No duplicate rows")
	} else {
		w.warn(fmt.Sprintf("Duplicate rows found: %d (kept in place)", n))
	}
}

func (w *Writer) newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w.Out)
	tw.SetStyle(table.StyleLight)
	return tw
}

// preview renders up to PreviewRows rows of t with a row-count trailer.
func (w *Writer) preview(t *dataset.Table) {
	head := t.Head(w.PreviewRows)
	recs := head.Records()
	tw := w.newTable()
	tw.AppendHeader(toRow(recs[0]))
	for _, rec := range recs[1:] {
		tw.AppendRow(toRow(rec))
	}
	tw.Render()
	if t.Rows() > head.Rows() {
		fmt.Fprintf(w.Out, "(showing %d of %d rows)\n", head.Rows(), t.Rows())
	} else {
		fmt.Fprintf(w.Out, "(%d rows)\n", t.Rows())
	}
}

// rowsTable renders selected records with their row indices in a leading #
// column, capped at PreviewRows like any other preview.
func (w *Writer) rowsTable(names []string, rows []int, records [][]string) {
	shown := len(records)
	if w.PreviewRows > 0 && shown > w.PreviewRows {
		shown = w.PreviewRows
	}
	tw := w.newTable()
	header := make(table.Row, 0, len(names)+1)
	header = append(header, "#")
	for _, n := range names {
		header = append(header, n)
	}
	tw.AppendHeader(header)
	for i, rec := range records[:shown] {
		row := make(table.Row, 0, len(rec)+1)
		row = append(row, rows[i])
		for _, cell := range rec {
			row = append(row, cell)
		}
		tw.AppendRow(row)
	}
	tw.Render()
	if shown < len(records) {
		fmt.Fprintf(w.Out, "(showing %d of %d rows)\n", shown, len(records))
	}
}

func (w *Writer) histogram(h inspector.Histogram) {
	fmt.Fprintln(w.Out, h.Column)
	maxCount := 0
	for _, b := range h.Bins {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	labels := make([]string, len(h.Bins))
	width := 0
	for i, b := range h.Bins {
		closing := ")"
		if i == len(h.Bins)-1 {
			closing = "]"
		}
		labels[i] = fmt.Sprintf("[%s, %s%s", num(b.Lo), num(b.Hi), closing)
		if len(labels[i]) > width {
			width = len(labels[i])
		}
	}
	for i, b := range h.Bins {
		bar := ""
		if b.Count > 0 && maxCount > 0 {
			n := b.Count * w.MaxPlotWidth / maxCount
			if n < 1 {
				n = 1
			}
			bar = strings.Repeat("█", n) + " "
		}
		fmt.Fprintf(w.Out, "  %-*s %s%d\n", width, labels[i], bar, b.Count)
	}
}

// boxPlot draws one |--[==|==]--| line scaled to MaxPlotWidth, outlying
// points marked with o, followed by the numbers behind it.
func (w *Writer) boxPlot(p inspector.BoxPlot) {
	b := p.Stats
	width := w.MaxPlotWidth
	if width < 10 {
		width = 10
	}
	canvas := make([]rune, width)
	for i := range canvas {
		canvas[i] = ' '
	}
	span := b.Max - b.Min
	pos := func(v float64) int {
		if span <= 0 {
			return 0
		}
		n := int(math.Round((v - b.Min) / span * float64(width-1)))
		if n < 0 {
			n = 0
		}
		if n > width-1 {
			n = width - 1
		}
		return n
	}
	lo, hi := pos(b.WhiskerLow), pos(b.WhiskerHigh)
	q1, q3 := pos(b.Q1), pos(b.Q3)
	for i := lo; i <= hi; i++ {
		canvas[i] = '-'
	}
	for i := q1; i <= q3; i++ {
		canvas[i] = '='
	}
	canvas[lo], canvas[hi] = '|', '|'
	canvas[q1], canvas[q3] = '[', ']'
	canvas[pos(b.Median)] = '|'
	for _, v := range b.Outliers {
		canvas[pos(v)] = 'o'
	}
	fmt.Fprintf(w.Out, "%s\n  %s\n", p.Column, strings.TrimRight(string(canvas), " "))
	fmt.Fprintf(w.Out, "  min=%s q1=%s med=%s q3=%s max=%s outliers=%d\n",
		num(b.Min), num(b.Q1), num(b.Median), num(b.Q3), num(b.Max), len(b.Outliers))
}

func (w *Writer) correlation(c *inspector.Correlation) {
	if len(c.Columns) < 2 {
		w.warn("Need at least two numeric columns")
	} else {
		tw := w.newTable()
		header := make(table.Row, 0, len(c.Columns)+1)
		header = append(header, "")
		for _, name := range c.Columns {
			header = append(header, name)
		}
		tw.AppendHeader(header)
		for i, name := range c.Columns {
			row := make(table.Row, 0, len(c.Columns)+1)
			row = append(row, name)
			for j := range c.Columns {
				row = append(row, fmt.Sprintf("%.3f", c.Matrix[i][j]))
			}
			tw.AppendRow(row)
		}
		tw.Render()
	}
	if len(c.Skipped) > 0 {
		w.warn("Skipped (not numeric): " + strings.Join(c.Skipped, ", "))
	}
	if len(c.Unknown) > 0 {
		w.warn("No such column: " + strings.Join(c.Unknown, ", "))
	}
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// num formats a statistic compactly; NaN prints as NaN.
func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.4g", v)
}
