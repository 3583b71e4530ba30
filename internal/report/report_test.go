package report_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/quarrylabs/datascout/internal/cleaner"
	"github.com/quarrylabs/datascout/internal/dataset"
	"github.com/quarrylabs/datascout/internal/inspector"
	"github.com/quarrylabs/datascout/internal/report"
)

func mustTable(t *testing.T, records [][]string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.FromRecords(records)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	return tbl
}

func mustContain(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestWriteCleanDrop(t *testing.T) {
	tbl := mustTable(t, [][]string{
		{"name", "age"},
		{"ana", "34"},
		{"bob", "NA"},
	})
	out, rep, err := cleaner.Clean(tbl, cleaner.DefaultOptions())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	var buf bytes.Buffer
	report.New(&buf).WriteClean(rep, tbl, out)
	mustContain(t, buf.String(),
		"[INITIAL TABLE]",
		"(2 rows)",
		"[MISSING VALUES]",
		"- age: 1",
		"Total missing cells: 1",
		"[MISSING-VALUE HANDLING]",
		"✓ Dropped rows with missing values: 1",
		"[DUPLICATES]",
		"✓ No duplicate rows",
		"[OUTLIERS]",
		"✓ No rows beyond |z| > 3",
		"[CLEANED TABLE]",
		"(1 rows)",
	)
}

func TestWriteCleanFill(t *testing.T) {
	tbl := mustTable(t, [][]string{
		{"city", "b"},
		{"oslo", "NA"},
		{"oslo", "NA"},
		{"NA", "NA"},
	})
	out, rep, err := cleaner.Clean(tbl, cleaner.Options{Method: cleaner.MethodFill, Threshold: 3})
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	var buf bytes.Buffer
	report.New(&buf).WriteClean(rep, tbl, out)
	mustContain(t, buf.String(),
		"- city: 1 cell(s) set to oslo",
		"⚠ b: no observed values to fill from",
	)
}

func TestWriteCleanNothingToHandle(t *testing.T) {
	tbl := mustTable(t, [][]string{
		{"a"},
		{"1"},
		{"2"},
	})
	out, rep, err := cleaner.Clean(tbl, cleaner.DefaultOptions())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	var buf bytes.Buffer
	report.New(&buf).WriteClean(rep, tbl, out)
	mustContain(t, buf.String(),
		"✓ No missing values detected",
		"✓ Nothing to handle",
	)
}

func TestWriteCleanFlagsOutliers(t *testing.T) {
	recs := [][]string{{"v"}}
	for i := 0; i < 10; i++ {
		recs = append(recs, []string{"1"})
	}
	recs = append(recs, []string{"100"})
	tbl := mustTable(t, recs)
	out, rep, err := cleaner.Clean(tbl, cleaner.DefaultOptions())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	var buf bytes.Buffer
	report.New(&buf).WriteClean(rep, tbl, out)
	mustContain(t, buf.String(), "⚠ Rows beyond |z| > 3: [10] (kept in place)")
}

func TestWriteCleanPreviewTruncates(t *testing.T) {
	recs := [][]string{{"n"}}
	for i := 0; i < 15; i++ {
		recs = append(recs, []string{fmt.Sprint(i)})
	}
	tbl := mustTable(t, recs)
	out, rep, err := cleaner.Clean(tbl, cleaner.DefaultOptions())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	var buf bytes.Buffer
	report.New(&buf).WriteClean(rep, tbl, out)
	mustContain(t, buf.String(), "(showing 10 of 15 rows)")
}

func inspectionSample(t *testing.T) *dataset.Table {
	t.Helper()
	return mustTable(t, [][]string{
		{"Name", "Height", "Weight", "Score", "Joined"},
		{"ana", "170", "65", "1", "2021-01-04"},
		{"bob", "99", "70", "2", "2021-02-15"},
		{"cia", "260", "210", "3", "2021-03-09"},
		{"dee", "180", "NA", "4", "2021-04-20"},
	})
}

func TestWriteInspectionSections(t *testing.T) {
	rep := inspector.Inspect(inspectionSample(t), inspector.DefaultOptions())
	var buf bytes.Buffer
	report.New(&buf).WriteInspection(rep)
	out := buf.String()
	mustContain(t, out,
		"[SHAPE]",
		"Rows: 4",
		"Columns: 5",
		"- Joined: datetime",
		"[MISSING VALUES]",
		"- Weight: 1",
		"Total missing cells: 1",
		"[SUMMARY STATISTICS]",
		"MEAN",
		"25%",
		"[DUPLICATES]",
		"✓ No duplicate rows",
		"[OUTLIERS]",
		"✓ No rows beyond |z| > 3",
		"[BOX PLOTS]",
		"min=",
		"[RANGE CHECKS]",
		"⚠ Height outside [100, 250]: 2 row(s)",
		"260",
		"⚠ Weight outside [20, 200]: 1 row(s)",
		"[HISTOGRAMS]",
		"█",
		"[TIME PATTERNS]",
		"Datetime columns: Joined",
		"⚠ Time-pattern analysis is not implemented yet",
	)
	if strings.Contains(out, "[CORRELATION]") {
		t.Error("correlation section should be absent unless requested")
	}
	if strings.Contains(out, "[SKEWNESS]") {
		t.Error("skewness section should be absent unless requested")
	}
}

func TestWriteInspectionOptionalSections(t *testing.T) {
	rep := inspector.Inspect(inspectionSample(t), inspector.Options{
		CorrColumns: []string{"Height", "Weight", "Name"},
		SkewColumns: []string{"Height"},
	})
	var buf bytes.Buffer
	report.New(&buf).WriteInspection(rep)
	mustContain(t, buf.String(),
		"[CORRELATION]",
		"1.000",
		"⚠ Skipped (not numeric): Name",
		"[SKEWNESS]",
		"- Height: ",
	)
}

func TestWriteInspectionUnknownColumns(t *testing.T) {
	rep := inspector.Inspect(inspectionSample(t), inspector.Options{
		CorrColumns: []string{"Height", "Weight", "Nope"},
		SkewColumns: []string{"Score", "Gone"},
	})
	var buf bytes.Buffer
	report.New(&buf).WriteInspection(rep)
	mustContain(t, buf.String(),
		"⚠ No such column: Nope",
		"⚠ No such column: Gone",
	)
}

func TestWriteInspectionFlagsSkew(t *testing.T) {
	tbl := mustTable(t, [][]string{
		{"a"}, {"1"}, {"1"}, {"1"}, {"10"},
	})
	rep := inspector.Inspect(tbl, inspector.Options{SkewColumns: []string{"a"}})
	var buf bytes.Buffer
	report.New(&buf).WriteInspection(rep)
	mustContain(t, buf.String(), "- a: 2 ⚠ skewed")
}

func TestWriteInspectionTextOnlyTable(t *testing.T) {
	tbl := mustTable(t, [][]string{
		{"a"}, {"x"}, {"y"},
	})
	rep := inspector.Inspect(tbl, inspector.DefaultOptions())
	var buf bytes.Buffer
	report.New(&buf).WriteInspection(rep)
	mustContain(t, buf.String(),
		"⚠ No numeric columns",
		"✓ No applicable range rules",
		"✓ No datetime columns detected",
	)
}
