package cmd

import (
	"bytes"
	"errors"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quarrylabs/datascout/internal/cleaner"
	"github.com/quarrylabs/datascout/internal/loader"
)

// resetCmdState clears sticky flag and config state that persists across
// rootCmd.Execute calls within one test binary.
func resetCmdState() {
	cfg = nil
	cfgFile = ""
	clnMethod, clnThreshold, clnDelimiter, clnPreview = "", 0, "", 0
	insCorr, insSkew = nil, nil
	insDelimiter, insPreview, insBins = "", 0, 0

	if fl := rootCmd.PersistentFlags().Lookup("config"); fl != nil {
		_ = fl.Value.Set("")
		fl.Changed = false
	}
	for _, name := range []string{"method", "threshold", "delimiter", "preview"} {
		if fl := cleanCmd.Flags().Lookup(name); fl != nil {
			fl.Changed = false
		}
	}
	for _, name := range []string{"corr", "skew", "delimiter", "preview", "bins"} {
		if fl := inspectCmd.Flags().Lookup(name); fl != nil {
			fl.Changed = false
		}
	}
}

// runCmd is a helper to execute the root command with args and capture its
// output.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	resetCmdState()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, buf.String())
	}
	return buf.String()
}

// runCmdErr executes the root command expecting failure.
func runCmdErr(t *testing.T, args ...string) error {
	t.Helper()
	resetCmdState()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		t.Fatalf("command %v succeeded, expected error\n%s", args, buf.String())
	}
	return err
}

func writeData(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func mustContain(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestCLI_ValidateReportsUsablePath(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := writeData(t, home, "people.csv", "name,age\nana,34\n")
	out := runCmd(t, "validate", path)
	mustContain(t, out, "✓ Valid path: "+path)

	err := runCmdErr(t, "validate", filepath.Join(home, "missing.csv"))
	if !errors.Is(err, loader.ErrInvalidPath) {
		t.Fatalf("error = %v, want ErrInvalidPath", err)
	}
}

func TestCLI_SniffReportsFormatAndTier(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	csvPath := writeData(t, home, "people.csv", "name,age\nana,34\n")
	out := runCmd(t, "sniff", csvPath)
	mustContain(t, out, "Format: csv (via mime)", "✓ Supported")

	// Go's builtin mime table has no .txt entry; register it so the tier
	// does not depend on the host's /etc/mime.types.
	if err := mime.AddExtensionType(".txt", "text/plain"); err != nil {
		t.Fatalf("register .txt: %v", err)
	}
	txtPath := writeData(t, home, "notes.txt", "hello")
	out = runCmd(t, "sniff", txtPath)
	mustContain(t, out, "Format: plain (via mime)", "⚠ Unsupported (supported: csv, xlsx, json)")

	blankPath := writeData(t, home, "notes", "hello")
	out = runCmd(t, "sniff", blankPath)
	mustContain(t, out, "⚠ Unknown format")
}

func TestCLI_CleanDropsMissingRows(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := writeData(t, home, "people.csv", "name,age\nana,34\nbob,NA\n")
	out := runCmd(t, "clean", path)
	mustContain(t, out,
		"[INITIAL TABLE]",
		"(2 rows)",
		"[MISSING VALUES]",
		"- age: 1",
		"[MISSING-VALUE HANDLING]",
		"✓ Dropped rows with missing values: 1",
		"[CLEANED TABLE]",
		"(1 rows)",
	)
}

func TestCLI_CleanFillFlagOverridesConfig(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := writeData(t, home, "people.csv", "name,age\nana,34\nbob,NA\n")
	out := runCmd(t, "clean", path, "--method", "fill-missing")
	mustContain(t, out, "- age: 1 cell(s) set to 34")
}

func TestCLI_CleanRejectsUnknownMethod(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := writeData(t, home, "people.csv", "name,age\nana,34\n")
	err := runCmdErr(t, "clean", path, "--method", "scrub")
	if !errors.Is(err, cleaner.ErrInvalidMethod) {
		t.Fatalf("error = %v, want ErrInvalidMethod", err)
	}
}

func TestCLI_CleanThresholdFlag(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := writeData(t, home, "vals.csv", "v\n1\n1\n1\n1\n10\n")
	out := runCmd(t, "clean", path, "--threshold", "1.5")
	mustContain(t, out, "⚠ Rows beyond |z| > 1.5: [4] (kept in place)")

	out = runCmd(t, "clean", path)
	mustContain(t, out, "✓ No rows beyond |z| > 3")
}

func TestCLI_CleanEmptyFileFails(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := writeData(t, home, "empty.csv", "name,age\n")
	err := runCmdErr(t, "clean", path)
	if !errors.Is(err, loader.ErrEmptyFile) {
		t.Fatalf("error = %v, want ErrEmptyFile", err)
	}
}

func TestCLI_InspectRunsAllSteps(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := writeData(t, home, "people.csv", "Name,Height,Weight\nana,170,65\nbob,99,210\n")
	out := runCmd(t, "inspect", path)
	mustContain(t, out,
		"[SHAPE]",
		"Rows: 2",
		"Columns: 3",
		"[MISSING VALUES]",
		"[SUMMARY STATISTICS]",
		"Height",
		"[DUPLICATES]",
		"[OUTLIERS]",
		"✓ No rows beyond |z| > 3",
		"[BOX PLOTS]",
		"[RANGE CHECKS]",
		"⚠ Height outside [100, 250]: 1 row(s)",
		"⚠ Weight outside [20, 200]: 1 row(s)",
		"[HISTOGRAMS]",
		"█",
		"[TIME PATTERNS]",
		"✓ No datetime columns detected",
	)
	for _, absent := range []string{"[CORRELATION]", "[SKEWNESS]"} {
		if strings.Contains(out, absent) {
			t.Errorf("output has %s without the matching flag\n%s", absent, out)
		}
	}
}

func TestCLI_InspectCorrSkewFlags(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := writeData(t, home, "pairs.csv", "x,y\n1,2\n2,4\n3,6\n4,8\n")
	out := runCmd(t, "inspect", path, "--corr", "x,y", "--skew", "x")
	mustContain(t, out, "[CORRELATION]", "1.000", "[SKEWNESS]", "- x: 0\n")
}

func TestCLI_InspectDelimiter(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	path := writeData(t, home, "semi.csv", "a;b\n1;2\n")
	out := runCmd(t, "inspect", path, "--delimiter", ";")
	mustContain(t, out, "Rows: 1", "Columns: 2")

	err := runCmdErr(t, "inspect", path, "--delimiter", "x")
	if err == nil || !strings.Contains(err.Error(), "delimiter") {
		t.Fatalf("error = %v, want delimiter error", err)
	}
}

func TestCLI_ConfigShowAndSet(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	out := runCmd(t, "config", "show")
	mustContain(t, out,
		"clean_method: drop-missing",
		"z_threshold: 3",
		"histogram_bins: 10",
		"preview_rows: 10",
		"max_plot_width: 60",
	)

	cfgPath := filepath.Join(home, "config.yaml")
	out = runCmd(t, "--config", cfgPath, "config", "set", "z_threshold", "1.5")
	mustContain(t, out, "✓ Saved config")
	if _, err := os.Stat(cfgPath); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	out = runCmd(t, "--config", cfgPath, "config", "show")
	mustContain(t, out, "z_threshold: 1.5")

	// The saved threshold should drive cleaning when no flag is given.
	path := writeData(t, home, "vals.csv", "v\n1\n1\n1\n1\n10\n")
	out = runCmd(t, "--config", cfgPath, "clean", path)
	mustContain(t, out, "⚠ Rows beyond |z| > 1.5: [4] (kept in place)")

	err := runCmdErr(t, "config", "set", "clean_method", "scrub")
	if err == nil || !strings.Contains(err.Error(), "invalid clean_method") {
		t.Fatalf("error = %v, want invalid clean_method", err)
	}
	err = runCmdErr(t, "config", "set", "nope", "1")
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Fatalf("error = %v, want unknown key", err)
	}
}

func TestCLI_Version(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	out := runCmd(t, "version")
	mustContain(t, out, "datascout "+version)
}
